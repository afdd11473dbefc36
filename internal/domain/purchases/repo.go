package purchases

import (
	"context"

	"github.com/Spok95/estoque/internal/domain/items"
	"github.com/Spok95/estoque/internal/sheet"
)

type Repo struct {
	store sheet.Store
	items *items.Repo
}

func NewRepo(store sheet.Store, itemsRepo *items.Repo) *Repo {
	return &Repo{store: store, items: itemsRepo}
}

// List projects the current purchase list by normalized header.
func (r *Repo) List(ctx context.Context) ([]map[string]any, error) {
	rows, err := r.store.ListRows(ctx, sheet.TablePurchases)
	if err != nil {
		return nil, err
	}
	return sheet.Project(rows), nil
}

// Recompute clears the purchase list and rebuilds it from the items table.
// It is a full rebuild: running it twice in a row yields the same table.
func (r *Repo) Recompute(ctx context.Context) ([]Entry, error) {
	rows, err := r.store.ListRows(ctx, sheet.TablePurchases)
	if err != nil {
		return nil, err
	}
	all, err := r.items.All(ctx)
	if err != nil {
		return nil, err
	}
	if len(rows) > 1 {
		if err := r.store.DeleteRows(ctx, sheet.TablePurchases, 1, len(rows)-1); err != nil {
			return nil, err
		}
	}

	entries := []Entry{}
	for _, it := range all {
		priority, ok := Classify(it.Balance, it.MinStock)
		if !ok {
			continue
		}
		e := Entry{
			ItemID:        it.ID,
			ItemName:      it.Name,
			Balance:       it.Balance,
			MinStock:      it.MinStock,
			QuantityToBuy: it.MaxStock - it.Balance,
			Priority:      priority,
			Status:        StatusPending,
		}
		row := sheet.Row{e.ItemID, e.ItemName, e.Balance, e.MinStock, e.QuantityToBuy, string(e.Priority), e.Status}
		if err := r.store.AppendRow(ctx, sheet.TablePurchases, row); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}
