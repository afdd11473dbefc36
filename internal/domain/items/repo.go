package items

import (
	"context"

	"github.com/Spok95/estoque/internal/sheet"
)

type Repo struct{ store sheet.Store }

func NewRepo(store sheet.Store) *Repo { return &Repo{store: store} }

// List projects every item row by normalized header.
func (r *Repo) List(ctx context.Context) ([]map[string]any, error) {
	rows, err := r.store.ListRows(ctx, sheet.TableItems)
	if err != nil {
		return nil, err
	}
	return sheet.Project(rows), nil
}

// All returns typed items in table order, blank rows skipped.
func (r *Repo) All(ctx context.Context) ([]Item, error) {
	rows, err := r.store.ListRows(ctx, sheet.TableItems)
	if err != nil {
		return nil, err
	}
	out := []Item{}
	if len(rows) == 0 {
		return out, nil
	}
	h := sheet.NewHeader(rows[0])
	for _, row := range rows[1:] {
		if sheet.IsBlank(row) {
			continue
		}
		out = append(out, fromRow(h, row))
	}
	return out, nil
}

func fromRow(h sheet.Header, row sheet.Row) Item {
	return Item{
		ID:          sheet.Text(h.Cell(row, ColID)),
		Name:        sheet.Text(h.Cell(row, ColName)),
		Description: sheet.Text(h.Cell(row, ColDescription)),
		Unit:        sheet.Text(h.Cell(row, ColUnit)),
		Balance:     sheet.Number(h.Cell(row, ColBalance)),
		MinStock:    sheet.Number(h.Cell(row, ColMinStock)),
		MaxStock:    sheet.Number(h.Cell(row, ColMaxStock)),
		UnitPrice:   sheet.Number(h.Cell(row, ColUnitPrice)),
		Location:    sheet.Text(h.Cell(row, ColLocation)),
	}
}

// Add appends a new item with a generated id. The starting balance is always 0.
func (r *Repo) Add(ctx context.Context, it Item) (string, error) {
	if err := it.validate(); err != nil {
		return "", err
	}
	rows, err := r.store.ListRows(ctx, sheet.TableItems)
	if err != nil {
		return "", err
	}
	id := sheet.NextID(IDPrefix, len(rows))
	row := sheet.Row{
		id,
		it.Name,
		it.Description,
		it.Unit,
		0.0,
		it.MinStock,
		it.MaxStock,
		it.UnitPrice,
		it.Location,
	}
	if err := r.store.AppendRow(ctx, sheet.TableItems, row); err != nil {
		return "", err
	}
	return id, nil
}

// Get returns the first item with the given id, nil when absent.
func (r *Repo) Get(ctx context.Context, id string) (*Item, error) {
	all, err := r.All(ctx)
	if err != nil {
		return nil, err
	}
	for _, it := range all {
		if it.ID == id {
			return &it, nil
		}
	}
	return nil, nil
}

// AdjustBalance adds delta to the balance of the first item with this id.
// It reports false, without error, when no item matches. The read and the
// write are separate store calls: concurrent adjustments race (last write wins).
// Balances may go negative.
func (r *Repo) AdjustBalance(ctx context.Context, id string, delta float64) (bool, error) {
	if id == "" {
		return false, nil
	}
	rows, err := r.store.ListRows(ctx, sheet.TableItems)
	if err != nil {
		return false, err
	}
	if len(rows) == 0 {
		return false, nil
	}
	h := sheet.NewHeader(rows[0])
	for i := 1; i < len(rows); i++ {
		if sheet.Text(h.Cell(rows[i], ColID)) != id {
			continue
		}
		balance := sheet.Number(h.Cell(rows[i], ColBalance)) + delta
		if err := r.store.UpdateCell(ctx, sheet.TableItems, i, ColBalance, balance); err != nil {
			return false, err
		}
		return true, nil
	}
	return false, nil
}
