package dashboard

import (
	"context"
	"time"

	"github.com/Spok95/estoque/internal/domain/items"
	"github.com/Spok95/estoque/internal/sheet"
)

type Summary struct {
	TotalItems   int     `json:"totalItens"`
	StockValue   float64 `json:"valorTotal"`
	BelowMinimum int     `json:"itensMinimo"`
	MonthlyCost  float64 `json:"custoMensal"`
}

type Service struct {
	store sheet.Store
	items *items.Repo
	now   func() time.Time
}

func NewService(store sheet.Store, itemsRepo *items.Repo, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{store: store, items: itemsRepo, now: now}
}

// Summary aggregates the items table and this month's receipts.
// Monthly cost prices each receipt at the item's current unit price.
func (s *Service) Summary(ctx context.Context) (Summary, error) {
	all, err := s.items.All(ctx)
	if err != nil {
		return Summary{}, err
	}
	var sum Summary
	prices := make(map[string]float64, len(all))
	for _, it := range all {
		sum.TotalItems++
		sum.StockValue += it.Balance * it.UnitPrice
		if it.BelowMinimum() {
			sum.BelowMinimum++
		}
		if _, seen := prices[it.ID]; !seen {
			prices[it.ID] = it.UnitPrice
		}
	}

	rows, err := s.store.ListRows(ctx, sheet.TableInbound)
	if err != nil {
		return Summary{}, err
	}
	if len(rows) == 0 {
		return sum, nil
	}
	now := s.now()
	h := sheet.NewHeader(rows[0])
	for _, row := range rows[1:] {
		if sheet.IsBlank(row) {
			continue
		}
		at, err := time.Parse(time.RFC3339, sheet.Text(h.Cell(row, "Data")))
		if err != nil {
			continue
		}
		at = at.In(now.Location())
		if at.Year() != now.Year() || at.Month() != now.Month() {
			continue
		}
		qty := sheet.Number(h.Cell(row, "Quantidade"))
		sum.MonthlyCost += qty * prices[sheet.Text(h.Cell(row, "ID do Item"))]
	}
	return sum, nil
}
