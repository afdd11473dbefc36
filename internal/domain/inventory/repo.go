package inventory

import (
	"context"
	"log/slog"
	"time"

	"github.com/Spok95/estoque/internal/domain/employees"
	"github.com/Spok95/estoque/internal/domain/items"
	"github.com/Spok95/estoque/internal/domain/purchases"
	"github.com/Spok95/estoque/internal/sheet"
)

// Notifier hears about the purchase list after every rebuild.
type Notifier interface {
	PurchaseListChanged(ctx context.Context, entries []purchases.Entry)
}

type Repo struct {
	store     sheet.Store
	log       *slog.Logger
	items     *items.Repo
	employees *employees.Repo
	purchases *purchases.Repo
	notifier  Notifier
	now       func() time.Time
}

func NewRepo(store sheet.Store, log *slog.Logger,
	itemsRepo *items.Repo, employeesRepo *employees.Repo,
	purchasesRepo *purchases.Repo, notifier Notifier, now func() time.Time) *Repo {

	if now == nil {
		now = time.Now
	}
	return &Repo{
		store: store, log: log, items: itemsRepo, employees: employeesRepo,
		purchases: purchasesRepo, notifier: notifier, now: now,
	}
}

func (r *Repo) ListInbound(ctx context.Context) ([]map[string]any, error) {
	rows, err := r.store.ListRows(ctx, sheet.TableInbound)
	if err != nil {
		return nil, err
	}
	return sheet.Project(rows), nil
}

func (r *Repo) ListOutbound(ctx context.Context) ([]map[string]any, error) {
	rows, err := r.store.ListRows(ctx, sheet.TableOutbound)
	if err != nil {
		return nil, err
	}
	return sheet.Project(rows), nil
}

// Receive records an inbound movement and raises the item balance.
func (r *Repo) Receive(ctx context.Context, in Inbound) (Result, error) {
	if !validQuantity(in.Quantity) {
		return Result{}, ErrInvalidQuantity
	}
	rows, err := r.store.ListRows(ctx, sheet.TableInbound)
	if err != nil {
		return Result{}, err
	}
	in.ID = sheet.NextID(InboundPrefix, len(rows))
	in.Date = r.now().Format(time.RFC3339)

	if err := r.store.AppendRow(ctx, sheet.TableInbound, sheet.Row{
		in.ID, in.Date, in.ItemID, in.ItemName, in.Quantity,
		in.Supplier, in.InvoiceRef, in.RecordedBy,
	}); err != nil {
		return Result{}, err
	}
	return r.apply(ctx, in.ID, in.ItemID, in.Quantity, MoveIn)
}

// WriteOff records an outbound movement and lowers the item balance
// without checks (the balance may go negative).
func (r *Repo) WriteOff(ctx context.Context, out Outbound) (Result, error) {
	if !validQuantity(out.Quantity) {
		return Result{}, ErrInvalidQuantity
	}
	name, dept, err := r.employees.Resolve(ctx, out.RequesterBadge, out.RequesterName, out.RequesterDept)
	if err != nil {
		return Result{}, err
	}
	out.RequesterName, out.RequesterDept = name, dept

	rows, err := r.store.ListRows(ctx, sheet.TableOutbound)
	if err != nil {
		return Result{}, err
	}
	out.ID = sheet.NextID(OutboundPrefix, len(rows))
	out.Date = r.now().Format(time.RFC3339)

	if err := r.store.AppendRow(ctx, sheet.TableOutbound, sheet.Row{
		out.ID, out.Date, out.ItemID, out.ItemName, out.Quantity,
		string(out.RequesterBadge), out.RequesterName, out.RequesterDept,
		out.RequestID, out.RecordedBy,
	}); err != nil {
		return Result{}, err
	}
	return r.apply(ctx, out.ID, out.ItemID, -out.Quantity, MoveOut)
}

// delta > 0 => receipt; delta < 0 => write-off
func (r *Repo) apply(ctx context.Context, id, itemID string, delta float64, mtype MoveType) (Result, error) {
	matched, err := r.items.AdjustBalance(ctx, itemID, delta)
	if err != nil {
		return Result{}, err
	}
	if !matched {
		r.log.Warn("movement for unknown item, balance untouched",
			"id", id, "item_id", itemID, "type", string(mtype))
	}

	entries, err := r.purchases.Recompute(ctx)
	if err != nil {
		return Result{}, err
	}
	if r.notifier != nil {
		r.notifier.PurchaseListChanged(ctx, entries)
	}
	return Result{ID: id, Type: mtype, Matched: matched}, nil
}
