package requests

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/Spok95/estoque/internal/domain/employees"
	"github.com/Spok95/estoque/internal/sheet"
)

const (
	colID             = "ID da Solicitação"
	colBadge          = "Matrícula do Solicitante"
	colRequesterName  = "Nome do Solicitante"
	colRequesterDept  = "Setor Solicitante"
	colItemID         = "ID do Item"
	colItemName       = "Nome do Item"
	colQuantity       = "Quantidade Solicitada"
	colStatus         = "Status"
	colResolvedBy     = "Atendido Por"
	colResolutionDate = "Data de Atendimento"
)

// Notifier hears about newly created requests.
type Notifier interface {
	RequestCreated(ctx context.Context, req Request)
}

type Service struct {
	store     sheet.Store
	log       *slog.Logger
	employees *employees.Repo
	notifier  Notifier
	now       func() time.Time
}

func NewService(store sheet.Store, log *slog.Logger, employeesRepo *employees.Repo,
	notifier Notifier, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{store: store, log: log, employees: employeesRepo, notifier: notifier, now: now}
}

func (s *Service) List(ctx context.Context) ([]map[string]any, error) {
	rows, err := s.store.ListRows(ctx, sheet.TableRequests)
	if err != nil {
		return nil, err
	}
	return sheet.Project(rows), nil
}

// Create stores a new pending request, filling requester data from the employees table.
func (s *Service) Create(ctx context.Context, req Request) (string, error) {
	if !(req.Quantity > 0) || math.IsInf(req.Quantity, 1) {
		return "", ErrInvalidQuantity
	}
	name, dept, err := s.employees.Resolve(ctx, req.RequesterBadge, req.RequesterName, req.RequesterDept)
	if err != nil {
		return "", err
	}
	rows, err := s.store.ListRows(ctx, sheet.TableRequests)
	if err != nil {
		return "", err
	}

	req.ID = sheet.NextID(IDPrefix, len(rows))
	req.Date = s.now().Format(time.RFC3339)
	req.RequesterName, req.RequesterDept = name, dept
	req.Status = StatusPending
	req.ResolvedBy, req.ResolvedDate = "", ""

	if err := s.store.AppendRow(ctx, sheet.TableRequests, sheet.Row{
		req.ID, req.Date, string(req.RequesterBadge), req.RequesterName, req.RequesterDept,
		req.ItemID, req.ItemName, req.Quantity, string(req.Status), req.Notes, "", "",
	}); err != nil {
		return "", err
	}
	if s.notifier != nil {
		s.notifier.RequestCreated(ctx, req)
	}
	return req.ID, nil
}

// UpdateStatus resolves the first request with this id. A missing id is not an
// error: matched comes back false and nothing is written.
func (s *Service) UpdateStatus(ctx context.Context, id string, status Status, resolvedBy string) (bool, error) {
	rows, err := s.store.ListRows(ctx, sheet.TableRequests)
	if err != nil {
		return false, err
	}
	if len(rows) == 0 || id == "" {
		return false, nil
	}
	h := sheet.NewHeader(rows[0])
	for i := 1; i < len(rows); i++ {
		if sheet.Text(h.Cell(rows[i], colID)) != id {
			continue
		}
		st, err := ParseStatus(string(status))
		if err != nil {
			return true, fmt.Errorf("%w: %q", err, status)
		}
		current := sheet.Text(h.Cell(rows[i], colStatus))
		if current != "" && !strings.EqualFold(current, string(StatusPending)) {
			return true, fmt.Errorf("%w: %s is %s", ErrAlreadyResolved, id, current)
		}
		for _, set := range []struct {
			col string
			val any
		}{
			{colStatus, string(st)},
			{colResolvedBy, resolvedBy},
			{colResolutionDate, s.now().Format(time.RFC3339)},
		} {
			if err := s.store.UpdateCell(ctx, sheet.TableRequests, i, set.col, set.val); err != nil {
				return true, err
			}
		}
		s.log.Info("request resolved", "id", id, "status", string(st), "by", resolvedBy)
		return true, nil
	}
	return false, nil
}

// ListApproved returns approved requests, compared case-insensitively.
func (s *Service) ListApproved(ctx context.Context) ([]Approved, error) {
	rows, err := s.store.ListRows(ctx, sheet.TableRequests)
	if err != nil {
		return nil, err
	}
	out := []Approved{}
	if len(rows) == 0 {
		return out, nil
	}
	h := sheet.NewHeader(rows[0])
	for _, row := range rows[1:] {
		if sheet.IsBlank(row) {
			continue
		}
		if !strings.EqualFold(sheet.Text(h.Cell(row, colStatus)), string(StatusApproved)) {
			continue
		}
		out = append(out, Approved{
			ID:             sheet.Text(h.Cell(row, colID)),
			ItemID:         sheet.Text(h.Cell(row, colItemID)),
			ItemName:       sheet.Text(h.Cell(row, colItemName)),
			Quantity:       sheet.Number(h.Cell(row, colQuantity)),
			RequesterBadge: employees.ParseBadge(h.Cell(row, colBadge)),
			RequesterName:  sheet.Text(h.Cell(row, colRequesterName)),
			RequesterDept:  sheet.Text(h.Cell(row, colRequesterDept)),
		})
	}
	return out, nil
}
