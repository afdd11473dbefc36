package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Spok95/estoque/internal/domain/dashboard"
	"github.com/Spok95/estoque/internal/domain/employees"
	"github.com/Spok95/estoque/internal/domain/inventory"
	"github.com/Spok95/estoque/internal/domain/items"
	"github.com/Spok95/estoque/internal/domain/purchases"
	"github.com/Spok95/estoque/internal/domain/requests"
	"github.com/Spok95/estoque/internal/domain/users"
	"github.com/Spok95/estoque/internal/infra/metrics"
)

var ErrUnknownAction = errors.New("unknown action")

// Envelope is the response body: {"success": true, ...} or
// {"success": false, "error": "..."}.
type Envelope map[string]any

func ok(fields Envelope) Envelope {
	if fields == nil {
		fields = Envelope{}
	}
	fields["success"] = true
	return fields
}

func fail(err error) Envelope {
	return Envelope{"success": false, "error": err.Error()}
}

// HandlerFunc serves one action.
type HandlerFunc func(ctx context.Context, p Payload) (Envelope, error)

// Deps are the domain services the actions run on.
type Deps struct {
	Users     *users.Repo
	Employees *employees.Repo
	Items     *items.Repo
	Inventory *inventory.Repo
	Requests  *requests.Service
	Purchases *purchases.Repo
	Dashboard *dashboard.Service
}

type Dispatcher struct {
	log      *slog.Logger
	metrics  *metrics.Actions
	deps     Deps
	handlers map[string]HandlerFunc
}

func NewDispatcher(log *slog.Logger, m *metrics.Actions, deps Deps) *Dispatcher {
	d := &Dispatcher{log: log, metrics: m, deps: deps}
	d.handlers = d.routes()
	return d
}

// Dispatch runs the named action. It never fails: unknown actions, handler
// errors and panics all come back as a success:false envelope.
func (d *Dispatcher) Dispatch(ctx context.Context, action string, p Payload) (env Envelope) {
	h, found := d.handlers[action]
	if !found {
		err := fmt.Errorf("%w: %s", ErrUnknownAction, action)
		d.log.Warn("unknown action", "action", action)
		d.metrics.Observe("other", "unknown", 0)
		return fail(err)
	}
	if p == nil {
		p = Payload{}
	}

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			d.log.Error("action panicked", "action", action, "panic", r)
			env = fail(fmt.Errorf("internal error: %v", r))
		}
		outcome := "ok"
		if s, _ := env["success"].(bool); !s {
			outcome = "error"
		}
		d.metrics.Observe(action, outcome, time.Since(start))
	}()

	res, err := h(ctx, p)
	if err != nil {
		if isClientError(err) {
			d.log.Info("action rejected", "action", action, "err", err)
		} else {
			d.log.Error("action failed", "action", action, "err", err)
		}
		return fail(err)
	}
	d.log.Debug("action done", "action", action, "took", time.Since(start))
	return ok(res)
}
