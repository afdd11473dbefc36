package client

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Spok95/estoque/internal/api"
	"github.com/Spok95/estoque/internal/domain/dashboard"
	"github.com/Spok95/estoque/internal/domain/employees"
	"github.com/Spok95/estoque/internal/domain/inventory"
	"github.com/Spok95/estoque/internal/domain/items"
	"github.com/Spok95/estoque/internal/domain/purchases"
	"github.com/Spok95/estoque/internal/domain/requests"
	"github.com/Spok95/estoque/internal/domain/users"
	"github.com/Spok95/estoque/internal/infra/metrics"
	"github.com/Spok95/estoque/internal/sheet"
)

func backend(t *testing.T) *httptest.Server {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := sheet.NewMemory()
	if err := sheet.Bootstrap(context.Background(), store, true, log); err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	itemsRepo := items.NewRepo(store)
	employeesRepo := employees.NewRepo(store)
	purchasesRepo := purchases.NewRepo(store, itemsRepo)
	d := api.NewDispatcher(log, metrics.NewActions(prometheus.NewRegistry()), api.Deps{
		Users:     users.NewRepo(store),
		Employees: employeesRepo,
		Items:     itemsRepo,
		Inventory: inventory.NewRepo(store, log, itemsRepo, employeesRepo, purchasesRepo, nil, nil),
		Requests:  requests.NewService(store, log, employeesRepo, nil, nil),
		Purchases: purchasesRepo,
		Dashboard: dashboard.NewService(store, itemsRepo, nil),
	})
	srv := httptest.NewServer(api.NewHandler(d, log))
	t.Cleanup(srv.Close)
	return srv
}

func TestGatewayAgainstBackend(t *testing.T) {
	ctx := context.Background()
	g := NewGateway(backend(t).URL, time.Second)

	sess, err := g.Login(ctx, "admin", "admin123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if !sess.IsStock() || sess.Username() != "admin" {
		t.Fatalf("session = %+v", sess.User)
	}

	_, err = g.Login(ctx, "admin", "wrong")
	if !errors.Is(err, ErrRemote) {
		t.Fatalf("bad login err = %v", err)
	}

	mv, err := g.AddInbound(ctx, inventory.Inbound{ItemID: "ITM404", Quantity: 1})
	if err != nil {
		t.Fatalf("AddInbound: %v", err)
	}
	if mv.ID != "ENT001" || mv.Matched {
		t.Fatalf("movement = %+v", mv)
	}

	id, err := g.AddRequest(ctx, requests.Request{RequesterBadge: "3", ItemID: "ITM404", Quantity: 2})
	if err != nil || id != "SOL001" {
		t.Fatalf("AddRequest = %q, %v", id, err)
	}
	matched, err := g.UpdateRequestStatus(ctx, id, requests.StatusRejected, sess.Username())
	if err != nil || !matched {
		t.Fatalf("UpdateRequestStatus = %v, %v", matched, err)
	}
	reqs, err := g.Requests(ctx)
	if err != nil || len(reqs) != 1 || reqs[0]["nomedosolicitante"] != "Pedro Souza Lima" {
		t.Fatalf("Requests = %v, %v", reqs, err)
	}

	sum, err := g.Dashboard(ctx)
	if err != nil || sum.TotalItems != 0 {
		t.Fatalf("Dashboard = %+v, %v", sum, err)
	}
}

func TestGatewayErrorKinds(t *testing.T) {
	ctx := context.Background()
	cases := []struct {
		name    string
		handler http.HandlerFunc
		target  error
		message string
	}{
		{"http status with server error", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":"backend URL is not configured"}`))
		}, ErrTransport, "backend URL is not configured"},
		{"http status without body", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}, ErrTransport, "HTTP 503"},
		{"not json", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("<html>oops</html>"))
		}, ErrMalformedResponse, "response is not JSON"},
		{"success false", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"success":false,"error":"employee not found: 9"}`))
		}, ErrRemote, "employee not found: 9"},
		{"success missing", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{}`))
		}, ErrRemote, "request failed"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(tc.handler)
			defer srv.Close()
			_, err := NewGateway(srv.URL, time.Second).Request(ctx, "getFuncionario", nil)
			if !errors.Is(err, tc.target) {
				t.Fatalf("err = %v, want %v", err, tc.target)
			}
			var ge *Error
			if !errors.As(err, &ge) || ge.Message != tc.message || ge.Action != "getFuncionario" {
				t.Fatalf("error = %#v", ge)
			}
		})
	}
}

func TestGatewayConnectionError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewGateway(url, time.Second).Request(context.Background(), "getEstoque", nil)
	var ge *Error
	if !errors.As(err, &ge) || ge.Kind != TransportFailure || ge.Status != 0 {
		t.Fatalf("err = %#v", err)
	}
	if errors.Is(err, ErrRemote) {
		t.Fatal("connection error must not match ErrRemote")
	}
}

func TestGatewayTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-release:
		}
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()
	defer close(release)

	start := time.Now()
	_, err := NewGateway(srv.URL, 50*time.Millisecond).Request(context.Background(), "getEstoque", nil)
	if !errors.Is(err, ErrTransport) {
		t.Fatalf("err = %v, want ErrTransport", err)
	}
	if took := time.Since(start); took > time.Second {
		t.Fatalf("timeout not applied, took %v", took)
	}
}

func TestMemoryCacheTTL(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewMemoryCache(time.Minute, func() time.Time { return now })
	_ = c.Set(ctx, Employee{Badge: "002", Name: "Maria"})

	if e, ok, _ := c.Get(ctx, "2"); !ok || e.Name != "Maria" {
		t.Fatalf("lookup by numeric badge = %+v %v", e, ok)
	}
	now = now.Add(time.Minute)
	if _, ok, _ := c.Get(ctx, "002"); ok {
		t.Fatal("entry should have expired")
	}
	if c.Len() != 0 {
		t.Fatalf("expired entry kept, len = %d", c.Len())
	}

	forever := NewMemoryCache(0, func() time.Time { return now })
	_ = forever.Set(ctx, Employee{Badge: "A1"})
	now = now.Add(24 * 365 * time.Hour)
	if _, ok, _ := forever.Get(ctx, "A1"); !ok {
		t.Fatal("zero TTL entries must not expire")
	}
}

func TestEmployeeDirectory(t *testing.T) {
	ctx := context.Background()
	srv := backend(t)
	var calls atomic.Int32
	counted := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		resp, err := http.Post(srv.URL, "application/json", r.Body)
		if err != nil {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		defer func() { _ = resp.Body.Close() }()
		w.WriteHeader(resp.StatusCode)
		_, _ = io.Copy(w, resp.Body)
	}))
	defer counted.Close()

	cache := NewMemoryCache(0, nil)
	dir := NewEmployeeDirectory(NewGateway(counted.URL, time.Second), cache, slog.New(slog.NewTextHandler(io.Discard, nil)))

	e, err := dir.Lookup(ctx, "004")
	if err != nil || e.Name != "Ana Paula Ferreira" || e.Department != "Financeiro" {
		t.Fatalf("Lookup = %+v, %v", e, err)
	}
	if _, err := dir.Lookup(ctx, "4"); err != nil {
		t.Fatalf("second Lookup: %v", err)
	}
	if n := calls.Load(); n != 1 {
		t.Fatalf("backend calls = %d, want 1", n)
	}

	n, err := dir.Preload(ctx)
	if err != nil || n != 5 {
		t.Fatalf("Preload = %d, %v", n, err)
	}
	if e, ok, _ := cache.Get(ctx, "005"); !ok || e.Name != "Carlos Eduardo Alves" {
		t.Fatalf("preloaded = %+v %v", e, ok)
	}

	if _, err := dir.Lookup(ctx, "999"); !errors.Is(err, ErrRemote) {
		t.Fatalf("unknown badge err = %v", err)
	}
}

type brokenCache struct{}

func (brokenCache) Get(context.Context, employees.Badge) (Employee, bool, error) {
	return Employee{}, false, errors.New("cache down")
}

func (brokenCache) Set(context.Context, Employee) error { return errors.New("cache down") }

func TestEmployeeDirectoryCacheFailure(t *testing.T) {
	srv := backend(t)
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))
	dir := NewEmployeeDirectory(NewGateway(srv.URL, time.Second), brokenCache{}, log)

	e, err := dir.Lookup(context.Background(), "003")
	if err != nil || e.Name != "Pedro Souza Lima" {
		t.Fatalf("Lookup = %+v, %v", e, err)
	}
	out := buf.String()
	if !strings.Contains(out, "employee cache read failed") || !strings.Contains(out, "employee cache write failed") {
		t.Fatalf("cache errors not logged: %s", out)
	}
}

func TestSessionZeroValue(t *testing.T) {
	var s *Session
	if s.LoggedIn() || s.IsStock() || s.Username() != "" {
		t.Fatal("nil session must be logged out")
	}
	s = &Session{User: &users.User{Username: "rh", Role: users.RoleDepartment}}
	if s.IsStock() {
		t.Fatal("department user reported as stock")
	}
}
