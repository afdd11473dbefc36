package employees

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/Spok95/estoque/internal/sheet"
)

func newRepo(t *testing.T) (*Repo, sheet.Store) {
	t.Helper()
	s := sheet.NewMemory()
	if err := sheet.Bootstrap(context.Background(), s, true, slog.New(slog.NewTextHandler(io.Discard, nil))); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	return NewRepo(s), s
}

func TestBadgeEqual(t *testing.T) {
	cases := []struct {
		a, b Badge
		want bool
	}{
		{"001", "001", true},
		{"002", "2", true},
		{"2", "002", true},
		{"A12", "A12", true},
		{"A12", "a12", false},
		{"002", "02x", false},
		{"", "0", false},
		{"10", "1", false},
	}
	for _, c := range cases {
		if got := c.a.Equal(c.b); got != c.want {
			t.Errorf("%q.Equal(%q) = %v, want %v", c.a, c.b, got, c.want)
		}
	}
}

func TestParseBadge(t *testing.T) {
	if got := ParseBadge(float64(2)); got != "2" {
		t.Fatalf("ParseBadge(2.0) = %q", got)
	}
	if got := ParseBadge("  007 "); got != "007" {
		t.Fatalf("ParseBadge(' 007 ') = %q", got)
	}
	if got := ParseBadge(nil); got != "" {
		t.Fatalf("ParseBadge(nil) = %q", got)
	}
}

func TestFindMatchesNumericBadge(t *testing.T) {
	r, s := newRepo(t)
	ctx := context.Background()
	if err := s.AppendRow(ctx, sheet.TableEmployees, sheet.Row{float64(42), "Numérico", "Compras"}); err != nil {
		t.Fatal(err)
	}

	e, err := r.Find(ctx, "042")
	if err != nil {
		t.Fatalf("Find(042): %v", err)
	}
	if e.Name != "Numérico" || e.Department != "Compras" {
		t.Fatalf("unexpected employee %+v", e)
	}

	e, err = r.Find(ctx, "2")
	if err != nil {
		t.Fatalf("Find(2): %v", err)
	}
	if e.Badge != "002" || e.Name != "Maria Oliveira Costa" {
		t.Fatalf("unexpected employee %+v", e)
	}

	if _, err := r.Find(ctx, "999"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Find(999) err = %v", err)
	}
}

func TestAdd(t *testing.T) {
	r, _ := newRepo(t)
	ctx := context.Background()

	if err := r.Add(ctx, Employee{Badge: "100", Name: "Novo", Department: "TI"}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := r.Add(ctx, Employee{Badge: "100", Name: "Outro"}); !errors.Is(err, ErrDuplicateBadge) {
		t.Fatalf("duplicate err = %v", err)
	}
	if err := r.Add(ctx, Employee{Badge: "1", Name: "Colide com 001"}); !errors.Is(err, ErrDuplicateBadge) {
		t.Fatalf("numeric duplicate err = %v", err)
	}
	if err := r.Add(ctx, Employee{Name: "Sem matrícula"}); !errors.Is(err, ErrBadgeRequired) {
		t.Fatalf("blank badge err = %v", err)
	}

	list, err := r.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 6 {
		t.Fatalf("employees = %d, want 6", len(list))
	}
	if list[5]["matricula"] != "100" || list[5]["nomecompleto"] != "Novo" {
		t.Fatalf("unexpected projection %#v", list[5])
	}
}

func TestResolve(t *testing.T) {
	r, _ := newRepo(t)
	ctx := context.Background()

	name, dept, err := r.Resolve(ctx, "001", "digitado", "digitado")
	if err != nil || name != "João Silva Santos" || dept != "Marketing" {
		t.Fatalf("Resolve(001) = %q %q %v", name, dept, err)
	}
	name, dept, err = r.Resolve(ctx, "404", "Fulano", "Obras")
	if err != nil || name != "Fulano" || dept != "Obras" {
		t.Fatalf("Resolve(404) = %q %q %v", name, dept, err)
	}
	name, dept, err = r.Resolve(ctx, "", "Fulano", "Obras")
	if err != nil || name != "Fulano" || dept != "Obras" {
		t.Fatalf("Resolve(blank) = %q %q %v", name, dept, err)
	}
}
