package sheet

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"path/filepath"
	"testing"
)

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"Saldo Atual":              "saldoatual",
		"Matrícula do Solicitante": "matriculadosolicitante",
		"Preço Unitário":           "precounitario",
		"ID da Saída":              "iddasaida",
		"  Nome\tCompleto ":        "nomecompleto",
		"Solicitação ID":           "solicitacaoid",
	}
	for in, want := range cases {
		if got := Normalize(in); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTextAndNumber(t *testing.T) {
	if got := Text(float64(2)); got != "2" {
		t.Fatalf("Text(2.0) = %q", got)
	}
	if got := Text(2.5); got != "2.5" {
		t.Fatalf("Text(2.5) = %q", got)
	}
	if got := Number("12,5"); got != 12.5 {
		t.Fatalf("Number(12,5) = %v", got)
	}
	if got := Number(""); got != 0 {
		t.Fatalf("Number(blank) = %v", got)
	}
}

func TestNumberFormats(t *testing.T) {
	cases := map[string]float64{
		"1.234,5":     1234.5,
		"1.234.567,8": 1234567.8,
		" 7,25 ":      7.25,
		"12.5":        12.5,
		"NaN":         0,
		"nan":         0,
		"Inf":         0,
		"-Infinity":   0,
		"+Inf":        0,
		"abc":         0,
	}
	for in, want := range cases {
		if got := Number(in); got != want {
			t.Errorf("Number(%q) = %v, want %v", in, got, want)
		}
	}
	if got := Number(math.NaN()); got != 0 {
		t.Errorf("Number(NaN float) = %v", got)
	}
	if got := Number(math.Inf(1)); got != 0 {
		t.Errorf("Number(+Inf float) = %v", got)
	}
}

func TestNextID(t *testing.T) {
	if got := NextID("ITM", 1); got != "ITM001" {
		t.Fatalf("got %s", got)
	}
	if got := NextID("SOL", 1234); got != "SOL1234" {
		t.Fatalf("got %s", got)
	}
}

func TestProjectSkipsBlankRows(t *testing.T) {
	rows := []Row{
		{"Matrícula", "Nome Completo", "Setor"},
		{"001", "João", "TI"},
		{"", "ghost", "x"},
		{float64(2), "Maria"},
	}
	got := Project(rows)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0]["matricula"] != "001" || got[0]["nomecompleto"] != "João" {
		t.Fatalf("unexpected first row: %#v", got[0])
	}
	if got[1]["setor"] != "" {
		t.Fatalf("missing trailing cell should project as blank, got %#v", got[1]["setor"])
	}
	if empty := Project(rows[:1]); len(empty) != 0 {
		t.Fatalf("header-only table projected %d rows", len(empty))
	}
}

func storeContract(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	if _, err := s.ListRows(ctx, "missing"); !errors.Is(err, ErrTableNotFound) {
		t.Fatalf("ListRows on missing table: %v", err)
	}
	if err := s.AppendRow(ctx, "missing", Row{"x"}); !errors.Is(err, ErrTableNotFound) {
		t.Fatalf("AppendRow on missing table: %v", err)
	}

	created, err := s.EnsureTable(ctx, TableItems, Headers[TableItems])
	if err != nil || !created {
		t.Fatalf("EnsureTable: created=%v err=%v", created, err)
	}
	created, err = s.EnsureTable(ctx, TableItems, Headers[TableItems])
	if err != nil || created {
		t.Fatalf("second EnsureTable: created=%v err=%v", created, err)
	}

	for _, r := range []Row{
		{"ITM001", "Papel", "", "resma", 10.0, 5.0, 50.0, 20.5, "A1"},
		{"ITM002", "Caneta", "", "un", 3.0, 10.0, 100.0, 1.5, "B2"},
		{"ITM003", "Clips", "", "cx", 0.0, 2.0, 10.0, 4.0, "C3"},
	} {
		if err := s.AppendRow(ctx, TableItems, r); err != nil {
			t.Fatalf("AppendRow: %v", err)
		}
	}

	if err := s.UpdateCell(ctx, TableItems, 2, "saldo atual", 7.0); err != nil {
		t.Fatalf("UpdateCell: %v", err)
	}
	if err := s.UpdateCell(ctx, TableItems, 2, "Coluna Inexistente", 1.0); !errors.Is(err, ErrColumnNotFound) {
		t.Fatalf("UpdateCell unknown column: %v", err)
	}

	rows, err := s.ListRows(ctx, TableItems)
	if err != nil {
		t.Fatalf("ListRows: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("rows = %d, want 4", len(rows))
	}
	h := NewHeader(rows[0])
	if got := Number(h.Cell(rows[2], "Saldo Atual")); got != 7 {
		t.Fatalf("balance = %v, want 7", got)
	}
	if got := Text(h.Cell(rows[1], "Nome do Item")); got != "Papel" {
		t.Fatalf("name = %q", got)
	}

	if err := s.DeleteRows(ctx, TableItems, 1, 2); err != nil {
		t.Fatalf("DeleteRows: %v", err)
	}
	rows, err = s.ListRows(ctx, TableItems)
	if err != nil {
		t.Fatalf("ListRows: %v", err)
	}
	if len(rows) != 2 || Text(rows[1][0]) != "ITM003" {
		t.Fatalf("after delete: %#v", rows)
	}
}

func TestMemoryStore(t *testing.T) {
	storeContract(t, NewMemory())
}

func TestWorkbookStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "estoque.xlsx")
	wb, err := OpenWorkbook(path)
	if err != nil {
		t.Fatalf("OpenWorkbook: %v", err)
	}
	storeContract(t, wb)
	if err := wb.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// reopen: values must survive with their types
	wb, err = OpenWorkbook(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = wb.Close() }()
	rows, err := wb.ListRows(context.Background(), TableItems)
	if err != nil {
		t.Fatalf("ListRows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if v, ok := rows[1][4].(float64); !ok || v != 0 {
		t.Fatalf("balance cell = %#v, want float64 0", rows[1][4])
	}
}

func TestWorkbookKeepsTextBadges(t *testing.T) {
	wb, err := OpenWorkbook(filepath.Join(t.TempDir(), "f.xlsx"))
	if err != nil {
		t.Fatalf("OpenWorkbook: %v", err)
	}
	defer func() { _ = wb.Close() }()
	ctx := context.Background()
	if err := Bootstrap(ctx, wb, true, slog.New(slog.NewTextHandler(io.Discard, nil))); err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	rows, err := wb.ListRows(ctx, TableEmployees)
	if err != nil {
		t.Fatalf("ListRows: %v", err)
	}
	if got, ok := rows[1][0].(string); !ok || got != "001" {
		t.Fatalf("badge cell = %#v, want string 001", rows[1][0])
	}
}

func TestBootstrapSeedsOnlyNewTables(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	if err := Bootstrap(ctx, s, true, log); err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	if err := Bootstrap(ctx, s, true, log); err != nil {
		t.Fatalf("second Bootstrap: %v", err)
	}
	users, _ := s.ListRows(ctx, TableUsers)
	if len(users) != 1+len(seeds[TableUsers]) {
		t.Fatalf("users rows = %d", len(users))
	}
	for _, table := range tableOrder {
		rows, err := s.ListRows(ctx, table)
		if err != nil {
			t.Fatalf("%s: %v", table, err)
		}
		if len(rows[0]) != len(Headers[table]) {
			t.Fatalf("%s header width = %d", table, len(rows[0]))
		}
	}
}
