package client

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/Spok95/estoque/internal/domain/employees"
	"github.com/Spok95/estoque/internal/sheet"
)

// Employee as the backend reports it. getFuncionario answers with
// nome/setor, getFuncionarios with the projected nomecompleto column; the
// badge may come back as a number.
type Employee struct {
	Badge      employees.Badge `json:"matricula"`
	Name       string          `json:"nome"`
	Department string          `json:"setor"`
}

func (e *Employee) UnmarshalJSON(b []byte) error {
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return err
	}
	e.Badge = employees.ParseBadge(m["matricula"])
	e.Name = sheet.Text(m["nome"])
	if e.Name == "" {
		e.Name = sheet.Text(m["nomecompleto"])
	}
	e.Department = sheet.Text(m["setor"])
	return nil
}

// EmployeeDirectory memoizes badge lookups. Entries are filled by every
// successful Lookup and by Preload. Cache failures on Lookup are logged and
// the backend answer is used.
type EmployeeDirectory struct {
	g     *Gateway
	cache Cache
	log   *slog.Logger
}

func NewEmployeeDirectory(g *Gateway, cache Cache, log *slog.Logger) *EmployeeDirectory {
	return &EmployeeDirectory{g: g, cache: cache, log: log}
}

// Preload seeds the memo from getFuncionarios and returns how many entries it stored.
func (d *EmployeeDirectory) Preload(ctx context.Context) (int, error) {
	resp, err := d.g.Request(ctx, "getFuncionarios", nil)
	if err != nil {
		return 0, err
	}
	var list []Employee
	if err := resp.Decode("funcionarios", &list); err != nil {
		return 0, err
	}
	n := 0
	for _, e := range list {
		if e.Badge == "" {
			continue
		}
		if err := d.cache.Set(ctx, e); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

func (d *EmployeeDirectory) Lookup(ctx context.Context, badge employees.Badge) (Employee, error) {
	e, ok, err := d.cache.Get(ctx, badge)
	switch {
	case err != nil:
		d.log.Warn("employee cache read failed", "badge", string(badge), "err", err)
	case ok:
		return e, nil
	}
	resp, err := d.g.Request(ctx, "getFuncionario", map[string]any{"matricula": string(badge)})
	if err != nil {
		return Employee{}, err
	}
	e = Employee{}
	if err := resp.Decode("funcionario", &e); err != nil {
		return Employee{}, err
	}
	if err := d.cache.Set(ctx, e); err != nil {
		d.log.Warn("employee cache write failed", "badge", string(badge), "err", err)
	}
	return e, nil
}
