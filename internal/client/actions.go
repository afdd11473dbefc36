package client

import (
	"context"

	"github.com/Spok95/estoque/internal/domain/dashboard"
	"github.com/Spok95/estoque/internal/domain/inventory"
	"github.com/Spok95/estoque/internal/domain/requests"
	"github.com/Spok95/estoque/internal/domain/users"
)

// Movement is the answer to addEntrada/addSaida.
type Movement struct {
	ID      string
	Matched bool
}

func (g *Gateway) Login(ctx context.Context, username, password string) (*Session, error) {
	resp, err := g.Request(ctx, "login", map[string]any{"username": username, "password": password})
	if err != nil {
		return nil, err
	}
	var u users.User
	if err := resp.Decode("user", &u); err != nil {
		return nil, err
	}
	return &Session{User: &u}, nil
}

func (g *Gateway) list(ctx context.Context, action, field string) ([]map[string]any, error) {
	resp, err := g.Request(ctx, action, nil)
	if err != nil {
		return nil, err
	}
	var out []map[string]any
	if err := resp.Decode(field, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (g *Gateway) Items(ctx context.Context) ([]map[string]any, error) {
	return g.list(ctx, "getItensEstoque", "itens")
}

func (g *Gateway) PurchaseList(ctx context.Context) ([]map[string]any, error) {
	return g.list(ctx, "getListaCompras", "lista")
}

func (g *Gateway) Requests(ctx context.Context) ([]map[string]any, error) {
	return g.list(ctx, "getSolicitacoes", "solicitacoes")
}

func (g *Gateway) movement(ctx context.Context, action, key string, rec any) (Movement, error) {
	resp, err := g.Request(ctx, action, map[string]any{key: rec})
	if err != nil {
		return Movement{}, err
	}
	return Movement{ID: resp.String("id"), Matched: resp.Bool("matched")}, nil
}

func (g *Gateway) AddInbound(ctx context.Context, in inventory.Inbound) (Movement, error) {
	return g.movement(ctx, "addEntrada", "entrada", in)
}

func (g *Gateway) AddOutbound(ctx context.Context, out inventory.Outbound) (Movement, error) {
	return g.movement(ctx, "addSaida", "saida", out)
}

func (g *Gateway) AddRequest(ctx context.Context, req requests.Request) (string, error) {
	resp, err := g.Request(ctx, "addSolicitacao", map[string]any{"solicitacao": req})
	if err != nil {
		return "", err
	}
	return resp.String("id"), nil
}

// UpdateRequestStatus reports whether a request with this id existed.
func (g *Gateway) UpdateRequestStatus(ctx context.Context, id string, status requests.Status, by string) (bool, error) {
	resp, err := g.Request(ctx, "updateSolicitacaoStatus", map[string]any{
		"id": id, "status": string(status), "atendidoPor": by,
	})
	if err != nil {
		return false, err
	}
	return resp.Bool("matched"), nil
}

func (g *Gateway) Dashboard(ctx context.Context) (dashboard.Summary, error) {
	resp, err := g.Request(ctx, "getDashboard", nil)
	if err != nil {
		return dashboard.Summary{}, err
	}
	var s dashboard.Summary
	err = resp.Decode("dashboard", &s)
	return s, err
}
