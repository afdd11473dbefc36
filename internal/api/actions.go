package api

import (
	"context"
	"errors"

	"github.com/Spok95/estoque/internal/domain/employees"
	"github.com/Spok95/estoque/internal/domain/inventory"
	"github.com/Spok95/estoque/internal/domain/items"
	"github.com/Spok95/estoque/internal/domain/requests"
	"github.com/Spok95/estoque/internal/domain/users"
)

func (d *Dispatcher) routes() map[string]HandlerFunc {
	return map[string]HandlerFunc{
		"login": d.login,

		"getItensEstoque":          d.listItems,
		"getEstoque":               d.listItems,
		"getEntradas":              d.listInbound,
		"getSaidas":                d.listOutbound,
		"getSolicitacoes":          d.listRequests,
		"getSolicitacoesAprovadas": d.listApproved,
		"getListaCompras":          d.listPurchases,
		"getFuncionario":           d.getEmployee,
		"getFuncionarios":          d.listEmployees,
		"getDashboard":             d.dashboard,

		"addFuncionario":          d.addEmployee,
		"addItem":                 d.addItem,
		"addEntrada":              d.addInbound,
		"addSaida":                d.addOutbound,
		"addSolicitacao":          d.addRequest,
		"updateSolicitacaoStatus": d.updateRequestStatus,
		"aprovarSolicitacao":      d.resolveRequest(requests.StatusApproved),
		"rejeitarSolicitacao":     d.resolveRequest(requests.StatusRejected),
		"updateListaCompras":      d.recomputePurchases,
	}
}

func (d *Dispatcher) login(ctx context.Context, p Payload) (Envelope, error) {
	u, err := d.deps.Users.Authenticate(ctx, p.String("username"), p.String("password"))
	if err != nil {
		return nil, err
	}
	return Envelope{"user": u}, nil
}

func (d *Dispatcher) listItems(ctx context.Context, _ Payload) (Envelope, error) {
	list, err := d.deps.Items.List(ctx)
	if err != nil {
		return nil, err
	}
	return Envelope{"itens": list}, nil
}

func (d *Dispatcher) listInbound(ctx context.Context, _ Payload) (Envelope, error) {
	list, err := d.deps.Inventory.ListInbound(ctx)
	if err != nil {
		return nil, err
	}
	return Envelope{"entradas": list}, nil
}

func (d *Dispatcher) listOutbound(ctx context.Context, _ Payload) (Envelope, error) {
	list, err := d.deps.Inventory.ListOutbound(ctx)
	if err != nil {
		return nil, err
	}
	return Envelope{"saidas": list}, nil
}

func (d *Dispatcher) listRequests(ctx context.Context, _ Payload) (Envelope, error) {
	list, err := d.deps.Requests.List(ctx)
	if err != nil {
		return nil, err
	}
	return Envelope{"solicitacoes": list}, nil
}

func (d *Dispatcher) listApproved(ctx context.Context, _ Payload) (Envelope, error) {
	list, err := d.deps.Requests.ListApproved(ctx)
	if err != nil {
		return nil, err
	}
	return Envelope{"solicitacoes": list}, nil
}

func (d *Dispatcher) listPurchases(ctx context.Context, _ Payload) (Envelope, error) {
	list, err := d.deps.Purchases.List(ctx)
	if err != nil {
		return nil, err
	}
	return Envelope{"lista": list}, nil
}

func (d *Dispatcher) getEmployee(ctx context.Context, p Payload) (Envelope, error) {
	e, err := d.deps.Employees.Find(ctx, p.Badge("matricula"))
	if err != nil {
		return nil, err
	}
	return Envelope{"funcionario": e}, nil
}

func (d *Dispatcher) listEmployees(ctx context.Context, _ Payload) (Envelope, error) {
	list, err := d.deps.Employees.List(ctx)
	if err != nil {
		return nil, err
	}
	return Envelope{"funcionarios": list}, nil
}

func (d *Dispatcher) dashboard(ctx context.Context, _ Payload) (Envelope, error) {
	sum, err := d.deps.Dashboard.Summary(ctx)
	if err != nil {
		return nil, err
	}
	return Envelope{"dashboard": sum}, nil
}

func (d *Dispatcher) addEmployee(ctx context.Context, p Payload) (Envelope, error) {
	f := p.Object("funcionario")
	err := d.deps.Employees.Add(ctx, employees.Employee{
		Badge:      f.Badge("matricula"),
		Name:       f.String("nome", "nomeCompleto"),
		Department: f.String("setor"),
	})
	if err != nil {
		return nil, err
	}
	return Envelope{"message": "Funcionário adicionado com sucesso"}, nil
}

func (d *Dispatcher) addItem(ctx context.Context, p Payload) (Envelope, error) {
	it := p.Object("item")
	id, err := d.deps.Items.Add(ctx, items.Item{
		Name:        it.String("nome"),
		Description: it.String("descricao"),
		Unit:        it.String("unidade"),
		MinStock:    it.Number("estoqueMinimo"),
		MaxStock:    it.Number("estoqueMaximo"),
		UnitPrice:   it.Number("precoUnitario"),
		Location:    it.String("localizacao"),
	})
	if err != nil {
		return nil, err
	}
	return Envelope{"id": id, "message": "Item adicionado com sucesso"}, nil
}

func (d *Dispatcher) addInbound(ctx context.Context, p Payload) (Envelope, error) {
	e := p.Object("entrada")
	res, err := d.deps.Inventory.Receive(ctx, inventory.Inbound{
		ItemID:     e.String("idItem", "item"),
		ItemName:   e.String("nomeItem"),
		Quantity:   e.Number("quantidade"),
		Supplier:   e.String("fornecedor"),
		InvoiceRef: e.String("notaFiscal"),
		RecordedBy: e.String("registradoPor"),
	})
	if err != nil {
		return nil, err
	}
	return d.movement(res, "Entrada registrada com sucesso"), nil
}

func (d *Dispatcher) addOutbound(ctx context.Context, p Payload) (Envelope, error) {
	s := p.Object("saida")
	res, err := d.deps.Inventory.WriteOff(ctx, inventory.Outbound{
		ItemID:         s.String("idItem", "item"),
		ItemName:       s.String("nomeItem"),
		Quantity:       s.Number("quantidade"),
		RequesterBadge: s.Badge("matriculaSolicitante", "matricula"),
		RequesterName:  s.String("nomeSolicitante", "nomeFuncionario"),
		RequesterDept:  s.String("setorSolicitante", "setorFuncionario"),
		RequestID:      s.String("solicitacaoId"),
		RecordedBy:     s.String("registradoPor"),
	})
	if err != nil {
		return nil, err
	}
	return d.movement(res, "Saída registrada com sucesso"), nil
}

func (d *Dispatcher) movement(res inventory.Result, msg string) Envelope {
	if !res.Matched {
		d.metrics.UnmatchedMovement(string(res.Type))
	}
	return Envelope{"id": res.ID, "message": msg, "matched": res.Matched}
}

func (d *Dispatcher) addRequest(ctx context.Context, p Payload) (Envelope, error) {
	s := p.Object("solicitacao")
	id, err := d.deps.Requests.Create(ctx, requests.Request{
		RequesterBadge: s.Badge("matriculaSolicitante", "matricula"),
		RequesterName:  s.String("nomeSolicitante", "nomeFuncionario"),
		RequesterDept:  s.String("setorSolicitante", "setorFuncionario"),
		ItemID:         s.String("idItem", "item"),
		ItemName:       s.String("nomeItem"),
		Quantity:       s.Number("quantidadeSolicitada", "quantidade"),
		Notes:          s.String("observacoes"),
	})
	if err != nil {
		return nil, err
	}
	return Envelope{"id": id, "message": "Solicitação criada com sucesso"}, nil
}

func (d *Dispatcher) updateRequestStatus(ctx context.Context, p Payload) (Envelope, error) {
	return d.setStatus(ctx, p.String("id", "solicitacaoId"), requests.Status(p.String("status")), p.String("atendidoPor"))
}

func (d *Dispatcher) resolveRequest(status requests.Status) HandlerFunc {
	return func(ctx context.Context, p Payload) (Envelope, error) {
		return d.setStatus(ctx, p.String("solicitacaoId", "id"), status, p.String("atendidoPor"))
	}
}

func (d *Dispatcher) setStatus(ctx context.Context, id string, status requests.Status, by string) (Envelope, error) {
	matched, err := d.deps.Requests.UpdateStatus(ctx, id, status, by)
	if err != nil {
		return nil, err
	}
	if !matched {
		d.log.Warn("status update for unknown request", "id", id)
	}
	return Envelope{"message": "Status atualizado com sucesso", "matched": matched}, nil
}

func (d *Dispatcher) recomputePurchases(ctx context.Context, _ Payload) (Envelope, error) {
	list, err := d.deps.Purchases.Recompute(ctx)
	if err != nil {
		return nil, err
	}
	return Envelope{"message": "Lista de compras atualizada", "lista": list}, nil
}

// isClientError tells bad input apart from store failures for logging.
func isClientError(err error) bool {
	for _, target := range []error{
		users.ErrInvalidCredentials,
		employees.ErrNotFound, employees.ErrDuplicateBadge, employees.ErrBadgeRequired,
		items.ErrInvalidValue, inventory.ErrInvalidQuantity,
		requests.ErrInvalidStatus, requests.ErrAlreadyResolved, requests.ErrInvalidQuantity,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
