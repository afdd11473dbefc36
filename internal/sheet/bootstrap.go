package sheet

import (
	"context"
	"fmt"
	"log/slog"
)

// Headers of every table, in column order.
var Headers = map[string][]string{
	TableItems: {
		"ID do Item", "Nome do Item", "Descrição", "Unidade", "Saldo Atual",
		"Estoque Mínimo", "Estoque Máximo", "Preço Unitário", "Localização",
	},
	TableInbound: {
		"ID da Entrada", "Data", "ID do Item", "Nome do Item", "Quantidade",
		"Fornecedor", "Nota Fiscal", "Registrado Por",
	},
	TableOutbound: {
		"ID da Saída", "Data", "ID do Item", "Nome do Item", "Quantidade",
		"Matrícula do Solicitante", "Nome do Solicitante", "Setor Solicitante",
		"Solicitação ID", "Registrado Por",
	},
	TableRequests: {
		"ID da Solicitação", "Data da Solicitação", "Matrícula do Solicitante",
		"Nome do Solicitante", "Setor Solicitante", "ID do Item", "Nome do Item",
		"Quantidade Solicitada", "Status", "Observações", "Atendido Por", "Data de Atendimento",
	},
	TablePurchases: {
		"ID do Item", "Nome do Item", "Saldo Atual", "Estoque Mínimo",
		"Quantidade a Comprar", "Prioridade", "Status",
	},
	TableUsers:     {"Username", "Password", "Perfil", "Setor"},
	TableEmployees: {"Matrícula", "Nome Completo", "Setor"},
}

var tableOrder = []string{
	TableItems, TableInbound, TableOutbound, TableRequests,
	TablePurchases, TableUsers, TableEmployees,
}

var seeds = map[string][]Row{
	TableUsers: {
		{"admin", "admin123", "Estoque", ""},
		{"marketing", "marketing123", "Setor", "Marketing"},
		{"vendas", "vendas123", "Setor", "Vendas"},
		{"rh", "rh123", "Setor", "Recursos Humanos"},
	},
	TableEmployees: {
		{"001", "João Silva Santos", "Marketing"},
		{"002", "Maria Oliveira Costa", "Vendas"},
		{"003", "Pedro Souza Lima", "Recursos Humanos"},
		{"004", "Ana Paula Ferreira", "Financeiro"},
		{"005", "Carlos Eduardo Alves", "TI"},
	},
}

// Bootstrap creates missing tables with their headers. With seed set, tables
// created right now also get their default rows (users, sample employees).
func Bootstrap(ctx context.Context, s Store, seed bool, log *slog.Logger) error {
	for _, table := range tableOrder {
		created, err := s.EnsureTable(ctx, table, Headers[table])
		if err != nil {
			return fmt.Errorf("ensure %s: %w", table, err)
		}
		if !created {
			continue
		}
		log.Info("table created", "table", table)
		if !seed {
			continue
		}
		for _, r := range seeds[table] {
			if err := s.AppendRow(ctx, table, r); err != nil {
				return fmt.Errorf("seed %s: %w", table, err)
			}
		}
		if n := len(seeds[table]); n > 0 {
			log.Info("table seeded", "table", table, "rows", n)
		}
	}
	return nil
}
