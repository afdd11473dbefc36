package inventory

import (
	"errors"
	"math"

	"github.com/Spok95/estoque/internal/domain/employees"
)

type MoveType string

const (
	MoveIn  MoveType = "in"
	MoveOut MoveType = "out"
)

const (
	InboundPrefix  = "ENT"
	OutboundPrefix = "SAI"
)

var ErrInvalidQuantity = errors.New("quantity must be > 0")

// validQuantity rejects zero, negatives, NaN and +Inf.
func validQuantity(q float64) bool { return q > 0 && !math.IsInf(q, 1) }

// Inbound is a goods receipt ("entrada").
type Inbound struct {
	ID         string  `json:"id"`
	Date       string  `json:"data"`
	ItemID     string  `json:"idItem"`
	ItemName   string  `json:"nomeItem"`
	Quantity   float64 `json:"quantidade"`
	Supplier   string  `json:"fornecedor"`
	InvoiceRef string  `json:"notaFiscal"`
	RecordedBy string  `json:"registradoPor"`
}

// Outbound is a material hand-out ("saída"), optionally tied to a request.
type Outbound struct {
	ID             string          `json:"id"`
	Date           string          `json:"data"`
	ItemID         string          `json:"idItem"`
	ItemName       string          `json:"nomeItem"`
	Quantity       float64         `json:"quantidade"`
	RequesterBadge employees.Badge `json:"matriculaSolicitante"`
	RequesterName  string          `json:"nomeSolicitante"`
	RequesterDept  string          `json:"setorSolicitante"`
	RequestID      string          `json:"solicitacaoId"`
	RecordedBy     string          `json:"registradoPor"`
}

// Result of a movement. Matched is false when no item carried ItemID, in
// which case the record was still stored but no balance changed.
type Result struct {
	ID      string
	Type    MoveType
	Matched bool
}
