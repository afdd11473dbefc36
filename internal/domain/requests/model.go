package requests

import (
	"errors"
	"strings"

	"github.com/Spok95/estoque/internal/domain/employees"
)

type Status string

const (
	StatusPending  Status = "Pendente"
	StatusApproved Status = "Aprovado"
	StatusRejected Status = "Rejeitado"
)

const IDPrefix = "SOL"

var (
	ErrInvalidStatus   = errors.New("invalid status")
	ErrAlreadyResolved = errors.New("request already resolved")
	ErrInvalidQuantity = errors.New("requested quantity must be > 0")
)

// ParseStatus accepts a resolution status in any letter case.
func ParseStatus(s string) (Status, error) {
	switch {
	case strings.EqualFold(s, string(StatusApproved)):
		return StatusApproved, nil
	case strings.EqualFold(s, string(StatusRejected)):
		return StatusRejected, nil
	}
	return "", ErrInvalidStatus
}

// Request is a material request ("solicitação") raised by an employee.
type Request struct {
	ID             string          `json:"id"`
	Date           string          `json:"data"`
	RequesterBadge employees.Badge `json:"matriculaSolicitante"`
	RequesterName  string          `json:"nomeSolicitante"`
	RequesterDept  string          `json:"setorSolicitante"`
	ItemID         string          `json:"idItem"`
	ItemName       string          `json:"nomeItem"`
	Quantity       float64         `json:"quantidadeSolicitada"`
	Status         Status          `json:"status"`
	Notes          string          `json:"observacoes"`
	ResolvedBy     string          `json:"atendidoPor"`
	ResolvedDate   string          `json:"dataAtendimento"`
}

// Approved is the subset of an approved request used to prefill a hand-out.
type Approved struct {
	ID             string          `json:"id"`
	ItemID         string          `json:"idItem"`
	ItemName       string          `json:"nomeItem"`
	Quantity       float64         `json:"quantidade"`
	RequesterBadge employees.Badge `json:"matriculaSolicitante"`
	RequesterName  string          `json:"nomeFuncionario"`
	RequesterDept  string          `json:"setorSolicitante"`
}
