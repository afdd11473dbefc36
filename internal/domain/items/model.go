package items

import (
	"errors"
	"math"
)

// Column headers of the items table.
const (
	ColID          = "ID do Item"
	ColName        = "Nome do Item"
	ColDescription = "Descrição"
	ColUnit        = "Unidade"
	ColBalance     = "Saldo Atual"
	ColMinStock    = "Estoque Mínimo"
	ColMaxStock    = "Estoque Máximo"
	ColUnitPrice   = "Preço Unitário"
	ColLocation    = "Localização"
)

const IDPrefix = "ITM"

var ErrInvalidValue = errors.New("stock limits and price must be finite and >= 0")

type Item struct {
	ID          string  `json:"id"`
	Name        string  `json:"nome"`
	Description string  `json:"descricao"`
	Unit        string  `json:"unidade"`
	Balance     float64 `json:"saldoAtual"`
	MinStock    float64 `json:"estoqueMinimo"`
	MaxStock    float64 `json:"estoqueMaximo"`
	UnitPrice   float64 `json:"precoUnitario"`
	Location    string  `json:"localizacao"`
}

// BelowMinimum reports whether the item belongs on the purchase list.
func (i Item) BelowMinimum() bool { return i.Balance < i.MinStock }

// validate checks the numeric fields a caller may set.
func (i Item) validate() error {
	for _, v := range []float64{i.MinStock, i.MaxStock, i.UnitPrice} {
		if !(v >= 0) || math.IsInf(v, 1) {
			return ErrInvalidValue
		}
	}
	return nil
}
