package purchases

type Priority string

const (
	PriorityHigh   Priority = "Alta"
	PriorityMedium Priority = "Média"
	PriorityLow    Priority = "Baixa"
)

const StatusPending = "Pendente"

type Entry struct {
	ItemID        string   `json:"idItem"`
	ItemName      string   `json:"nomeItem"`
	Balance       float64  `json:"saldoAtual"`
	MinStock      float64  `json:"estoqueMinimo"`
	QuantityToBuy float64  `json:"quantidadeComprar"`
	Priority      Priority `json:"prioridade"`
	Status        string   `json:"status"`
}

// Classify decides whether an item needs restocking and how urgently:
// empty stock is High, below half the minimum is Medium, anything else under
// the minimum is Low. ok is false when balance >= minStock.
func Classify(balance, minStock float64) (p Priority, ok bool) {
	if balance >= minStock {
		return "", false
	}
	switch {
	case balance == 0:
		return PriorityHigh, true
	case balance < minStock/2:
		return PriorityMedium, true
	default:
		return PriorityLow, true
	}
}
