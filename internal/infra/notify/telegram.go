package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Spok95/estoque/internal/domain/purchases"
	"github.com/Spok95/estoque/internal/domain/requests"
)

// Sender is the part of *tgbotapi.BotAPI the notifier needs.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Telegram posts stock-team alerts to one chat. A nil *Telegram is a no-op,
// so the server can run without a bot token.
type Telegram struct {
	api    Sender
	log    *slog.Logger
	chatID int64
}

func NewTelegram(api Sender, log *slog.Logger, chatID int64) *Telegram {
	if api == nil || chatID == 0 {
		return nil
	}
	return &Telegram{api: api, log: log, chatID: chatID}
}

// Dial logs in with the bot token. An empty token yields a nil notifier.
func Dial(token string, chatID int64, log *slog.Logger) (*Telegram, error) {
	if token == "" {
		return nil, nil
	}
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram: %w", err)
	}
	log.Info("telegram notifier ready", "bot", api.Self.UserName, "chat_id", chatID)
	return NewTelegram(api, log, chatID), nil
}

// PurchaseListChanged alerts about items that ran out (priority Alta).
func (t *Telegram) PurchaseListChanged(_ context.Context, entries []purchases.Entry) {
	if t == nil {
		return
	}
	var lines []string
	for _, e := range entries {
		if e.Priority != purchases.PriorityHigh {
			continue
		}
		lines = append(lines, fmt.Sprintf("• %s (%s): saldo %s, comprar %s",
			e.ItemName, e.ItemID, qty(e.Balance), qty(e.QuantityToBuy)))
	}
	if len(lines) == 0 {
		return
	}
	t.send("⚠️ Itens sem estoque:\n" + strings.Join(lines, "\n"))
}

func (t *Telegram) RequestCreated(_ context.Context, req requests.Request) {
	if t == nil {
		return
	}
	who := req.RequesterName
	if who == "" {
		who = req.RequesterBadge.String()
	}
	text := fmt.Sprintf("📦 Nova solicitação %s\n%s (%s) pediu %s × %s",
		req.ID, who, req.RequesterDept, qty(req.Quantity), itemLabel(req.ItemName, req.ItemID))
	if req.Notes != "" {
		text += "\nObs: " + req.Notes
	}
	t.send(text)
}

func (t *Telegram) send(text string) {
	if _, err := t.api.Send(tgbotapi.NewMessage(t.chatID, text)); err != nil {
		t.log.Error("send failed", "err", err)
	}
}

func itemLabel(name, id string) string {
	if name == "" {
		return id
	}
	return name
}

// qty prints whole quantities without a fraction.
func qty(v float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
}
