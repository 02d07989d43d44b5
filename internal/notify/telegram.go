package notify

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/OvyFlash/telegram-bot-api"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/SebastianTorreiro/jardineria-crm/internal/finance"
)

// Telegram posts visit completion summaries to a chat. Sends are best-effort;
// a failed send is logged and dropped.
type Telegram struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	logger *zap.Logger
}

// NewTelegram creates a Telegram notifier. Returns nil without error when the
// token is empty, which disables notifications.
func NewTelegram(token string, chatID int64, logger *zap.Logger) (*Telegram, error) {
	if token == "" || chatID == 0 {
		return nil, nil
	}
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram bot init: %w", err)
	}
	return &Telegram{bot: bot, chatID: chatID, logger: logger}, nil
}

// VisitCompleted sends a payout breakdown message for a completed visit.
func (t *Telegram) VisitCompleted(_ context.Context, visitID uuid.UUID, netMargin decimal.Decimal, shares []finance.Share) {
	var b strings.Builder
	fmt.Fprintf(&b, "Visit %s completed\nNet margin: %s\n", visitID, netMargin.StringFixed(2))
	if len(shares) == 0 {
		b.WriteString("No partner payouts recorded.")
	} else {
		b.WriteString("Payouts:\n")
		for _, s := range shares {
			fmt.Fprintf(&b, "  %s: %s (%s%%)\n", s.Name, s.Amount.StringFixed(2), s.Percentage.StringFixed(2))
		}
	}
	msg := tgbotapi.NewMessage(t.chatID, b.String())
	if _, err := t.bot.Send(msg); err != nil {
		t.logger.Warn("telegram send failed", zap.Error(err), zap.String("visit_id", visitID.String()))
	}
}
