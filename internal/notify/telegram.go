package notify

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/mentesana/agendapro/internal/model"
	"go.uber.org/zap"
)

// Telegram pings the clinic's admin chat when a booking comes in.
// Missing token or chat id disables it. Same best-effort contract as
// the webhook.
type Telegram struct {
	bot    *bot.Bot
	chatID string
	logger *zap.Logger
}

func NewTelegram(token, chatID string, logger *zap.Logger) (*Telegram, error) {
	if token == "" || chatID == "" {
		return &Telegram{logger: logger}, nil
	}

	b, err := bot.New(token)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}

	return &Telegram{bot: b, chatID: chatID, logger: logger}, nil
}

func (t *Telegram) AppointmentCreated(ctx context.Context, app model.Appointment) {
	if t.bot == nil {
		return
	}

	text := fmt.Sprintf(
		"📅 Nueva reserva\n\n👤 %s\n🩺 %s\n🗓 %s a las %s hrs\n📞 %s\n✉️ %s",
		app.PatientName, app.Service, app.Date, app.Time, app.Phone, app.Email,
	)

	_, err := t.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: t.chatID,
		Text:   text,
	})
	if err != nil {
		t.logger.Warn("Telegram notification failed", zap.String("appointment_id", app.ID), zap.Error(err))
	}
}
