package schedule

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"ontoai/internal/store"
)

const ReminderTitle = "Recordatorio de Sesión"

// Reminder is one due session together with its coachee.
type Reminder struct {
	Session store.ScheduledSession
	Coachee store.Coachee
}

func (r Reminder) Text() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Sesión Próxima con %s\n\n", r.Coachee.FullName())
	fmt.Fprintf(&sb, "Título: %s\n", r.Session.Title)
	fmt.Fprintf(&sb, "Hora: %s\n", r.Session.ScheduledAt.Format("15:04"))
	fmt.Fprintf(&sb, "Duración: %d minutos", r.Session.Duration)
	return sb.String()
}

type Notifier interface {
	Notify(ctx context.Context, r Reminder) error
}

// ConsoleNotifier prints reminders as a framed block.
type ConsoleNotifier struct {
	w    io.Writer
	bell bool
}

func NewConsoleNotifier(w io.Writer, bell bool) *ConsoleNotifier {
	return &ConsoleNotifier{w: w, bell: bell}
}

func (n *ConsoleNotifier) Notify(_ context.Context, r Reminder) error {
	rule := strings.Repeat("=", 40)
	var sb strings.Builder
	if n.bell {
		sb.WriteString("\a")
	}
	fmt.Fprintf(&sb, "%s\n%s\n%s\n%s\n%s\n", rule, ReminderTitle, rule, r.Text(), rule)
	_, err := io.WriteString(n.w, sb.String())
	return err
}

type messageSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier sends reminders to one chat through a bot.
type TelegramNotifier struct {
	bot    messageSender
	chatID int64
}

func NewTelegramNotifier(token string, chatID int64) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("connect telegram bot: %w", err)
	}
	return &TelegramNotifier{bot: bot, chatID: chatID}, nil
}

func (n *TelegramNotifier) Notify(_ context.Context, r Reminder) error {
	msg := tgbotapi.NewMessage(n.chatID, "🔔 "+ReminderTitle+"\n\n"+r.Text())
	if _, err := n.bot.Send(msg); err != nil {
		return fmt.Errorf("send telegram reminder: %w", err)
	}
	return nil
}

// MultiNotifier delivers to every sink and joins their errors.
type MultiNotifier []Notifier

func (m MultiNotifier) Notify(ctx context.Context, r Reminder) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, r); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
