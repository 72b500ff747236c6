// Package notify posts the weekly board to the community Telegram chat,
// as text or as the rendered poster.
package notify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	tele "gopkg.in/telebot.v4"

	"github.com/pilou73/horaires-shabbat/internal/logging"
	"github.com/pilou73/horaires-shabbat/internal/week"
)

const announceDateLayout = "02/01/2006"

// Config holds the Telegram delivery settings.
type Config struct {
	Token  string
	ChatID int64
}

// sender is the part of *tele.Bot the notifier uses.
type sender interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
}

// Notifier posts weekly announcements to a fixed chat.
type Notifier struct {
	bot    sender
	chatID int64
	log    logging.Logger
}

// New builds a notifier. It validates the token against the Telegram API.
func New(cfg Config, log logging.Logger) (*Notifier, error) {
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, errors.New("notify: telegram token is empty")
	}
	if cfg.ChatID == 0 {
		return nil, errors.New("notify: telegram chat id is empty")
	}
	b, err := tele.NewBot(tele.Settings{Token: cfg.Token})
	if err != nil {
		return nil, fmt.Errorf("notify: new bot: %w", err)
	}
	return &Notifier{bot: b, chatID: cfg.ChatID, log: log}, nil
}

// SendWeek posts the textual board.
func (n *Notifier) SendWeek(ctx context.Context, wk *week.Week) error {
	if _, err := n.bot.Send(&tele.Chat{ID: n.chatID}, Message(wk)); err != nil {
		return fmt.Errorf("notify: send week: %w", err)
	}
	n.log.Info("week announcement sent",
		logging.String("shabbat", wk.ShabbatDate.Format("2006-01-02")),
		logging.Int64("chat_id", n.chatID))
	return nil
}

// SendBoard posts the rendered poster with a short caption.
func (n *Notifier) SendBoard(ctx context.Context, wk *week.Week, png []byte) error {
	photo := &tele.Photo{
		File:    tele.FromReader(bytes.NewReader(png)),
		Caption: Caption(wk),
	}
	if _, err := n.bot.Send(&tele.Chat{ID: n.chatID}, photo); err != nil {
		return fmt.Errorf("notify: send board: %w", err)
	}
	n.log.Info("board image sent",
		logging.String("shabbat", wk.ShabbatDate.Format("2006-01-02")),
		logging.Int64("chat_id", n.chatID))
	return nil
}

// Message renders the announcement text for one week.
func Message(wk *week.Week) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Horaires de Chabbat · %s\n", wk.ParashaHebrew)
	fmt.Fprintf(&b, "Vendredi %s · Samedi %s\n",
		wk.CandleDate.Format(announceDateLayout),
		wk.ShabbatDate.Format(announceDateLayout))
	if wk.Mevarchim {
		b.WriteString("שבת מברכים\n")
	}
	b.WriteString("\n")
	for _, row := range wk.BoardRows() {
		fmt.Fprintf(&b, "%s : %s\n", row.Label, row.Time)
	}
	if notes := wk.Annotations(); len(notes) > 0 {
		b.WriteString("\n")
		for _, line := range notes {
			b.WriteString(line)
			b.WriteString("\n")
		}
	}
	return b.String()
}

// Caption is the short line attached to the poster image.
func Caption(wk *week.Week) string {
	return fmt.Sprintf("Horaires de Chabbat · %s · %s",
		wk.ParashaHebrew, wk.ShabbatDate.Format(announceDateLayout))
}
