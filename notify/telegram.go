package notify

import (
	"fmt"
	"sync"
	"time"

	"foodflow/logger"
	"foodflow/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const dedupWindow = 30 * time.Second

// Telegram pushes order activity to an admin chat. Sends of the same
// order+status within 30 seconds are dropped.
type Telegram struct {
	api    *tgbotapi.BotAPI
	chatID int64
	log    *logger.Logger

	mu       sync.Mutex
	lastSent map[string]time.Time
}

func NewTelegram(token string, chatID int64, log *logger.Logger) (*Telegram, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram: %w", err)
	}
	return &Telegram{
		api:      api,
		chatID:   chatID,
		log:      log,
		lastSent: make(map[string]time.Time),
	}, nil
}

func (t *Telegram) sentRecently(key string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if last, ok := t.lastSent[key]; ok && time.Since(last) < dedupWindow {
		return true
	}
	t.lastSent[key] = time.Now()
	return false
}

func (t *Telegram) send(text string) {
	msg := tgbotapi.NewMessage(t.chatID, text)
	if _, err := t.api.Send(msg); err != nil {
		t.log.Error("telegram_send", err, nil)
	}
}

// OrderPlaced announces a new order.
func (t *Telegram) OrderPlaced(o *models.Order) {
	if t.sentRecently(o.ID + ":placed") {
		return
	}
	t.send(fmt.Sprintf("🛵 New order %s\n%s — %s\n₦%d • %s",
		o.Reference, o.Restaurant, o.Items, o.Price, o.PaymentRef))
}

// OrderStatusChanged announces a status transition.
func (t *Telegram) OrderStatusChanged(o *models.Order) {
	if t.sentRecently(o.ID + ":" + o.Status) {
		return
	}
	t.send(fmt.Sprintf("Order %s → %s", o.Reference, o.Status))
}
