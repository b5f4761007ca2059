package notifier

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
	"golang.org/x/time/rate"

	"portals_watcher/internal/domain"
	"portals_watcher/pkg/errcodes"
	"portals_watcher/pkg/logx"
)

const (
	DefaultTimeout = 10 * time.Second
	// Telegram режет массовые рассылки около 30 сообщений в секунду.
	DefaultRPS = 25
)

type messageSender interface {
	SendMessage(ctx context.Context, params *telego.SendMessageParams) (*telego.Message, error)
}

// TelegramBot доставляет личные сообщения подписчикам.
type TelegramBot struct {
	sender  messageSender
	timeout time.Duration
	limiter *rate.Limiter
}

func NewTelegramBot(sender messageSender, timeout time.Duration, rps float64) *TelegramBot {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	if rps <= 0 {
		rps = DefaultRPS
	}

	return &TelegramBot{
		sender:  sender,
		timeout: timeout,
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
	}
}

// Send отправляет HTML-сообщение пользователю. Ошибка доставки касается
// только этого получателя.
func (b *TelegramBot) Send(ctx context.Context, userID int64, text string, disablePreview bool) error {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	if err := b.limiter.Wait(ctx); err != nil {
		return domain.WrapError(err, errcodes.DeliveryFailed, "rate limit wait")
	}

	msg := tu.Message(tu.ID(userID), text).
		WithParseMode(telego.ModeHTML).
		WithLinkPreviewOptions(&telego.LinkPreviewOptions{IsDisabled: disablePreview})

	sent, err := b.sender.SendMessage(ctx, msg)
	if err != nil {
		return domain.WrapError(err, errcodes.DeliveryFailed, fmt.Sprintf("send message to %d", userID))
	}

	if sent != nil {
		logger(ctx).Debug("message delivered",
			slog.Int64(logx.FieldUserID, userID),
			slog.Int(logx.FieldMessageID, sent.MessageID),
		)
	}

	return nil
}
