package handler

import (
	"errors"
	"log/slog"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"
	tu "github.com/mymmrac/telego/telegoutil"

	"portals_watcher/internal/domain"
	"portals_watcher/internal/transport/bot/view"
	"portals_watcher/pkg/errcodes"
	"portals_watcher/pkg/logx"
)

func (h *Handler) OnStart(ctx *th.Context, msg telego.Message) error {
	params := &telego.SendMessageParams{
		ChatID:    tu.ID(msg.Chat.ID),
		Text:      view.StartMessage,
		ParseMode: telego.ModeHTML,
	}

	if h.webAppURL != "" {
		params.ReplyMarkup = tu.InlineKeyboard(
			tu.InlineKeyboardRow(
				tu.InlineKeyboardButton(view.StartWebAppButton).
					WithWebApp(&telego.WebAppInfo{URL: h.webAppURL}),
			),
		)
	}

	_, err := ctx.Bot().SendMessage(ctx, params)
	return err
}

func (h *Handler) OnPing(ctx *th.Context, msg telego.Message) error {
	logger(ctx).Info("ping", slog.Int64(logx.FieldUserID, senderID(msg)))
	return h.send(ctx, msg.Chat.ID, view.Pong)
}

func (h *Handler) OnHelp(ctx *th.Context, msg telego.Message) error {
	return h.sendHTML(ctx, msg.Chat.ID, view.HelpMessage)
}

func (h *Handler) OnSubscribe(ctx *th.Context, msg telego.Message) error {
	collection, pct, err := parseSubscribeArgs(msg.Text)
	switch {
	case errors.Is(err, errMissingArgs):
		return h.sendHTML(ctx, msg.Chat.ID, view.SubscribeUsage)
	case err != nil:
		return h.sendHTML(ctx, msg.Chat.ID, view.SubscribeInvalidPercent)
	}

	sub, err := h.svc.Subscribe(ctx, senderID(msg), collection, pct)
	if err != nil {
		return h.replyError(ctx, msg, err)
	}

	return h.sendHTML(ctx, msg.Chat.ID, view.Subscribed(sub))
}

func (h *Handler) OnUnsubscribe(ctx *th.Context, msg telego.Message) error {
	collection, err := parseCollectionArg(msg.Text)
	if err != nil {
		return h.sendHTML(ctx, msg.Chat.ID, view.UnsubscribeUsage)
	}

	removed, err := h.svc.Unsubscribe(ctx, senderID(msg), collection)
	if err != nil {
		return h.replyError(ctx, msg, err)
	}

	template := view.UnsubscribeNotFound
	if removed {
		template = view.UnsubscribeSuccess
	}

	return h.sendHTML(ctx, msg.Chat.ID, sprintfEscaped(template, collection))
}

func (h *Handler) OnList(ctx *th.Context, msg telego.Message) error {
	subs, err := h.svc.List(ctx, senderID(msg))
	if err != nil {
		return h.replyError(ctx, msg, err)
	}

	return h.sendHTML(ctx, msg.Chat.ID, view.Subscriptions(subs))
}

func (h *Handler) OnStatus(ctx *th.Context, msg telego.Message) error {
	return h.sendHTML(ctx, msg.Chat.ID, view.Status(h.watcher.Status()))
}

// replyError показывает пользователю ошибки валидации как есть,
// остальное логирует и отвечает общей фразой.
func (h *Handler) replyError(ctx *th.Context, msg telego.Message, err error) error {
	code, _ := domain.GetCode(err)

	switch code {
	case errcodes.InvalidThreshold, errcodes.InvalidCollection, errcodes.InvalidUserID, errcodes.ValidationError:
		var appErr *domain.AppError
		if errors.As(err, &appErr) {
			return h.send(ctx, msg.Chat.ID, "❌ "+appErr.Message)
		}
	}

	logger(ctx).Error("command failed",
		slog.Int64(logx.FieldUserID, senderID(msg)),
		slog.String("command", msg.Text),
		logx.Error(err),
	)

	return h.send(ctx, msg.Chat.ID, view.InternalFail)
}

// Вспомогательные методы

func (h *Handler) sendHTML(ctx *th.Context, chatID int64, text string) error {
	_, err := ctx.Bot().SendMessage(ctx, &telego.SendMessageParams{
		ChatID:    tu.ID(chatID),
		Text:      text,
		ParseMode: telego.ModeHTML,
	})
	return err
}

func (h *Handler) send(ctx *th.Context, chatID int64, text string) error {
	_, err := ctx.Bot().SendMessage(ctx, &telego.SendMessageParams{
		ChatID: tu.ID(chatID),
		Text:   text,
	})
	return err
}
