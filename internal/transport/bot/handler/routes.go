package handler

import (
	th "github.com/mymmrac/telego/telegohandler"

	"portals_watcher/internal/transport/bot/middleware"
)

func (h *Handler) RegisterRoutes(bh *th.BotHandler, adminID int64) {
	bh.Use(th.PanicRecovery())

	bh.HandleMessage(h.OnStart, th.CommandEqual("start"))
	bh.HandleMessage(h.OnPing, th.CommandEqual("ping"))
	bh.HandleMessage(h.OnHelp, th.CommandEqual("help"))
	bh.HandleMessage(h.OnSubscribe, th.CommandEqual("subscribe"))
	bh.HandleMessage(h.OnUnsubscribe, th.CommandEqual("unsubscribe"))
	bh.HandleMessage(h.OnList, th.CommandEqual("list"))

	// Служебные команды только для администратора
	adminGroup := bh.Group(th.AnyMessage())
	adminGroup.Use(middleware.AdminOnly(adminID))

	adminGroup.HandleMessage(h.OnStatus, th.CommandEqual("status"))
}
