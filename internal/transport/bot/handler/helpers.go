package handler

import (
	"fmt"
	"html"

	"github.com/mymmrac/telego"

	"portals_watcher/internal/domain/value"
	"portals_watcher/pkg/contextx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

// senderID — отправитель сообщения; в личке совпадает с chat id.
func senderID(msg telego.Message) int64 {
	if msg.From != nil {
		return msg.From.ID
	}
	return msg.Chat.ID
}

func sprintfEscaped(template, collection string) string {
	return fmt.Sprintf(template, html.EscapeString(value.NormalizeCollection(collection)))
}
