package view

import (
	"fmt"
	"html"
	"strconv"
	"strings"
	"time"

	"portals_watcher/internal/domain/entity"
	"portals_watcher/internal/worker"
)

func Percent(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func Subscribed(sub entity.Subscription) string {
	return fmt.Sprintf(SubscribeSuccess, html.EscapeString(sub.Collection), Percent(sub.ThresholdPct))
}

func Subscriptions(subs []entity.Subscription) string {
	if len(subs) == 0 {
		return ListEmpty
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(ListHeader, len(subs)))

	for i, sub := range subs {
		sb.WriteString(fmt.Sprintf(ListItem, i+1, html.EscapeString(sub.Collection), Percent(sub.ThresholdPct)))
	}

	return sb.String()
}

func Status(status worker.Status) string {
	state := StatusStopped
	if status.Running {
		state = StatusRunning
	}

	var sb strings.Builder
	sb.WriteString("📊 <b>Статус системы</b>\n\n")
	sb.WriteString(fmt.Sprintf("🔍 <b>Вотчер:</b> %s\n", state))
	sb.WriteString(fmt.Sprintf("⏱ <b>Интервал:</b> %s\n", status.Interval))
	sb.WriteString(fmt.Sprintf("🔁 <b>Циклов:</b> %d\n", status.Cycles))

	if r := status.LastReport; r != nil {
		sb.WriteString(fmt.Sprintf(
			"\n🧾 <b>Последний цикл</b> <code>%s</code>\n"+
				"Коллекций: %d, пропущено: %d\n"+
				"Новых лотов: %d, отброшено: %d\n"+
				"Алертов: %d, ошибок доставки: %d\n"+
				"Длительность: %s\n",
			r.TraceID,
			r.Collections, r.Skipped,
			r.Evaluated, r.Discarded,
			r.Notified, r.Failed,
			r.Duration.Round(time.Millisecond),
		))
	}

	if status.LastError != "" {
		sb.WriteString(fmt.Sprintf("\n❗️ <b>Ошибка:</b> %s\n", html.EscapeString(status.LastError)))
	}

	return sb.String()
}
