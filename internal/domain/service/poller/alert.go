package poller

import (
	"fmt"
	"html"
	"math"
	"strconv"
	"strings"

	"portals_watcher/internal/domain/entity"
)

// formatAlert рендерит HTML-сообщение для Telegram. Всё, что пришло
// из маркетплейса, экранируется.
func formatAlert(alert entity.Alert) string {
	price := alert.Listing.PriceValue()

	var b strings.Builder

	fmt.Fprintf(&b, "🔥 <b>%s</b>\n\n", html.EscapeString(alert.Listing.Title))
	fmt.Fprintf(&b, "💰 <b>Цена:</b> %s TON\n", formatAmount(price))
	fmt.Fprintf(&b, "📊 <b>Floor:</b> %s TON\n", formatAmount(alert.Floor))

	if alert.Floor > 0 {
		fmt.Fprintf(&b, "📉 <b>Скидка:</b> %s%%\n", formatAmount((1-price/alert.Floor)*100))
	}

	fmt.Fprintf(&b, "🎯 <b>Ваш порог:</b> %s%% (≤ %s TON)\n",
		formatAmount(alert.ThresholdPct), formatAmount(alert.Border))

	if alert.Listing.URL != "" {
		fmt.Fprintf(&b, "\n🔗 <a href=\"%s\">Открыть лот</a>", html.EscapeString(alert.Listing.URL))
	}

	return b.String()
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}
