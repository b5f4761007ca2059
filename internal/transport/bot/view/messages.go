package view

const (
	StartMessage = "Привет! Я слежу за листингами Portals и присылаю алерты, " +
		"когда лот выставлен заметно ниже floor.\n\n" +
		"Подписаться: /subscribe <code>коллекция</code> <code>процент</code>\n" +
		"Все команды: /help"

	StartWebAppButton = "Open WebApp"

	HelpMessage = "📖 <b>Команды</b>\n\n" +
		"/subscribe <code>коллекция</code> <code>процент</code> — алерт, когда цена лота " +
		"не выше floor × (1 − процент/100). Повторная подписка меняет порог.\n" +
		"/unsubscribe <code>коллекция</code> — отписаться\n" +
		"/list — мои подписки\n" +
		"/ping — проверка связи"

	Pong = "pong"

	SubscribeUsage = "❌ Использование: /subscribe <code>коллекция</code> <code>процент</code>\n\n" +
		"Пример: /subscribe plushpepe 15"
	SubscribeInvalidPercent = "❌ Неверный формат процента. Допустимо число от 0 до 90."
	SubscribeSuccess        = "✅ Подписка на <b>%s</b>: алерт при цене ≤ floor − %s%%"

	UnsubscribeUsage    = "❌ Использование: /unsubscribe <code>коллекция</code>"
	UnsubscribeSuccess  = "✅ Подписка на <b>%s</b> удалена"
	UnsubscribeNotFound = "⚠️ Подписки на <b>%s</b> нет"

	ListEmpty    = "📋 <b>Подписок нет</b>\n\nДобавить: /subscribe <code>коллекция</code> <code>процент</code>"
	ListHeader   = "📋 <b>Ваши подписки (%d):</b>\n\n"
	ListItem     = "%d. <code>%s</code> — порог %s%%\n"
	InternalFail = "⚠️ Что-то пошло не так, попробуйте позже"

	StatusRunning = "🟢 работает"
	StatusStopped = "🔴 остановлен"
)
