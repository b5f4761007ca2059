package server

import "portals_watcher/pkg/contextx"

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

// Server объединяет HTTP-серверы отдельных сущностей.
type Server struct {
	StatusServer
	SubscriptionServer

	auth WebAppAuth
}

func NewServer(
	statusServer StatusServer,
	subscriptionServer SubscriptionServer,
	auth WebAppAuth,
) Server {
	return Server{
		StatusServer:       statusServer,
		SubscriptionServer: subscriptionServer,
		auth:               auth,
	}
}
