package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"portals_watcher/pkg/logx"
	"portals_watcher/pkg/middlewarex"
)

const logFieldMaxLen = 4096

func NewRouter(s Server, masker logx.SensitiveDataMaskerInterface) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middlewarex.TraceID,
		middlewarex.Logger,
		middlewarex.Recovery,
		middlewarex.RequestLogging(masker, logFieldMaxLen),
		middlewarex.ResponseLogging(masker, logFieldMaxLen),
	)

	s.RegisterRoutes(r)

	return r
}
