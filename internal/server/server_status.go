package server

import (
	_ "embed"
	"net/http"

	"portals_watcher/internal/worker"
	"portals_watcher/pkg/httpx/reply"
)

//go:embed webapp.html
var webAppHTML []byte

type watcherStatus interface {
	Status() worker.Status
}

type StatusServer struct {
	watcher watcherStatus
}

func NewStatusServer(watcher watcherStatus) StatusServer {
	return StatusServer{
		watcher: watcher,
	}
}

func (s StatusServer) getRoot(w http.ResponseWriter, _ *http.Request) {
	writeText(w, "text/plain; charset=utf-8", []byte("Bot is running!"))
}

func (s StatusServer) getHealthz(w http.ResponseWriter, _ *http.Request) {
	writeText(w, "text/plain; charset=utf-8", []byte("ok"))
}

func (s StatusServer) getWebApp(w http.ResponseWriter, _ *http.Request) {
	writeText(w, "text/html; charset=utf-8", webAppHTML)
}

func (s StatusServer) getStatus(w http.ResponseWriter, r *http.Request) error {
	reply.JSON(r.Context(), w, http.StatusOK, newRESTStatus(s.watcher.Status()))

	return nil
}

func writeText(w http.ResponseWriter, contentType string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
