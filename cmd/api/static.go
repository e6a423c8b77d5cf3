package main

import (
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gorilla/handlers"
	"go.uber.org/zap"
)

const (
	gamePage        = "Bounce.html"
	leaderboardPage = "leaderboard.html"
)

// staticPage serves one HTML file from the static directory, read on every
// request so edits show up without a restart.
func (s *Server) staticPage(name string) http.Handler {
	path := filepath.Join(s.cfg.StaticDir, name)
	return handlers.CompressHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := os.ReadFile(path)
		if err != nil {
			s.cfg.Logger.Warn("static page unavailable", zap.String("path", path), zap.Error(err))
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, "Page not found")
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}))
}
