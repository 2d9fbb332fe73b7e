package handler

import (
	"net/http"
	"sync"

	"github.com/initify/logdrains/internal/app"
)

var (
	once      sync.Once
	router    http.Handler
	routerErr error
)

// Handler is the Vercel serverless function entrypoint. vercel.json routes
// every path here so one Gin router serves the OAuth endpoints and the
// configure pages. Configure sessions live in this instance's memory.
func Handler(w http.ResponseWriter, r *http.Request) {
	once.Do(func() { router, routerErr = app.RouterFromEnv() })
	if routerErr != nil {
		http.Error(w, "config error", http.StatusInternalServerError)
		return
	}
	router.ServeHTTP(w, r)
}
