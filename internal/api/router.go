package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/fantazia-finance/terminal/internal/api/handlers"
	"github.com/fantazia-finance/terminal/pkg/logger"
)

// NewRouter creates and configures the HTTP router.
func NewRouter(
	scoreboard *handlers.ScoreboardHandler,
	quotes *handlers.QuotesHandler,
	simulate *handlers.SimulateHandler,
	stream *handlers.StreamHandler,
	log *logger.Logger,
) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/health", healthCheckHandler).Methods("GET")

	api := r.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/presets", scoreboard.ListPresets).Methods("GET")
	api.HandleFunc("/scoreboard", scoreboard.Get).Methods("GET")
	api.HandleFunc("/scoreboard/history", scoreboard.History).Methods("GET")
	api.HandleFunc("/charts", scoreboard.Charts).Methods("GET")

	api.HandleFunc("/quotes/{ticker}", quotes.Get).Methods("GET")
	api.HandleFunc("/simulate", simulate.Run).Methods("POST")

	api.HandleFunc("/stream", stream.Serve).Methods("GET")

	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))

	return r
}

// healthCheckHandler returns server health status.
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"service": "fantazia-terminal-api",
	})
}

// loggingMiddleware logs HTTP requests.
func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			next.ServeHTTP(w, r)

			log.WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"duration": time.Since(start),
			}).Debug("HTTP request")
		})
	}
}

// recoveryMiddleware recovers from panics.
func recoveryMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(map[string]interface{}{
						"error": err,
						"path":  r.URL.Path,
					}).Error("Panic recovered")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]string{
						"error": "Internal server error",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
