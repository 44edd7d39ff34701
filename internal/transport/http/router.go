package http

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// TopicSource lists the topic keys a client may start a session with.
type TopicSource func(ctx context.Context) ([]string, error)

// StatsSource counts live quiz sessions.
type StatsSource func(ctx context.Context) (int, error)

// NewRouter mounts the health check, the topic listing, session stats and the
// websocket endpoint.
func NewRouter(ws *WSHandler, topics TopicSource, stats StatsSource, origins []string) http.Handler {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Get("/api/topics", func(w http.ResponseWriter, r *http.Request) {
		list, err := topics(r.Context())
		if err != nil {
			log.Printf("list topics: %v", err)
			respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "topics unavailable"})
			return
		}
		if list == nil {
			list = []string{}
		}
		respondJSON(w, http.StatusOK, map[string]any{"topics": list})
	})
	r.Get("/api/stats", func(w http.ResponseWriter, r *http.Request) {
		live, err := stats(r.Context())
		if err != nil {
			log.Printf("count sessions: %v", err)
			respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "stats unavailable"})
			return
		}
		respondJSON(w, http.StatusOK, map[string]int{"liveSessions": live})
	})
	r.Get("/ws", ws.ServeWS)
	return r
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
