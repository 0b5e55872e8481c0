package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"nhooyr.io/websocket"
)

/////////////////////
// Response helpers

func RespondInternalServiceError(w http.ResponseWriter, err error) {
	w.WriteHeader(http.StatusInternalServerError)
	w.Write([]byte(err.Error()))
}

func RespondBadRequest(w http.ResponseWriter, message string) {
	w.WriteHeader(http.StatusBadRequest)
	w.Write([]byte(message))
}

func RespondJSON(w http.ResponseWriter, body any) {
	w.Header().Add("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(body); err != nil {
		RespondInternalServiceError(w, err)
	}
}

// NewRouter builds the pin API: current states, output control, and a
// websocket feed of state changes.
func NewRouter(board *Board) chi.Router {
	r := chi.NewRouter()
	r.Use(LoggerMiddleware(&log.Logger))

	r.Get("/api/pins", func(w http.ResponseWriter, r *http.Request) {
		states, err := board.States()
		if err != nil {
			RespondInternalServiceError(w, err)
			return
		}
		RespondJSON(w, states)
	})

	r.Post("/api/pins/output", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			State bool `json:"state"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			RespondBadRequest(w, fmt.Sprintf("invalid body: %s", err))
			return
		}
		if err := board.SetOutput(body.State); err != nil {
			RespondInternalServiceError(w, err)
			return
		}
		RespondJSON(w, body)
	})

	r.Get("/api/pins/live", createWebsocketHandler(board))

	return r
}

func createWebsocketHandler(board *Board) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			InsecureSkipVerify: true,
		})
		if err != nil {
			http.Error(w, fmt.Sprintf("websocket upgrade failed: %s", err), http.StatusInternalServerError)
			return
		}
		defer c.Close(websocket.StatusInternalError, "stream aborted")

		id, ch := board.Subscribe()
		defer board.Unsubscribe(id)

		for msg := range ch {
			js, err := json.Marshal(msg)
			if err != nil {
				log.Err(err).Msg("Failed to marshal pin state for websocket")
				continue
			}

			if err := writeTimeout(r.Context(), 5*time.Second, c, js); err != nil {
				return
			}
		}
	}
}

func writeTimeout(ctx context.Context, timeout time.Duration, c *websocket.Conn, msg []byte) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	return c.Write(ctx, websocket.MessageText, msg)
}

// StartServer serves the pin API until the listener fails.
func StartServer(config *Config, board *Board) error {
	addr := net.JoinHostPort(config.Host(), config.Port())
	log.Info().Str("address", addr).Msg("Starting HTTP server")

	return http.ListenAndServe(addr, NewRouter(board))
}
