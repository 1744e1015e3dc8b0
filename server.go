package main

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"i4.energy/across/rak811gw/at"
	"i4.energy/across/rak811gw/rak811"
)

// Server handles incoming HTTP requests for interacting with the
// configured module
type Server struct {
	Logger *slog.Logger
	Radio  Radio
	Events *Hub
}

// ServeHTTP implements the http.Handler interface for the Server struct
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /uplink", s.handleUplink)
	mux.HandleFunc("GET /status", s.handleStatus)
	if s.Events != nil {
		mux.HandleFunc("GET /events", s.Events.handleEvents)
	}
	mux.ServeHTTP(w, r)
}

func (s *Server) sendError(w http.ResponseWriter, message string, statusCode int) {
	if message == "" {
		w.WriteHeader(statusCode)
		return
	}

	type ErrorResponse struct {
		Message string `json:"message"`
	}
	resp := ErrorResponse{Message: message}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(resp)
}

// handleUplink processes requests to transmit an uplink
func (s *Server) handleUplink(w http.ResponseWriter, r *http.Request) {
	type UplinkRequest struct {
		Port      uint8  `json:"port"`
		Confirmed bool   `json:"confirmed"`
		Payload   string `json:"payload"`
	}

	var req UplinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.Port < 1 || req.Port > 223 {
		s.sendError(w, "'port' must be between 1 and 223", http.StatusBadRequest)
		return
	}
	payload, err := hex.DecodeString(req.Payload)
	if err != nil {
		s.sendError(w, "'payload' must be hex encoded", http.StatusBadRequest)
		return
	}
	if len(payload) > at.MaxPayload {
		s.sendError(w, rak811.ErrPayloadTooLarge.Error(), http.StatusRequestEntityTooLarge)
		return
	}

	qos := at.Unconfirmed
	if req.Confirmed {
		qos = at.Confirmed
	}
	if err := s.Radio.Send(qos, req.Port, payload); err != nil {
		s.Logger.Error("Failed to send uplink", "error", err, "port", req.Port)
		status := http.StatusInternalServerError
		var unexpected *rak811.UnexpectedResponseError
		if errors.As(err, &unexpected) {
			status = http.StatusBadGateway
		}
		s.sendError(w, err.Error(), status)
		return
	}

	s.Logger.Info("Uplink sent", "port", req.Port, "qos", qos, "payload_length", len(payload))
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.Radio.Status())
}

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// Hub fans received downlinks out to websocket subscribers.
type Hub struct {
	logger  *slog.Logger
	mu      sync.Mutex
	clients map[*websocket.Conn]bool
}

// NewHub returns an empty Hub.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{logger: logger, clients: map[*websocket.Conn]bool{}}
}

func (h *Hub) handleEvents(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("Websocket upgrade failed", "error", err)
		return
	}
	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	go func() {
		defer func() {
			h.mu.Lock()
			delete(h.clients, conn)
			h.mu.Unlock()
			if err := conn.Close(); err != nil {
				h.logger.Debug("Failed to close websocket", "error", err)
			}
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// Broadcast sends dl to every subscriber.
func (h *Hub) Broadcast(dl Downlink) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		if err := c.WriteJSON(dl); err != nil {
			h.logger.Warn("Failed to deliver downlink", "error", err, "remote", c.RemoteAddr())
		}
	}
}

func (h *Hub) subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}
