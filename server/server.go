// Package server exposes the calculator to a browser form over HTTP and
// pushes every recalculation to WebSocket clients.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/rustyeddy/sizer/contracts"
	"github.com/rustyeddy/sizer/metrics"
	"github.com/rustyeddy/sizer/risk"
	"github.com/rustyeddy/sizer/session"
	"github.com/rustyeddy/sizer/settings"
	"github.com/rustyeddy/sizer/ui"
)

// Server serves one calculator session. Events from every client are applied
// to the same session one at a time.
type Server struct {
	adapter *ui.Adapter
	catalog *contracts.Catalog
	hub     *Hub
	log     *slog.Logger
}

// New wires a server. hub may be nil when WebSocket push is not needed.
func New(adapter *ui.Adapter, hub *Hub, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	s := &Server{
		adapter: adapter,
		catalog: adapter.Controller().Catalog(),
		hub:     hub,
		log:     log,
	}
	if hub != nil {
		hub.OnMessage = s.handleWSMessage
	}
	return s
}

// EventRequest is the JSON body for POST /api/v1/events and the frame a
// WebSocket client sends.
type EventRequest struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// EventResponse carries the readout after an event. Error is set when the
// event was applied but the settings could not be saved.
type EventResponse struct {
	Readout ui.Readout `json:"readout"`
	Error   string     `json:"error,omitempty"`
}

// Routes builds the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(metrics.Middleware)
	r.Use(cors)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "sizer"})
	})
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/contracts", s.ListContracts)
		r.Get("/state", s.GetState)
		r.Post("/events", s.PostEvent)
		r.Get("/size", s.Size)
		if s.hub != nil {
			r.Get("/ws", s.ServeWS)
		}
	})
	return r
}

func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type contractView struct {
	contracts.Spec
	Label string `json:"label"`
}

type groupView struct {
	Name      string         `json:"name"`
	Contracts []contractView `json:"contracts"`
}

// ListContracts handles GET /api/v1/contracts: the catalog grouped for a picker.
func (s *Server) ListContracts(w http.ResponseWriter, r *http.Request) {
	var out []groupView
	for _, g := range s.catalog.Groups() {
		gv := groupView{Name: g.Name}
		for _, c := range g.Contracts {
			gv.Contracts = append(gv.Contracts, contractView{Spec: c, Label: c.Label()})
		}
		out = append(out, gv)
	}
	writeJSON(w, http.StatusOK, out)
}

// GetState handles GET /api/v1/state.
func (s *Server) GetState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.adapter.Current())
}

// PostEvent handles POST /api/v1/events.
func (s *Server) PostEvent(w http.ResponseWriter, r *http.Request) {
	var req EventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	ev, err := ui.ParseEvent(req.Type, req.Value)
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	ro, err := s.adapter.Handle(r.Context(), ev)
	switch {
	case errors.Is(err, session.ErrUnknownContract):
		writeError(w, err.Error(), http.StatusUnprocessableEntity)
	case err != nil:
		writeJSON(w, http.StatusOK, EventResponse{Readout: ro, Error: err.Error()})
	default:
		writeJSON(w, http.StatusOK, EventResponse{Readout: ro})
	}
}

// Size handles GET /api/v1/size?contract=&risk=&stop=&comm=. It sizes without
// touching the session. comm defaults to the contract's catalog commission.
func (s *Server) Size(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	symbol := q.Get("contract")
	spec, ok := s.catalog.Lookup(symbol)
	if !ok {
		writeError(w, "unknown contract: "+symbol, http.StatusNotFound)
		return
	}

	st := settings.Settings{
		Contract: spec.Symbol,
		Risk:     q.Get("risk"),
		Stop:     q.Get("stop"),
		Comm:     q.Get("comm"),
	}
	if !q.Has("comm") {
		st.Comm = session.FormatNumber(spec.Commission)
	}

	res := risk.Calculate(risk.Inputs{
		RiskBudget: session.ParseNumber(st.Risk),
		StopTicks:  session.ParseNumber(st.Stop),
		Contract:   spec,
		Commission: session.ParseNumber(st.Comm),
	})
	metrics.ObserveCalculation(res.Contracts)

	writeJSON(w, http.StatusOK, ui.NewReadout(spec, st, res))
}

// ServeWS handles GET /api/v1/ws. The client first receives the current
// readout, then every readout after that.
func (s *Server) ServeWS(w http.ResponseWriter, r *http.Request) {
	s.hub.ServeWS(w, r, s.adapter.Current)
}

func (s *Server) handleWSMessage(clientID string, data []byte) {
	log := s.log.With("client", clientID)

	var req EventRequest
	if err := json.Unmarshal(data, &req); err != nil {
		log.Warn("bad ws frame", "err", err)
		return
	}
	ev, err := ui.ParseEvent(req.Type, req.Value)
	if err != nil {
		log.Warn("bad ws event", "err", err)
		return
	}
	// Errors are logged by the adapter; the resulting readout reaches the
	// client through the hub.
	_, _ = s.adapter.Handle(context.Background(), ev)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, map[string]string{"error": message})
}
