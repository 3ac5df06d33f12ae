// Package restapi exposes the Command Gateway and Plan Store over HTTP:
// a Server wrapping http.ServeMux with Go 1.22+ method-pattern routes, a
// middleware chain, and structured JSON error bodies.
package restapi

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/rwortham/instinct/internal/command"
	"github.com/rwortham/instinct/internal/domain"
	"github.com/rwortham/instinct/internal/planstore"
	"github.com/rwortham/instinct/internal/utils"
)

// Server serves one plan: the plan id in every path must match the
// store's own PlanID, set by an `I S` command or at startup.
type Server struct {
	store      *planstore.Store
	gateway    *command.Gateway
	logger     *slog.Logger
	mux        *http.ServeMux
	apiKeyHash string
}

func NewServer(store *planstore.Store, gateway *command.Gateway, logger *slog.Logger) *Server {
	logger = utils.DefaultValue(logger, slog.Default())
	s := &Server{store: store, gateway: gateway, logger: logger}
	s.mux = s.routes()
	return s
}

// RequireAPIKey turns on apiKeyMiddleware, checking every non-/healthz
// request's X-API-Key header against keyHash. Call before serving any
// traffic; an empty hash leaves the server open, the zero-value behavior.
func (s *Server) RequireAPIKey(keyHash string) {
	s.apiKeyHash = keyHash
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/plans/{id}/commands", s.handleCommand)
	mux.HandleFunc("GET /v1/plans/{id}/snapshot", s.handleSnapshot)
	mux.HandleFunc("GET /v1/plans/{id}/counters/{elementID}", s.handleCounters)
	mux.HandleFunc("GET /healthz", s.handleHealthz)
	return mux
}

// ServeHTTP applies the middleware chain around the route mux.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	mws := []middlewareFunc{recoveryMiddleware, corsMiddleware, loggingMiddleware(s.logger), contentTypeMiddleware}
	if s.apiKeyHash != "" {
		mws = append(mws, apiKeyMiddleware(s.apiKeyHash))
	}
	chain(s.logger, mws...)(s.mux).ServeHTTP(w, r)
}

type errorBody struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorBody{Error: msg})
}

// planIDFromPath validates the path's {id} against the store's own plan
// id; a plan-scoped server only ever answers for the plan it holds.
func (s *Server) planIDFromPath(r *http.Request) (int32, bool) {
	raw := r.PathValue("id")
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return 0, false
	}
	return int32(id), int32(id) == s.store.PlanID()
}

func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.planIDFromPath(r); !ok {
		writeError(w, http.StatusNotFound, "unknown plan id")
		return
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, 4096))
	if err != nil {
		writeError(w, http.StatusBadRequest, "cannot read body")
		return
	}
	reply := s.gateway.Execute(string(body))
	w.Header().Set("Content-Type", "text/plain")
	if reply == "FAIL" {
		w.WriteHeader(http.StatusBadRequest)
	} else {
		w.WriteHeader(http.StatusOK)
	}
	fmt.Fprint(w, reply)
}

// handleSnapshot renders `D N` for every element id from 1 up to `D H`,
// skipping ids the store has no node for.
func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.planIDFromPath(r); !ok {
		writeError(w, http.StatusNotFound, "unknown plan id")
		return
	}
	highest := s.store.MaxElementID()
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	for id := domain.ElementID(1); id <= highest; id++ {
		if _, ok := s.store.Get(id); !ok {
			continue
		}
		line := s.gateway.Execute(fmt.Sprintf("D N %d", id))
		fmt.Fprintln(w, line)
	}
}

func (s *Server) handleCounters(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.planIDFromPath(r); !ok {
		writeError(w, http.StatusNotFound, "unknown plan id")
		return
	}
	elementID, err := strconv.ParseUint(r.PathValue("elementID"), 10, 16)
	if err != nil {
		writeError(w, http.StatusBadRequest, "elementID must be an integer")
		return
	}
	line := s.gateway.Execute(fmt.Sprintf("D C %d", elementID))
	w.Header().Set("Content-Type", "text/plain")
	if line == "FAIL" {
		w.WriteHeader(http.StatusNotFound)
	} else {
		w.WriteHeader(http.StatusOK)
	}
	fmt.Fprint(w, line)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
