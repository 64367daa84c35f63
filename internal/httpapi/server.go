package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
	"go.uber.org/zap"

	"github.com/hamed0406/webhookmonitor/internal/domain"
	apimw "github.com/hamed0406/webhookmonitor/internal/httpapi/middleware"
	"github.com/hamed0406/webhookmonitor/internal/state"
)

// StatusSource is the read side of the monitor loop.
type StatusSource interface {
	Snapshot() map[string]state.EndpointState
}

type Server struct {
	Logger    *zap.Logger
	Endpoints []domain.Endpoint
	Status    StatusSource
	Keys      []string
	RPM       int
	Burst     int
	Now       func() time.Time
}

func NewServer(l *zap.Logger, endpoints []domain.Endpoint, status StatusSource) *Server {
	return &Server{Logger: l, Endpoints: endpoints, Status: status, Now: time.Now}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "X-API-Key"},
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(apimw.RateLimit(s.RPM, s.Burst))
		r.Use(apimw.RequireKey(s.Keys))
		r.Get("/endpoints", s.handleListEndpoints)
		r.Get("/endpoints/{name}", s.handleGetEndpoint)
	})
	return r
}

// EndpointStatus is the public view of one endpoint. The webhook
// destination is never part of it.
type EndpointStatus struct {
	Name        string     `json:"name"`
	URL         string     `json:"url"`
	Status      string     `json:"status"` // up | down | pending
	LastChecked *time.Time `json:"last_checked,omitempty"`
	DownSince   *time.Time `json:"down_since,omitempty"`
	DownFor     string     `json:"down_for,omitempty"`
}

func (s *Server) view(ep domain.Endpoint, st state.EndpointState, seen bool, now time.Time) EndpointStatus {
	v := EndpointStatus{Name: ep.Name, URL: ep.URL, Status: "pending"}
	if !seen {
		return v
	}
	checked := st.LastChecked
	v.LastChecked = &checked
	if st.LastUp {
		v.Status = "up"
		return v
	}
	v.Status = "down"
	if st.DownSince != nil {
		since := *st.DownSince
		v.DownSince = &since
		v.DownFor = state.FormatDowntime(now.Sub(since))
	}
	return v
}

func (s *Server) handleListEndpoints(w http.ResponseWriter, r *http.Request) {
	snap := s.Status.Snapshot()
	now := s.Now()
	out := make([]EndpointStatus, 0, len(s.Endpoints))
	for _, ep := range s.Endpoints {
		st, ok := snap[ep.Name]
		out = append(out, s.view(ep, st, ok, now))
	}
	render.JSON(w, r, out)
}

func (s *Server) handleGetEndpoint(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	for _, ep := range s.Endpoints {
		if ep.Name != name {
			continue
		}
		st, ok := s.Status.Snapshot()[name]
		render.JSON(w, r, s.view(ep, st, ok, s.Now()))
		return
	}
	s.Logger.Debug("status_unknown_endpoint", zap.String("name", name))
	render.Status(r, http.StatusNotFound)
	render.JSON(w, r, map[string]string{"error": "unknown endpoint"})
}
