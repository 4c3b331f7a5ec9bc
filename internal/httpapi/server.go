package httpapi

import (
	"context"
	"embed"
	"encoding/json"
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/hamed0406/labdash/internal/catalog"
	"github.com/hamed0406/labdash/internal/config"
	"github.com/hamed0406/labdash/internal/domain"
	apimw "github.com/hamed0406/labdash/internal/httpapi/middleware"
	"github.com/hamed0406/labdash/internal/repo"
)

//go:embed static/*
var embeddedStatic embed.FS

// Refresher triggers an out-of-band probing pass.
type Refresher interface {
	TriggerNow()
}

type Server struct {
	Logger    *zap.Logger
	Dashboard *config.Dashboard
	Store     repo.StatusStore
	Updates   repo.Subscriber
	Refresher Refresher
	Meta      Meta

	staticFS fs.FS
	upgrader websocket.Upgrader
}

// Meta is page-level configuration served at /api/meta.
type Meta struct {
	StatusPageURL   string `json:"status_page_url,omitempty"`
	CheckIntervalMS int64  `json:"check_interval_ms,omitempty"`
}

// Options tunes the router's outer middleware.
type Options struct {
	AllowedOrigins []string
	RPM            int
	Burst          int
}

func NewServer(l *zap.Logger, d *config.Dashboard, store repo.StatusStore, updates repo.Subscriber, refresher Refresher) *Server {
	staticFS, err := fs.Sub(embeddedStatic, "static")
	if err != nil {
		panic("static assets missing: " + err.Error())
	}
	if l == nil {
		l = zap.NewNop()
	}
	return &Server{Logger: l, Dashboard: d, Store: store, Updates: updates, Refresher: refresher, staticFS: staticFS}
}

func (s *Server) Router(opts Options) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(apimw.RequestLogger(s.Logger))
	r.Use(corsHandler(opts.AllowedOrigins))
	s.upgrader = websocket.Upgrader{CheckOrigin: checkOrigin(opts.AllowedOrigins)}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(apimw.RateLimit(opts.RPM, opts.Burst))
		r.Get("/meta", s.handleMeta)
		r.Get("/catalog", s.handleCatalog)
		r.Get("/status", s.handleStatus)
		r.Get("/status/{group}", s.handleGroupStatus)
		r.Post("/status/refresh", s.handleRefresh)
	})

	r.Get("/ws", s.handleStatusWS)
	r.Get("/", s.handleIndex)
	return r
}

func corsHandler(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		return cors.AllowAll().Handler
	}
	return cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	})
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	data, err := fs.ReadFile(s.staticFS, "index.html")
	if err != nil {
		writeError(w, http.StatusInternalServerError, "index missing")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(data)
}

func (s *Server) handleMeta(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.Meta)
}

type catalogDocument struct {
	Query    string            `json:"query,omitempty"`
	Services []catalog.Section `json:"services"`
	Websites []domain.Target   `json:"websites"`
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	services := catalog.Filter(s.Dashboard.Services, q, domain.GroupServices)
	websites := catalog.Filter(s.Dashboard.Websites, q, domain.GroupWebsites)

	doc := catalogDocument{
		Query:    q,
		Services: catalog.GroupByCategory(services),
		Websites: websites,
	}
	if doc.Services == nil {
		doc.Services = []catalog.Section{}
	}
	if doc.Websites == nil {
		doc.Websites = []domain.Target{}
	}
	writeJSON(w, http.StatusOK, doc)
}

type groupStatus struct {
	Statuses  map[domain.TargetID]domain.Verdict `json:"statuses"`
	CheckedAt *time.Time                         `json:"checked_at,omitempty"`
	Pass      uint64                             `json:"pass"`
}

type statusDocument struct {
	GeneratedAt time.Time   `json:"generated_at"`
	Services    groupStatus `json:"services"`
	Websites    groupStatus `json:"websites"`
}

func (s *Server) groupStatus(ctx context.Context, g domain.Group) (groupStatus, error) {
	snap, err := s.Store.Snapshot(ctx, g)
	if err != nil {
		return groupStatus{}, err
	}
	gs := groupStatus{
		Statuses: snap.Verdicts(s.Dashboard.Targets(g)),
		Pass:     snap.Pass,
	}
	if !snap.CheckedAt.IsZero() {
		at := snap.CheckedAt
		gs.CheckedAt = &at
	}
	return gs, nil
}

func (s *Server) statusDocument(ctx context.Context) (statusDocument, error) {
	svc, err := s.groupStatus(ctx, domain.GroupServices)
	if err != nil {
		return statusDocument{}, err
	}
	web, err := s.groupStatus(ctx, domain.GroupWebsites)
	if err != nil {
		return statusDocument{}, err
	}
	return statusDocument{
		GeneratedAt: time.Now().UTC(),
		Services:    svc,
		Websites:    web,
	}, nil
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	doc, err := s.statusDocument(r.Context())
	if err != nil {
		s.Logger.Warn("status_read_error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "status unavailable")
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handleGroupStatus(w http.ResponseWriter, r *http.Request) {
	g := domain.Group(chi.URLParam(r, "group"))
	if g != domain.GroupServices && g != domain.GroupWebsites {
		writeError(w, http.StatusNotFound, "unknown group")
		return
	}
	gs, err := s.groupStatus(r.Context(), g)
	if err != nil {
		s.Logger.Warn("status_read_error", zap.String("group", string(g)), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "status unavailable")
		return
	}
	writeJSON(w, http.StatusOK, gs)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if s.Refresher == nil {
		writeError(w, http.StatusServiceUnavailable, "refresh unavailable")
		return
	}
	s.Refresher.TriggerNow()
	s.Logger.Info("refresh_requested", zap.String("request_id", chimw.GetReqID(r.Context())))
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "scheduled"})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
