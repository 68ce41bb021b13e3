package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"autotheme/internal/domain"
	"autotheme/internal/logging"
	"autotheme/internal/usecase"
)

// Server is a primary adapter that exposes HTTP API + UI.
// It depends on the use case (primary port).
type Server struct {
	usecase usecase.Scheduler
	server  *http.Server
}

// NewServer creates the HTTP server bound to addr.
func NewServer(uc usecase.Scheduler, addr string) *Server {
	srv := &Server{usecase: uc}
	srv.server = &http.Server{
		Addr:              addr,
		Handler:           loggingMiddleware(srv.Handler()),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return srv
}

// Handler returns the routing table without middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/config", s.handleConfig)
	mux.HandleFunc("/api/toggle", s.handleToggle)
	mux.HandleFunc("/api/auto", s.handleAuto)
	mux.HandleFunc("/api/apply", s.handleApply)
	mux.HandleFunc("/", s.handleRoot)
	return mux
}

// Start blocks and serves HTTP traffic.
func (s *Server) Start() error {
	err := s.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// updatePayload carries only the fields the editor changed.
type updatePayload struct {
	Sunrise                *string `json:"sunrise"`
	Sunset                 *string `json:"sunset"`
	CheckIntervalMinutes   *int    `json:"checkIntervalMinutes"`
	DayThemePath           *string `json:"dayThemePath"`
	NightThemePath         *string `json:"nightThemePath"`
	DayWallpaperOverride   *string `json:"dayWallpaperOverride"`
	NightWallpaperOverride *string `json:"nightWallpaperOverride"`
	UseGeolocation         *bool   `json:"useGeolocation"`
}

// apply merges the payload into cfg, validating the time values.
func (p updatePayload) apply(cfg domain.Config) (domain.Config, error) {
	var err error
	if p.Sunrise != nil {
		if cfg.Sunrise, err = domain.ParseTimeOfDay(*p.Sunrise); err != nil {
			return cfg, err
		}
	}
	if p.Sunset != nil {
		if cfg.Sunset, err = domain.ParseTimeOfDay(*p.Sunset); err != nil {
			return cfg, err
		}
	}
	if p.CheckIntervalMinutes != nil {
		cfg.CheckIntervalMinutes = *p.CheckIntervalMinutes
	}
	for dst, src := range map[*string]*string{
		&cfg.DayThemePath:           p.DayThemePath,
		&cfg.NightThemePath:         p.NightThemePath,
		&cfg.DayWallpaperOverride:   p.DayWallpaperOverride,
		&cfg.NightWallpaperOverride: p.NightWallpaperOverride,
	} {
		if src != nil {
			*dst = *src
		}
	}
	if p.UseGeolocation != nil {
		cfg.UseGeolocation = *p.UseGeolocation
	}
	return cfg, cfg.Validate()
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		respondJSON(w, http.StatusOK, snapshotToView(s.usecase.Snapshot()))
	case http.MethodPut:
		var req updatePayload
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid JSON", http.StatusBadRequest)
			return
		}

		config, err := req.apply(s.usecase.CurrentConfig())
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		if err := s.usecase.UpdateConfig(config); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		respondJSON(w, http.StatusOK, snapshotToView(s.usecase.Snapshot()))
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	s.respondAfter(w, s.usecase.ToggleNow())
}

func (s *Server) handleAuto(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		Enabled *bool `json:"enabled"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Enabled == nil {
		http.Error(w, `expected {"enabled": true|false}`, http.StatusBadRequest)
		return
	}
	s.respondAfter(w, s.usecase.SetAutomatic(*req.Enabled))
}

func (s *Server) handleApply(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var profile *bool
	if name := r.URL.Query().Get("profile"); name != "" {
		isDay, err := domain.ParseProfileName(name)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		profile = &isDay
	}
	s.respondAfter(w, s.usecase.ApplyOnce(profile))
}

// respondAfter reports the snapshot; a partially failed apply is still a
// completed command, so the error travels in the body.
func (s *Server) respondAfter(w http.ResponseWriter, err error) {
	if errors.Is(err, domain.ErrStopped) {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	respondJSON(w, http.StatusOK, snapshotToView(s.usecase.Snapshot()))
}

func snapshotToView(snap domain.Snapshot) map[string]any {
	var nextRun *time.Time
	if !snap.NextRun.IsZero() {
		nr := snap.NextRun
		nextRun = &nr
	}

	cfg := map[string]any{
		"sunrise":                snap.Config.Sunrise.String(),
		"sunset":                 snap.Config.Sunset.String(),
		"checkIntervalMinutes":   snap.Config.CheckIntervalMinutes,
		"dayThemePath":           snap.Config.DayThemePath,
		"nightThemePath":         snap.Config.NightThemePath,
		"dayWallpaperOverride":   snap.Config.DayWallpaperOverride,
		"nightWallpaperOverride": snap.Config.NightWallpaperOverride,
		"useGeolocation":         snap.Config.UseGeolocation,
	}

	view := map[string]any{
		"config":          cfg,
		"profile":         domain.ProfileName(snap.Activation.IsDay),
		"automatic":       snap.AutoSwitch,
		"nextRun":         nextRun,
		"lastApplyStatus": snap.LastApplyStatus.String(),
	}
	if !snap.Activation.LastAppliedAt.IsZero() {
		view["lastApplied"] = snap.Activation.LastAppliedAt
	}
	if snap.LastError != nil {
		view["lastError"] = snap.LastError.Error()
	}
	return view
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logging.Debugf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}
