package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"WiccRecorderwebserver/internal/auth"
	"WiccRecorderwebserver/internal/service"
)

type RouterOpts struct {
	Logger *slog.Logger
	IsProd bool

	DBPing func(context.Context) error

	Series  *service.SeriesService
	Summary *service.SummaryService

	CookieCodec  auth.CookieCodec
	CookieSecure bool
	SessionTTL   time.Duration
	PasscodeHash string
}

func NewRouter(opts RouterOpts) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	api := &api{
		logger:       logger,
		isProd:       opts.IsProd,
		dbPing:       opts.DBPing,
		seriesSvc:    opts.Series,
		summarySvc:   opts.Summary,
		cookieCodec:  opts.CookieCodec,
		cookieSecure: opts.CookieSecure,
		sessionTTL:   opts.SessionTTL,
		passcodeHash: opts.PasscodeHash,
		loginLimiter: newLoginLimiter(),
	}

	publicMux := http.NewServeMux()
	apiMux := http.NewServeMux()

	publicMux.HandleFunc("GET /healthz", api.handleHealthz)

	apiMux.HandleFunc("POST /v1/auth/login", api.handleAuthLogin)
	apiMux.HandleFunc("POST /v1/auth/logout", api.handleAuthLogout)

	apiMux.HandleFunc("GET /v1/series", api.requireAuth(api.handleSeriesGet))
	apiMux.HandleFunc("PUT /v1/series/teams", api.requireAuth(api.handleSeriesTeams))
	apiMux.HandleFunc("PUT /v1/series/players", api.requireAuth(api.handleSeriesPlayers))
	apiMux.HandleFunc("PUT /v1/series/awards", api.requireAuth(api.handleSeriesAwards))
	apiMux.HandleFunc("POST /v1/series/undo", api.requireAuth(api.handleSeriesUndo))
	apiMux.HandleFunc("POST /v1/series/sync", api.requireAuth(api.handleSeriesSync))
	apiMux.HandleFunc("POST /v1/series/archive", api.requireAuth(api.handleSeriesArchive))
	apiMux.HandleFunc("GET /v1/archives", api.requireAuth(api.handleArchivesList))
	apiMux.HandleFunc("GET /v1/archives/{id}", api.requireAuth(api.handleArchiveGet))

	apiMux.HandleFunc("POST /v1/matches", api.requireAuth(api.handleMatchesCreate))
	apiMux.HandleFunc("PUT /v1/matches/{id}", api.requireAuth(api.handleMatchesUpdate))
	apiMux.HandleFunc("DELETE /v1/matches/{id}", api.requireAuth(api.handleMatchesDelete))

	apiMux.HandleFunc("POST /v1/summary", api.requireAuth(api.handleSummaryGenerate))
	apiMux.HandleFunc("GET /v1/summary/share", api.requireAuth(api.handleSummaryShare))
	apiMux.HandleFunc("GET /v1/export", api.requireAuth(api.handleExport))

	apiHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, pattern := apiMux.Handler(r)
		if pattern == "" {
			handleV1NotFound(w, r)
			return
		}
		apiMux.ServeHTTP(w, r)
	})

	root := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/v1/") || r.URL.Path == "/v1" {
			apiHandler.ServeHTTP(w, r)
			return
		}
		publicMux.ServeHTTP(w, r)
	})

	var h http.Handler = root
	h = RequestLogger(logger)(h)
	h = RequestID()(h)
	h = Recoverer(logger, opts.IsProd)(h)
	return h
}

func handleV1NotFound(w http.ResponseWriter, _ *http.Request) {
	WriteError(w, http.StatusNotFound, "not_found", "not found")
}

type api struct {
	logger *slog.Logger
	isProd bool

	dbPing func(context.Context) error

	seriesSvc  *service.SeriesService
	summarySvc *service.SummaryService

	cookieCodec  auth.CookieCodec
	cookieSecure bool
	sessionTTL   time.Duration
	passcodeHash string

	loginLimiter *loginLimiter
}

func (a *api) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	if a.dbPing != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 1*time.Second)
		defer cancel()
		if err := a.dbPing(ctx); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("db down"))
			return
		}
	}

	_, _ = w.Write([]byte("ok"))
}
