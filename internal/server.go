package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"

	"github.com/2beens/gymsheets/internal/app"
	"github.com/2beens/gymsheets/internal/config"
	"github.com/2beens/gymsheets/internal/dashboards"
	"github.com/2beens/gymsheets/internal/estimation"
	"github.com/2beens/gymsheets/internal/middleware"
	"github.com/2beens/gymsheets/internal/periodization"
	"github.com/2beens/gymsheets/internal/telemetry/metrics"
	"github.com/2beens/gymsheets/internal/telemetry/tracing"
	"github.com/2beens/gymsheets/pkg"
)

const maxRequestBodyBytes = 1 << 20

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	editSecret        string // shared with the spreadsheet webhook and the CLI
	versionInfo       string

	config *config.Config
	app    *app.App

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	EditSecret              string
	VersionInfo             string
	GoogleCredentialsFile   string
	RedisPassword           string
	PostgresPassword        string
	HoneycombTracingEnabled bool
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, "gymsheets-service")
	if err != nil {
		return nil, err
	}

	a, err := app.New(ctx, app.Params{
		Config:                params.Config,
		Subsystem:             "service",
		GoogleCredentialsFile: params.GoogleCredentialsFile,
		RedisPassword:         params.RedisPassword,
		PostgresPassword:      params.PostgresPassword,
		TracingEnabled:        params.HoneycombTracingEnabled,
	})
	if err != nil {
		otelShutdown()
		return nil, fmt.Errorf("setup app: %w", err)
	}
	if a.Workbook != nil {
		// no operator around to save the workbook
		a.Workbook.SetAutoSave(true)
	}

	a.Metrics.GaugeLifeSignal.Set(0) // set to 1 once both servers are listening

	return newServer(a, params.EditSecret, params.VersionInfo, otelShutdown), nil
}

func newServer(a *app.App, editSecret, versionInfo string, otelShutdown func()) *Server {
	if otelShutdown == nil {
		otelShutdown = func() {}
	}
	return &Server{
		editSecret:     editSecret,
		versionInfo:    versionInfo,
		config:         a.Config,
		app:            a,
		metricsManager: a.Metrics,
		promRegistry:   a.MetricsRegistry,
		otelShutdown:   otelShutdown,
	}
}

func (s *Server) routerSetup() (*mux.Router, error) {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("main-router"))

	requireSecret := middleware.RequireSecret(s.editSecret)

	estimationHandler := estimation.NewHandler()
	r.HandleFunc("/estimation/e1rm", estimationHandler.HandleEstimate).Methods("GET", "OPTIONS").Name("estimate-e1rm")
	r.HandleFunc("/estimation/e1rm/multipoint", estimationHandler.HandleEstimateMultipoint).Methods("POST", "OPTIONS").Name("estimate-e1rm-multipoint")
	r.HandleFunc("/estimation/plates", estimationHandler.HandlePlates).Methods("GET", "OPTIONS").Name("round-plates")
	r.HandleFunc("/estimation/duration", estimationHandler.HandleDuration).Methods("GET", "OPTIONS").Name("split-duration")

	dashboardsHandler := dashboards.NewHandler(s.app.Dashboards)
	r.HandleFunc("/dashboards", dashboardsHandler.HandleList).Methods("GET", "OPTIONS").Name("list-dashboards")
	r.Handle("/dashboards/{name}/run", requireSecret(http.HandlerFunc(dashboardsHandler.HandleRun))).
		Methods("POST", "OPTIONS").Name("run-dashboard")

	var editHandler http.Handler = requireSecret(http.HandlerFunc(
		periodization.NewHandler(s.app.Periodizations).HandleEdit,
	))
	if s.app.RedisClient != nil && s.config.EditRateLimitAllowedPerMin > 0 {
		editHandler = middleware.RateLimit(
			redis_rate.NewLimiter(s.app.RedisClient),
			s.metricsManager,
			"periodization-edit",
			s.config.EditRateLimitAllowedPerMin,
		)(editHandler)
	} else {
		log.Warnln("edit events are not rate limited")
	}
	r.Handle("/periodizations/{name}/edit", editHandler).Methods("POST", "OPTIONS").Name("periodization-edit")

	r.HandleFunc("/version", s.handleVersion).Methods("GET", "OPTIONS").Name("version")
	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		pkg.WriteText(w, "I'm OK, thanks ;)", http.StatusOK)
	}).Methods("GET", "OPTIONS").Name("health")

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "OPTIONS").Name("unknown")

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors(s.config.AllowedOrigins))
	r.Use(middleware.BoundedBody(maxRequestBodyBytes))

	return r, nil
}

type versionResponse struct {
	Version        string   `json:"version"`
	Environment    string   `json:"environment"`
	Backend        string   `json:"backend"`
	Memo           string   `json:"memo"`
	Periodizations []string `json:"periodizations"`
}

func (s *Server) handleVersion(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteJSON(w, versionResponse{
		Version:        s.versionInfo,
		Environment:    s.config.Environment,
		Backend:        s.config.Backend.Kind,
		Memo:           s.config.Memo.Kind,
		Periodizations: s.app.Periodizations.Names(),
	}, http.StatusOK)
}

func (s *Server) Serve(host string, port int) {
	router, err := s.routerSetup()
	if err != nil {
		log.Fatalf("failed to setup router: %s", err)
	}

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      router,
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
		ConnState:    s.connStateMetrics,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.InstrumentMetricHandler(
		s.promRegistry,
		promhttp.HandlerFor(s.promRegistry, promhttp.HandlerOpts{}),
	))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:              metricsAddr,
		Handler:           metricsRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main service, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	// stop taking edits before the stores go away
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown http server")
		}
		log.Warnln("server shut down")
	}

	s.otelShutdown()
	log.Trace("otel shut down ...")

	if err := s.app.Close(); err != nil {
		log.Errorf("failed to close app resources: %s", err)
	}

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}

	if s.metricsHttpServer != nil {
		if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown metrics http server")
		}
		log.Warnln("metrics server shut down")
	}
}

func (s *Server) connStateMetrics(_ net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		s.metricsManager.GaugeRequests.Add(1)
	case http.StateClosed:
		s.metricsManager.GaugeRequests.Add(-1)
	}
}
