package dashboards

import (
	"context"
	"errors"
	"net/http"

	"github.com/2beens/gymsheets/internal/numeric"
	"github.com/2beens/gymsheets/internal/pipeline"
	"github.com/2beens/gymsheets/internal/tabular"
	"github.com/2beens/gymsheets/internal/telemetry/tracing"
	"github.com/2beens/gymsheets/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=dashboards_test

type dashboardRunner interface {
	List() []Info
	Run(ctx context.Context, name string) (*pipeline.RunResult, error)
}

type ListResponse struct {
	Dashboards []Info `json:"dashboards"`
}

type RunResponse struct {
	RunID       string  `json:"runId"`
	Dashboard   string  `json:"dashboard"`
	Entries     int     `json:"entries"`
	RowsWritten int     `json:"rowsWritten"`
	Output      string  `json:"output"`
	DurationMs  float64 `json:"durationMs"`
}

type Handler struct {
	dashboards dashboardRunner
}

func NewHandler(dashboards dashboardRunner) *Handler {
	return &Handler{
		dashboards: dashboards,
	}
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.dashboards.list")
	defer span.End()

	pkg.WriteJSON(w, ListResponse{Dashboards: handler.dashboards.List()}, http.StatusOK)
}

func (handler *Handler) HandleRun(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.dashboards.run")
	defer span.End()

	name := mux.Vars(r)["name"]
	if name == "" {
		http.Error(w, "error, dashboard name empty", http.StatusBadRequest)
		return
	}
	span.SetAttributes(attribute.String("dashboard", name))

	res, err := handler.dashboards.Run(ctx, name)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			http.Error(w, "dashboard not found", http.StatusNotFound)
		case errors.Is(err, pipeline.ErrMalformedEntry),
			errors.Is(err, tabular.ErrInvalidReference),
			errors.Is(err, tabular.ErrUnsupportedShape),
			errors.Is(err, numeric.ErrInvalidNumber):
			log.Warnf("dashboard [%s] rejected sheet data: %s", name, err)
			http.Error(w, "dashboard run failed: "+err.Error(), http.StatusBadRequest)
		default:
			log.Errorf("dashboard [%s] run failed: %s", name, err)
			http.Error(w, "dashboard run failed", http.StatusInternalServerError)
		}
		return
	}

	log.Printf("dashboard [%s] run %s: %d rows -> %s", name, res.RunID, res.RowsWritten, res.Output)
	pkg.WriteJSON(w, RunResponse{
		RunID:       res.RunID,
		Dashboard:   res.Pipeline,
		Entries:     res.Entries,
		RowsWritten: res.RowsWritten,
		Output:      res.Output,
		DurationMs:  float64(res.Duration.Microseconds()) / 1000,
	}, http.StatusOK)
}
