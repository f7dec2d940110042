package periodization

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/2beens/gymsheets/internal/estimation"
	"github.com/2beens/gymsheets/internal/tabular"
	"github.com/2beens/gymsheets/internal/telemetry/tracing"
	"github.com/2beens/gymsheets/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=periodization_test

type editProcessor interface {
	OnEdit(ctx context.Context, name string, edited tabular.Region) (Outcome, error)
}

// EditRequest is the edit event: the A1 reference of the edited range.
type EditRequest struct {
	Range string `json:"range"`
}

type EditResponse struct {
	Periodization string  `json:"periodization"`
	Outcome       Outcome `json:"outcome"`
}

type Handler struct {
	processor editProcessor
}

func NewHandler(processor editProcessor) *Handler {
	return &Handler{
		processor: processor,
	}
}

func (handler *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.periodization.edit")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	name := mux.Vars(r)["name"]
	if name == "" {
		http.Error(w, "error, periodization name empty", http.StatusBadRequest)
		return
	}

	var req EditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Errorf("periodization edit, unmarshal json params: %s", err)
		http.Error(w, "invalid edit event", http.StatusBadRequest)
		return
	}

	edited, err := tabular.ParseRegion(req.Range)
	if err != nil {
		http.Error(w, "invalid edited range: "+err.Error(), http.StatusBadRequest)
		return
	}

	outcome, err := handler.processor.OnEdit(ctx, name, edited)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			http.Error(w, "periodization not found", http.StatusNotFound)
		case errors.Is(err, estimation.ErrInvalidInput),
			errors.Is(err, tabular.ErrInvalidReference),
			errors.Is(err, tabular.ErrUnsupportedShape):
			log.Warnf("periodization [%s] rejected sheet data: %s", name, err)
			http.Error(w, "recompute failed: "+err.Error(), http.StatusBadRequest)
		default:
			log.Errorf("periodization [%s] edit of %s failed: %s", name, edited, err)
			http.Error(w, "recompute failed", http.StatusInternalServerError)
		}
		return
	}

	pkg.WriteJSON(w, EditResponse{
		Periodization: name,
		Outcome:       outcome,
	}, http.StatusOK)
}
