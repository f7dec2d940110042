package estimation

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/2beens/gymsheets/internal/numeric"
	"github.com/2beens/gymsheets/internal/telemetry/tracing"
	"github.com/2beens/gymsheets/pkg"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

type EstimateResponse struct {
	E1RM float64 `json:"e1rm"`
}

type PlatesResponse struct {
	Weight  float64 `json:"weight"`
	Rounded float64 `json:"rounded"`
}

type DurationResponse struct {
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
	Seconds int `json:"seconds"`
}

type MultipointRequest struct {
	Observations []Observation `json:"observations"`
}

// HandleEstimate serves GET /estimation/e1rm?weight=&bodyweight=&reps=[&rpe=]
func (h *Handler) HandleEstimate(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.estimation.e1rm")
	defer span.End()

	query := r.URL.Query()
	var o Observation
	var err error
	if o.Weight, err = floatParam(query.Get("weight"), true); err != nil {
		http.Error(w, "invalid weight", http.StatusBadRequest)
		return
	}
	if o.Bodyweight, err = floatParam(query.Get("bodyweight"), false); err != nil {
		http.Error(w, "invalid bodyweight", http.StatusBadRequest)
		return
	}
	if o.Reps, err = floatParam(query.Get("reps"), true); err != nil {
		http.Error(w, "invalid reps", http.StatusBadRequest)
		return
	}
	if rpeStr := query.Get("rpe"); rpeStr != "" {
		rpe, err := floatParam(rpeStr, true)
		if err != nil {
			http.Error(w, "invalid rpe", http.StatusBadRequest)
			return
		}
		o.RPE = RPE(rpe)
	}

	e1rm, err := EstimateOneRM(o)
	if err != nil {
		writeEstimationError(w, err)
		return
	}

	span.SetAttributes(attribute.Float64("e1rm", e1rm))
	pkg.WriteJSON(w, EstimateResponse{E1RM: e1rm}, http.StatusOK)
}

// HandleEstimateMultipoint serves POST /estimation/e1rm/multipoint
func (h *Handler) HandleEstimateMultipoint(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.estimation.e1rm-multipoint")
	defer span.End()

	if r.Header.Get("Content-Type") != pkg.ContentType.JSON {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var req MultipointRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Errorf("multipoint estimate, unmarshal json params: %s", err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	span.SetAttributes(attribute.Int("observations", len(req.Observations)))
	e1rm, err := EstimateOneRMMultipoint(req.Observations)
	if err != nil {
		writeEstimationError(w, err)
		return
	}

	pkg.WriteJSON(w, EstimateResponse{E1RM: e1rm}, http.StatusOK)
}

// HandlePlates serves GET /estimation/plates?weight=
func (h *Handler) HandlePlates(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.estimation.plates")
	defer span.End()

	weight, err := floatParam(r.URL.Query().Get("weight"), true)
	if err != nil {
		http.Error(w, "invalid weight", http.StatusBadRequest)
		return
	}

	pkg.WriteJSON(w, PlatesResponse{
		Weight:  weight,
		Rounded: RoundToAvailablePlates(weight),
	}, http.StatusOK)
}

// HandleDuration serves GET /estimation/duration?minutes=&seconds=
func (h *Handler) HandleDuration(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.estimation.duration")
	defer span.End()

	query := r.URL.Query()
	minutes, err := strconv.Atoi(query.Get("minutes"))
	if err != nil {
		http.Error(w, "invalid minutes", http.StatusBadRequest)
		return
	}
	seconds := 0
	if s := query.Get("seconds"); s != "" {
		if seconds, err = strconv.Atoi(s); err != nil {
			http.Error(w, "invalid seconds", http.StatusBadRequest)
			return
		}
	}

	hours, mins, secs := numeric.SplitDuration(minutes, seconds)
	pkg.WriteJSON(w, DurationResponse{Hours: hours, Minutes: mins, Seconds: secs}, http.StatusOK)
}

func writeEstimationError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrInvalidInput) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	log.Errorf("estimate e1rm: %s", err)
	http.Error(w, "estimation failed", http.StatusInternalServerError)
}

func floatParam(raw string, required bool) (float64, error) {
	if raw == "" && !required {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrInvalidInput
	}
	return v, nil
}
