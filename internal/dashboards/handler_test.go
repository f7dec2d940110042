package dashboards_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/2beens/gymsheets/internal/dashboards"
	"github.com/2beens/gymsheets/internal/pipeline"
	"github.com/2beens/gymsheets/internal/tabular"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestHandler_HandleList(t *testing.T) {
	ctrl := gomock.NewController(t)
	runnerMock := NewMockdashboardRunner(ctrl)
	h := dashboards.NewHandler(runnerMock)

	runnerMock.EXPECT().List().Return([]dashboards.Info{
		{Name: "squat", Variant: dashboards.VariantTimedStrength, Output: "dash!A2:J40"},
	}).Times(1)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/dashboards", nil)
	h.HandleList(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp dashboards.ListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Dashboards, 1)
	assert.Equal(t, "squat", resp.Dashboards[0].Name)
}

func TestHandler_HandleRun(t *testing.T) {
	ctrl := gomock.NewController(t)
	runnerMock := NewMockdashboardRunner(ctrl)
	h := dashboards.NewHandler(runnerMock)

	r := mux.NewRouter()
	r.HandleFunc("/dashboards/{name}/run", h.HandleRun).Methods("POST")

	runnerMock.EXPECT().Run(gomock.Any(), "squat").Return(&pipeline.RunResult{
		RunID:       "run-1",
		Pipeline:    "squat",
		Entries:     4,
		RowsWritten: 10,
		Output:      "dash!A2:J40",
		Duration:    1500 * time.Microsecond,
	}, nil).Times(1)
	runnerMock.EXPECT().Run(gomock.Any(), "deadlift").
		Return(nil, fmt.Errorf("deadlift: %w", dashboards.ErrNotFound)).Times(1)
	runnerMock.EXPECT().Run(gomock.Any(), "bench").
		Return(nil, fmt.Errorf("parse: %w", pipeline.ErrMalformedEntry)).Times(1)
	runnerMock.EXPECT().Run(gomock.Any(), "row").
		Return(nil, fmt.Errorf("set values: %w", tabular.ErrMissingCollaborator)).Times(1)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/dashboards/squat/run", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var resp dashboards.RunResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, dashboards.RunResponse{
		RunID:       "run-1",
		Dashboard:   "squat",
		Entries:     4,
		RowsWritten: 10,
		Output:      "dash!A2:J40",
		DurationMs:  1.5,
	}, resp)

	for name, code := range map[string]int{
		"deadlift": http.StatusNotFound,
		"bench":    http.StatusBadRequest,
		"row":      http.StatusInternalServerError,
	} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/dashboards/"+name+"/run", nil))
		assert.Equal(t, code, rec.Code, name)
	}
}
