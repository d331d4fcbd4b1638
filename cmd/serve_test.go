package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OsamaMoftah/AiResearcher/internal/model"
	"github.com/OsamaMoftah/AiResearcher/internal/store"
)

// stubStore is an in-memory Store for handler tests.
type stubStore struct {
	runs    map[string]*model.Run
	created []*model.Run
	listErr error
}

func newStubStore() *stubStore {
	return &stubStore{runs: map[string]*model.Run{}}
}

func (s *stubStore) CreateRun(_ context.Context, topic string, sources []string, numPapers int) (*model.Run, error) {
	run := &model.Run{
		ID:        uuid.New().String(),
		Topic:     topic,
		Sources:   sources,
		NumPapers: numPapers,
		Status:    model.RunQueued,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	s.runs[run.ID] = run
	s.created = append(s.created, run)
	return run, nil
}

func (s *stubStore) UpdateRunStatus(_ context.Context, runID string, status model.RunStatus) error {
	run, ok := s.runs[runID]
	if !ok {
		return eris.Errorf("run not found: %s", runID)
	}
	run.Status = status
	return nil
}

func (s *stubStore) UpdateRunResult(_ context.Context, runID string, result *model.RunResult) error {
	run, ok := s.runs[runID]
	if !ok {
		return eris.Errorf("run not found: %s", runID)
	}
	run.Status = model.RunComplete
	run.Result = result
	return nil
}

func (s *stubStore) FailRun(_ context.Context, runID string, message string) error {
	run, ok := s.runs[runID]
	if !ok {
		return eris.Errorf("run not found: %s", runID)
	}
	run.Status = model.RunFailed
	run.Error = message
	return nil
}

func (s *stubStore) GetRun(_ context.Context, runID string) (*model.Run, error) {
	run, ok := s.runs[runID]
	if !ok {
		return nil, eris.New("run not found")
	}
	return run, nil
}

func (s *stubStore) ListRuns(_ context.Context, filter store.RunFilter) ([]model.Run, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	var runs []model.Run
	for _, r := range s.runs {
		if filter.Status != "" && r.Status != filter.Status {
			continue
		}
		if filter.Topic != "" && r.Topic != filter.Topic {
			continue
		}
		runs = append(runs, *r)
	}
	return runs, nil
}

func (s *stubStore) Migrate(context.Context) error { return nil }
func (s *stubStore) Close() error                  { return nil }

func newTestRouter(st store.Store, launch runLauncher) http.Handler {
	if launch == nil {
		launch = func(*model.Run) {}
	}
	return newRouter(st, apiDefaults{NumPapers: 5, Sources: []string{"arxiv", "pwc"}}, launch)
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(newStubStore(), nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestCreateResearchRun(t *testing.T) {
	st := newStubStore()
	var launched []*model.Run
	router := newTestRouter(st, func(run *model.Run) { launched = append(launched, run) })

	body := strings.NewReader(`{"topic":"sparse attention"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/research", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusAccepted, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["run_id"])
	assert.Equal(t, "queued", resp["status"])

	require.Len(t, st.created, 1)
	assert.Equal(t, "sparse attention", st.created[0].Topic)
	assert.Equal(t, 5, st.created[0].NumPapers)
	assert.Equal(t, []string{"arxiv", "pwc"}, st.created[0].Sources)

	require.Len(t, launched, 1)
	assert.Equal(t, resp["run_id"], launched[0].ID)
}

func TestCreateResearchRun_Overrides(t *testing.T) {
	st := newStubStore()
	router := newTestRouter(st, nil)

	body := strings.NewReader(`{"topic":"protein folding","num_papers":20,"sources":["pubmed","biorxiv"]}`)
	req := httptest.NewRequest(http.MethodPost, "/api/research", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusAccepted, rec.Code)
	require.Len(t, st.created, 1)
	assert.Equal(t, 20, st.created[0].NumPapers)
	assert.Equal(t, []string{"pubmed", "biorxiv"}, st.created[0].Sources)
}

func TestCreateResearchRun_MissingTopic(t *testing.T) {
	router := newTestRouter(newStubStore(), nil)

	req := httptest.NewRequest(http.MethodPost, "/api/research", strings.NewReader(`{"topic":"  "}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "topic is required")
}

func TestCreateResearchRun_InvalidBody(t *testing.T) {
	router := newTestRouter(newStubStore(), nil)

	req := httptest.NewRequest(http.MethodPost, "/api/research", strings.NewReader(`not json`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid request body")
}

func TestListRunsEndpoint(t *testing.T) {
	st := newStubStore()
	run, err := st.CreateRun(context.Background(), "graph neural networks", []string{"arxiv"}, 5)
	require.NoError(t, err)
	require.NoError(t, st.UpdateRunResult(context.Background(), run.ID, &model.RunResult{PapersFound: 4}))

	router := newTestRouter(st, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/runs?status=complete", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var runs []model.Run
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &runs))
	require.Len(t, runs, 1)
	assert.Equal(t, run.ID, runs[0].ID)
}

func TestListRunsEndpoint_Empty(t *testing.T) {
	router := newTestRouter(newStubStore(), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/runs", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]\n", rec.Body.String())
}

func TestGetRunEndpoint(t *testing.T) {
	st := newStubStore()
	run, err := st.CreateRun(context.Background(), "sparse attention", []string{"arxiv"}, 5)
	require.NoError(t, err)

	router := newTestRouter(st, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/runs/"+run.ID, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var got model.Run
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, run.Topic, got.Topic)
}

func TestGetRunEndpoint_NotFound(t *testing.T) {
	router := newTestRouter(newStubStore(), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/runs/nope", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
