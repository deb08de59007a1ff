package httpgin

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/venuebook/bookgo/internal/repository"
	"github.com/venuebook/bookgo/internal/service"
	"github.com/venuebook/bookgo/internal/service/draft"
	"github.com/venuebook/bookgo/internal/service/flow"
	"github.com/venuebook/bookgo/internal/service/pricing"
)

type memDurable struct {
	payloads    map[string][]byte
	attachments map[string][]byte
}

func newMemDurable() *memDurable {
	return &memDurable{payloads: map[string][]byte{}, attachments: map[string][]byte{}}
}

func (m *memDurable) SaveDraftBundle(_ context.Context, userID string, payload, attachment []byte) error {
	m.payloads[userID] = payload
	if attachment != nil {
		m.attachments[userID] = attachment
	}
	return nil
}

func (m *memDurable) LoadDraftBundle(_ context.Context, userID string) ([]byte, []byte, error) {
	p, ok := m.payloads[userID]
	if !ok {
		return nil, nil, repository.ErrNotFound
	}
	return p, m.attachments[userID], nil
}

func (m *memDurable) ClearDraftBundle(_ context.Context, userID string) error {
	delete(m.payloads, userID)
	delete(m.attachments, userID)
	return nil
}

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	pricingSvc := pricing.New()
	draftSvc := draft.New(newMemDurable(), nil, logger)

	svcs := &service.Services{
		Pricing: pricingSvc,
		Drafts:  draftSvc,
		Flow:    flow.New(pricingSvc, draftSvc),
	}

	return NewRouter(svcs, nil, nil, logger)
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	w := doJSON(t, newTestRouter(), http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestQuote_OverrideWins(t *testing.T) {
	body := `{
		"duration_hours": 3,
		"hourly_rate": 1000,
		"overrides": {"by_duration_key": {"3h": 2500}}
	}`

	w := doJSON(t, newTestRouter(), http.MethodPost, "/pricing/quote", body, nil)

	require.Equal(t, http.StatusOK, w.Code)

	var resp QuoteResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(2500), resp.Price)
}

func TestQuote_NullOverrideFallsThrough(t *testing.T) {
	body := `{
		"duration_hours": 3,
		"hourly_rate": 1000,
		"overrides": {"by_duration_key": {"3h": null}}
	}`

	w := doJSON(t, newTestRouter(), http.MethodPost, "/pricing/quote", body, nil)

	require.Equal(t, http.StatusOK, w.Code)

	var resp QuoteResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(3000), resp.Price)
}

func TestAddons_Aggregation(t *testing.T) {
	body := `{
		"selections": [
			{"name": "Chairs", "category": "furniture", "quantity": 10, "unit_price": 10},
			{"name": "Chairs", "category": "furniture", "quantity": 5, "unit_price": 10}
		]
	}`

	w := doJSON(t, newTestRouter(), http.MethodPost, "/pricing/addons", body, nil)

	require.Equal(t, http.StatusOK, w.Code)

	var resp AddonsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(150), resp.GrandTotal)
	assert.Len(t, resp.Items, 2)
	require.Len(t, resp.ByName, 1)
	assert.Equal(t, int64(15), resp.ByName[0].Qty)
}

func TestCommit_MissingUserID(t *testing.T) {
	w := doJSON(t, newTestRouter(), http.MethodPost, "/bookings/commit", `{"space_id":"s1"}`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCommit_ValidationReportsFirstField(t *testing.T) {
	body := `{"space_id": "s1", "guests": 5}`

	w := doJSON(t, newTestRouter(), http.MethodPost, "/bookings/commit", body,
		map[string]string{"X-User-ID": "u1"})

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "date", resp.Field)
}

func TestCommitThenResume(t *testing.T) {
	r := newTestRouter()
	headers := map[string]string{"X-User-ID": "u1"}

	body := `{
		"space_id": "s1",
		"event_type": "birthday",
		"selection": {"date": "2025-06-01", "time": "14:00", "duration_hours": 3},
		"guests": 20,
		"hourly_rate": 1000,
		"authenticated": false
	}`

	w := doJSON(t, r, http.MethodPost, "/bookings/commit", body, headers)
	require.Equal(t, http.StatusOK, w.Code)

	var commitResp CommitResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &commitResp))
	assert.Equal(t, string(flow.StateAwaitingAuth), commitResp.State)

	// The draft survived the interruption.
	w = doJSON(t, r, http.MethodGet, "/bookings/draft", "", headers)
	require.Equal(t, http.StatusOK, w.Code)

	// Resume hands off to payment and consumes the draft.
	w = doJSON(t, r, http.MethodPost, "/bookings/resume", "", headers)
	require.Equal(t, http.StatusOK, w.Code)

	var resumeResp CommitResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resumeResp))
	assert.Equal(t, string(flow.StatePaymentHandoff), resumeResp.State)
	require.NotNil(t, resumeResp.Draft)
	assert.Equal(t, int64(3000), resumeResp.Draft.BaseAmount)

	w = doJSON(t, r, http.MethodPost, "/bookings/resume", "", headers)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestClearDraft_NoContent(t *testing.T) {
	w := doJSON(t, newTestRouter(), http.MethodDelete, "/bookings/draft", "",
		map[string]string{"X-User-ID": "u1"})
	assert.Equal(t, http.StatusNoContent, w.Code)
}
