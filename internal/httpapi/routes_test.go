package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DoyleJ11/quiz-contest-backend/internal/engine"
	"github.com/DoyleJ11/quiz-contest-backend/internal/hub"
	"github.com/DoyleJ11/quiz-contest-backend/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	log := zaptest.NewLogger(t)
	h := hub.NewHub(ctx, hub.WithLogger(log))
	return SetupRoutes(h, Deps{Engine: engine.New(), Logger: log})
}

func do(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

type contestBody struct {
	Code    string            `json:"code"`
	Version int               `json:"version"`
	Contest types.ContestView `json:"contest"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) contestBody {
	t.Helper()
	var body contestBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func create(t *testing.T, router http.Handler) string {
	t.Helper()
	rec := do(t, router, http.MethodPost, "/contests", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	body := decode(t, rec)
	require.Len(t, body.Code, 6)
	assert.Equal(t, "landing", body.Contest.Phase)
	return body.Code
}

func TestGenerateCode(t *testing.T) {
	code, err := GenerateCode()
	require.NoError(t, err)
	assert.Regexp(t, `^[A-Z0-9]{6}$`, code)
}

func TestHealthz(t *testing.T) {
	rec := do(t, newTestRouter(t), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestContestLifecycle(t *testing.T) {
	router := newTestRouter(t)
	code := create(t, router)

	rec := do(t, router, http.MethodGet, "/contests/"+code, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, decode(t, rec).Version)

	rec = do(t, router, http.MethodPost, "/contests/"+code+"/intents", `{"type":"StartSetup"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, 1, body.Version)
	assert.Equal(t, "setup", body.Contest.Phase)

	rec = do(t, router, http.MethodPost, "/contests/"+code+"/intents", `{"type":"RenameTeam","team":1,"name":"Owls"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	body = decode(t, rec)
	assert.Equal(t, 2, body.Version)
	assert.Equal(t, "Owls", body.Contest.Teams[1].Name)

	// Rejected intents answer 200 with the version unchanged.
	rec = do(t, router, http.MethodPost, "/contests/"+code+"/intents", `{"type":"SpinWheel"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, decode(t, rec).Version)

	rec = do(t, router, http.MethodDelete, "/contests/"+code, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = do(t, router, http.MethodGet, "/contests/"+code, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = do(t, router, http.MethodDelete, "/contests/"+code, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPostIntentErrors(t *testing.T) {
	router := newTestRouter(t)
	code := create(t, router)

	cases := []struct {
		name string
		path string
		body string
		want int
	}{
		{"bad json", "/contests/" + code + "/intents", `{"type":`, http.StatusBadRequest},
		{"unknown type", "/contests/" + code + "/intents", `{"type":"Dance"}`, http.StatusBadRequest},
		{"tick from client", "/contests/" + code + "/intents", `{"type":"Tick"}`, http.StatusBadRequest},
		{"unknown contest", "/contests/NOPE00/intents", `{"type":"StartSetup"}`, http.StatusNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(t, router, http.MethodPost, tc.path, tc.body)
			assert.Equal(t, tc.want, rec.Code)
			assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
		})
	}
}

func TestBankIndex(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodGet, "/bank/ku", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var idx types.BankIndex
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &idx))
	assert.Equal(t, "ku", idx.Locale)
	assert.Len(t, idx.Round1, 25)
	assert.Equal(t, 24, idx.Round3Size)

	rec = do(t, router, http.MethodGet, "/bank/fr", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	router := newTestRouter(t)
	req := httptest.NewRequest(http.MethodOptions, "/contests", nil)
	req.Header.Set("Origin", "http://host.test")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestContestRoutesAfterHubShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	log := zaptest.NewLogger(t)
	h := hub.NewHub(ctx, hub.WithLogger(log))
	router := SetupRoutes(h, Deps{Engine: engine.New(), Logger: log})
	cancel()
	<-h.Done()

	cases := []struct {
		name   string
		method string
		path   string
		want   int
	}{
		{"delete", http.MethodDelete, "/contests/ABCDEF", http.StatusServiceUnavailable},
		{"create", http.MethodPost, "/contests", http.StatusServiceUnavailable},
		{"get", http.MethodGet, "/contests/ABCDEF", http.StatusNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := make(chan *httptest.ResponseRecorder, 1)
			go func() { got <- do(t, router, tc.method, tc.path, "") }()

			select {
			case rec := <-got:
				assert.Equal(t, tc.want, rec.Code)
			case <-time.After(2 * time.Second):
				t.Fatalf("%s %s hung after hub shutdown", tc.method, tc.path)
			}
		})
	}
}
