package query

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"datamilo/classifier"
	"datamilo/database"
	"datamilo/insights"
	"datamilo/logger"
	"datamilo/services"
)

type failingAsker struct{}

func (failingAsker) Ask(context.Context, string) (*services.Answer, error) {
	return nil, database.ErrQueryExecutionFailed
}

func newTestServer(t *testing.T, asker Asker) *httptest.Server {
	t.Helper()
	log := logger.NewTestLogger(t)

	if asker == nil {
		store, err := database.Open(context.Background(), database.Options{Driver: "sqlite"}, log)
		require.NoError(t, err)
		t.Cleanup(func() { store.Close() })

		asker = services.NewAssistant(
			services.NewTemplateRouter(classifier.New()),
			store,
			services.NewRuleInsighter(insights.NewGenerator(insights.DefaultThresholds())),
			services.RuleCharter{},
			log,
		)
	}

	metrics := NewMetrics()
	srv := httptest.NewServer(NewRouter(NewHandler(asker, metrics, log), metrics))
	t.Cleanup(srv.Close)
	return srv
}

func postPrompt(t *testing.T, srv *httptest.Server, body string) (*http.Response, map[string]interface{}) {
	t.Helper()
	resp, err := http.Post(srv.URL+"/generate-query", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp, out
}

func TestGenerateQuery_TopCustomers(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, out := postPrompt(t, srv, `{"prompt": "Who are my best customers?"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.NotEmpty(t, resp.Header.Get(RequestIDHeader))
	assert.Equal(t, resp.Header.Get(RequestIDHeader), out["request_id"])

	assert.Equal(t, "top_customers", out["template"])
	assert.Equal(t, "top customers", out["category"])
	assert.Equal(t, services.SourceTemplate, out["source"])
	assert.Equal(t, classifier.TopCustomers.SQL, out["sql"])

	data := out["data"].([]interface{})
	require.Len(t, data, 3)
	assert.Equal(t, "Ervin Howell", data[0].(map[string]interface{})["name"])

	ins := out["insights"].([]interface{})
	first := ins[0].(map[string]interface{})
	assert.Equal(t, "observation", first["kind"])
	assert.Contains(t, first["text"], "REVENUE CONCENTRATION")

	assert.Equal(t, "bar", out["chartJSConfig"].(map[string]interface{})["type"])
	assert.Equal(t, "y", out["options"].(map[string]interface{})["indexAxis"])
	assert.NotContains(t, out, "error")
}

func TestGenerateQuery_Comprehensive(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, out := postPrompt(t, srv, `{"prompt": "show me everything"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "comprehensive_analysis", out["template"])
	assert.NotContains(t, out, "data")

	sections := out["sections"].([]interface{})
	require.Len(t, sections, 4)
	assert.Equal(t, "sales_summary", sections[0].(map[string]interface{})["template"])
	assert.Equal(t, "category_breakdown", sections[3].(map[string]interface{})["template"])
}

func TestGenerateQuery_RequestIDPassthrough(t *testing.T) {
	srv := newTestServer(t, nil)

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/generate-query", strings.NewReader(`{"prompt":"overview"}`))
	require.NoError(t, err)
	req.Header.Set(RequestIDHeader, "req-42")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "req-42", resp.Header.Get(RequestIDHeader))
}

func TestGenerateQuery_BadRequests(t *testing.T) {
	srv := newTestServer(t, nil)

	tests := []struct {
		name string
		body string
		want string
	}{
		{"invalid json", `{"prompt":`, "invalid request body"},
		{"missing prompt", `{}`, "prompt is required"},
		{"blank prompt", `{"prompt": "   "}`, "prompt is required"},
		{"too long", `{"prompt": "` + strings.Repeat("a", 1001) + `"}`, "prompt is too long"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, out := postPrompt(t, srv, tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, tt.want, out["error"])
		})
	}
}

func TestGenerateQuery_MethodNotAllowed(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, err := http.Get(srv.URL + "/generate-query")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Contains(t, out["error"], "not allowed")
}

func TestGenerateQuery_ExecutionError(t *testing.T) {
	srv := newTestServer(t, failingAsker{})

	resp, out := postPrompt(t, srv, `{"prompt": "sales summary"}`)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "error executing query", out["error"])
	assert.NotContains(t, out, "data")
}

func TestTemplatesAndHealth(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, err := http.Get(srv.URL + "/templates")
	require.NoError(t, err)
	var templates struct {
		Templates []classifier.Template `json:"templates"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&templates))
	resp.Body.Close()
	assert.Len(t, templates.Templates, len(classifier.Templates()))

	resp, err = http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t, nil)
	postPrompt(t, srv, `{"prompt": "product performance"}`)

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), `datamilo_questions_total{source="template",template="product_performance"} 1`)
	assert.Contains(t, string(body), "http_request_duration_seconds")
}

func TestNewServer_CORS(t *testing.T) {
	metrics := NewMetrics()
	router := NewRouter(NewHandler(failingAsker{}, metrics, logger.NewNoOpLogger()), metrics)
	server := NewServer(":0", []string{"https://dash.example.com"}, router, false)

	req := httptest.NewRequest(http.MethodOptions, "/generate-query", nil)
	req.Header.Set("Origin", "https://dash.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)

	assert.Equal(t, "https://dash.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
}
