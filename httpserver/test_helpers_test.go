package httpserver_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"moviecatalog/httpserver"
	"moviecatalog/pkg/config"
	pkgjwt "moviecatalog/pkg/jwt"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-jwt-secret"

var testUserID = uuid.MustParse("7f1d6f0e-5c8a-4b4e-9a3c-2f1e0d9c8b7a")

type apiResponse struct {
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Result  json.RawMessage `json:"result"`
	Info    string          `json:"info"`
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Auth.JWTSecret = testJWTSecret
	cfg.Movies.MaxPageSize = 25
	cfg.Movies.DefaultPageSize = 10
	return cfg
}

func signTestToken(t testing.TB) string {
	t.Helper()
	token, err := pkgjwt.NewJWTProvider(testJWTSecret, time.Hour).GenerateAccessToken(testUserID, "tester@example.com")
	require.NoError(t, err)
	return token
}

func authHeader(t testing.TB) map[string]string {
	return map[string]string{"Authorization": "Bearer " + signTestToken(t)}
}

func makeJSONRequest(server *httpserver.Server, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	rec := httptest.NewRecorder()
	server.Router.ServeHTTP(rec, req)
	return rec
}

func decodeAPIResponse(t testing.TB, rec *httptest.ResponseRecorder) apiResponse {
	t.Helper()
	var resp apiResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), "body: %s", rec.Body.String())
	return resp
}

// decodeAPIResult decodes the result field of a successful response into v.
func decodeAPIResult(t testing.TB, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	resp := decodeAPIResponse(t, rec)
	require.NotEmpty(t, resp.Result, "no result in body: %s", rec.Body.String())
	require.NoError(t, json.Unmarshal(resp.Result, v))
}

type pagedBody[T any] struct {
	Data        []T   `json:"data"`
	Page        int   `json:"page"`
	PageSize    int   `json:"pageSize"`
	Total       int64 `json:"total"`
	HasNextPage bool  `json:"hasNextPage"`
}

type listBody[T any] struct {
	Data []T `json:"data"`
}

func requireStatus(t testing.TB, rec *httptest.ResponseRecorder, status int) {
	t.Helper()
	require.Equal(t, status, rec.Code, "%s %s", http.StatusText(rec.Code), rec.Body.String())
}
