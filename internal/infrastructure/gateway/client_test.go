package gateway_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/DanielPopoola/gulfpay/internal/config"
	"github.com/DanielPopoola/gulfpay/internal/domain"
	"github.com/DanielPopoola/gulfpay/internal/infrastructure/gateway"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*gateway.Client, *int32) {
	t.Helper()

	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	client, err := gateway.NewClient(config.ClientConfig{
		SecretKey:       "sk_test_XKokBfNWv6FIYuTMg5sLPjhJ",
		BaseURL:         server.URL + "/v2/",
		DefaultCurrency: "KWD",
		Timeout:         5,
		ConnectTimeout:  1,
	})
	require.NoError(t, err)

	return client, &hits
}

func respond(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}
}

func TestNewClient_BlankSecretKey(t *testing.T) {
	for _, key := range []string{"", "   "} {
		client, err := gateway.NewClient(config.ClientConfig{SecretKey: key})

		assert.Nil(t, client)
		var cfgErr *domain.ConfigurationError
		require.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, "client.secret_key", cfgErr.Field)
	}
}

func TestClient_SendsAuthAndJSON(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer sk_test_XKokBfNWv6FIYuTMg5sLPjhJ", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v2/customers", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Mona", body["first_name"])

		respond(http.StatusOK, `{"id":"cus_1","object":"customer"}`)(w, r)
	})

	result, err := client.Post(context.Background(), "/customers", map[string]any{"first_name": "Mona"})

	require.NoError(t, err)
	assert.Equal(t, "cus_1", result["id"])
}

func TestClient_GetEncodesQuery(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		assert.Empty(t, r.Header.Get("Content-Type"))
		respond(http.StatusOK, `{"charges":[]}`)(w, r)
	})

	_, err := client.Get(context.Background(), "charges", map[string][]string{"limit": {"5"}})

	require.NoError(t, err)
}

func TestClient_Success(t *testing.T) {
	t.Run("empty body decodes to empty map", func(t *testing.T) {
		client, _ := newTestClient(t, respond(http.StatusNoContent, ""))

		result, err := client.Delete(context.Background(), "customers/cus_1")

		require.NoError(t, err)
		assert.NotNil(t, result)
		assert.Empty(t, result)
	})

	t.Run("numbers keep their precision", func(t *testing.T) {
		client, _ := newTestClient(t, respond(http.StatusOK, `{"amount":12.345}`))

		result, err := client.Put(context.Background(), "charges/chg_1", map[string]any{})

		require.NoError(t, err)
		assert.Equal(t, json.Number("12.345"), result["amount"])
	})

	t.Run("malformed JSON is an api error with status zero", func(t *testing.T) {
		client, _ := newTestClient(t, respond(http.StatusOK, `{"id":`))

		_, err := client.Get(context.Background(), "charges/chg_1", nil)

		apiErr, ok := gateway.AsAPIError(err)
		require.True(t, ok)
		assert.Equal(t, gateway.KindAPI, apiErr.Kind)
		assert.Equal(t, 0, apiErr.StatusCode)
		assert.Contains(t, apiErr.Message, "Invalid JSON response")
	})
}

func TestClient_ErrorClassification(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		kind       gateway.ErrorKind
		wantStatus int
		message    string
		errs       []any
	}{
		{
			name:       "401 ignores body",
			status:     http.StatusUnauthorized,
			body:       `<html>nope</html>`,
			kind:       gateway.KindAuthentication,
			wantStatus: 401,
			message:    "Authentication failed: invalid or missing secret key",
			errs:       []any{},
		},
		{
			name:       "401 ignores upstream message",
			status:     http.StatusUnauthorized,
			body:       `{"message":"key expired"}`,
			kind:       gateway.KindAuthentication,
			wantStatus: 401,
			message:    "Authentication failed: invalid or missing secret key",
			errs:       []any{},
		},
		{
			name:       "422 carries message and errors",
			status:     http.StatusUnprocessableEntity,
			body:       `{"message":"bad field","errors":["x"]}`,
			kind:       gateway.KindInvalidRequest,
			wantStatus: 422,
			message:    "bad field",
			errs:       []any{"x"},
		},
		{
			name:       "400 falls back to error field",
			status:     http.StatusBadRequest,
			body:       `{"error":"invalid currency"}`,
			kind:       gateway.KindInvalidRequest,
			wantStatus: 400,
			message:    "invalid currency",
			errs:       []any{},
		},
		{
			name:       "other 4xx is generic",
			status:     http.StatusNotFound,
			body:       `{}`,
			kind:       gateway.KindAPI,
			wantStatus: 404,
			message:    "Unknown API error",
			errs:       []any{},
		},
		{
			name:       "500 with JSON body",
			status:     http.StatusInternalServerError,
			body:       `{"message":"boom","errors":[{"code":"1108"}]}`,
			kind:       gateway.KindAPI,
			wantStatus: 500,
			message:    "boom",
			errs:       []any{map[string]any{"code": "1108"}},
		},
		{
			name:       "500 with any body",
			status:     http.StatusInternalServerError,
			body:       `upstream exploded`,
			kind:       gateway.KindAPI,
			wantStatus: 500,
			message:    "Unknown API error",
			errs:       []any{},
		},
		{
			name:       "503 empty body",
			status:     http.StatusServiceUnavailable,
			body:       ``,
			kind:       gateway.KindAPI,
			wantStatus: 503,
			message:    "Unknown API error",
			errs:       []any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, hits := newTestClient(t, respond(tt.status, tt.body))

			result, err := client.Get(context.Background(), "charges/chg_1", nil)

			assert.Nil(t, result)
			apiErr, ok := gateway.AsAPIError(err)
			require.True(t, ok)
			assert.Equal(t, tt.kind, apiErr.Kind)
			assert.Equal(t, tt.wantStatus, apiErr.StatusCode)
			assert.Equal(t, tt.message, apiErr.Message)
			assert.Equal(t, tt.errs, apiErr.Errors)
			assert.Equal(t, int32(1), atomic.LoadInt32(hits), "exactly one attempt")
		})
	}
}

func TestClient_MalformedClientErrorBody(t *testing.T) {
	client, _ := newTestClient(t, respond(http.StatusBadRequest, `not json`))

	_, err := client.Get(context.Background(), "charges/chg_1", nil)

	apiErr, ok := gateway.AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, gateway.KindAPI, apiErr.Kind)
	assert.Equal(t, 0, apiErr.StatusCode)
}

func TestClient_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	baseURL := server.URL
	server.Close()

	client, err := gateway.NewClient(config.ClientConfig{SecretKey: "sk_test", BaseURL: baseURL})
	require.NoError(t, err)

	_, err = client.Get(context.Background(), "charges/chg_1", nil)

	require.Error(t, err)
	assert.True(t, gateway.IsNetwork(err))
	apiErr, _ := gateway.AsAPIError(err)
	assert.Equal(t, 0, apiErr.StatusCode)
	assert.Contains(t, apiErr.Message, "Network error: ")
	assert.NotNil(t, errors.Unwrap(err))
}

func TestErrorHelpers(t *testing.T) {
	authErr := &gateway.APIError{Kind: gateway.KindAuthentication}
	wrapped := errors.Join(errors.New("context"), authErr)

	assert.True(t, gateway.IsAuthentication(wrapped))
	assert.False(t, gateway.IsInvalidRequest(wrapped))
	assert.False(t, gateway.IsNetwork(errors.New("plain")))
}
