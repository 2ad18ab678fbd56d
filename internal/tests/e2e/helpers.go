package e2e

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/DanielPopoola/gulfpay/internal/interfaces/rest/middleware"
	"github.com/stretchr/testify/require"
)

// TestClient wraps HTTP calls to the gateway. Redirects are not followed so
// callback responses can be inspected.
type TestClient struct {
	baseURL    string
	secret     string
	httpClient *http.Client
}

func NewTestClient(baseURL, secret string) *TestClient {
	return &TestClient{
		baseURL: baseURL,
		secret:  secret,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

type Response struct {
	Status   int
	Location string
	Body     map[string]any
}

func (c *TestClient) do(t *testing.T, req *http.Request) *Response {
	t.Helper()

	resp, err := c.httpClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	out := &Response{Status: resp.StatusCode, Location: resp.Header.Get("Location")}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out.Body), "body: %s", raw)
	}
	return out
}

// SendWebhook posts payload signed with the client's secret.
func (c *TestClient) SendWebhook(t *testing.T, payload map[string]any) *Response {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	return c.SendRawWebhook(t, body, middleware.Sign(c.secret, time.Now(), body))
}

func (c *TestClient) SendRawWebhook(t *testing.T, body []byte, signature string) *Response {
	t.Helper()

	req, err := http.NewRequest(http.MethodPost, c.baseURL+"/webhooks", bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if signature != "" {
		req.Header.Set(middleware.SignatureHeader, signature)
	}
	return c.do(t, req)
}

func (c *TestClient) Callback(t *testing.T, chargeID, redirectURL string) *Response {
	t.Helper()

	q := url.Values{"tap_id": {chargeID}}
	if redirectURL != "" {
		q.Set("redirect_url", redirectURL)
	}

	req, err := http.NewRequest(http.MethodGet, c.baseURL+"/payments/callback?"+q.Encode(), nil)
	require.NoError(t, err)
	return c.do(t, req)
}

// Upstream fakes the payment API's charge retrieval.
type Upstream struct {
	mu        sync.Mutex
	responses map[string]upstreamResponse
	auth      []string
}

type upstreamResponse struct {
	status int
	body   any
}

func NewUpstream() *Upstream {
	return &Upstream{responses: map[string]upstreamResponse{}}
}

func (u *Upstream) SetCharge(id string, status int, body any) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.responses[id] = upstreamResponse{status: status, body: body}
}

func (u *Upstream) AuthHeaders() []string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]string(nil), u.auth...)
}

func (u *Upstream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	u.mu.Lock()
	u.auth = append(u.auth, r.Header.Get("Authorization"))
	resp, ok := u.responses[r.PathValue("id")]
	u.mu.Unlock()

	if !ok {
		resp = upstreamResponse{
			status: http.StatusNotFound,
			body:   map[string]any{"message": "Charge not found"},
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.status)
	_ = json.NewEncoder(w).Encode(resp.body)
}
