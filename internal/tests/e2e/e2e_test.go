package e2e

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/DanielPopoola/gulfpay/internal/application/events"
	"github.com/DanielPopoola/gulfpay/internal/application/services"
	"github.com/DanielPopoola/gulfpay/internal/application/services/testhelpers"
	"github.com/DanielPopoola/gulfpay/internal/config"
	"github.com/DanielPopoola/gulfpay/internal/domain"
	"github.com/DanielPopoola/gulfpay/internal/infrastructure/gateway"
	"github.com/DanielPopoola/gulfpay/internal/infrastructure/persistence/postgres"
	"github.com/DanielPopoola/gulfpay/internal/interfaces/rest/handlers"
	"github.com/DanielPopoola/gulfpay/internal/interfaces/rest/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	webhookSecret = "whsec_e2e"
	secretKey     = "sk_test_e2e"
)

// E2ETestSuite runs the gateway in-process against a fake payment API and a
// real Postgres event store.
type E2ETestSuite struct {
	suite.Suite
	store    *testhelpers.EventStore
	events   *postgres.EventRepository
	upstream *Upstream
	servers  []*httptest.Server
	client   *TestClient
}

func TestE2ESuite(t *testing.T) {
	suite.Run(t, new(E2ETestSuite))
}

func (suite *E2ETestSuite) SetupSuite() {
	t := suite.T()
	logger := slog.New(slog.DiscardHandler)

	suite.store = testhelpers.StartEventStore(t)
	suite.events = postgres.NewEventRepository(suite.store.DB, logger)

	suite.upstream = NewUpstream()
	upstreamMux := http.NewServeMux()
	upstreamMux.Handle("GET /v2/charges/{id}", suite.upstream)
	upstreamServer := httptest.NewServer(upstreamMux)

	registry := prometheus.NewRegistry()
	client, err := gateway.NewClient(config.ClientConfig{
		SecretKey:       secretKey,
		BaseURL:         upstreamServer.URL + "/v2",
		DefaultCurrency: "KWD",
		Timeout:         5,
	}, gateway.WithLogger(logger), gateway.WithMetrics(gateway.NewMetrics(registry)))
	require.NoError(t, err)

	bus := events.NewBus()
	bus.SubscribeAll(events.NewMetricsListener(registry))
	bus.SubscribeAll(suite.events)

	h := handlers.NewHandlers(
		services.NewWebhookService(bus, []string{"charge", "refund"}, logger),
		services.NewCallbackService(client, bus, logger),
		client.Amounts(),
		logger,
	)

	mux := http.NewServeMux()
	h.RegisterRoutes(mux, registry,
		middleware.WebhookSignature(webhookSecret, 5*time.Minute, logger),
		middleware.RedirectGuard([]string{"shop.example"}, logger),
	)

	handler := middleware.Recovery(logger)(mux)
	handler = middleware.Logging(logger)(handler)
	handler = middleware.Timeout(10 * time.Second)(handler)

	gatewayServer := httptest.NewServer(handler)
	suite.servers = []*httptest.Server{upstreamServer, gatewayServer}
	suite.client = NewTestClient(gatewayServer.URL, webhookSecret)
}

func (suite *E2ETestSuite) TearDownSuite() {
	for _, s := range suite.servers {
		s.Close()
	}
}

func (suite *E2ETestSuite) SetupTest() {
	suite.store.Reset(suite.T())
}

func (suite *E2ETestSuite) stored(name string) []*postgres.EventRecord {
	records, err := suite.events.FindByName(context.Background(), name, 10)
	require.NoError(suite.T(), err)
	return records
}

func (suite *E2ETestSuite) storedFor(chargeID string) []*postgres.EventRecord {
	records, err := suite.events.FindByChargeID(context.Background(), chargeID)
	require.NoError(suite.T(), err)
	return records
}

// ============================================================================
// WEBHOOKS
// ============================================================================

func (suite *E2ETestSuite) Test_SignedWebhook_IsStoredUnderEveryName() {
	t := suite.T()

	payload := testhelpers.ChargePayload(domain.StatusCaptured)
	resp := suite.client.SendWebhook(t, payload)

	require.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, true, resp.Body["success"])

	for _, name := range []string{
		events.NameWebhookReceived,
		events.ResourceWebhookName("charge"),
		events.NameWebhookCatchAll,
	} {
		records := suite.stored(name)
		require.Len(t, records, 1, name)
		require.NotNil(t, records[0].Resource)
		assert.Equal(t, "charge", *records[0].Resource)
		assert.Nil(t, records[0].Error)
	}
	assert.Empty(t, suite.stored(events.NameWebhookProcessingFailed))
}

func (suite *E2ETestSuite) Test_WebhookForUnlistedResource_SkipsResourceEvent() {
	t := suite.T()

	resp := suite.client.SendWebhook(t, map[string]any{"object": "customer", "id": "cus_1"})

	require.Equal(t, http.StatusOK, resp.Status)
	assert.Len(t, suite.stored(events.NameWebhookReceived), 1)
	assert.Empty(t, suite.stored(events.ResourceWebhookName("customer")))
	assert.Len(t, suite.stored(events.NameWebhookCatchAll), 1)
}

func (suite *E2ETestSuite) Test_UnsignedWebhook_IsRejected() {
	t := suite.T()

	resp := suite.client.SendRawWebhook(t, []byte(`{"object":"charge"}`), "")

	assert.Equal(t, http.StatusUnauthorized, resp.Status)
	assert.Equal(t, "INVALID_SIGNATURE", resp.Body["error"].(map[string]any)["code"])
	assert.Empty(t, suite.stored(events.NameWebhookReceived))
}

func (suite *E2ETestSuite) Test_SignedNonObjectWebhook_IsRejected() {
	t := suite.T()
	body := []byte(`["charge"]`)

	resp := suite.client.SendRawWebhook(t, body, middleware.Sign(webhookSecret, time.Now(), body))

	assert.Equal(t, http.StatusBadRequest, resp.Status)
	assert.Empty(t, suite.stored(events.NameWebhookReceived))
}

// ============================================================================
// CALLBACKS
// ============================================================================

func (suite *E2ETestSuite) Test_CapturedCharge_RedirectsAndRecordsSuccess() {
	t := suite.T()

	payload := testhelpers.ChargePayload(domain.StatusCaptured)
	chargeID := payload["id"].(string)
	suite.upstream.SetCharge(chargeID, http.StatusOK, payload)

	resp := suite.client.Callback(t, chargeID, "https://shop.example/orders/42")

	require.Equal(t, http.StatusSeeOther, resp.Status)
	location, err := url.Parse(resp.Location)
	require.NoError(t, err)
	assert.Equal(t, "shop.example", location.Host)
	assert.Equal(t, chargeID, location.Query().Get("charge_id"))
	assert.Equal(t, "CAPTURED", location.Query().Get("status"))

	records := suite.storedFor(chargeID)
	require.Len(t, records, 1)
	assert.Equal(t, events.NamePaymentSucceeded, records[0].Name)

	assert.Contains(t, suite.upstream.AuthHeaders(), "Bearer "+secretKey)
}

func (suite *E2ETestSuite) Test_DeclinedCharge_Answers402AndRecordsFailure() {
	t := suite.T()

	payload := testhelpers.ChargePayload(domain.StatusDeclined)
	payload["response"] = map[string]any{"code": "051", "message": "Insufficient funds"}
	chargeID := payload["id"].(string)
	suite.upstream.SetCharge(chargeID, http.StatusOK, payload)

	resp := suite.client.Callback(t, chargeID, "https://shop.example/orders/42")

	require.Equal(t, http.StatusPaymentRequired, resp.Status)
	errBody := resp.Body["error"].(map[string]any)
	assert.Equal(t, "Insufficient funds", errBody["message"])
	data := resp.Body["data"].(map[string]any)
	assert.Equal(t, "DECLINED", data["status"])
	assert.Equal(t, "12.500 KWD", data["formatted_amount"])

	records := suite.storedFor(chargeID)
	require.Len(t, records, 1)
	assert.Equal(t, events.NamePaymentFailed, records[0].Name)
}

func (suite *E2ETestSuite) Test_RejectedKey_RecordsRetrievalFailure() {
	t := suite.T()

	suite.upstream.SetCharge("chg_auth", http.StatusUnauthorized, map[string]any{"message": "Invalid key"})

	resp := suite.client.Callback(t, "chg_auth", "")

	require.Equal(t, http.StatusPaymentRequired, resp.Status)
	assert.Equal(t, "Authentication failed", resp.Body["error"].(map[string]any)["message"])

	records := suite.storedFor("chg_auth")
	require.Len(t, records, 1)
	assert.Equal(t, events.NameChargeRetrievalFailed, records[0].Name)
	require.NotNil(t, records[0].Error)
	assert.JSONEq(t, `{"charge_id":"chg_auth","reason":"authentication"}`, string(records[0].Payload))
}

func (suite *E2ETestSuite) Test_UnknownCharge_FailsRetrieval() {
	t := suite.T()

	resp := suite.client.Callback(t, "chg_nope", "")

	require.Equal(t, http.StatusPaymentRequired, resp.Status)
	assert.Equal(t, "Failed to retrieve charge", resp.Body["error"].(map[string]any)["message"])

	records := suite.storedFor("chg_nope")
	require.Len(t, records, 1)
	assert.JSONEq(t, `{"charge_id":"chg_nope","reason":"api_error"}`, string(records[0].Payload))
}

func (suite *E2ETestSuite) Test_OffSiteRedirect_IsRejectedBeforeLookup() {
	t := suite.T()
	before := len(suite.upstream.AuthHeaders())

	resp := suite.client.Callback(t, "chg_any", "https://evil.example/phish")

	assert.Equal(t, http.StatusBadRequest, resp.Status)
	assert.Equal(t, "INVALID_REDIRECT", resp.Body["error"].(map[string]any)["code"])
	assert.Len(t, suite.upstream.AuthHeaders(), before)
}
