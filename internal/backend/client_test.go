package backend_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/carbonchain/portal-api/internal/backend"
	"github.com/carbonchain/portal-api/internal/config"
	"github.com/carbonchain/portal-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.Handler) (*backend.Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &config.BackendConfig{
		BaseURL: srv.URL,
		APIKey:  "test-key",
		Timeout: 5,
	}
	return backend.NewClient(cfg, zap.NewNop()), srv
}

func respondEnvelope(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"success": status < 400,
		"data":    data,
	})
}

func TestClient_EnvelopeUnwrapping(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products/p1", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-API-Key"))
		respondEnvelope(w, http.StatusOK, domain.Product{ID: "p1", Name: "Widget"})
	}))

	product, err := client.GetProduct(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "p1", product.ID)
	assert.Equal(t, "Widget", product.Name)
}

func TestClient_BarePayloadFallback(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Older backend builds return the payload without the envelope
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(domain.Product{ID: "p2", Name: "Bare"})
	}))

	product, err := client.GetProduct(context.Background(), "p2")
	require.NoError(t, err)
	assert.Equal(t, "Bare", product.Name)
}

func TestClient_ErrorCarriesBackendMessage(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"message": "Invalid email or password",
		})
	}))

	_, err := client.Login(context.Background(), "a@b.com", "wrong")
	require.Error(t, err)

	var apiErr *backend.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "Invalid email or password", apiErr.Error())
}

func TestClient_ErrorFallsBackToErrorField(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"error":   "Analysis engine unavailable",
		})
	}))

	_, err := client.RunAnalysis(context.Background(), "p1")
	var apiErr *backend.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "Analysis engine unavailable", apiErr.Message)
}

func TestClient_LatestAnalysisAbsenceIsNil(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondEnvelope(w, http.StatusNotFound, nil)
	}))

	result, err := client.LatestAnalysis(context.Background(), "p1")
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestClient_LatestAnalysisNullDataIsNil(t *testing.T) {
	// The backend reports "no analysis yet" as a 200 with a null data field
	// just as often as a 404
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondEnvelope(w, http.StatusOK, nil)
	}))

	result, err := client.LatestAnalysis(context.Background(), "p1")
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestClient_EmptyCollectionsOn404(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondEnvelope(w, http.StatusNotFound, nil)
	}))
	ctx := context.Background()

	nodes, err := client.ListNodes(ctx, "p1")
	require.NoError(t, err)
	assert.Empty(t, nodes)

	history, err := client.AnalysisHistory(ctx, "p1")
	require.NoError(t, err)
	assert.Empty(t, history)

	opts, err := client.Optimizations(ctx, "p1")
	require.NoError(t, err)
	assert.Empty(t, opts)

	aiOpts, err := client.AIOptimizations(ctx, "p1")
	require.NoError(t, err)
	assert.Empty(t, aiOpts)

	progress, err := client.NetZeroProgress(ctx, "p1")
	require.NoError(t, err)
	assert.Empty(t, progress)
}

func TestClient_NotFoundStillFailsForProducts(t *testing.T) {
	// 404 normalization applies to collections and the latest analysis only
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondEnvelope(w, http.StatusNotFound, nil)
	}))

	_, err := client.GetProduct(context.Background(), "missing")
	require.Error(t, err)
}

func TestClient_OptimizationsNormalizeEngineShape(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondEnvelope(w, http.StatusOK, []map[string]interface{}{
			{
				"_id":                "o1",
				"stageName":          "Logistics",
				"currentTransport":   "truck",
				"suggestedTransport": "rail",
				"carbonSaved":        120.5,
				"costSaved":          300,
				"timeImpactDays":     2,
				"riskLevel":          "LOW",
			},
		})
	}))

	recs, err := client.Optimizations(context.Background(), "p1")
	require.NoError(t, err)
	require.Len(t, recs, 1)

	rec := recs[0]
	assert.Equal(t, domain.SourceEngine, rec.Source)
	assert.Equal(t, "truck", rec.CurrentTransport)
	assert.Equal(t, "rail", rec.SuggestedTransport)
	assert.Equal(t, 120.5, rec.CarbonSaved)
	assert.Equal(t, domain.RiskLow, rec.Risk)
}

func TestClient_AIOptimizationsNormalizeAliasShape(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondEnvelope(w, http.StatusOK, []map[string]interface{}{
			{
				"currentState":             "diesel trucking across the full corridor",
				"suggestedImprovement":     "shift the long haul leg to rail",
				"implementationDifficulty": "High",
				"recommendationText":       "Rail freight cuts corridor emissions by roughly two thirds.",
				"carbonSaved":              "85.2",
			},
			{
				// No risk field at all defaults to medium
				"currentState":         "coal powered packaging line",
				"suggestedImprovement": "switch the line to solar",
			},
		})
	}))

	recs, err := client.AIOptimizations(context.Background(), "p1")
	require.NoError(t, err)
	require.Len(t, recs, 2)

	assert.Equal(t, domain.SourceGemini, recs[0].Source)
	assert.Equal(t, "diesel trucking across the full corridor", recs[0].CurrentTransport)
	assert.Equal(t, "shift the long haul leg to rail", recs[0].SuggestedTransport)
	assert.Equal(t, domain.RiskHigh, recs[0].Risk)
	assert.Equal(t, 85.2, recs[0].CarbonSaved)
	assert.Equal(t, "Rail freight cuts corridor emissions by roughly two thirds.", recs[0].Text)

	assert.Equal(t, domain.RiskMedium, recs[1].Risk)
}

func TestClient_CreateProductSendsScaledPayload(t *testing.T) {
	var received backend.CreateProductPayload
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/products", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		respondEnvelope(w, http.StatusCreated, domain.Product{ID: "p9", Name: received.Name})
	}))

	product, err := client.CreateProduct(context.Background(), backend.CreateProductPayload{
		Name:                "EcoBottle",
		CompanyID:           "c1",
		YearlyNetZeroTarget: 5000,
	})
	require.NoError(t, err)
	assert.Equal(t, "p9", product.ID)
	assert.Equal(t, "c1", received.CompanyID)
	assert.Equal(t, 5000.0, received.YearlyNetZeroTarget)
}

func TestClient_AnalyzeRoutePayload(t *testing.T) {
	var received map[string]string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/supply-chain/route/analyze", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		respondEnvelope(w, http.StatusOK, domain.RouteIntelligence{
			RouteDetails:   "Pune to Mumbai via the expressway corridor",
			FromHasAirport: true,
			ToHasSeaway:    true,
		})
	}))

	route, err := client.AnalyzeRoute(context.Background(), "p1", "Pune", "Mumbai")
	require.NoError(t, err)
	assert.Equal(t, "p1", received["productId"])
	assert.Equal(t, "Pune", received["fromLocation"])
	assert.Equal(t, "Mumbai", received["toLocation"])
	assert.True(t, route.ToHasSeaway)
}

func TestClient_UnreachableBackend(t *testing.T) {
	cfg := &config.BackendConfig{
		BaseURL: "http://127.0.0.1:1",
		Timeout: 1,
	}
	client := backend.NewClient(cfg, zap.NewNop())

	err := client.Health(context.Background())
	require.Error(t, err)

	var apiErr *backend.APIError
	assert.False(t, errors.As(err, &apiErr), "transport failures are not APIErrors")
}
