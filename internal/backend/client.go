// Package backend is the typed REST client for the CarbonChain emission
// backend. All substantive computation (emission math, analysis, optimization
// generation, route intelligence) happens on the backend; this client only
// moves data across the boundary and normalizes its historical quirks.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/carbonchain/portal-api/internal/config"
	"github.com/carbonchain/portal-api/internal/domain"
	"go.uber.org/zap"
)

// APIError is a backend-reported failure. Message carries the backend's own
// wording so the UI can surface it verbatim.
type APIError struct {
	StatusCode int
	Message    string
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("backend request failed with status %d", e.StatusCode)
}

// Client talks to the CarbonChain backend REST API
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	logger     *zap.Logger
}

// NewClient creates a backend client from config. The timeout matches the
// backend's slowest operation (AI optimization generation).
func NewClient(cfg *config.BackendConfig, logger *zap.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.TimeoutDuration(),
		},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		logger:  logger,
	}
}

// envelope is the backend's uniform response wrapper
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
}

// do issues one backend request and decodes the response envelope's data field
// into out (skipped when out is nil). Non-2xx responses become *APIError with
// the backend's message.
func (c *Client) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("backend unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.decodeError(resp)
	}

	if out == nil {
		return nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err == nil && env.Data != nil {
		return json.Unmarshal(env.Data, out)
	}
	// Older backend builds return the payload bare
	return json.Unmarshal(raw, out)
}

// decodeError extracts the backend's message or error field from a non-2xx
// response so callers can show it verbatim
func (c *Client) decodeError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err == nil {
		switch {
		case env.Message != "":
			apiErr.Message = env.Message
		case env.Error != "":
			apiErr.Message = env.Error
		}
	}

	c.logger.Debug("Backend request failed",
		zap.Int("status", resp.StatusCode),
		zap.String("message", apiErr.Message),
	)
	return apiErr
}

// isNotFound reports whether err is a backend 404
func isNotFound(err error) bool {
	apiErr, ok := err.(*APIError)
	return ok && apiErr.StatusCode == http.StatusNotFound
}

// Health probes the backend's liveness endpoint. Failure is advisory only.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil)
}

// RegisterPayload creates a company account
type RegisterPayload struct {
	Name                 string `json:"name"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	Industry             string `json:"industry,omitempty"`
	SustainabilityGoal   string `json:"sustainabilityGoal,omitempty"`
	HeadquartersLocation string `json:"headquartersLocation,omitempty"`
}

// Register creates a new company account
func (c *Client) Register(ctx context.Context, payload RegisterPayload) (*domain.Company, error) {
	var company domain.Company
	if err := c.do(ctx, http.MethodPost, "/companies/register", payload, &company); err != nil {
		return nil, err
	}
	return &company, nil
}

// Login authenticates a company by email and password
func (c *Client) Login(ctx context.Context, email, password string) (*domain.Company, error) {
	payload := map[string]string{"email": email, "password": password}
	var company domain.Company
	if err := c.do(ctx, http.MethodPost, "/companies/login", payload, &company); err != nil {
		return nil, err
	}
	return &company, nil
}

// ListProducts returns all products belonging to a company
func (c *Client) ListProducts(ctx context.Context, companyID string) ([]domain.Product, error) {
	var products []domain.Product
	if err := c.do(ctx, http.MethodGet, "/products/company/"+companyID, nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// GetProduct returns one product by ID
func (c *Client) GetProduct(ctx context.Context, productID string) (*domain.Product, error) {
	var product domain.Product
	if err := c.do(ctx, http.MethodGet, "/products/"+productID, nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// CreateProductPayload creates a product. YearlyNetZeroTarget is in kg CO2e;
// the caller has already scaled the form's tonnes value.
type CreateProductPayload struct {
	Name                string  `json:"name"`
	Description         string  `json:"description,omitempty"`
	CompanyID           string  `json:"companyId"`
	YearlyNetZeroTarget float64 `json:"yearlyNetZeroTarget"`
}

// CreateProduct creates a product under a company
func (c *Client) CreateProduct(ctx context.Context, payload CreateProductPayload) (*domain.Product, error) {
	var product domain.Product
	if err := c.do(ctx, http.MethodPost, "/products", payload, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// ListNodes returns the supply chain nodes recorded for a product.
// A 404 means the product has no nodes yet and yields an empty slice.
func (c *Client) ListNodes(ctx context.Context, productID string) ([]domain.SupplyChainNode, error) {
	var nodes []domain.SupplyChainNode
	if err := c.do(ctx, http.MethodGet, "/supply-chain/product/"+productID, nil, &nodes); err != nil {
		if isNotFound(err) {
			return []domain.SupplyChainNode{}, nil
		}
		return nil, err
	}
	return nodes, nil
}

// AddNodePayload records one supply chain leg
type AddNodePayload struct {
	ProductID         string  `json:"productId"`
	StageName         string  `json:"stageName"`
	SupplierName      string  `json:"supplierName,omitempty"`
	TransportMode     string  `json:"transportMode"`
	DistanceKm        float64 `json:"distanceKm"`
	EnergySource      string  `json:"energySource"`
	TransportCost     float64 `json:"transportCost"`
	TransportTimeDays float64 `json:"transportTimeDays"`
	FromLocation      string  `json:"fromLocation"`
	ToLocation        string  `json:"toLocation"`
}

// AddNode records a supply chain node for a product
func (c *Client) AddNode(ctx context.Context, payload AddNodePayload) (*domain.SupplyChainNode, error) {
	var node domain.SupplyChainNode
	if err := c.do(ctx, http.MethodPost, "/supply-chain", payload, &node); err != nil {
		return nil, err
	}
	return &node, nil
}

// AnalyzeRoute asks the backend's route intelligence engine about a city pair.
// The result is advisory display data; callers tolerate any failure.
func (c *Client) AnalyzeRoute(ctx context.Context, productID, from, to string) (*domain.RouteIntelligence, error) {
	payload := map[string]string{
		"productId":    productID,
		"fromLocation": from,
		"toLocation":   to,
	}
	var route domain.RouteIntelligence
	if err := c.do(ctx, http.MethodPost, "/supply-chain/route/analyze", payload, &route); err != nil {
		return nil, err
	}
	return &route, nil
}

// RunAnalysis triggers a fresh emission analysis for a product
func (c *Client) RunAnalysis(ctx context.Context, productID string) (*domain.AnalysisResult, error) {
	var result domain.AnalysisResult
	if err := c.do(ctx, http.MethodPost, "/analysis/"+productID, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// LatestAnalysis returns the stored analysis for a product. Absence arrives
// from the backend in two shapes, a 404 or a 200 with a null data field, and
// both yield (nil, nil).
func (c *Client) LatestAnalysis(ctx context.Context, productID string) (*domain.AnalysisResult, error) {
	var result *domain.AnalysisResult
	if err := c.do(ctx, http.MethodGet, "/analysis/"+productID, nil, &result); err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return result, nil
}

// AnalysisHistory returns past analysis runs for a product, newest first.
// A 404 yields an empty slice.
func (c *Client) AnalysisHistory(ctx context.Context, productID string) ([]domain.AnalysisResult, error) {
	var history []domain.AnalysisResult
	if err := c.do(ctx, http.MethodGet, "/analysis/history/"+productID, nil, &history); err != nil {
		if isNotFound(err) {
			return []domain.AnalysisResult{}, nil
		}
		return nil, err
	}
	return history, nil
}

// Optimizations returns the deterministic engine's recommendations for a
// product. A 404 means none exist yet and yields an empty slice.
func (c *Client) Optimizations(ctx context.Context, productID string) ([]domain.Recommendation, error) {
	var raw []rawRecommendation
	if err := c.do(ctx, http.MethodGet, "/optimizations/"+productID, nil, &raw); err != nil {
		if isNotFound(err) {
			return []domain.Recommendation{}, nil
		}
		return nil, err
	}
	return normalizeRecommendations(raw, domain.SourceEngine), nil
}

// AIOptimizations returns the AI-generated recommendations for a product.
// A 404 yields an empty slice.
func (c *Client) AIOptimizations(ctx context.Context, productID string) ([]domain.Recommendation, error) {
	var raw []rawRecommendation
	if err := c.do(ctx, http.MethodGet, "/optimizations/"+productID+"/gemini", nil, &raw); err != nil {
		if isNotFound(err) {
			return []domain.Recommendation{}, nil
		}
		return nil, err
	}
	return normalizeRecommendations(raw, domain.SourceGemini), nil
}

// RegenerateAIOptimizations asks the backend to produce a fresh AI
// recommendation set, replacing the stored one
func (c *Client) RegenerateAIOptimizations(ctx context.Context, productID string) ([]domain.Recommendation, error) {
	var raw []rawRecommendation
	if err := c.do(ctx, http.MethodPost, "/optimizations/"+productID+"/gemini/regenerate", nil, &raw); err != nil {
		return nil, err
	}
	return normalizeRecommendations(raw, domain.SourceGemini), nil
}

// NetZeroProgress returns recorded progress points toward a product's yearly
// net-zero target. A 404 yields an empty slice.
func (c *Client) NetZeroProgress(ctx context.Context, productID string) ([]domain.NetZeroProgress, error) {
	var progress []domain.NetZeroProgress
	if err := c.do(ctx, http.MethodGet, "/netzero-progress/product/"+productID, nil, &progress); err != nil {
		if isNotFound(err) {
			return []domain.NetZeroProgress{}, nil
		}
		return nil, err
	}
	return progress, nil
}
