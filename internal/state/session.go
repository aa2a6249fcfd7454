// Package state implements the per-session application state controller: the
// login → product selection → node loading → analysis → optimization flow that
// drives the portal. Each browser session owns one Session; the Controller
// mutates it against the CarbonChain backend.
package state

import (
	"sync"
	"time"

	"github.com/carbonchain/portal-api/internal/domain"
	"github.com/carbonchain/portal-api/internal/view"
)

// Session holds one browser session's application state. All slot access goes
// through the mutex; the Controller is the only writer.
type Session struct {
	id        string
	createdAt time.Time

	mu              sync.Mutex
	company         *domain.Company
	page            domain.Page
	products        []domain.Product
	selected        *domain.Product
	nodes           []domain.SupplyChainNode
	analysis        *domain.AnalysisResult
	optimizations   []domain.Recommendation
	aiOptimizations []domain.Recommendation
	busy            bool
	errMsg          string
}

// NewSession creates a logged-out session
func NewSession(id string) *Session {
	return &Session{
		id:        id,
		createdAt: time.Now(),
		page:      domain.PageLogin,
	}
}

// ID returns the session identifier
func (s *Session) ID() string { return s.id }

// CreatedAt returns when the session was created
func (s *Session) CreatedAt() time.Time { return s.createdAt }

// Company returns the authenticated company, nil when logged out
func (s *Session) Company() *domain.Company {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.company
}

// Page returns the current logical page
func (s *Session) Page() domain.Page {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.page
}

// Products returns the session's product list
func (s *Session) Products() []domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.products
}

// SelectedProduct returns the currently selected product, nil when none
func (s *Session) SelectedProduct() *domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

// Nodes returns the supply chain nodes loaded for the selected product
func (s *Session) Nodes() []domain.SupplyChainNode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nodes
}

// Analysis returns the current analysis result, nil when none exists
func (s *Session) Analysis() *domain.AnalysisResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.analysis
}

// Optimizations returns the deterministic engine's recommendations
func (s *Session) Optimizations() []domain.Recommendation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.optimizations
}

// AIOptimizations returns the AI-generated recommendations
func (s *Session) AIOptimizations() []domain.Recommendation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.aiOptimizations
}

// Busy reports whether a long-running operation holds the session
func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

// Error returns the current user-visible error message
func (s *Session) Error() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errMsg
}

// DismissError clears the user-visible error message
func (s *Session) DismissError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errMsg = ""
}

// clearProductSlots drops everything scoped to the selected product.
// Caller must hold the mutex.
func (s *Session) clearProductSlots() {
	s.nodes = nil
	s.analysis = nil
	s.optimizations = nil
	s.aiOptimizations = nil
}

// ViewState is the JSON view model the browser renders from
type ViewState struct {
	Page             domain.Page               `json:"page"`
	Company          *domain.Company           `json:"company"`
	Products         []domain.Product          `json:"products"`
	SelectedProduct  *domain.Product           `json:"selectedProduct"`
	Nodes            []domain.SupplyChainNode  `json:"nodes"`
	Analysis         *domain.AnalysisResult    `json:"analysis"`
	Summary          *view.AnalysisSummary     `json:"summary"`
	Optimizations    []view.RecommendationView `json:"optimizations"`
	AIOptimizations  []view.RecommendationView `json:"aiOptimizations"`
	Breakdown        domain.EmissionBreakdown  `json:"breakdown"`
	Busy             bool                      `json:"busy"`
	Error            string                    `json:"error,omitempty"`
	BackendReachable bool                      `json:"backendReachable"`
}

// ViewState snapshots the session into the view model. The emission breakdown
// derives from the analysis result's per-stage rows when one exists, otherwise
// from the loaded nodes.
func (s *Session) ViewState(backendReachable bool) ViewState {
	s.mu.Lock()
	defer s.mu.Unlock()

	var breakdown domain.EmissionBreakdown
	if s.analysis != nil && len(s.analysis.NodesBreakdown) > 0 {
		breakdown = view.Breakdown(s.analysis.NodesBreakdown)
	} else {
		breakdown = view.NodeBreakdown(s.nodes)
	}

	products := s.products
	if products == nil {
		products = []domain.Product{}
	}
	nodes := s.nodes
	if nodes == nil {
		nodes = []domain.SupplyChainNode{}
	}
	return ViewState{
		Page:             s.page,
		Company:          s.company,
		Products:         products,
		SelectedProduct:  s.selected,
		Nodes:            nodes,
		Analysis:         s.analysis,
		Summary:          view.Summarize(s.analysis),
		Optimizations:    view.DecorateRecommendations(s.optimizations),
		AIOptimizations:  view.DecorateRecommendations(s.aiOptimizations),
		Breakdown:        breakdown,
		Busy:             s.busy,
		Error:            s.errMsg,
		BackendReachable: backendReachable,
	}
}
