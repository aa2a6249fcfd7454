package state

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/carbonchain/portal-api/internal/backend"
	"github.com/carbonchain/portal-api/internal/domain"
	"github.com/carbonchain/portal-api/internal/logger"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Sentinel errors for operation preconditions. Handlers map them to HTTP
// statuses; none of them reach the backend.
var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrBusy             = errors.New("another operation is already running")
	ErrNoSelection      = errors.New("no product selected")
	ErrNoNodes          = errors.New("no supply chain nodes recorded")
	ErrUnknownProduct   = errors.New("product not found in session")
)

// User-visible messages for precondition failures, worded as the UI shows them
const (
	msgSelectProductFirst = "Please select a product first"
	msgAddNodesFirst      = "Please add supply chain nodes before running analysis"
)

// Controller executes the application state operations against the backend.
// One Controller serves all sessions; per-session state lives in Session.
type Controller struct {
	backend  *backend.Client
	validate *validator.Validate
	logger   *zap.Logger

	// backendReachable is advisory only: probed once at startup and never
	// gates any operation
	backendReachable atomic.Bool
}

// NewController creates the controller
func NewController(client *backend.Client, logger *zap.Logger) *Controller {
	return &Controller{
		backend:  client,
		validate: validator.New(),
		logger:   logger,
	}
}

// BackendReachable reports the advisory startup probe result
func (c *Controller) BackendReachable() bool {
	return c.backendReachable.Load()
}

// ProbeBackend checks backend liveness once. It never fails startup and never
// gates any other operation.
func (c *Controller) ProbeBackend(ctx context.Context) {
	if err := c.backend.Health(ctx); err != nil {
		c.logger.Warn("Backend health probe failed", zap.Error(err))
		c.backendReachable.Store(false)
		return
	}
	c.backendReachable.Store(true)
}

// validationError converts validator failures into an APIError carrying
// per-field messages
func (c *Controller) validationError(err error) error {
	apiErr := &domain.APIError{
		Type:   domain.ErrorTypeValidation,
		Title:  "Validation failed",
		Status: http.StatusBadRequest,
		Errors: make(map[string]string),
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			apiErr.Errors[jsonFieldName(fe.Field())] = domain.GetValidationMessage(fe.Tag())
		}
	}
	return apiErr
}

// jsonFieldName converts a Go struct field name to its JSON equivalent (camelCase)
func jsonFieldName(field string) string {
	if len(field) == 0 {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}

// fieldError builds a single-field validation APIError
func fieldError(field, message string) error {
	return &domain.APIError{
		Type:   domain.ErrorTypeValidation,
		Title:  "Validation failed",
		Status: http.StatusBadRequest,
		Errors: map[string]string{field: message},
	}
}

// Register validates the registration form locally, creates the account, and
// initializes the session. Validation failures never reach the network; remote
// failures surface the backend's message verbatim and leave state unchanged.
func (c *Controller) Register(ctx context.Context, sess *Session, req domain.RegisterRequest) error {
	if err := c.validate.Struct(req); err != nil {
		return c.validationError(err)
	}

	company, err := c.backend.Register(ctx, backend.RegisterPayload{
		Name:                 req.Name,
		Email:                req.Email,
		Password:             req.Password,
		Industry:             req.Industry,
		SustainabilityGoal:   req.SustainabilityGoal,
		HeadquartersLocation: req.HeadquartersLocation,
	})
	if err != nil {
		c.logger.Warn("Registration failed", zap.String("email", req.Email), zap.Error(err))
		return err
	}

	c.beginSession(ctx, sess, company)
	return nil
}

// Login validates the form locally, authenticates against the backend, and
// initializes the session
func (c *Controller) Login(ctx context.Context, sess *Session, req domain.LoginRequest) error {
	if err := c.validate.Struct(req); err != nil {
		return c.validationError(err)
	}

	company, err := c.backend.Login(ctx, req.Email, req.Password)
	if err != nil {
		c.logger.Warn("Login failed", zap.String("email", req.Email), zap.Error(err))
		return err
	}

	c.beginSession(ctx, sess, company)
	return nil
}

// beginSession installs the authenticated company and loads its products.
// A product load failure is tolerated and yields an empty list, matching the
// original dashboard behavior.
func (c *Controller) beginSession(ctx context.Context, sess *Session, company *domain.Company) {
	products, err := c.backend.ListProducts(ctx, company.ID)
	if err != nil {
		c.logger.Warn("Failed to load products after login",
			zap.String("company_id", company.ID),
			zap.Error(err),
		)
		products = []domain.Product{}
	}

	sess.mu.Lock()
	sess.company = company
	sess.products = products
	sess.selected = nil
	sess.clearProductSlots()
	sess.errMsg = ""
	sess.page = domain.PageDashboard
	sess.mu.Unlock()

	logger.WithSession(c.logger, sess.ID(), company.ID).Info("Session authenticated",
		zap.Int("products", len(products)),
	)
}

// Logout clears the company and every scoped slot
func (c *Controller) Logout(sess *Session) {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.company = nil
	sess.products = nil
	sess.selected = nil
	sess.clearProductSlots()
	sess.busy = false
	sess.errMsg = ""
	sess.page = domain.PageLogin
}

// commitIfCurrent applies a mutation only if productID is still the session's
// selected product. This is the guard that keeps a late-arriving response for
// a stale selection from overwriting current state.
func (c *Controller) commitIfCurrent(sess *Session, productID string, apply func(*Session)) bool {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.selected == nil || sess.selected.ID != productID {
		c.logger.Debug("Dropping stale result", zap.String("product_id", productID))
		return false
	}
	apply(sess)
	return true
}

// SelectProduct switches the session to another product and loads its data.
// An empty id deselects. Node loading is the only hard failure; the analysis,
// optimization, and AI optimization loads run concurrently and are each
// independently fault-tolerant (absence yields nil/empty). The call returns
// only after all loads settle.
func (c *Controller) SelectProduct(ctx context.Context, sess *Session, productID string) error {
	sess.mu.Lock()
	if sess.company == nil {
		sess.mu.Unlock()
		return ErrNotAuthenticated
	}

	if productID == "" {
		sess.selected = nil
		sess.clearProductSlots()
		sess.page = domain.PageDashboard
		sess.mu.Unlock()
		return nil
	}

	var selected *domain.Product
	for i := range sess.products {
		if sess.products[i].ID == productID {
			selected = &sess.products[i]
			break
		}
	}
	if selected == nil {
		sess.mu.Unlock()
		return ErrUnknownProduct
	}

	sess.selected = selected
	sess.clearProductSlots()
	sess.errMsg = ""
	sess.page = domain.PageDashboard
	sess.mu.Unlock()

	nodes, err := c.backend.ListNodes(ctx, productID)
	if err != nil {
		c.commitIfCurrent(sess, productID, func(s *Session) {
			s.errMsg = err.Error()
		})
		return err
	}
	c.commitIfCurrent(sess, productID, func(s *Session) {
		s.nodes = nodes
	})

	c.loadDerivedData(ctx, sess, productID)
	return nil
}

// loadDerivedData issues the three post-selection loads concurrently and
// waits for all of them. Failures are logged, never surfaced; a missing
// analysis or optimization set is the normal state for a new product.
func (c *Controller) loadDerivedData(ctx context.Context, sess *Session, productID string) {
	var wg sync.WaitGroup
	wg.Add(3)

	go func() {
		defer wg.Done()
		analysis, err := c.backend.LatestAnalysis(ctx, productID)
		if err != nil {
			c.logger.Debug("Analysis load failed", zap.String("product_id", productID), zap.Error(err))
			return
		}
		c.commitIfCurrent(sess, productID, func(s *Session) {
			s.analysis = analysis
		})
	}()

	go func() {
		defer wg.Done()
		opts, err := c.backend.Optimizations(ctx, productID)
		if err != nil {
			c.logger.Debug("Optimization load failed", zap.String("product_id", productID), zap.Error(err))
			return
		}
		c.commitIfCurrent(sess, productID, func(s *Session) {
			s.optimizations = opts
		})
	}()

	go func() {
		defer wg.Done()
		aiOpts, err := c.backend.AIOptimizations(ctx, productID)
		if err != nil {
			c.logger.Debug("AI optimization load failed", zap.String("product_id", productID), zap.Error(err))
			return
		}
		c.commitIfCurrent(sess, productID, func(s *Session) {
			s.aiOptimizations = aiOpts
		})
	}()

	wg.Wait()
}

// Navigate switches the session to another logical page. Purely local, never
// touches the backend. The node form is scoped to a product, so add_node
// requires a selection.
func (c *Controller) Navigate(sess *Session, req domain.NavigateRequest) error {
	if err := c.validate.Struct(req); err != nil {
		return c.validationError(err)
	}
	if !domain.IsNavigablePage(req.Page) {
		return fieldError("page", "Unknown page")
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.company == nil {
		return ErrNotAuthenticated
	}
	if domain.Page(req.Page) == domain.PageAddNode && sess.selected == nil {
		return ErrNoSelection
	}
	sess.page = domain.Page(req.Page)
	return nil
}

// RunAnalysis triggers a fresh backend analysis for the selected product.
// Preconditions (a selection and at least one node) are checked locally with
// zero network calls on violation. busy is a coarse test-and-set: a concurrent
// invocation while busy is a rejected no-op, never queued.
func (c *Controller) RunAnalysis(ctx context.Context, sess *Session) error {
	sess.mu.Lock()
	if sess.company == nil {
		sess.mu.Unlock()
		return ErrNotAuthenticated
	}
	if sess.busy {
		sess.mu.Unlock()
		return ErrBusy
	}
	if sess.selected == nil {
		sess.errMsg = msgSelectProductFirst
		sess.mu.Unlock()
		return ErrNoSelection
	}
	if len(sess.nodes) == 0 {
		sess.errMsg = msgAddNodesFirst
		sess.mu.Unlock()
		return ErrNoNodes
	}
	productID := sess.selected.ID
	sess.busy = true
	sess.errMsg = ""
	sess.mu.Unlock()

	defer func() {
		sess.mu.Lock()
		sess.busy = false
		sess.mu.Unlock()
	}()

	result, err := c.backend.RunAnalysis(ctx, productID)
	if err != nil {
		c.commitIfCurrent(sess, productID, func(s *Session) {
			s.errMsg = err.Error()
		})
		return err
	}
	if !c.commitIfCurrent(sess, productID, func(s *Session) {
		s.analysis = result
	}) {
		// Selection changed while the analysis ran; drop the whole refresh
		return nil
	}

	// The optimization refresh is part of the analysis contract: its failure
	// surfaces as an error, though the committed analysis stays.
	opts, err := c.backend.Optimizations(ctx, productID)
	if err != nil {
		c.commitIfCurrent(sess, productID, func(s *Session) {
			s.errMsg = err.Error()
		})
		return err
	}
	c.commitIfCurrent(sess, productID, func(s *Session) {
		s.optimizations = opts
	})

	// AI optimizations are tolerated to fail; the slot is cleared so stale
	// recommendations never outlive the analysis they were computed for.
	aiOpts, err := c.backend.AIOptimizations(ctx, productID)
	if err != nil {
		c.logger.Warn("AI optimization refresh failed", zap.String("product_id", productID), zap.Error(err))
		aiOpts = []domain.Recommendation{}
	}
	c.commitIfCurrent(sess, productID, func(s *Session) {
		s.aiOptimizations = aiOpts
		s.page = domain.PageDashboard
	})

	return nil
}

// CreateProduct validates the form, scales the net-zero target from tonnes to
// kg, creates the product, and selects it (full selection cascade)
func (c *Controller) CreateProduct(ctx context.Context, sess *Session, req domain.CreateProductRequest) error {
	sess.mu.Lock()
	if sess.company == nil {
		sess.mu.Unlock()
		return ErrNotAuthenticated
	}
	companyID := sess.company.ID
	sess.mu.Unlock()

	if err := c.validate.Struct(req); err != nil {
		return c.validationError(err)
	}

	product, err := c.backend.CreateProduct(ctx, backend.CreateProductPayload{
		Name:        req.Name,
		Description: req.Description,
		CompanyID:   companyID,
		// The form collects tonnes; the backend stores kg
		YearlyNetZeroTarget: req.YearlyNetZeroTargetTonnes * 1000,
	})
	if err != nil {
		sess.mu.Lock()
		sess.errMsg = err.Error()
		sess.mu.Unlock()
		return err
	}

	sess.mu.Lock()
	sess.products = append(sess.products, *product)
	sess.errMsg = ""
	sess.mu.Unlock()

	return c.SelectProduct(ctx, sess, product.ID)
}

// AddNode validates the node form against the fixed enumerations and records
// the node for the selected product
func (c *Controller) AddNode(ctx context.Context, sess *Session, req domain.AddNodeRequest) error {
	sess.mu.Lock()
	if sess.company == nil {
		sess.mu.Unlock()
		return ErrNotAuthenticated
	}
	if sess.selected == nil {
		sess.mu.Unlock()
		return ErrNoSelection
	}
	productID := sess.selected.ID
	sess.mu.Unlock()

	if err := c.validate.Struct(req); err != nil {
		return c.validationError(err)
	}
	if !domain.IsValidStage(req.StageName) {
		return fieldError("stageName", "Unknown supply chain stage")
	}
	if !domain.IsValidTransportMode(req.TransportMode) {
		return fieldError("transportMode", "Unknown transport mode")
	}
	if !domain.IsValidEnergySource(req.EnergySource) {
		return fieldError("energySource", "Unknown energy source")
	}
	if !domain.IsValidRegion(req.FromLocation) {
		return fieldError("fromLocation", "Location is not in the supported region list")
	}
	if !domain.IsValidRegion(req.ToLocation) {
		return fieldError("toLocation", "Location is not in the supported region list")
	}

	node, err := c.backend.AddNode(ctx, backend.AddNodePayload{
		ProductID:         productID,
		StageName:         req.StageName,
		SupplierName:      req.SupplierName,
		TransportMode:     req.TransportMode,
		DistanceKm:        req.DistanceKm,
		EnergySource:      req.EnergySource,
		TransportCost:     req.TransportCost,
		TransportTimeDays: req.TransportTimeDays,
		FromLocation:      req.FromLocation,
		ToLocation:        req.ToLocation,
	})
	if err != nil {
		c.commitIfCurrent(sess, productID, func(s *Session) {
			s.errMsg = err.Error()
		})
		return err
	}

	c.commitIfCurrent(sess, productID, func(s *Session) {
		s.nodes = append(s.nodes, *node)
		s.errMsg = ""
	})
	return nil
}

// RoutePreview fetches advisory route intelligence for a city pair. The
// preview is display-only: failures are swallowed (logged) and nothing is
// ever committed into session state.
func (c *Controller) RoutePreview(ctx context.Context, sess *Session, req domain.RoutePreviewRequest) (*domain.RouteIntelligence, error) {
	sess.mu.Lock()
	if sess.company == nil {
		sess.mu.Unlock()
		return nil, ErrNotAuthenticated
	}
	if sess.selected == nil {
		sess.mu.Unlock()
		return nil, ErrNoSelection
	}
	productID := sess.selected.ID
	sess.mu.Unlock()

	if err := c.validate.Struct(req); err != nil {
		return nil, c.validationError(err)
	}
	if req.FromLocation == req.ToLocation {
		return nil, nil
	}

	route, err := c.backend.AnalyzeRoute(ctx, productID, req.FromLocation, req.ToLocation)
	if err != nil {
		c.logger.Debug("Route preview failed",
			zap.String("from", req.FromLocation),
			zap.String("to", req.ToLocation),
			zap.Error(err),
		)
		return nil, nil
	}
	return route, nil
}

// RegenerateAIOptimizations replaces the AI recommendation set. A no-op
// without a selection; busy test-and-set as for RunAnalysis; on failure the
// prior list is kept and the error surfaced.
func (c *Controller) RegenerateAIOptimizations(ctx context.Context, sess *Session) error {
	sess.mu.Lock()
	if sess.company == nil {
		sess.mu.Unlock()
		return ErrNotAuthenticated
	}
	if sess.selected == nil {
		sess.mu.Unlock()
		return ErrNoSelection
	}
	if sess.busy {
		sess.mu.Unlock()
		return ErrBusy
	}
	productID := sess.selected.ID
	sess.busy = true
	sess.mu.Unlock()

	defer func() {
		sess.mu.Lock()
		sess.busy = false
		sess.mu.Unlock()
	}()

	recs, err := c.backend.RegenerateAIOptimizations(ctx, productID)
	if err != nil {
		c.commitIfCurrent(sess, productID, func(s *Session) {
			s.errMsg = err.Error()
		})
		return err
	}

	c.commitIfCurrent(sess, productID, func(s *Session) {
		s.aiOptimizations = recs
		s.errMsg = ""
	})
	return nil
}
