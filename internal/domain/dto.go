package domain

// Request DTOs carry browser form submissions into the portal. Validation tags
// mirror the backend's own rules so obviously bad input never leaves the portal.

// RegisterRequest creates a new company account
type RegisterRequest struct {
	Name                 string `json:"name" validate:"required,max=200"`
	Email                string `json:"email" validate:"required,email"`
	Password             string `json:"password" validate:"required,min=6"`
	ConfirmPassword      string `json:"confirmPassword" validate:"required,eqfield=Password"`
	Industry             string `json:"industry" validate:"max=100"`
	SustainabilityGoal   string `json:"sustainabilityGoal" validate:"max=500"`
	HeadquartersLocation string `json:"headquartersLocation" validate:"max=200"`
}

// LoginRequest authenticates an existing company. Only presence is checked
// locally; the backend owns credential verification, so a malformed email
// fails there and its message comes back verbatim.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// CreateProductRequest creates a product under the signed-in company.
// YearlyNetZeroTargetTonnes is entered in tonnes CO2e and scaled to kg before
// it reaches the backend.
type CreateProductRequest struct {
	Name                      string  `json:"name" validate:"required,max=200"`
	Description               string  `json:"description" validate:"max=2000"`
	YearlyNetZeroTargetTonnes float64 `json:"yearlyNetZeroTargetTonnes" validate:"required,gt=0"`
}

// AddNodeRequest records one supply chain leg for the selected product
type AddNodeRequest struct {
	StageName         string  `json:"stageName" validate:"required"`
	SupplierName      string  `json:"supplierName" validate:"max=200"`
	TransportMode     string  `json:"transportMode" validate:"required"`
	DistanceKm        float64 `json:"distanceKm" validate:"required,gt=0"`
	EnergySource      string  `json:"energySource" validate:"required"`
	TransportCost     float64 `json:"transportCost" validate:"gte=0"`
	TransportTimeDays float64 `json:"transportTimeDays" validate:"gte=0"`
	FromLocation      string  `json:"fromLocation" validate:"required"`
	ToLocation        string  `json:"toLocation" validate:"required"`
}

// SelectProductRequest switches the dashboard to another product.
// An empty productId deselects.
type SelectProductRequest struct {
	ProductID string `json:"productId"`
}

// NavigateRequest switches the session to another logical page
type NavigateRequest struct {
	Page string `json:"page" validate:"required"`
}

// RoutePreviewRequest asks for advisory route intelligence between two cities
type RoutePreviewRequest struct {
	FromLocation string `json:"fromLocation" validate:"required"`
	ToLocation   string `json:"toLocation" validate:"required"`
}

// TransportModeMeta describes one transport option for the node form
type TransportModeMeta struct {
	Mode           TransportMode `json:"mode"`
	EmissionFactor float64       `json:"emissionFactorKgPerKm"`
}

// FormMeta is the static option data the browser needs to render forms
type FormMeta struct {
	Stages         []Stage             `json:"stages"`
	TransportModes []TransportModeMeta `json:"transportModes"`
	EnergySources  []EnergySource      `json:"energySources"`
	Regions        []string            `json:"regions"`
	DefaultFrom    string              `json:"defaultFrom"`
	DefaultTo      string              `json:"defaultTo"`
}
