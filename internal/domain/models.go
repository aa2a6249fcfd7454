package domain

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Page identifies which logical view the browser should render.
type Page string

const (
	PageLogin      Page = "login"
	PageDashboard  Page = "dashboard"
	PageAddProduct Page = "add_product"
	PageAddNode    Page = "add_node"
)

// NavigablePages lists the pages a signed-in session may switch to. The login
// page is never a navigation target; it is reached only by logging out.
var NavigablePages = []Page{
	PageDashboard,
	PageAddProduct,
	PageAddNode,
}

// IsNavigablePage reports whether p names a page a session can navigate to
func IsNavigablePage(p string) bool {
	for _, page := range NavigablePages {
		if string(page) == p {
			return true
		}
	}
	return false
}

// Stage represents one phase of a product's supply chain
type Stage string

const (
	StageRawMaterials  Stage = "Raw Materials"
	StageManufacturing Stage = "Manufacturing"
	StageLogistics     Stage = "Logistics"
	StagePackaging     Stage = "Packaging"
	StageDistribution  Stage = "Distribution"
	StageEndOfLife     Stage = "End-of-Life"
)

// Stages lists all supply chain stages in display order
var Stages = []Stage{
	StageRawMaterials,
	StageManufacturing,
	StageLogistics,
	StagePackaging,
	StageDistribution,
	StageEndOfLife,
}

// IsValidStage reports whether s is one of the known stage names
func IsValidStage(s string) bool {
	for _, stage := range Stages {
		if string(stage) == s {
			return true
		}
	}
	return false
}

// TransportMode represents how goods move between two locations
type TransportMode string

const (
	TransportTruck TransportMode = "truck"
	TransportRail  TransportMode = "rail"
	TransportShip  TransportMode = "ship"
	TransportAir   TransportMode = "air"
)

// TransportModes lists all transport modes in display order
var TransportModes = []TransportMode{
	TransportTruck,
	TransportRail,
	TransportShip,
	TransportAir,
}

// EmissionFactors maps each transport mode to its emission factor in kg CO2
// per km. The analysis engine applies the same factors server-side; the portal
// exposes them as form metadata only.
var EmissionFactors = map[TransportMode]float64{
	TransportTruck: 0.12,
	TransportRail:  0.04,
	TransportShip:  0.02,
	TransportAir:   0.6,
}

// IsValidTransportMode reports whether m is a known transport mode
func IsValidTransportMode(m string) bool {
	_, ok := EmissionFactors[TransportMode(m)]
	return ok
}

// EnergySource represents the energy source powering a supply chain stage
type EnergySource string

const (
	EnergyCoal   EnergySource = "coal"
	EnergySolar  EnergySource = "solar"
	EnergyWind   EnergySource = "wind"
	EnergyGas    EnergySource = "gas"
	EnergyDiesel EnergySource = "diesel"
	EnergyPetrol EnergySource = "petrol"
)

// EnergySources lists all energy sources in display order
var EnergySources = []EnergySource{
	EnergyCoal,
	EnergySolar,
	EnergyWind,
	EnergyGas,
	EnergyDiesel,
	EnergyPetrol,
}

// IsValidEnergySource reports whether s is a known energy source
func IsValidEnergySource(s string) bool {
	for _, source := range EnergySources {
		if string(source) == s {
			return true
		}
	}
	return false
}

// Regions lists the cities with logistics infrastructure that may be selected
// as route endpoints. The route intelligence engine only knows these locations.
var Regions = []string{
	"Aurangabad",
	"Chhatrapati Sambhajinagar",
	"Nashik",
	"Pune",
	"Mumbai",
	"Thane",
	"Kolhapur",
	"Solapur",
	"Buldhana",
	"Parbhani",
	"Sangli",
	"Satara",
	"Sindhdurg",
	"Raigad",
	"Jalgaon",
	"Nagpur",
	"Akola",
	"Amravati",
}

// IsValidRegion reports whether city is in the supported region list
func IsValidRegion(city string) bool {
	for _, c := range Regions {
		if c == city {
			return true
		}
	}
	return false
}

// RiskLevel is the qualitative implementation risk of a recommendation
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Number is a float64 that tolerates backend values encoded as JSON numbers,
// quoted numeric strings, or null. The analysis engine has emitted efficiency
// scores in both representations across versions.
type Number float64

// UnmarshalJSON implements json.Unmarshaler
func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*n = 0
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			*n = 0
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return err
		}
		*n = Number(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*n = Number(f)
	return nil
}

// MarshalJSON implements json.Marshaler
func (n Number) MarshalJSON() ([]byte, error) {
	return json.Marshal(float64(n))
}

// Company is the authenticated account. The backend owns the record; the
// portal holds a transient copy for the lifetime of a session.
type Company struct {
	ID                   string `json:"_id"`
	Name                 string `json:"name"`
	Email                string `json:"email"`
	Industry             string `json:"industry,omitempty"`
	SustainabilityGoal   string `json:"sustainabilityGoal,omitempty"`
	HeadquartersLocation string `json:"headquartersLocation,omitempty"`
}

// Product belongs to exactly one company. YearlyNetZeroTarget is stored in kg
// CO2e, the backend's emission unit; the creation form accepts tonnes and the
// portal scales by 1000 before transmission.
type Product struct {
	ID                  string  `json:"_id"`
	Name                string  `json:"name"`
	Description         string  `json:"description,omitempty"`
	CompanyID           string  `json:"companyId"`
	YearlyNetZeroTarget float64 `json:"yearlyNetZeroTarget"`
}

// SupplyChainNode is one recorded transport leg of a product's supply chain
type SupplyChainNode struct {
	ID                string  `json:"_id"`
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
	Emission          float64 `json:"emission"`
}

// StageEmission is one per-stage row of an analysis breakdown, normalized to a
// single shape at ingestion. Breakdown rows have arrived from the backend as
// stageName/emission, stage_name/total_emission, and bare stage keys;
// UnmarshalJSON accepts all three.
type StageEmission struct {
	Stage    string  `json:"stage"`
	Emission float64 `json:"emission"`
	Count    int     `json:"count,omitempty"`
}

// UnmarshalJSON implements json.Unmarshaler
func (s *StageEmission) UnmarshalJSON(data []byte) error {
	var raw struct {
		Stage         string   `json:"stage"`
		StageName     string   `json:"stageName"`
		StageSnake    string   `json:"stage_name"`
		Emission      *float64 `json:"emission"`
		TotalEmission *float64 `json:"total_emission"`
		Count         int      `json:"count"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch {
	case raw.Stage != "":
		s.Stage = raw.Stage
	case raw.StageName != "":
		s.Stage = raw.StageName
	default:
		s.Stage = raw.StageSnake
	}

	switch {
	case raw.Emission != nil:
		s.Emission = *raw.Emission
	case raw.TotalEmission != nil:
		s.Emission = *raw.TotalEmission
	}

	s.Count = raw.Count
	return nil
}

// AnalysisResult is the backend-computed emission analysis for one product.
// At most one result is current per selected product; re-running the analysis
// replaces it.
type AnalysisResult struct {
	ID                         string          `json:"_id,omitempty"`
	ProductID                  string          `json:"productId,omitempty"`
	TotalEmission              Number          `json:"totalEmission"`
	HighestEmissionStage       string          `json:"highestEmissionStage"`
	CarbonEfficiencyScore      Number          `json:"carbonEfficiencyScore"`
	CostEfficiencyScore        Number          `json:"costEfficiencyScore"`
	TimeEfficiencyScore        Number          `json:"timeEfficiencyScore"`
	NetZeroAlignmentPercentage Number          `json:"netZeroAlignmentPercentage"`
	NodesBreakdown             []StageEmission `json:"nodesBreakdown,omitempty"`
	CreatedAt                  string          `json:"createdAt,omitempty"`
}

// RecommendationSource tags where a recommendation came from
type RecommendationSource string

const (
	// SourceEngine marks recommendations from the deterministic optimization engine
	SourceEngine RecommendationSource = "engine"
	// SourceGemini marks AI-generated recommendations
	SourceGemini RecommendationSource = "gemini"
)

// Recommendation is the canonical optimization record. The two backend
// variants expose overlapping but differently named fields; both are mapped
// into this one shape at ingestion so the view layer never branches on field
// presence.
type Recommendation struct {
	ID                 string               `json:"_id,omitempty"`
	Source             RecommendationSource `json:"source"`
	StageName          string               `json:"stageName,omitempty"`
	CurrentTransport   string               `json:"currentTransport"`
	SuggestedTransport string               `json:"suggestedTransport"`
	CarbonSaved        float64              `json:"carbonSaved"`
	CostSaved          float64              `json:"costSaved"`
	TimeImpactDays     float64              `json:"timeImpactDays"`
	Risk               RiskLevel            `json:"riskLevel"`
	Text               string               `json:"recommendationText,omitempty"`
}

// RouteIntelligence is the advisory route preview returned while composing a
// supply chain node. It is display data only and never part of node submission.
type RouteIntelligence struct {
	RouteDetails       string   `json:"routeDetails"`
	FromHasSeaway      bool     `json:"fromHasSeaway"`
	FromHasAirport     bool     `json:"fromHasAirport"`
	ToHasSeaway        bool     `json:"toHasSeaway"`
	ToHasAirport       bool     `json:"toHasAirport"`
	GreenOpportunities []string `json:"greenOpportunities,omitempty"`
}

// NetZeroProgress is one recorded progress point toward a product's yearly
// net-zero target
type NetZeroProgress struct {
	ID        string  `json:"_id,omitempty"`
	ProductID string  `json:"productId"`
	Emission  float64 `json:"emission"`
	Date      string  `json:"date,omitempty"`
}

// StageShare is one slice of the derived emission breakdown
type StageShare struct {
	Stage      string  `json:"stage"`
	Emission   float64 `json:"emission"`
	Percentage float64 `json:"percentage"`
	Color      string  `json:"color"`
}

// EmissionBreakdown is the derived per-stage emission grouping rendered by the
// dashboard charts. Stages appear in first-encounter order; ties for the
// highest stage resolve to the first encountered.
type EmissionBreakdown struct {
	Total        float64      `json:"total"`
	Stages       []StageShare `json:"stages"`
	HighestStage string       `json:"highestStage"`
}
