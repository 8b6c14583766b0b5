// internal/models/applicant.go
package models

type Mobility string

const (
	MobilityIndependent Mobility = "independent"
	MobilityAssisted    Mobility = "assisted"
	MobilityBedridden   Mobility = "bedridden"
)

type CognitiveStatus string

const (
	CognitiveNone   CognitiveStatus = "none"
	CognitiveMild   CognitiveStatus = "mild"
	CognitiveSevere CognitiveStatus = "severe"
)

type LonelinessLevel string

const (
	LonelinessLow    LonelinessLevel = "low"
	LonelinessMedium LonelinessLevel = "medium"
	LonelinessHigh   LonelinessLevel = "high"
)

type ServiceType string

const (
	ServiceLongTerm  ServiceType = "long_term"
	ServiceDayCare   ServiceType = "day_care"
	ServiceShortTerm ServiceType = "short_term"
)

// ApplicantProfile is the elder questionnaire submitted for one matching request.
type ApplicantProfile struct {
	// Medical
	ChronicDiseaseCount int  `json:"chronic_disease_count" validate:"gte=0"`
	NeedMonitor         bool `json:"need_monitor"`
	NeedRehab           bool `json:"need_rehab"`
	NeedDevice          bool `json:"need_device"`

	// Daily life
	CanEatIndependently  bool     `json:"can_eat_independently"`
	CanWashIndependently bool     `json:"can_wash_independently"`
	Mobility             Mobility `json:"mobility" validate:"required,oneof=independent assisted bedridden"`

	// Spiritual
	CognitiveStatus CognitiveStatus `json:"cognitive_status" validate:"required,oneof=none mild severe"`
	LonelinessLevel LonelinessLevel `json:"loneliness_level" validate:"required,oneof=low medium high"`
	SocialNeedFreq  int             `json:"social_need_freq" validate:"gte=0,lte=7"`

	// Traffic
	FamilyDistanceKm float64 `json:"family_distance_km" validate:"gte=0"`
	VisitFreqNeeded  int     `json:"visit_freq_needed" validate:"gte=0,lte=7"`
	NeedPickup       bool    `json:"need_pickup"`

	ServiceType ServiceType `json:"service_type" validate:"required,oneof=long_term day_care short_term"`
	MaxBudget   float64     `json:"max_budget" validate:"gte=0"`
}
