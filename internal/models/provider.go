// internal/models/provider.go
package models

import "time"

type CareGrade string

const (
	CareGradeSelf CareGrade = "self_care"
	CareGradeSemi CareGrade = "semi_care"
	CareGradeFull CareGrade = "full_care"
)

type ActivityFreq string

const (
	ActivityDaily  ActivityFreq = "daily"
	ActivityWeekly ActivityFreq = "weekly"
)

type LocationType string

const (
	LocationCenter LocationType = "center"
	LocationSuburb LocationType = "suburb"
)

// ProviderProfile is a nursing home as registered through the home questionnaire.
type ProviderProfile struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name" validate:"required"`
	Address     string `json:"address"`
	Contact     string `json:"contact"`
	Description string `json:"description,omitempty"`

	// Medical
	HasInfirmary    bool `json:"has_infirmary"`
	HasEmergency    bool `json:"has_emergency"`
	HospitalCoop    bool `json:"hospital_coop"`
	RehabEquipCount int  `json:"rehab_equip_count" validate:"gte=0"`

	// Life care
	CareGrade        CareGrade `json:"care_grade" validate:"required,oneof=self_care semi_care full_care"`
	SpecialDiet      bool      `json:"special_diet"`
	BarrierFreeScore int       `json:"barrier_free_score" validate:"gte=1,lte=5"`
	SafetyFacilities bool      `json:"safety_facilities"`

	// Spiritual
	ActivityFreq ActivityFreq `json:"activity_freq" validate:"required,oneof=daily weekly"`
	PsychSupport bool         `json:"psych_support"`

	// Traffic
	LocationType    LocationType `json:"location_type" validate:"required,oneof=center suburb"`
	PublicTransport bool         `json:"public_transport"`
	ShuttleService  bool         `json:"shuttle_service"`

	ServiceTypes []ServiceType `json:"service_types" validate:"required,min=1,dive,oneof=long_term day_care short_term"`
	Price        float64       `json:"price" validate:"gte=0"`

	CreatedAt time.Time `json:"created_at"`
}

// Offers reports whether the provider lists the service type.
func (p ProviderProfile) Offers(st ServiceType) bool {
	for _, s := range p.ServiceTypes {
		if s == st {
			return true
		}
	}
	return false
}
