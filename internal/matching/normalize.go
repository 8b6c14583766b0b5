// internal/matching/normalize.go
package matching

import (
	"math"

	"carematch/internal/models"
)

// MaxLevel is the top of the 0-5 need and capability scale.
const MaxLevel = 5.0

// Need-side weights.
const (
	chronicDiseaseCap  = 3
	medicalNeedScale   = 5.0 / 6.0
	mobilityAssisted   = 2.5
	mobilityBedridden  = 5.0
	cognitiveMild      = 2.0
	cognitiveSevere    = 4.0
	lonelinessMedium   = 1.0
	lonelinessHigh     = 2.0
	socialFreqWeight   = 0.3
	distanceWeight     = 0.3
	visitFreqWeight    = 0.4
	pickupWeight       = 1.0
	dailyLifeFlagValue = 1.0
)

// Capability-side weights.
const (
	infirmaryWeight      = 1.5
	emergencyWeight      = 1.5
	hospitalCoopWeight   = 1.0
	rehabEquipWeight     = 0.4
	rehabEquipCap        = 2.0
	careGradeSelf        = 1.0
	careGradeSemi        = 3.0
	careGradeFull        = 5.0
	careGradeWeight      = 0.6
	specialDietWeight    = 1.0
	barrierFreeWeight    = 0.4
	safetyWeight         = 1.0
	activityDaily        = 3.0
	activityWeekly       = 1.5
	psychSupportWeight   = 2.0
	locationCenter       = 4.0
	locationSuburb       = 2.0
	publicTransportBonus = 0.5
	shuttleServiceBonus  = 0.5
)

// NormalizeNeed maps an applicant onto the 0-5 need scale per dimension.
func NormalizeNeed(a models.ApplicantProfile) models.LevelVector {
	medical := float64(min(a.ChronicDiseaseCount, chronicDiseaseCap)) +
		flag(a.NeedMonitor) + flag(a.NeedRehab) + flag(a.NeedDevice)

	var mobility float64
	switch a.Mobility {
	case models.MobilityAssisted:
		mobility = mobilityAssisted
	case models.MobilityBedridden:
		mobility = mobilityBedridden
	}
	life := mobility +
		dailyLifeFlagValue*flag(!a.CanEatIndependently) +
		dailyLifeFlagValue*flag(!a.CanWashIndependently)

	var cognitive float64
	switch a.CognitiveStatus {
	case models.CognitiveMild:
		cognitive = cognitiveMild
	case models.CognitiveSevere:
		cognitive = cognitiveSevere
	}
	var loneliness float64
	switch a.LonelinessLevel {
	case models.LonelinessMedium:
		loneliness = lonelinessMedium
	case models.LonelinessHigh:
		loneliness = lonelinessHigh
	}
	spiritual := cognitive + loneliness + socialFreqWeight*float64(a.SocialNeedFreq)

	traffic := math.Min(MaxLevel, distanceWeight*a.FamilyDistanceKm) +
		visitFreqWeight*float64(a.VisitFreqNeeded) +
		pickupWeight*flag(a.NeedPickup)

	return models.LevelVector{
		Medical:   level(medical * medicalNeedScale),
		LifeCare:  level(life),
		Spiritual: level(spiritual),
		Traffic:   level(traffic),
	}
}

// NormalizeCapability maps a provider onto the 0-5 capability scale per dimension.
func NormalizeCapability(p models.ProviderProfile) models.LevelVector {
	medical := infirmaryWeight*flag(p.HasInfirmary) +
		emergencyWeight*flag(p.HasEmergency) +
		hospitalCoopWeight*flag(p.HospitalCoop) +
		math.Min(rehabEquipCap, rehabEquipWeight*float64(p.RehabEquipCount))

	var grade float64
	switch p.CareGrade {
	case models.CareGradeSelf:
		grade = careGradeSelf
	case models.CareGradeSemi:
		grade = careGradeSemi
	case models.CareGradeFull:
		grade = careGradeFull
	}
	life := careGradeWeight*grade +
		specialDietWeight*flag(p.SpecialDiet) +
		barrierFreeWeight*float64(p.BarrierFreeScore) +
		safetyWeight*flag(p.SafetyFacilities)

	var activity float64
	switch p.ActivityFreq {
	case models.ActivityDaily:
		activity = activityDaily
	case models.ActivityWeekly:
		activity = activityWeekly
	}
	spiritual := activity + psychSupportWeight*flag(p.PsychSupport)

	var location float64
	switch p.LocationType {
	case models.LocationCenter:
		location = locationCenter
	case models.LocationSuburb:
		location = locationSuburb
	}
	traffic := location +
		publicTransportBonus*flag(p.PublicTransport) +
		shuttleServiceBonus*flag(p.ShuttleService)

	return models.LevelVector{
		Medical:   level(medical),
		LifeCare:  level(life),
		Spiritual: level(spiritual),
		Traffic:   level(traffic),
	}
}

func flag(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// level clamps to [0, MaxLevel] and rounds to two decimals.
func level(v float64) float64 {
	return round2(clamp(v, 0, MaxLevel))
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
