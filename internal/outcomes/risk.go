package outcomes

import (
	"fmt"

	"lensrec-backend/internal/intent"
	"lensrec-backend/internal/lens"
	"lensrec-backend/internal/rx"
)

// ruleInput bundles everything a risk-adjustment rule may inspect.
type ruleInput struct {
	Prescription rx.Prescription
	Frame        rx.Frame
	Intent       intent.Result
}

// riskRule adjusts a configuration's clinical score when the request carries a
// known risk or preference signal. adjust returns a zero delta when the rule
// fires but has nothing to say about this particular configuration.
type riskRule struct {
	name    string
	applies func(ruleInput) bool
	adjust  func(ruleInput, Statistic) (delta float64, note string)
}

const (
	wrapCylinderThreshold = 2.0
	wrapAngleThreshold    = 15.0
	softAdaptThreshold    = 0.05
	nonAdaptRiskThreshold = 0.10
	thinLensSphereFloor   = 4.0
	tagFiredFloor         = 0.5
)

var riskRules = []riskRule{
	{
		name: "high_cylinder_wrapped_frame",
		applies: func(in ruleInput) bool {
			return in.Prescription.MaxCylinder() > wrapCylinderThreshold && in.Frame.WrapAngle > wrapAngleThreshold
		},
		adjust: func(in ruleInput, s Statistic) (float64, string) {
			if s.Config.Material.WrapTolerant() {
				return 0, ""
			}
			return -0.15, fmt.Sprintf("high cylinder in a wrapped frame distorts %s optics; a wrap-tolerant material is preferred", s.Config.Material)
		},
	},
	{
		name: "first_time_progressive",
		applies: func(in ruleInput) bool {
			return in.Intent.Has(intent.TagFirstTimeProgressive, tagFiredFloor)
		},
		adjust: func(in ruleInput, s Statistic) (float64, string) {
			if s.Config.Type != lens.TypeProgressive || s.NonAdaptRate() > softAdaptThreshold {
				return 0, ""
			}
			return 0.2, fmt.Sprintf("for a first-time progressive wearer, this design's documented non-adapt rate of %.0f%% is well below average", s.NonAdaptRate()*100)
		},
	},
	{
		name: "previous_non_adapt",
		applies: func(in ruleInput) bool {
			return in.Intent.Has(intent.TagPreviousNonAdapt, tagFiredFloor)
		},
		adjust: func(in ruleInput, s Statistic) (float64, string) {
			if s.NonAdaptRate() <= nonAdaptRiskThreshold {
				return 0, ""
			}
			return -0.2, fmt.Sprintf("prior adaptation failure argues against a design with a %.0f%% historical non-adapt rate", s.NonAdaptRate()*100)
		},
	},
	{
		name: "reported_glare",
		applies: func(in ruleInput) bool {
			return in.Intent.Has(intent.TagNightDrivingComplaint, tagFiredFloor) ||
				in.Intent.Has(intent.TagGlareSensitivity, tagFiredFloor)
		},
		adjust: func(in ruleInput, s Statistic) (float64, string) {
			if s.Config.Coating != lens.CoatingAntiReflect {
				return 0, ""
			}
			return 0.1, "anti-reflective coating addresses the reported glare"
		},
	},
	{
		name: "heavy_screen_use",
		applies: func(in ruleInput) bool {
			return in.Intent.Has(intent.TagComputerHeavyUse, tagFiredFloor) ||
				in.Intent.Has(intent.TagCVSSyndrome, tagFiredFloor)
		},
		adjust: func(in ruleInput, s Statistic) (float64, string) {
			if s.Config.Coating != lens.CoatingBlueFilter {
				return 0, ""
			}
			return 0.1, "blue-light filtering supports the reported heavy screen use"
		},
	},
	{
		name: "high_power_thin_material",
		applies: func(in ruleInput) bool {
			return in.Prescription.MaxSphere() > thinLensSphereFloor
		},
		adjust: func(in ruleInput, s Statistic) (float64, string) {
			if !s.Config.Material.HighIndex() {
				return 0, ""
			}
			return 0.08, "high-index material keeps a strong prescription acceptably thin"
		},
	},
	{
		name: "impact_resistance_needed",
		applies: func(in ruleInput) bool {
			return in.Intent.Characteristics.WantsImpactResistant
		},
		adjust: func(in ruleInput, s Statistic) (float64, string) {
			if !s.Config.Material.WrapTolerant() {
				return 0, ""
			}
			return 0.08, "impact-resistant material suits an active or safety-sensitive wearer"
		},
	},
}
