package intent

// Tag is one value of the fixed clinical-intent vocabulary. Adding a tag means
// adding a constant here and rows to the rule table in rules.go; call sites
// never switch on raw strings.
type Tag string

const (
	TagFirstTimeProgressive   Tag = "first_time_progressive"
	TagExperiencedProgressive Tag = "experienced_progressive"
	TagMonovisionCandidate    Tag = "monovision_candidate"
	TagComputerHeavyUse       Tag = "computer_heavy_use"
	TagCVSSyndrome            Tag = "cvs_syndrome"
	TagNightDrivingComplaint  Tag = "night_driving_complaint"
	TagGlareSensitivity       Tag = "glare_sensitivity"
	TagPhotophobia            Tag = "photophobia"
	TagOutdoorLifestyle       Tag = "outdoor_lifestyle"
	TagSportsActive           Tag = "sports_active"
	TagReadingHeavy           Tag = "reading_heavy"
	TagSmallPrintDifficulty   Tag = "small_print_difficulty"
	TagPreviousNonAdapt       Tag = "previous_non_adapt"
	TagDryEye                 Tag = "dry_eye"
	TagContactLensWearer      Tag = "contact_lens_wearer"
	TagHighAstigmatism        Tag = "high_astigmatism_history"
	TagChildPatient           Tag = "child_patient"
	TagSafetyEyewear          Tag = "safety_eyewear_required"
	TagFashionConscious       Tag = "fashion_conscious"
)

// TagScore pairs a fired tag with the confidence of the strongest rule that
// produced it.
type TagScore struct {
	Tag        Tag     `json:"tag"`
	Confidence float64 `json:"confidence"`
}

// Characteristics is the fixed-shape record of lens-feature preferences
// derived deterministically from fired tags. Defaults are all false.
type Characteristics struct {
	WantsBlueLightFilter bool `json:"wantsBlueLightFilter"`
	WantsAntiReflective  bool `json:"wantsAntiReflective"`
	WantsPhotochromic    bool `json:"wantsPhotochromic"`
	WantsPolarized       bool `json:"wantsPolarized"`
	WantsImpactResistant bool `json:"wantsImpactResistant"`
	WantsSoftDesign      bool `json:"wantsSoftDesign"`
	WantsOccupational    bool `json:"wantsOccupational"`
}

// Result is the output of one extraction pass over a clinical note. It is
// immutable and embedded in the final recommendation record for audit.
type Result struct {
	Tags            []TagScore      `json:"tags"`
	Complaints      []string        `json:"complaints"`
	Characteristics Characteristics `json:"derivedCharacteristics"`
}

// Has reports whether the tag fired with at least the given confidence.
func (r Result) Has(tag Tag, minConfidence float64) bool {
	for _, ts := range r.Tags {
		if ts.Tag == tag && ts.Confidence >= minConfidence {
			return true
		}
	}
	return false
}

// ConfidenceAvg returns the mean confidence across fired tags, 0 when none.
func (r Result) ConfidenceAvg() float64 {
	if len(r.Tags) == 0 {
		return 0
	}
	var sum float64
	for _, ts := range r.Tags {
		sum += ts.Confidence
	}
	return sum / float64(len(r.Tags))
}
