package intent

import "regexp"

// tagRule maps a note pattern to a tag with a fixed confidence. Phrase rules
// match exact wording after normalization and carry high confidence; keyword
// rules are looser and carry less. When several rules fire for one tag the
// maximum confidence wins.
type tagRule struct {
	tag        Tag
	confidence float64

	// exactly one of phrase / pattern is set
	phrase  string
	pattern *regexp.Regexp
}

var tagRules = []tagRule{
	{tag: TagFirstTimeProgressive, phrase: "first time progressive", confidence: 0.92},
	{tag: TagFirstTimeProgressive, phrase: "first progressive", confidence: 0.88},
	{tag: TagFirstTimeProgressive, phrase: "new to progressives", confidence: 0.88},
	{tag: TagFirstTimeProgressive, phrase: "never worn progressives", confidence: 0.85},

	{tag: TagExperiencedProgressive, phrase: "current progressive wearer", confidence: 0.9},
	{tag: TagExperiencedProgressive, phrase: "wears progressives", confidence: 0.85},
	{tag: TagExperiencedProgressive, phrase: "happy with progressives", confidence: 0.8},

	{tag: TagMonovisionCandidate, phrase: "monovision", confidence: 0.88},

	{tag: TagComputerHeavyUse, pattern: regexp.MustCompile(`(computer|screen|monitor)[^.;]{0,30}(hours|hrs|hr|all day)`), confidence: 0.88},
	{tag: TagComputerHeavyUse, phrase: "works on computer", confidence: 0.82},
	{tag: TagComputerHeavyUse, phrase: "heavy screen use", confidence: 0.85},
	{tag: TagComputerHeavyUse, phrase: "computer", confidence: 0.6},

	{tag: TagCVSSyndrome, phrase: "computer vision syndrome", confidence: 0.92},
	{tag: TagCVSSyndrome, phrase: "digital eye strain", confidence: 0.85},
	{tag: TagCVSSyndrome, phrase: "eye strain", confidence: 0.65},

	{tag: TagNightDrivingComplaint, phrase: "night driving", confidence: 0.9},
	{tag: TagNightDrivingComplaint, phrase: "driving at night", confidence: 0.9},
	{tag: TagNightDrivingComplaint, pattern: regexp.MustCompile(`halos?[^.;]{0,25}(headlight|night|driving)`), confidence: 0.85},

	{tag: TagGlareSensitivity, phrase: "glare", confidence: 0.7},
	{tag: TagGlareSensitivity, phrase: "sensitive to glare", confidence: 0.9},

	{tag: TagPhotophobia, phrase: "photophobia", confidence: 0.92},
	{tag: TagPhotophobia, phrase: "light sensitivity", confidence: 0.82},
	{tag: TagPhotophobia, phrase: "sensitive to light", confidence: 0.82},

	{tag: TagOutdoorLifestyle, phrase: "outdoors", confidence: 0.7},
	{tag: TagOutdoorLifestyle, phrase: "outdoor work", confidence: 0.85},
	{tag: TagOutdoorLifestyle, phrase: "spends a lot of time outside", confidence: 0.82},
	{tag: TagOutdoorLifestyle, phrase: "fishing", confidence: 0.62},
	{tag: TagOutdoorLifestyle, phrase: "golf", confidence: 0.62},

	{tag: TagSportsActive, phrase: "sports", confidence: 0.72},
	{tag: TagSportsActive, phrase: "plays basketball", confidence: 0.82},
	{tag: TagSportsActive, phrase: "very active", confidence: 0.68},
	{tag: TagSportsActive, phrase: "runner", confidence: 0.65},

	{tag: TagReadingHeavy, phrase: "reads a lot", confidence: 0.82},
	{tag: TagReadingHeavy, phrase: "avid reader", confidence: 0.85},
	{tag: TagReadingHeavy, phrase: "reading", confidence: 0.55},

	{tag: TagSmallPrintDifficulty, phrase: "small print", confidence: 0.85},
	{tag: TagSmallPrintDifficulty, phrase: "fine print", confidence: 0.85},
	{tag: TagSmallPrintDifficulty, phrase: "trouble reading labels", confidence: 0.8},

	{tag: TagPreviousNonAdapt, phrase: "could not adapt", confidence: 0.9},
	{tag: TagPreviousNonAdapt, phrase: "couldn't adapt", confidence: 0.9},
	{tag: TagPreviousNonAdapt, phrase: "non-adapt", confidence: 0.88},
	{tag: TagPreviousNonAdapt, phrase: "returned previous lenses", confidence: 0.8},
	{tag: TagPreviousNonAdapt, pattern: regexp.MustCompile(`(swim|swimming|rocking)[^.;]{0,25}(sensation|feeling)`), confidence: 0.78},

	{tag: TagDryEye, phrase: "dry eye", confidence: 0.88},
	{tag: TagDryEye, phrase: "dry eyes", confidence: 0.88},
	{tag: TagDryEye, phrase: "artificial tears", confidence: 0.75},

	{tag: TagContactLensWearer, phrase: "contact lens", confidence: 0.85},
	{tag: TagContactLensWearer, phrase: "wears contacts", confidence: 0.85},

	{tag: TagHighAstigmatism, phrase: "high astigmatism", confidence: 0.9},
	{tag: TagHighAstigmatism, phrase: "strong astigmatism", confidence: 0.85},
	{tag: TagHighAstigmatism, phrase: "astigmatism", confidence: 0.6},

	{tag: TagChildPatient, phrase: "pediatric", confidence: 0.9},
	{tag: TagChildPatient, pattern: regexp.MustCompile(`\b(age|aged)\s*([0-9]|1[0-7])\b`), confidence: 0.8},
	{tag: TagChildPatient, phrase: "school", confidence: 0.55},

	{tag: TagSafetyEyewear, phrase: "safety glasses", confidence: 0.9},
	{tag: TagSafetyEyewear, phrase: "safety eyewear", confidence: 0.9},
	{tag: TagSafetyEyewear, phrase: "workshop", confidence: 0.6},
	{tag: TagSafetyEyewear, phrase: "construction site", confidence: 0.78},

	{tag: TagFashionConscious, phrase: "thin lenses", confidence: 0.8},
	{tag: TagFashionConscious, phrase: "thinnest possible", confidence: 0.85},
	{tag: TagFashionConscious, phrase: "cosmetic", confidence: 0.7},
	{tag: TagFashionConscious, phrase: "thick lenses bother", confidence: 0.75},
}

// complaintRules map keywords to complaint summaries surfaced verbatim in
// lifestyle justification text. They are independent of tag confidence.
var complaintRules = []struct {
	keyword string
	summary string
}{
	{keyword: "night driving", summary: "glare while driving at night"},
	{keyword: "glare", summary: "glare discomfort"},
	{keyword: "headache", summary: "headaches after near work"},
	{keyword: "eye strain", summary: "eye strain during screen use"},
	{keyword: "tired eyes", summary: "tired eyes by end of day"},
	{keyword: "blurry", summary: "intermittent blurry vision"},
	{keyword: "blurred", summary: "intermittent blurry vision"},
	{keyword: "dizzy", summary: "dizziness with current lenses"},
	{keyword: "small print", summary: "difficulty with small print"},
	{keyword: "halos", summary: "halos around lights"},
	{keyword: "dry eye", summary: "dry eye discomfort"},
	{keyword: "scratch", summary: "scratched current lenses"},
}
