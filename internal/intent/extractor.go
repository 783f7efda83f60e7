package intent

import (
	"sort"
	"strings"
)

// Extractor classifies free-text clinical notes against the fixed tag
// vocabulary. It holds no mutable state and is safe for concurrent use.
type Extractor struct{}

// NewExtractor constructs an Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract classifies the note. It never fails: empty or unrecognizable input
// yields an empty tag set, empty complaints, and default characteristics.
func (e *Extractor) Extract(notes string) Result {
	normalized := normalizeNotes(notes)
	if normalized == "" {
		return Result{Tags: []TagScore{}, Complaints: []string{}}
	}

	best := make(map[Tag]float64, 8)
	for _, rule := range tagRules {
		if !rule.matches(normalized) {
			continue
		}
		if rule.confidence > best[rule.tag] {
			best[rule.tag] = rule.confidence
		}
	}

	tags := make([]TagScore, 0, len(best))
	for tag, confidence := range best {
		tags = append(tags, TagScore{Tag: tag, Confidence: confidence})
	}
	sort.Slice(tags, func(i, j int) bool {
		if tags[i].Confidence != tags[j].Confidence {
			return tags[i].Confidence > tags[j].Confidence
		}
		return tags[i].Tag < tags[j].Tag
	})

	return Result{
		Tags:            tags,
		Complaints:      extractComplaints(normalized),
		Characteristics: deriveCharacteristics(best),
	}
}

func (r tagRule) matches(normalized string) bool {
	if r.pattern != nil {
		return r.pattern.MatchString(normalized)
	}
	return strings.Contains(normalized, r.phrase)
}

func extractComplaints(normalized string) []string {
	seen := make(map[string]bool, 4)
	out := make([]string, 0, 4)
	for _, rule := range complaintRules {
		if !strings.Contains(normalized, rule.keyword) {
			continue
		}
		if seen[rule.summary] {
			continue
		}
		seen[rule.summary] = true
		out = append(out, rule.summary)
	}
	return out
}

// deriveCharacteristics is a pure boolean function of which tags fired.
// Conflicting tags (e.g. first-time progressive alongside monovision) are both
// retained; resolution happens downstream in the outcome ranker.
func deriveCharacteristics(fired map[Tag]float64) Characteristics {
	has := func(tags ...Tag) bool {
		for _, t := range tags {
			if _, ok := fired[t]; ok {
				return true
			}
		}
		return false
	}
	return Characteristics{
		WantsBlueLightFilter: has(TagComputerHeavyUse, TagCVSSyndrome),
		WantsAntiReflective:  has(TagNightDrivingComplaint, TagGlareSensitivity),
		WantsPhotochromic:    has(TagPhotophobia, TagOutdoorLifestyle),
		WantsPolarized:       has(TagOutdoorLifestyle) && has(TagGlareSensitivity, TagNightDrivingComplaint),
		WantsImpactResistant: has(TagSportsActive, TagSafetyEyewear, TagChildPatient),
		WantsSoftDesign:      has(TagFirstTimeProgressive, TagPreviousNonAdapt),
		WantsOccupational:    has(TagComputerHeavyUse) && has(TagReadingHeavy, TagCVSSyndrome),
	}
}

// normalizeNotes lowercases and flattens the note so phrase rules tolerate
// punctuation and spacing variation ("first-time" matches "first time").
func normalizeNotes(notes string) string {
	lowered := strings.ToLower(strings.TrimSpace(notes))
	if lowered == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(lowered))
	lastSpace := false
	for _, r := range lowered {
		switch {
		case r == '-' || r == '/' || r == '\n' || r == '\t' || r == ' ' || r == ',':
			if !lastSpace {
				b.WriteByte(' ')
				lastSpace = true
			}
		default:
			b.WriteRune(r)
			lastSpace = false
		}
	}
	return strings.TrimSpace(b.String())
}
