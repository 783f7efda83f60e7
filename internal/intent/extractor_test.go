package intent

import (
	"reflect"
	"testing"
)

func TestExtractEmptyNotes(t *testing.T) {
	e := NewExtractor()
	for _, notes := range []string{"", "   ", "\n\t"} {
		res := e.Extract(notes)
		if len(res.Tags) != 0 {
			t.Fatalf("notes %q: expected no tags, got %v", notes, res.Tags)
		}
		if len(res.Complaints) != 0 {
			t.Fatalf("notes %q: expected no complaints, got %v", notes, res.Complaints)
		}
		if res.Characteristics != (Characteristics{}) {
			t.Fatalf("notes %q: expected default characteristics, got %+v", notes, res.Characteristics)
		}
	}
}

func TestExtractUnrecognizableNotes(t *testing.T) {
	res := NewExtractor().Extract("patient was pleasant and on time")
	if len(res.Tags) != 0 {
		t.Fatalf("expected no tags, got %v", res.Tags)
	}
}

func TestExtractFirstTimeProgressiveScenario(t *testing.T) {
	notes := "First-time progressive wearer. Works on computer 8+ hrs daily. Complains of night driving glare."
	res := NewExtractor().Extract(notes)

	for _, want := range []Tag{TagFirstTimeProgressive, TagComputerHeavyUse, TagNightDrivingComplaint} {
		if !res.Has(want, 0.8) {
			t.Errorf("expected %s with confidence >= 0.8, tags: %v", want, res.Tags)
		}
	}
	if !res.Characteristics.WantsBlueLightFilter {
		t.Error("computer-heavy use should derive WantsBlueLightFilter")
	}
	if !res.Characteristics.WantsAntiReflective {
		t.Error("night driving complaint should derive WantsAntiReflective")
	}
	if !res.Characteristics.WantsSoftDesign {
		t.Error("first-time progressive should derive WantsSoftDesign")
	}
}

func TestExtractMaxConfidenceWinsPerTag(t *testing.T) {
	// "computer" alone fires the loose keyword rule; the hours pattern fires
	// the stronger one. The tag must carry the stronger confidence.
	res := NewExtractor().Extract("uses computer all day, basic computer tasks")
	var got float64
	for _, ts := range res.Tags {
		if ts.Tag == TagComputerHeavyUse {
			got = ts.Confidence
		}
	}
	if got != 0.88 {
		t.Fatalf("expected max confidence 0.88 for computer_heavy_use, got %v", got)
	}
}

func TestExtractConflictingTagsRetained(t *testing.T) {
	res := NewExtractor().Extract("first time progressive, has also asked about monovision")
	if !res.Has(TagFirstTimeProgressive, 0.5) || !res.Has(TagMonovisionCandidate, 0.5) {
		t.Fatalf("conflicting tags must both be retained, got %v", res.Tags)
	}
}

func TestExtractComplaints(t *testing.T) {
	res := NewExtractor().Extract("reports headaches and eye strain, struggles with small print")
	want := []string{"headaches after near work", "eye strain during screen use", "difficulty with small print"}
	if !reflect.DeepEqual(res.Complaints, want) {
		t.Fatalf("complaints = %v, want %v", res.Complaints, want)
	}
}

func TestExtractDeterministicOrdering(t *testing.T) {
	notes := "glare at night driving, dry eyes, uses computer all day, plays basketball outdoors"
	first := NewExtractor().Extract(notes)
	for i := 0; i < 10; i++ {
		again := NewExtractor().Extract(notes)
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("extraction not deterministic: %+v vs %+v", first, again)
		}
	}
	for i := 1; i < len(first.Tags); i++ {
		prev, cur := first.Tags[i-1], first.Tags[i]
		if prev.Confidence < cur.Confidence {
			t.Fatalf("tags not sorted by confidence: %v", first.Tags)
		}
		if prev.Confidence == cur.Confidence && prev.Tag > cur.Tag {
			t.Fatalf("equal-confidence tags not sorted by name: %v", first.Tags)
		}
	}
}

func TestNormalizeNotesVariantSpelling(t *testing.T) {
	res := NewExtractor().Extract("FIRST-TIME  PROGRESSIVE candidate")
	if !res.Has(TagFirstTimeProgressive, 0.9) {
		t.Fatalf("hyphen/case variation should still match, got %v", res.Tags)
	}
}
