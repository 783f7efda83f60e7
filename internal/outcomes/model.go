package outcomes

import (
	"time"

	"lensrec-backend/internal/lens"
)

// OutcomeType classifies a recorded real-world manufacturing outcome.
type OutcomeType string

const (
	OutcomeSuccess  OutcomeType = "success"
	OutcomeNonAdapt OutcomeType = "non_adapt"
	OutcomeRemake   OutcomeType = "remake"
)

// Valid reports whether the outcome type is a known value.
func (o OutcomeType) Valid() bool {
	switch o {
	case OutcomeSuccess, OutcomeNonAdapt, OutcomeRemake:
		return true
	}
	return false
}

// Statistic is the aggregated historical outcome record for one lens
// configuration. Counts are stored rather than rates so feedback updates are
// exact increments and the rate-sum invariant holds by construction. Rows are
// never deleted, only appended to by the feedback path.
type Statistic struct {
	Config     lens.Configuration `json:"configuration"`
	SampleSize int                `json:"sampleSize"`
	Successes  int                `json:"successes"`
	NonAdapts  int                `json:"nonAdapts"`
	Remakes    int                `json:"remakes"`
	RiskNotes  []string           `json:"riskNotes,omitempty"`
	UpdatedAt  time.Time          `json:"updatedAt"`
}

// SuccessRate returns successes over sample size, 0 for an empty sample.
func (s Statistic) SuccessRate() float64 {
	return rate(s.Successes, s.SampleSize)
}

// NonAdaptRate returns non-adapts over sample size, 0 for an empty sample.
func (s Statistic) NonAdaptRate() float64 {
	return rate(s.NonAdapts, s.SampleSize)
}

// RemakeRate returns remakes over sample size, 0 for an empty sample.
func (s Statistic) RemakeRate() float64 {
	return rate(s.Remakes, s.SampleSize)
}

func rate(count, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(count) / float64(total)
}

// Candidate is one ranked ideal configuration produced for a single request.
// It is never persisted on its own.
type Candidate struct {
	Config           lens.Configuration `json:"configuration"`
	ClinicalScore    float64            `json:"clinicalScore"`
	SampleSize       int                `json:"sampleSize"`
	ClinicalContext  []string           `json:"clinicalContext,omitempty"`
	InsufficientData bool               `json:"insufficientData,omitempty"`
}
