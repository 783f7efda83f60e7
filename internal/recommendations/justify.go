package recommendations

import (
	"fmt"
	"strings"

	"lensrec-backend/internal/catalog"
	"lensrec-backend/internal/intent"
	"lensrec-backend/internal/lens"
)

const maxClinicalReasons = 2

// Generic wording used when an analysis produced no specific context to cite.
const (
	genericClinical  = "Solid historical adaptation record for this lens design across comparable prescriptions."
	genericLifestyle = "A dependable everyday choice for this prescription."
)

// buildJustifications renders the two per-tier texts from the structured
// analysis outputs. Both degrade to generic wording when no specific context
// is available.
func buildJustifications(m catalog.Match, res intent.Result) (clinical, lifestyle string) {
	return clinicalJustification(m), lifestyleJustification(*m.Product.Lens, res)
}

func clinicalJustification(m catalog.Match) string {
	reasons := m.Candidate.ClinicalContext
	if len(reasons) == 0 {
		return genericClinical
	}
	if len(reasons) > maxClinicalReasons {
		reasons = reasons[:maxClinicalReasons]
	}
	return fmt.Sprintf("Recommended as a %s: %s.",
		m.Candidate.Config.Describe(), strings.Join(reasons, "; "))
}

func lifestyleJustification(cfg lens.Configuration, res intent.Result) string {
	points := make([]string, 0, 3)

	switch cfg.Coating {
	case lens.CoatingAntiReflect:
		if res.Characteristics.WantsAntiReflective {
			points = append(points, "the anti-reflective coating cuts the reported glare, including at night")
		}
	case lens.CoatingBlueFilter:
		if res.Characteristics.WantsBlueLightFilter {
			points = append(points, "the blue-light filter eases long hours of screen work")
		}
	case lens.CoatingPhotochromic:
		if res.Characteristics.WantsPhotochromic {
			points = append(points, "the photochromic tint adapts between indoor and outdoor light")
		}
	case lens.CoatingPolarized:
		if res.Characteristics.WantsPolarized {
			points = append(points, "the polarized finish suits bright outdoor conditions")
		}
	}

	if res.Characteristics.WantsImpactResistant && cfg.Material.WrapTolerant() {
		points = append(points, "the impact-resistant material stands up to active use")
	}
	if res.Characteristics.WantsOccupational && cfg.Type == lens.TypeOccupational {
		points = append(points, "the occupational design keeps desk and reading distances comfortable")
	}

	if len(points) == 0 {
		if len(res.Complaints) > 0 {
			return fmt.Sprintf("Chosen with the reported %s in mind.", res.Complaints[0])
		}
		return genericLifestyle
	}

	sentence := strings.Join(points, "; ")
	return strings.ToUpper(sentence[:1]) + sentence[1:] + "."
}
