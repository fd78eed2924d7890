package result

import (
	"fmt"
	"strings"
)

// Locus is one row of the comparison table: a marker and the alleles found
// for the two people compared.
type Locus struct {
	Name     string
	AllelesA []string
	AllelesB []string
}

type LocusMatch struct {
	Locus
	Match bool
}

type Conclusion string

const (
	ConclusionInclusion    Conclusion = "Có quan hệ huyết thống"
	ConclusionExclusion    Conclusion = "Không có quan hệ huyết thống"
	ConclusionInconclusive Conclusion = "Chưa đủ cơ sở kết luận"
)

type Assessment struct {
	Loci        []LocusMatch
	Total       int
	Matching    int
	Mismatching int
	Percentage  float64
	Conclusion  Conclusion
	Note        string
}

type MatchPolicy interface {
	Evaluate(loci []Locus) Assessment
}

// ParseDescription reads the comparison table stored in a result
// description: one header line, then "locus<TAB>alleles A<TAB>alleles B"
// rows with alleles separated by "," or "/".
func ParseDescription(description string) ([]Locus, error) {
	lines := strings.Split(strings.ReplaceAll(description, "\r\n", "\n"), "\n")

	header := -1
	for i, line := range lines {
		if strings.TrimSpace(line) != "" {
			header = i
			break
		}
	}
	if header < 0 {
		return nil, ErrMissingHeader
	}

	loci := make([]Locus, 0, len(lines)-header-1)
	for i := header + 1; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 3 {
			return nil, fmt.Errorf("%w: dòng %d", ErrMalformedRow, i+1)
		}
		locus := Locus{
			Name:     strings.TrimSpace(fields[0]),
			AllelesA: splitAlleles(fields[1]),
			AllelesB: splitAlleles(fields[2]),
		}
		if locus.Name == "" || len(locus.AllelesA) == 0 || len(locus.AllelesB) == 0 {
			return nil, fmt.Errorf("%w: dòng %d", ErrMalformedRow, i+1)
		}
		loci = append(loci, locus)
	}
	if len(loci) == 0 {
		return nil, ErrNoLoci
	}
	return loci, nil
}

func splitAlleles(field string) []string {
	parts := strings.FieldsFunc(field, func(r rune) bool {
		return r == ',' || r == '/'
	})
	alleles := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			alleles = append(alleles, part)
		}
	}
	return alleles
}

// PlaceholderMatchPolicy is an illustrative heuristic, not a statistical
// kinship calculation. A locus matches when the two people share at least
// one allele.
//
//   - two or more mismatching loci: exclusion
//   - exactly one mismatch over at least 15 loci: inclusion with a caveat
//   - every locus matches: inclusion
//   - anything else is inconclusive, unless fewer than half the loci match,
//     which is read as exclusion
type PlaceholderMatchPolicy struct{}

const (
	exclusionMismatches = 2
	caveatMinLoci       = 15
	lowMatchPercentage  = 50.0
)

func (PlaceholderMatchPolicy) Evaluate(loci []Locus) Assessment {
	assessment := Assessment{
		Loci:  make([]LocusMatch, 0, len(loci)),
		Total: len(loci),
	}
	for _, locus := range loci {
		match := sharesAllele(locus.AllelesA, locus.AllelesB)
		if match {
			assessment.Matching++
		} else {
			assessment.Mismatching++
		}
		assessment.Loci = append(assessment.Loci, LocusMatch{Locus: locus, Match: match})
	}
	if assessment.Total > 0 {
		assessment.Percentage = float64(assessment.Matching) / float64(assessment.Total) * 100
	}

	switch {
	case assessment.Total == 0:
		assessment.Conclusion = ConclusionInconclusive
	case assessment.Mismatching >= exclusionMismatches:
		assessment.Conclusion = ConclusionExclusion
	case assessment.Mismatching == 1 && assessment.Total >= caveatMinLoci:
		assessment.Conclusion = ConclusionInclusion
		assessment.Note = "Có 1 locus không trùng khớp, có thể do đột biến; nên xét nghiệm bổ sung."
	case assessment.Mismatching == 0:
		assessment.Conclusion = ConclusionInclusion
	default:
		assessment.Conclusion = ConclusionInconclusive
	}
	if assessment.Conclusion == ConclusionInconclusive && assessment.Total > 0 && assessment.Percentage < lowMatchPercentage {
		assessment.Conclusion = ConclusionExclusion
	}
	return assessment
}

func sharesAllele(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}
