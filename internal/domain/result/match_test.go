package result

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestParseDescription(t *testing.T) {
	loci, err := ParseDescription("\r\nLocus\tA\tB\r\nD8S1179\t12, 13\t13/14\r\n\r\nTH01\t6\t7\r\n")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(loci) != 2 {
		t.Fatalf("expected two loci, got %d", len(loci))
	}
	if loci[0].Name != "D8S1179" || len(loci[0].AllelesA) != 2 || loci[0].AllelesA[1] != "13" || loci[0].AllelesB[1] != "14" {
		t.Fatalf("unexpected locus %+v", loci[0])
	}
}

func TestParseDescriptionErrors(t *testing.T) {
	cases := []struct {
		name        string
		description string
		want        error
	}{
		{"empty", "  \n ", ErrMissingHeader},
		{"header only", "Locus\tA\tB\n", ErrNoLoci},
		{"two columns", "Locus\tA\tB\nD8S1179\t12\n", ErrMalformedRow},
		{"empty alleles", "Locus\tA\tB\nD8S1179\t,\t12\n", ErrMalformedRow},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseDescription(tc.description); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func buildLoci(matching, mismatching int) []Locus {
	loci := make([]Locus, 0, matching+mismatching)
	for i := 0; i < matching; i++ {
		loci = append(loci, Locus{Name: fmt.Sprintf("M%d", i), AllelesA: []string{"12", "13"}, AllelesB: []string{"13", "15"}})
	}
	for i := 0; i < mismatching; i++ {
		loci = append(loci, Locus{Name: fmt.Sprintf("X%d", i), AllelesA: []string{"8"}, AllelesB: []string{"9", "10"}})
	}
	return loci
}

func TestPlaceholderMatchPolicy(t *testing.T) {
	cases := []struct {
		name        string
		matching    int
		mismatching int
		want        Conclusion
		note        bool
	}{
		{"all match", 10, 0, ConclusionInclusion, false},
		{"two mismatches", 20, 2, ConclusionExclusion, false},
		{"one mismatch over fifteen loci", 14, 1, ConclusionInclusion, true},
		{"one mismatch on a small panel", 9, 1, ConclusionInconclusive, false},
		{"one mismatch out of one", 0, 1, ConclusionExclusion, false},
		{"no loci", 0, 0, ConclusionInconclusive, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := PlaceholderMatchPolicy{}.Evaluate(buildLoci(tc.matching, tc.mismatching))
			if got.Conclusion != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got.Conclusion)
			}
			if (got.Note != "") != tc.note {
				t.Fatalf("unexpected note %q", got.Note)
			}
			if got.Matching != tc.matching || got.Mismatching != tc.mismatching {
				t.Fatalf("unexpected counts %d/%d", got.Matching, got.Mismatching)
			}
		})
	}
}

func TestPlaceholderMatchPolicyPercentage(t *testing.T) {
	got := PlaceholderMatchPolicy{}.Evaluate(buildLoci(3, 1))
	if got.Percentage != 75 {
		t.Fatalf("expected 75%%, got %v", got.Percentage)
	}
	if !strings.HasPrefix(got.Loci[3].Name, "X") || got.Loci[3].Match {
		t.Fatalf("expected last locus to mismatch, got %+v", got.Loci[3])
	}
}
