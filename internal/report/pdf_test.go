package report

import (
	"bytes"
	"testing"
	"time"

	resultdomain "dna-clinic-go/internal/domain/result"
)

func TestFold(t *testing.T) {
	cases := map[string]string{
		"Đã tới kho":             "Da toi kho",
		"Có quan hệ huyết thống": "Co quan he huyet thong",
		"  D8S1179 ":             "D8S1179",
	}
	for input, want := range cases {
		if got := fold(input); got != want {
			t.Fatalf("expected %q, got %q", want, got)
		}
	}
}

func TestRenderProducesPDF(t *testing.T) {
	loci, err := resultdomain.ParseDescription("Locus\tA\tB\nD8S1179\t12,14\t14/15\nD21S11\t28,30\t31,32")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	generated := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	doc := resultdomain.Document{
		Result: resultdomain.TestResult{
			ID:        "R0001",
			BookingID: "B0001",
			Date:      generated,
			Status:    resultdomain.DefaultStatus,
		},
		CustomerName: "Nguyễn Văn A",
		ServiceName:  "Xét nghiệm huyết thống cha con",
		Assessment:   resultdomain.PlaceholderMatchPolicy{}.Evaluate(loci),
		GeneratedAt:  generated,
	}

	first, err := NewPDFRenderer().Render(doc)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.HasPrefix(first, []byte("%PDF-")) {
		t.Fatalf("expected pdf header, got %q", first[:8])
	}

	second, err := NewPDFRenderer().Render(doc)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Fatalf("expected identical bytes for identical documents")
	}
}
