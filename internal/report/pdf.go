package report

import (
	"bytes"
	"fmt"
	"strings"

	resultdomain "dna-clinic-go/internal/domain/result"
	"github.com/go-pdf/fpdf"
)

const (
	clinicName = "Trung tâm xét nghiệm ADN"
	disclaimer = "Kết luận được tính theo quy tắc tạm thời, chỉ mang tính tham khảo và cần được chuyên viên xét nghiệm xác nhận."
)

// PDFRenderer lays out a test result assessment as a one page A4 report.
type PDFRenderer struct{}

func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{}
}

func (PDFRenderer) Render(doc resultdomain.Document) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fold("Kết quả xét nghiệm "+doc.Result.ID), false)
	pdf.SetCreator(fold(clinicName), false)
	pdf.SetCatalogSort(true)
	pdf.SetCreationDate(doc.GeneratedAt)
	pdf.SetModificationDate(doc.GeneratedAt)
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, fold(clinicName), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 8, fold("PHIẾU KẾT QUẢ XÉT NGHIỆM ADN"), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 11)
	info := [][2]string{
		{"Mã kết quả", doc.Result.ID},
		{"Mã lịch hẹn", doc.Result.BookingID},
		{"Khách hàng", doc.CustomerName},
		{"Dịch vụ", doc.ServiceName},
		{"Ngày xét nghiệm", doc.Result.Date.Format("02/01/2006")},
		{"Trạng thái", doc.Result.Status},
	}
	for _, row := range info {
		pdf.CellFormat(45, 7, fold(row[0])+":", "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 7, fold(row[1]), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	drawLoci(pdf, doc.Assessment)
	pdf.Ln(4)

	a := doc.Assessment
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 7, fold(fmt.Sprintf("Số locus trùng khớp: %d/%d (%.2f%%)", a.Matching, a.Total, a.Percentage)), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, fold("Kết luận: "+string(a.Conclusion)), "", 1, "L", false, 0, "")
	if a.Note != "" {
		pdf.SetFont("Helvetica", "I", 10)
		pdf.MultiCell(0, 6, fold(a.Note), "", "L", false)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.MultiCell(0, 5, fold(disclaimer), "", "L", false)
	pdf.CellFormat(0, 6, fold("Ngày lập: "+doc.GeneratedAt.Format("02/01/2006 15:04")), "", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func drawLoci(pdf *fpdf.Fpdf, a resultdomain.Assessment) {
	widths := []float64{50, 50, 50, 30}
	headers := []string{"Locus", "Mẫu 1", "Mẫu 2", "Kết quả"}

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 236, 245)
	for i, header := range headers {
		pdf.CellFormat(widths[i], 7, fold(header), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, locus := range a.Loci {
		verdict := "Khớp"
		if !locus.Match {
			verdict = "Không khớp"
		}
		pdf.CellFormat(widths[0], 6, fold(locus.Name), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 6, strings.Join(locus.AllelesA, ", "), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[2], 6, strings.Join(locus.AllelesB, ", "), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[3], 6, fold(verdict), "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
	}
}
