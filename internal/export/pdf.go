package export

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// ErrNoUnicodeFont is returned by the PDF writer when no UTF-8 font is
// configured. The built-in PDF fonts cannot draw Cyrillic.
var ErrNoUnicodeFont = errors.New("pdf export needs a UTF-8 TrueType font (set PDF_FONT or -pdf.font)")

// fontCandidates are common locations of a Cyrillic-capable TTF.
var fontCandidates = []string{
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/TTF/DejaVuSans.ttf",
	"/usr/share/fonts/truetype/liberation/LiberationSans-Regular.ttf",
	"/Library/Fonts/Arial Unicode.ttf",
	"C:\\Windows\\Fonts\\arial.ttf",
}

// FindFont returns the first existing candidate font, or "".
func FindFont() string {
	for _, p := range fontCandidates {
		if st, err := os.Stat(p); err == nil && !st.IsDir() {
			return p
		}
	}
	return ""
}

const (
	pdfFamily = "report"
	lineH     = 6.0
)

// writePDF renders doc with gofpdf. Bold and italic reuse the regular face.
func writePDF(w io.Writer, doc Document, fontPath string) error {
	if strings.TrimSpace(fontPath) == "" {
		return ErrNoUnicodeFont
	}
	pdf := gofpdf.New("P", "mm", "A4", filepath.Dir(fontPath))
	base := filepath.Base(fontPath)
	for _, style := range []string{"", "B", "I"} {
		pdf.AddUTF8Font(pdfFamily, style, base)
	}
	if err := pdf.Error(); err != nil {
		return err
	}
	pdf.SetMargins(20, 15, 15)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont(pdfFamily, "B", 16)
	pdf.MultiCell(0, 8, doc.Title, "", "C", false)
	pdf.SetFont(pdfFamily, "B", 13)
	pdf.MultiCell(0, 7, doc.Subtitle, "", "C", false)
	pdf.Ln(4)
	pdf.SetFont(pdfFamily, "B", 14)
	pdf.MultiCell(0, 7, doc.SummaryHeading, "", "L", false)
	pdf.Ln(2)

	pdfTable(pdf, doc.Header, doc.Rows)

	for _, sec := range doc.Sections {
		pdf.AddPage()
		pdf.SetFont(pdfFamily, "B", 16)
		pdf.MultiCell(0, 8, strings.ToUpper(sec.Heading), "", "L", false)
		pdf.Ln(2)
		for _, th := range sec.Themes {
			pdf.Ln(3)
			pdf.SetFont(pdfFamily, "B", 12)
			pdf.MultiCell(0, lineH+1, th.Heading, "", "L", false)

			pdf.SetFont(pdfFamily, "B", 11)
			pdf.SetTextColor(225, 29, 72)
			pdf.Write(lineH, labelPain)
			pdf.SetTextColor(0, 0, 0)
			pdf.SetFont(pdfFamily, "I", 11)
			pdf.Write(lineH, th.Pain)
			pdf.Ln(lineH)

			labelled(pdf, labelQuery, th.Query)
			labelled(pdf, labelFrequency, th.Frequency)
			labelled(pdf, labelScore, th.Score)

			pdf.SetFont(pdfFamily, "B", 11)
			pdf.MultiCell(0, lineH, labelComments, "", "L", false)
			pdf.SetFont(pdfFamily, "", 10)
			left, _, _, _ := pdf.GetMargins()
			for _, c := range th.Comments {
				pdf.SetX(left + 12)
				pdf.MultiCell(0, 5, "• «"+c+"»", "", "L", false)
			}
		}
	}

	if err := pdf.Error(); err != nil {
		return err
	}
	return pdf.Output(w)
}

func labelled(pdf *gofpdf.Fpdf, label, value string) {
	pdf.SetFont(pdfFamily, "B", 11)
	pdf.Write(lineH, label)
	pdf.SetFont(pdfFamily, "", 11)
	pdf.Write(lineH, value)
	pdf.Ln(lineH)
}

// pdfTable draws the summary table; long cells are shortened to fit.
func pdfTable(pdf *gofpdf.Fpdf, header []string, rows [][]string) {
	widths := []float64{10, 85, 55, 25}
	draw := func(cells []string, style string) {
		pdf.SetFont(pdfFamily, style, 10)
		for i, c := range cells {
			wd := widths[len(widths)-1]
			if i < len(widths) {
				wd = widths[i]
			}
			pdf.CellFormat(wd, 7, fit(pdf, c, wd-2), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}
	draw(header, "B")
	for _, r := range rows {
		draw(r, "")
	}
}

func fit(pdf *gofpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	rs := []rune(s)
	for len(rs) > 0 && pdf.GetStringWidth(string(rs)+"…") > width {
		rs = rs[:len(rs)-1]
	}
	return string(rs) + "…"
}
