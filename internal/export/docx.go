package export

import (
	"fmt"
	"io"
	"strings"

	docx "github.com/fumiama/go-docx"
)

// painColor highlights the "audience pain" label.
const painColor = "E11D48"

// Run sizes in half-points.
const (
	sizeTitle    = "36"
	sizeSubtitle = "28"
	sizeSection  = "32"
	sizeTheme    = "24"
)

// commentIndent is the left indent of quoted comments, in twips.
const commentIndent = 720

// text appends a run to p keeping leading and trailing spaces, which the
// labels rely on.
func text(p *docx.Paragraph, s string) *docx.Run {
	r := p.AddText(s)
	for _, c := range r.Children {
		if t, ok := c.(*docx.Text); ok {
			t.XMLSpace = "preserve"
		}
	}
	return r
}

func indent(p *docx.Paragraph, left int) *docx.Paragraph {
	if p.Properties == nil {
		p.Properties = &docx.ParagraphProperties{}
	}
	p.Properties.Ind = &docx.Ind{Left: left}
	return p
}

// summaryTable adds the header row in bold followed by one row per entry.
func summaryTable(d *docx.Docx, header []string, rows [][]string) {
	tbl := d.AddTable(len(rows)+1, len(header), 0, nil)
	for j, h := range header {
		text(tbl.TableRows[0].TableCells[j].AddParagraph(), h).Bold()
	}
	for i, row := range rows {
		cells := tbl.TableRows[i+1].TableCells
		for j := 0; j < len(cells) && j < len(row); j++ {
			text(cells[j].AddParagraph(), row[j])
		}
	}
}

// buildDOCX lays out doc. Each cluster section starts on a new page.
func buildDOCX(doc Document) *docx.Docx {
	d := docx.New().WithDefaultTheme()

	text(d.AddParagraph().Justification("center"), doc.Title).Bold().Size(sizeTitle)
	text(d.AddParagraph().Justification("center"), doc.Subtitle).Bold().Size(sizeSubtitle)
	d.AddParagraph()
	text(d.AddParagraph(), doc.SummaryHeading).Bold().Size(sizeSubtitle)
	d.AddParagraph()
	summaryTable(d, doc.Header, doc.Rows)
	d.AddParagraph()

	for _, sec := range doc.Sections {
		d.AddParagraph().AddPageBreaks()
		text(d.AddParagraph(), strings.ToUpper(sec.Heading)).Bold().Size(sizeSection)
		for _, th := range sec.Themes {
			d.AddParagraph()
			text(d.AddParagraph(), th.Heading).Bold().Size(sizeTheme)

			p := d.AddParagraph()
			text(p, labelPain).Bold().Color(painColor)
			text(p, th.Pain).Italic()

			for _, line := range [][2]string{
				{labelQuery, th.Query},
				{labelFrequency, th.Frequency},
				{labelScore, th.Score},
			} {
				p := d.AddParagraph()
				text(p, line[0]).Bold()
				text(p, line[1])
			}

			text(d.AddParagraph(), labelComments).Bold()
			for _, c := range th.Comments {
				text(indent(d.AddParagraph(), commentIndent), "• «"+c+"»")
			}
		}
	}
	// The section properties must close the body.
	return d.WithA4Page()
}

// writeDOCX packages doc as an Office Open XML zip.
func writeDOCX(w io.Writer, doc Document) error {
	if _, err := buildDOCX(doc).WriteTo(w); err != nil {
		return fmt.Errorf("write docx: %w", err)
	}
	return nil
}
