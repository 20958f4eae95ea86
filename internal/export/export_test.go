package export

import (
	"archive/zip"
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/hyperifyio/painresearch/internal/research"
)

func evResult() *research.Result {
	return &research.Result{
		Clusters: []research.Cluster{
			{Name: "Зарядка", Themes: []research.Theme{
				{Title: "Нет станций", Pain: "Негде зарядиться", Query: "где зарядить", Frequency: "высокая", Score: 92, Comments: []string{"Стою в очереди <час>", "Тесла & co"}},
			}},
			{Name: "Цена", Themes: []research.Theme{{Title: "Дорого", Pain: "Не по карману", Score: 85}}},
			{Name: "Сервис", Themes: nil},
		},
		Top15: []research.SummaryItem{
			{Title: "Нет станций", Cluster: "Зарядка", PainShort: "негде", Score: 92},
			{Title: "Дорого", Cluster: "Цена", PainShort: "дорого", Score: 85},
			{Title: "Сервис", Cluster: "Сервис", PainShort: "далеко", Score: 70},
			{Title: "Батарея", Cluster: "Зарядка", PainShort: "зима", Score: 66},
		},
	}
}

func TestFileName(t *testing.T) {
	got := FileName("Рынок электромобилей", FormatDOCX)
	if got != "Исследование_болей_Рынок_электромобилей.docx" {
		t.Fatalf("FileName=%q", got)
	}
	if !strings.Contains(got, "Рынок_электромобилей") {
		t.Fatalf("topic not sanitized: %q", got)
	}
	if got := FileName("a \t  b", FormatPDF); got != "Исследование_болей_a_b.pdf" {
		t.Fatalf("whitespace runs should collapse to one underscore: %q", got)
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": FormatDOCX, "DOCX": FormatDOCX, ".pdf": FormatPDF} {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Fatalf("ParseFormat(%q)=%q,%v", in, got, err)
		}
	}
	if _, err := ParseFormat("odt"); err == nil {
		t.Fatalf("expected error for odt")
	}
}

func readDocumentXML(t *testing.T, data []byte) string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("open zip: %v", err)
	}
	names := map[string]bool{}
	var body string
	for _, f := range zr.File {
		names[f.Name] = true
		if f.Name == "word/document.xml" {
			rc, err := f.Open()
			if err != nil {
				t.Fatalf("open document.xml: %v", err)
			}
			b, _ := io.ReadAll(rc)
			rc.Close()
			body = string(b)
		}
	}
	for _, want := range []string{"[Content_Types].xml", "_rels/.rels", "word/styles.xml", "word/document.xml"} {
		if !names[want] {
			t.Fatalf("missing part %s", want)
		}
	}
	return body
}

func TestExportDOCX_Structure(t *testing.T) {
	res := evResult()
	var buf bytes.Buffer
	e := &Exporter{Format: FormatDOCX}
	if err := e.Export(&buf, res, "Рынок электромобилей"); err != nil {
		t.Fatalf("export: %v", err)
	}
	body := readDocumentXML(t, buf.Bytes())

	if got, want := strings.Count(body, "<w:tr>"), len(res.Top15)+1; got != want {
		t.Fatalf("table rows=%d, want %d (header + one per top15 entry)", got, want)
	}
	if got := strings.Count(body, `w:type="page"`); got != len(res.Clusters) {
		t.Fatalf("cluster page breaks=%d, want %d", got, len(res.Clusters))
	}
	if got := strings.Count(body, ">КЛАСТЕР: "); got != len(res.Clusters) {
		t.Fatalf("cluster headings=%d, want %d", got, len(res.Clusters))
	}
	if !strings.Contains(body, "Рубрика: Рынок электромобилей") {
		t.Fatalf("topic subheading missing")
	}
	if strings.Contains(body, ">негде<") {
		t.Fatalf("short pain column must not be exported")
	}
	if !strings.Contains(body, "&lt;час&gt;") || !strings.Contains(body, "Тесла &amp; co") {
		t.Fatalf("comment text must be XML-escaped")
	}
	if !strings.Contains(body, `<w:color w:val="E11D48">`) {
		t.Fatalf("pain label should be highlighted")
	}
	if !strings.Contains(body, `xml:space="preserve">Боль аудитории: <`) {
		t.Fatalf("label trailing space must be preserved")
	}
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) { return 0, errors.New("disk full") }

func TestExport_WriteFailureIsExportError(t *testing.T) {
	e := &Exporter{Format: FormatDOCX}
	err := e.Export(failingWriter{}, evResult(), "t")
	var xerr *ExportError
	if !errors.As(err, &xerr) || xerr.Format != FormatDOCX {
		t.Fatalf("expected ExportError, got %v", err)
	}
}

func TestExport_NilResult(t *testing.T) {
	e := &Exporter{}
	var xerr *ExportError
	if err := e.Export(io.Discard, nil, "t"); !errors.As(err, &xerr) {
		t.Fatalf("expected ExportError, got %v", err)
	}
}

func TestExportPDF_NoFont(t *testing.T) {
	var buf bytes.Buffer
	e := &Exporter{Format: FormatPDF}
	err := e.Export(&buf, evResult(), "t")
	if !errors.Is(err, ErrNoUnicodeFont) {
		t.Fatalf("expected ErrNoUnicodeFont, got %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("nothing should be written on failure")
	}
}

func TestExportPDF_WithSystemFont(t *testing.T) {
	font := FindFont()
	if font == "" {
		t.Skip("no Cyrillic TTF font installed")
	}
	var buf bytes.Buffer
	e := &Exporter{Format: FormatPDF, FontPath: font}
	if err := e.Export(&buf, evResult(), "Рынок электромобилей"); err != nil {
		t.Fatalf("export pdf: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Fatalf("output is not a PDF")
	}
}

func TestExportPDF_MissingFontFile(t *testing.T) {
	e := &Exporter{Format: FormatPDF, FontPath: "/nonexistent/dir/font.ttf"}
	var xerr *ExportError
	if err := e.Export(io.Discard, evResult(), "t"); !errors.As(err, &xerr) {
		t.Fatalf("expected ExportError for missing font, got %v", err)
	}
}
