// Package export writes a research result to a downloadable document.
package export

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/painresearch/internal/render"
	"github.com/hyperifyio/painresearch/internal/research"
)

// FilePrefix starts every exported file name.
const FilePrefix = "Исследование_болей"

// Format selects the document type.
type Format string

const (
	FormatDOCX Format = "docx"
	FormatPDF  Format = "pdf"
)

// ParseFormat accepts "docx", "pdf" or a file extension such as ".pdf".
// Empty input means DOCX.
func ParseFormat(s string) (Format, error) {
	switch strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), ".") {
	case "", "docx":
		return FormatDOCX, nil
	case "pdf":
		return FormatPDF, nil
	}
	return "", fmt.Errorf("unsupported export format %q", s)
}

// ContentType is the MIME type sent with a download.
func (f Format) ContentType() string {
	if f == FormatPDF {
		return "application/pdf"
	}
	return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// FileName is FilePrefix, the topic with whitespace runs replaced by "_",
// and the format extension.
func FileName(topic string, f Format) string {
	return FilePrefix + "_" + whitespaceRun.ReplaceAllString(topic, "_") + "." + string(f)
}

// ExportError reports a failure to assemble or package a document.
type ExportError struct {
	Format Format
	Err    error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export %s: %v", e.Format, e.Err)
}

func (e *ExportError) Unwrap() error { return e.Err }

// Exporter renders documents in one format.
type Exporter struct {
	Format Format
	// FontPath is a UTF-8 TrueType font used by the PDF writer. The report
	// labels are Cyrillic, so PDF export fails without it.
	FontPath string
}

// Export writes the document for res to w. The document is assembled in
// memory first, so nothing is written when assembly fails.
func (e *Exporter) Export(w io.Writer, res *research.Result, topic string) error {
	format := e.Format
	if format == "" {
		format = FormatDOCX
	}
	if res == nil {
		return &ExportError{Format: format, Err: errors.New("no result to export")}
	}
	doc := NewDocument(render.Build(res, topic))

	var buf bytes.Buffer
	var err error
	switch format {
	case FormatDOCX:
		err = writeDOCX(&buf, doc)
	case FormatPDF:
		err = writePDF(&buf, doc, e.FontPath)
	default:
		err = fmt.Errorf("unsupported format %q", format)
	}
	if err != nil {
		log.Error().Err(err).Str("format", string(format)).Str("topic", topic).Msg("document assembly failed")
		return &ExportError{Format: format, Err: err}
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		log.Error().Err(err).Str("format", string(format)).Msg("document write failed")
		return &ExportError{Format: format, Err: err}
	}
	log.Info().Str("format", string(format)).Int("bytes", buf.Len()).Str("topic", topic).Msg("document exported")
	return nil
}
