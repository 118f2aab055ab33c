// Package writers sends extraction results to the console or to
// files, as plain text, JSON, or JSON Lines.
//
// File destinations get their parent directories created. The path "-"
// or an empty path means the console stream. Console text output is
// newline-terminated; file output is written byte-exact.
package writers

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	coreerrors "github.com/lexeis/stephanos/core/errors"
	"github.com/lexeis/stephanos/core/segment"
)

// FormatVersion identifies the JSON document shape.
const FormatVersion = 1

// Metadata heads a JSON extraction document.
type Metadata struct {
	Work          string `json:"work"`
	Title         string `json:"title,omitempty"`
	TitleEn       string `json:"title_en,omitempty"`
	Style         string `json:"style,omitempty"`
	Range         string `json:"range,omitempty"`
	ExtractionID  string `json:"extraction_id"`
	Timestamp     string `json:"timestamp"`
	FormatVersion int    `json:"format_version"`
}

// NewMetadata stamps extraction metadata with a fresh ID and the
// current time.
func NewMetadata(workID, title, titleEn, style, rangeSelector string) Metadata {
	return Metadata{
		Work:          workID,
		Title:         title,
		TitleEn:       titleEn,
		Style:         style,
		Range:         rangeSelector,
		ExtractionID:  uuid.NewString(),
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		FormatVersion: FormatVersion,
	}
}

// Document is the JSON output shape.
type Document struct {
	Metadata Metadata          `json:"metadata"`
	Segments []segment.Segment `json:"segments"`
}

// TextWriter writes rendered text.
type TextWriter struct {
	// Path is the destination file; empty or "-" writes to the
	// console.
	Path string
	// Out overrides the console stream. Defaults to stdout.
	Out io.Writer
}

// Write sends text to the destination and reports the file path it
// wrote, or "" for console output.
func (w *TextWriter) Write(text string) (string, error) {
	if isConsole(w.Path) {
		out := w.Out
		if out == nil {
			out = os.Stdout
		}
		if !strings.HasSuffix(text, "\n") {
			text += "\n"
		}
		_, err := io.WriteString(out, text)
		return "", err
	}

	if err := writeFile(w.Path, []byte(text)); err != nil {
		return "", err
	}
	return w.Path, nil
}

// JSONWriter writes the full extraction document with two-space
// indentation.
type JSONWriter struct {
	Path string
	Out  io.Writer
}

// Write marshals the document and sends it to the destination,
// reporting the file path it wrote, or "" for console output.
func (w *JSONWriter) Write(meta Metadata, segments []segment.Segment) (string, error) {
	doc := Document{Metadata: meta, Segments: segments}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", coreerrors.Wrap(err, "encoding extraction document")
	}
	data = append(data, '\n')

	if isConsole(w.Path) {
		out := w.Out
		if out == nil {
			out = os.Stdout
		}
		_, err := out.Write(data)
		return "", err
	}

	if err := writeFile(w.Path, data); err != nil {
		return "", err
	}
	return w.Path, nil
}

// JSONLWriter writes one segment object per line.
type JSONLWriter struct {
	Path string
	Out  io.Writer
}

// Write encodes each segment on its own line, reporting the file path
// it wrote, or "" for console output.
func (w *JSONLWriter) Write(segments []segment.Segment) (string, error) {
	var sb strings.Builder
	for _, seg := range segments {
		line, err := json.Marshal(seg)
		if err != nil {
			return "", coreerrors.Wrap(err, "encoding segment")
		}
		sb.Write(line)
		sb.WriteByte('\n')
	}

	if isConsole(w.Path) {
		out := w.Out
		if out == nil {
			out = os.Stdout
		}
		_, err := io.WriteString(out, sb.String())
		return "", err
	}

	if err := writeFile(w.Path, []byte(sb.String())); err != nil {
		return "", err
	}
	return w.Path, nil
}

// DefaultTextPath builds the conventional extract destination,
// output/<workstem>_<STYLE>.txt, from an edition path and a style
// selector.
func DefaultTextPath(editionPath, style string) string {
	stem := filepath.Base(editionPath)
	stem = strings.TrimSuffix(stem, ".xz")
	stem = strings.TrimSuffix(stem, ".xml")

	suffix := style
	if len(style) == 1 {
		suffix = strings.ToUpper(style)
	}
	return filepath.Join("output", stem+"_"+suffix+".txt")
}

func isConsole(path string) bool {
	return path == "" || path == "-"
}

func writeFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return coreerrors.NewIO("mkdir", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return coreerrors.NewIO("write", path, err)
	}
	return nil
}
