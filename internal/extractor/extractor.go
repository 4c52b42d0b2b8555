// Package extractor turns résumé and job-description documents into plain
// text and reads them from local paths, http(s) URLs and S3 buckets.
package extractor

import (
	"bytes"
	"fmt"
	"html"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"

	"resumescan/internal/errors"
)

// Format is a document format the extractor understands.
type Format string

const (
	FormatText Format = "text"
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
	FormatHTML Format = "html"
)

var extensionFormats = map[string]Format{
	".txt":      FormatText,
	".text":     FormatText,
	".md":       FormatText,
	".markdown": FormatText,
	".pdf":      FormatPDF,
	".docx":     FormatDOCX,
	".html":     FormatHTML,
	".htm":      FormatHTML,
}

// binarySampleSize is how much of a document IsBinaryData inspects.
const binarySampleSize = 1000

// IsSupported reports whether name has an extension the extractor handles.
func IsSupported(name string) bool {
	_, ok := extensionFormats[strings.ToLower(filepath.Ext(name))]
	return ok
}

// DetectFormat picks a format from the file extension. Names with an
// extension the extractor does not handle are rejected; names without one
// are identified by their content.
func DetectFormat(name string, data []byte) (Format, error) {
	ext := strings.ToLower(filepath.Ext(name))
	if f, ok := extensionFormats[ext]; ok {
		return f, nil
	}
	if ext != "" {
		return "", unsupported(name)
	}
	return SniffFormat(name, data)
}

// SniffFormat identifies a document by its content alone. Remote sources use
// it since their names come from URL paths and object keys.
func SniffFormat(name string, data []byte) (Format, error) {
	switch {
	case bytes.HasPrefix(data, []byte("%PDF-")):
		return FormatPDF, nil
	case bytes.HasPrefix(data, []byte("PK")):
		return FormatDOCX, nil
	case looksLikeHTML(data):
		return FormatHTML, nil
	case IsBinaryData(data) || !utf8.Valid(data):
		return "", unsupported(name)
	}
	return FormatText, nil
}

// Extract returns the text of a document named name.
func Extract(name string, data []byte) (string, error) {
	format, err := DetectFormat(name, data)
	if err != nil {
		return "", err
	}
	return extractAs(format, name, data)
}

// ExtractContent returns the text of a document whose format is sniffed from
// data, ignoring any extension in name.
func ExtractContent(name string, data []byte) (string, error) {
	format, err := SniffFormat(name, data)
	if err != nil {
		return "", err
	}
	return extractAs(format, name, data)
}

func extractAs(format Format, name string, data []byte) (string, error) {
	var (
		text string
		err  error
	)
	switch format {
	case FormatPDF:
		text, err = extractPDF(data)
	case FormatDOCX:
		text, err = extractDOCX(data)
	case FormatHTML:
		if !utf8.Valid(data) {
			return "", notText(name)
		}
		text, err = htmltomarkdown.ConvertString(string(data))
	default:
		if IsBinaryData(data) || !utf8.Valid(data) {
			return "", notText(name)
		}
		text = string(data)
	}
	if err != nil {
		return "", errors.NewIOError(errors.ErrCodeExtractionFailed,
			fmt.Sprintf("Failed to extract text from %s", name), err).WithContext("format", string(format))
	}
	return text, nil
}

func unsupported(name string) error {
	return errors.NewValidationError(errors.ErrCodeUnsupportedDocument,
		fmt.Sprintf("Unsupported document type: %s", name), nil)
}

func notText(name string) error {
	return errors.NewValidationError(errors.ErrCodeUnsupportedDocument,
		fmt.Sprintf("%s is not UTF-8 text", name), nil)
}

// IsBinaryData reports whether data looks like a binary document: a PDF or
// ZIP signature, or more than 30% non-printable bytes in the first 1000.
func IsBinaryData(data []byte) bool {
	if bytes.HasPrefix(data, []byte("%PDF-")) || bytes.HasPrefix(data, []byte("PK")) {
		return true
	}
	sample := data
	if len(sample) > binarySampleSize {
		sample = sample[:binarySampleSize]
	}
	if len(sample) == 0 {
		return false
	}

	nonPrintable := 0
	for _, b := range sample {
		if b < 32 && b != '\n' && b != '\r' && b != '\t' {
			nonPrintable++
		}
	}
	return float64(nonPrintable)/float64(len(sample)) > 0.3
}

func looksLikeHTML(data []byte) bool {
	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	head = bytes.ToLower(bytes.TrimSpace(head))
	return bytes.HasPrefix(head, []byte("<!doctype html")) || bytes.HasPrefix(head, []byte("<html"))
}

// extractPDF concatenates the plain text of every page. The PDF reader
// panics on some malformed files; that is reported as an error.
func extractPDF(data []byte) (text string, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("malformed pdf: %v", p)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to read pdf: %w", err)
	}

	var b strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		b.WriteString(pageText)
		b.WriteString("\n")
	}
	return b.String(), nil
}

var (
	docxParagraphEnd = regexp.MustCompile(`</w:p>|<w:br/>|<w:tab/>`)
	xmlTag           = regexp.MustCompile(`<[^>]+>`)
)

func extractDOCX(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}
	defer doc.Close()

	content := doc.Editable().GetContent()
	content = docxParagraphEnd.ReplaceAllString(content, "\n")
	content = xmlTag.ReplaceAllString(content, "")
	return html.UnescapeString(content), nil
}
