package extractor

import (
	"archive/zip"
	"bytes"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumescan/internal/errors"
)

// buildDocx assembles a minimal Word document around the given body XML.
func buildDocx(t *testing.T, body string) []byte {
	t.Helper()
	files := map[string]string{
		"[Content_Types].xml": `<?xml version="1.0" encoding="UTF-8"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"></Types>`,
		"word/_rels/document.xml.rels": `<?xml version="1.0" encoding="UTF-8"?>` +
			`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`,
		"word/document.xml": `<?xml version="1.0" encoding="UTF-8"?>` +
			`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
			body + `</w:body></w:document>`,
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestExtractText(t *testing.T) {
	text, err := Extract("jane.md", []byte("# Jane Doe\nGo developer"))
	require.NoError(t, err)
	assert.Equal(t, "# Jane Doe\nGo developer", text)
}

func TestExtractHTML(t *testing.T) {
	text, err := Extract("posting.html", []byte(`<html><body><h1>Backend Engineer</h1><p>Build <b>cloud</b> services</p></body></html>`))
	require.NoError(t, err)
	assert.Contains(t, text, "Backend Engineer")
	assert.Contains(t, text, "cloud")
	assert.NotContains(t, text, "<h1>")
}

func TestExtractDOCX(t *testing.T) {
	data := buildDocx(t,
		`<w:p><w:r><w:t>Jane Doe</w:t></w:r></w:p>`+
			`<w:p><w:r><w:t>Python &amp; Docker</w:t></w:r></w:p>`)

	text, err := Extract("jane.docx", data)
	require.NoError(t, err)
	assert.Contains(t, text, "Jane Doe\n")
	assert.Contains(t, text, "Python & Docker")
	assert.NotContains(t, text, "<w:")
}

func TestExtractMalformedPDF(t *testing.T) {
	_, err := Extract("broken.pdf", []byte("%PDF-1.4 this is not really a pdf"))
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeExtractionFailed))
}

func TestExtractBinaryAsText(t *testing.T) {
	_, err := Extract("resume.txt", bytes.Repeat([]byte{0x00, 0x01, 0x02, 'a'}, 100))
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeUnsupportedDocument))
}

func TestExtractUnsupportedUploads(t *testing.T) {
	jpeg := make([]byte, 4096)
	_, _ = rand.New(rand.NewSource(7)).Read(jpeg)
	jpeg[0], jpeg[1] = 0xFF, 0xD8

	tests := []struct {
		name string
		data []byte
	}{
		{"photo.jpg", jpeg},
		{"photo.png", []byte("\x89PNG")},
		{"resume.doc", []byte("legacy word text")},
		{"latin1.txt", []byte("Jos\xe9 P\xe9rez, Go developer")},
		{"broken.html", []byte("<html><body>Jos\xe9</body></html>")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, err := Extract(tt.name, tt.data)
			require.Error(t, err)
			assert.Empty(t, text)
			assert.True(t, errors.HasCode(err, errors.ErrCodeUnsupportedDocument))
		})
	}
}

func TestExtractContent(t *testing.T) {
	text, err := ExtractContent("posting.aspx", []byte("Senior Go engineer, five years"))
	require.NoError(t, err)
	assert.Equal(t, "Senior Go engineer, five years", text)

	text, err = ExtractContent("jobs.example.com", []byte("<!doctype html><html><body><p>Remote role</p></body></html>"))
	require.NoError(t, err)
	assert.Contains(t, text, "Remote role")

	_, err = ExtractContent("avatar", []byte{0xFF, 0xD8, 0xFF, 0xE0, 'J', 'F', 'I', 'F'})
	assert.True(t, errors.HasCode(err, errors.ErrCodeUnsupportedDocument))
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name string
		data string
		want Format
	}{
		{"resume.PDF", "", FormatPDF},
		{"resume.docx", "", FormatDOCX},
		{"resume.htm", "", FormatHTML},
		{"notes.markdown", "", FormatText},
		{"upload", "%PDF-1.7", FormatPDF},
		{"upload", "PK\x03\x04", FormatDOCX},
		{"upload", "  <!DOCTYPE html><html></html>", FormatHTML},
		{"upload", "plain words", FormatText},
	}

	for _, tt := range tests {
		t.Run(tt.name+"/"+string(tt.want), func(t *testing.T) {
			got, err := DetectFormat(tt.name, []byte(tt.data))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := DetectFormat("blob", bytes.Repeat([]byte{0x01}, 50))
	assert.True(t, errors.HasCode(err, errors.ErrCodeUnsupportedDocument))

	_, err = DetectFormat("scan.png", []byte("plain words"))
	assert.True(t, errors.HasCode(err, errors.ErrCodeUnsupportedDocument), "unknown extensions are not sniffed")
}

func TestIsBinaryData(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want bool
	}{
		{"empty", nil, false},
		{"plain text", []byte("Jane Doe\r\n\tSoftware Engineer"), false},
		{"utf-8 text", []byte("Résumé of José"), false},
		{"pdf signature", []byte("%PDF-1.4"), true},
		{"zip signature", []byte("PK\x03\x04"), true},
		{"mostly control bytes", bytes.Repeat([]byte{0x00, 0x07, 'x'}, 10), true},
		{"under threshold", append(bytes.Repeat([]byte("a"), 80), bytes.Repeat([]byte{0x00}, 20)...), false},
		{"only the first 1000 bytes count", append([]byte(strings.Repeat("a", 1000)), bytes.Repeat([]byte{0x00}, 5000)...), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsBinaryData(tt.data))
		})
	}
}

func TestIsSupported(t *testing.T) {
	assert.True(t, IsSupported("a.PDF"))
	assert.True(t, IsSupported("dir/b.txt"))
	assert.False(t, IsSupported("c.doc"))
	assert.False(t, IsSupported("noext"))
}
