package extractor

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumescan/internal/config"
	"resumescan/internal/errors"
)

type fakeS3 struct {
	objects map[string]string
	calls   []string
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	key := aws.ToString(in.Bucket) + "/" + aws.ToString(in.Key)
	f.calls = append(f.calls, key)
	body, ok := f.objects[key]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{
		Body:          io.NopCloser(strings.NewReader(body)),
		ContentLength: aws.Int64(int64(len(body))),
	}, nil
}

func newTestLoader(t *testing.T, sources config.SourcesConfig) *Loader {
	t.Helper()
	l, err := NewLoader(context.Background(), sources, 1024, testLogger())
	require.NoError(t, err)
	return l
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func TestParseS3URI(t *testing.T) {
	bucket, key, err := ParseS3URI("s3://hiring/2025/jane.pdf")
	require.NoError(t, err)
	assert.Equal(t, "hiring", bucket)
	assert.Equal(t, "2025/jane.pdf", key)

	for _, bad := range []string{"s3://hiring", "s3:///key", "https://hiring/key"} {
		_, _, err := ParseS3URI(bad)
		assert.Error(t, err, bad)
	}
}

func TestS3SourceGet(t *testing.T) {
	client := &fakeS3{objects: map[string]string{
		"hiring/jd.txt":  "Senior accountant",
		"hiring/big.txt": strings.Repeat("x", 20),
	}}
	src := NewS3SourceWithClient(client, 10)

	data, err := src.Get(context.Background(), "s3://hiring/jd.txt")
	require.Error(t, err, "17 bytes exceed the 10 byte limit")
	assert.Nil(t, data)

	src = NewS3SourceWithClient(client, 100)
	data, err = src.Get(context.Background(), "s3://hiring/jd.txt")
	require.NoError(t, err)
	assert.Equal(t, "Senior accountant", string(data))

	_, err = src.Get(context.Background(), "s3://hiring/missing.txt")
	assert.True(t, errors.HasCode(err, errors.ErrCodeFileNotFound))

	_, err = src.Get(context.Background(), "s3://hiring")
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidRequest))
}

func TestLoaderLocal(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "jd.txt", "We need a Python developer")
	writeFile(t, dir, "huge.txt", strings.Repeat("y", 2048))

	l := newTestLoader(t, config.SourcesConfig{})

	text, err := l.Text(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "We need a Python developer", text)

	_, err = l.Text(context.Background(), filepath.Join(dir, "absent.txt"))
	assert.True(t, errors.HasCode(err, errors.ErrCodeFileNotFound))

	_, err = l.Text(context.Background(), filepath.Join(dir, "huge.txt"))
	assert.True(t, errors.HasCode(err, errors.ErrCodeFileTooLarge))
}

func TestLoaderRemoteSourcesDisabled(t *testing.T) {
	l := newTestLoader(t, config.SourcesConfig{})

	_, err := l.Text(context.Background(), "https://example.com/jd.html")
	assert.True(t, errors.HasCode(err, errors.ErrCodeSourceUnavailable))

	_, err = l.Text(context.Background(), "s3://bucket/jd.txt")
	assert.True(t, errors.HasCode(err, errors.ErrCodeSourceUnavailable))
}

func TestLoaderDocuments(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.txt", "Bob knows Docker")
	writeFile(t, dir, "a.md", "Alice knows Python")
	writeFile(t, dir, "skip.doc", "legacy format")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "<html><body><p>Carol knows AWS</p></body></html>")
	}))
	defer srv.Close()

	client := &fakeS3{objects: map[string]string{"cvs/dave.txt": "Dave knows React"}}

	var observed []string
	l := newTestLoader(t, config.SourcesConfig{HTTP: testHTTPConfig()}).
		WithS3(NewS3SourceWithClient(client, 1024)).
		WithObserver(func(_ context.Context, kind string, err error) {
			observed = append(observed, kind)
		})

	docs := l.Documents(context.Background(), []string{
		dir,
		srv.URL + "/carol.html",
		"s3://cvs/dave.txt",
		"s3://cvs/missing.txt",
	})

	require.Len(t, docs, 5)
	assert.Equal(t, "a.md", docs[0].Name)
	assert.Equal(t, "Alice knows Python", docs[0].Text)
	assert.Equal(t, "b.txt", docs[1].Name)
	assert.Equal(t, "carol.html", docs[2].Name)
	assert.Contains(t, docs[2].Text, "Carol knows AWS")
	assert.Equal(t, "dave.txt", docs[3].Name)
	assert.Equal(t, "Dave knows React", docs[3].Text)
	assert.Equal(t, "missing.txt", docs[4].Name)
	assert.True(t, errors.HasCode(docs[4].Err, errors.ErrCodeFileNotFound))

	assert.Equal(t, []string{SourceHTTP, SourceS3, SourceS3}, observed)
}

func TestLoaderSniffsRemoteNames(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "Backend engineer with Go and Kubernetes")
	}))
	defer srv.Close()

	l := newTestLoader(t, config.SourcesConfig{HTTP: testHTTPConfig()})
	text, err := l.Text(context.Background(), srv.URL+"/careers/posting.aspx?id=3")
	require.NoError(t, err)
	assert.Equal(t, "Backend engineer with Go and Kubernetes", text)

	dir := t.TempDir()
	_, err = l.Text(context.Background(), writeFile(t, dir, "posting.aspx", "Backend engineer"))
	assert.True(t, errors.HasCode(err, errors.ErrCodeUnsupportedDocument))
}

func TestURLName(t *testing.T) {
	assert.Equal(t, "jd.html", urlName("https://jobs.example.com/postings/jd.html?ref=1"))
	assert.Equal(t, "jobs.example.com", urlName("https://jobs.example.com/"))
	assert.Equal(t, "jobs.example.com", urlName("https://jobs.example.com"))
}
