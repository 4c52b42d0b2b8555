package server

import (
	"context"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"resumescan/internal/analyzer"
	"resumescan/internal/common"
	apperrors "resumescan/internal/errors"
	"resumescan/internal/extractor"
	"resumescan/internal/formatters"
	"resumescan/internal/observability"
	"resumescan/internal/types"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// multipartMemory is how much of a multipart body is kept in memory before
// spilling to temporary files
const multipartMemory = 8 << 20

// createAnalyzeHandler scores uploaded résumés against a job description
func (s *Server) createAnalyzeHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	metrics := om.GetMetrics()

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := om.Tracer("resumescan.api").Start(r.Context(), "api.analyze")
		defer span.End()

		format, filter, err := analyzeQuery(r)
		if err != nil {
			s.failRequest(w, span, err)
			return
		}

		req, docs, err := s.readAnalyzeRequest(r)
		if err != nil {
			s.failRequest(w, span, err)
			return
		}
		req.Filter = filter
		req.Metrics = metrics
		req.Source = "http"

		span.SetAttributes(
			attribute.Int("request.resumes", len(docs)),
			attribute.Int("request.job_length", len(req.JobDescription)),
			attribute.String("request.industry", req.Industry),
			attribute.String("response.format", format),
		)

		output, err := common.RunAnalysis(ctx, s.Analyzer, docs, req)
		if err != nil {
			s.counters.failedBatches.Add(1)
			s.failRequest(w, span, err)
			return
		}
		s.counters.batches.Add(1)
		s.counters.resumesAnalyzed.Add(int64(output.Stats.TotalResumes))
		s.counters.resumesSkipped.Add(int64(len(output.Skipped)))

		span.SetAttributes(
			attribute.String("batch.id", output.ID),
			attribute.Int("response.results", len(output.Results)),
			attribute.Int("response.filtered", output.Filtered),
		)

		if format == formatters.FormatJSON {
			writeJSON(w, http.StatusOK, output)
			return
		}
		s.writeExport(w, span, output, format)
	}
}

// analyzeQuery reads the export format and the result filter from the query
func analyzeQuery(r *http.Request) (string, analyzer.Filter, error) {
	query := r.URL.Query()

	format := query.Get("format")
	if format == "" {
		format = formatters.FormatJSON
	}
	if !formatters.GlobalRegistry.Supports(&types.AnalyzeOutput{}, format) {
		return "", analyzer.Filter{}, apperrors.NewValidationError(apperrors.ErrCodeInvalidFormat,
			fmt.Sprintf("Unsupported export format: %s", format), nil)
	}

	experience, err := parseExperience(query.Get("experience"))
	if err != nil {
		return "", analyzer.Filter{}, err
	}
	filter, err := common.ParseFilter(common.FilterParams{
		Score:      query.Get("score"),
		Relevance:  query.Get("relevance"),
		Experience: experience,
		Skills:     query.Get("skill"),
	})
	return format, filter, err
}

func parseExperience(raw string) (int, error) {
	if raw == "" || raw == "all" {
		return 0, nil
	}
	level, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperrors.NewValidationError(apperrors.ErrCodeInvalidRequest,
			fmt.Sprintf("Invalid experience filter: %q is not a number", raw), err)
	}
	return level, nil
}

// readAnalyzeRequest accepts either a multipart upload or a JSON body
func (s *Server) readAnalyzeRequest(r *http.Request) (common.AnalysisRequest, []analyzer.Document, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		return s.readMultipartRequest(r)
	}

	var body types.AnalyzeRequest
	if err := parseJSONRequest(r, &body); err != nil {
		return common.AnalysisRequest{}, nil, err
	}

	req := common.AnalysisRequest{
		JobDescription: strings.TrimSpace(body.JobDescription),
		Industry:       strings.TrimSpace(body.Industry),
		Options:        body.Options,
	}
	if err := s.Analyzer.ValidateJobDescription(req.JobDescription); err != nil {
		return req, nil, err
	}
	if err := s.checkUploadCount(len(body.Resumes)); err != nil {
		return req, nil, err
	}

	docs := make([]analyzer.Document, 0, len(body.Resumes))
	for i, resume := range body.Resumes {
		name := resume.Name
		if name == "" {
			name = fmt.Sprintf("resume-%d", i+1)
		}
		docs = append(docs, analyzer.Document{Name: name, Text: resume.Content})
	}
	return req, docs, nil
}

func (s *Server) readMultipartRequest(r *http.Request) (common.AnalysisRequest, []analyzer.Document, error) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		return common.AnalysisRequest{}, nil, bodyError(err)
	}
	defer func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			s.Logger.LogError(err, "Failed to remove multipart temporary files")
		}
	}()

	req := common.AnalysisRequest{
		JobDescription: strings.TrimSpace(r.FormValue("jobDescription")),
		Industry:       strings.TrimSpace(r.FormValue("industry")),
		Options: analyzer.Options{
			DeepAnalysis:   r.FormValue("deepAnalysis") == "on",
			SkillGaps:      r.FormValue("skillGaps") == "on",
			SalaryInsights: r.FormValue("salaryInsights") == "on",
			CultureFit:     r.FormValue("cultureFit") == "on",
		},
	}
	if err := s.Analyzer.ValidateJobDescription(req.JobDescription); err != nil {
		return req, nil, err
	}

	var files []*multipart.FileHeader
	for _, fh := range r.MultipartForm.File["resumes"] {
		if fh.Filename != "" {
			files = append(files, fh)
		}
	}
	if err := s.checkUploadCount(len(files)); err != nil {
		return req, nil, err
	}

	docs := make([]analyzer.Document, 0, len(files))
	for _, fh := range files {
		docs = append(docs, readUpload(fh))
	}
	return req, docs, nil
}

// readUpload extracts the text of one uploaded file. Failures stay on the
// document so the rest of the batch is still scored.
func readUpload(fh *multipart.FileHeader) analyzer.Document {
	doc := analyzer.Document{Name: fh.Filename}

	f, err := fh.Open()
	if err != nil {
		doc.Err = apperrors.NewIOError(apperrors.ErrCodeFileNotReadable, "Failed to open upload", err)
		return doc
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(f)
	if err != nil {
		doc.Err = apperrors.NewIOError(apperrors.ErrCodeFileNotReadable, "Failed to read upload", err)
		return doc
	}
	doc.Text, doc.Err = extractor.Extract(fh.Filename, data)
	return doc
}

func (s *Server) checkUploadCount(n int) error {
	if n == 0 {
		return apperrors.NewValidationError(apperrors.ErrCodeNoFilesUploaded, "No files uploaded", nil)
	}
	if s.MaxFiles > 0 && n > s.MaxFiles {
		return apperrors.NewValidationError(apperrors.ErrCodeInvalidRequest,
			fmt.Sprintf("Too many files: %d uploaded, maximum is %d", n, s.MaxFiles), nil)
	}
	return nil
}

// writeExport streams a report in a download format
func (s *Server) writeExport(w http.ResponseWriter, span trace.Span, output *types.AnalyzeOutput, format string) {
	content, err := formatters.GlobalRegistry.Format(output, format)
	if err != nil {
		s.failRequest(w, span, err)
		return
	}

	filename := "resume-analysis-" + output.ID + formatters.FileExtension(format)
	w.Header().Set("Content-Type", formatters.ContentType(format))
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	w.WriteHeader(http.StatusOK)
	if _, err := io.WriteString(w, content); err != nil {
		s.Logger.LogError(err, "Failed to write export", "format", format)
	}
}

// createDetectIndustryHandler reports the industry a job description reads as
func (s *Server) createDetectIndustryHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	metrics := om.GetMetrics()

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := om.Tracer("resumescan.api").Start(r.Context(), "api.detect_industry")
		defer span.End()

		var req types.DetectIndustryRequest
		if err := parseJSONRequest(r, &req); err != nil {
			s.failRequest(w, span, err)
			return
		}
		jd := strings.TrimSpace(req.JobDescription)
		if err := s.Analyzer.ValidateJobDescription(jd); err != nil {
			s.failRequest(w, span, err)
			return
		}

		industry := s.Analyzer.DetectIndustry(jd)
		s.counters.detections.Add(1)
		metrics.RecordIndustryDetection(ctx, industry)
		span.SetAttributes(attribute.String("industry", industry))

		writeJSON(w, http.StatusOK, types.DetectIndustryOutput{Industry: industry})
	}
}

// industrySkillsHandler returns an industry's skill lists, or an empty
// object for an unknown industry
func (s *Server) industrySkillsHandler(w http.ResponseWriter, r *http.Request) {
	ind, ok := s.Analyzer.Taxonomy().Lookup(r.PathValue("industry"))
	if !ok {
		writeJSON(w, http.StatusOK, struct{}{})
		return
	}
	writeJSON(w, http.StatusOK, ind.Skills)
}

func (s *Server) industriesHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, types.IndustryListOutput{Industries: s.Analyzer.Taxonomy().Names()})
}

// failRequest records err on the span and writes the mapped error response
func (s *Server) failRequest(w http.ResponseWriter, span trace.Span, err error) {
	status := statusFor(err)
	span.RecordError(err)
	span.SetAttributes(attribute.String("error.type", string(apperrors.TypeOf(err))))
	if status >= http.StatusInternalServerError {
		span.SetStatus(codes.Error, err.Error())
		s.Logger.LogError(err, "Request failed")
	}
	writeAppError(w, err, status)
}

// createRateLimitMiddleware wraps the rate limiter and counts rejections
func (s *Server) createRateLimitMiddleware(om *observability.ObservabilityManager) func(http.HandlerFunc) http.HandlerFunc {
	metrics := om.GetMetrics()
	return s.rateLimitMiddleware(func(ctx context.Context, r *http.Request) {
		metrics.RecordRateLimitHit(ctx,
			attribute.String("endpoint", r.URL.Path),
			attribute.String("method", r.Method))
	})
}
