package server

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"log"
	"mime"
	"net/http"
	"time"

	"resumescan/internal/analyzer"
	apperrors "resumescan/internal/errors"
)

// tooLargeMessage is returned for any body over the request size limit
const tooLargeMessage = "File too large. Maximum size is 16MB"

// healthHandler reports service health including certificate status
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	response := map[string]any{
		"status":  "healthy",
		"service": "resumescan",
		"version": s.Version,
		"taxonomy": map[string]any{
			"industries":      len(s.Analyzer.Taxonomy().Names()),
			"pattern_version": analyzer.JobSkillPatternVersion,
		},
	}

	status := http.StatusOK
	if certStatus := s.checkCertificateHealth(); certStatus != nil {
		response["certificates"] = certStatus
		if healthy, _ := certStatus["healthy"].(bool); !healthy {
			response["status"] = "degraded"
			status = http.StatusServiceUnavailable
		}
	}

	writeJSON(w, status, response)
}

// checkCertificateHealth checks the health of TLS certificates
func (s *Server) checkCertificateHealth() map[string]any {
	if s.CertificateManager == nil {
		return nil
	}

	certStatus := make(map[string]any)

	timeToExpiry, err := s.CertificateManager.CheckExpiry()
	if err != nil {
		certStatus["healthy"] = false
		certStatus["error"] = fmt.Sprintf("Failed to check certificate expiry: %v", err)
		return certStatus
	}

	const (
		criticalThreshold = 24 * time.Hour
		warningThreshold  = 7 * 24 * time.Hour
	)

	certStatus["time_to_expiry_hours"] = int(timeToExpiry.Hours())
	switch {
	case timeToExpiry <= 0:
		certStatus["healthy"] = false
		certStatus["status"] = "expired"
	case timeToExpiry <= criticalThreshold:
		certStatus["healthy"] = false
		certStatus["status"] = "critical"
	case timeToExpiry <= warningThreshold:
		certStatus["healthy"] = true
		certStatus["status"] = "warning"
	default:
		certStatus["healthy"] = true
		certStatus["status"] = "ok"
	}

	stats := s.CertificateManager.Stats()
	certStatus["auto_reload"] = map[string]any{
		"enabled":           s.TLSConfig.AutoReload.Enabled,
		"watcher_running":   s.CertificateManager.WatcherRunning(),
		"reload_count":      stats.ReloadCount,
		"reload_failures":   stats.ReloadFailureCount,
		"last_reload_time":  stats.LastReloadTime,
		"last_reload_error": stats.LastReloadError,
	}

	return certStatus
}

// statsHandler provides server statistics including rate limiting info
func (s *Server) statsHandler(w http.ResponseWriter, r *http.Request) {
	response := map[string]any{
		"service":        "resumescan",
		"version":        s.Version,
		"uptime_seconds": int64(time.Since(s.startedAt).Seconds()),
		"server": map[string]any{
			"max_request_size_bytes": s.MaxRequestSize,
			"max_files":              s.MaxFiles,
		},
		"analysis": map[string]any{
			"batches":          s.counters.batches.Load(),
			"failed_batches":   s.counters.failedBatches.Load(),
			"resumes_analyzed": s.counters.resumesAnalyzed.Load(),
			"resumes_skipped":  s.counters.resumesSkipped.Load(),
			"detections":       s.counters.detections.Load(),
		},
	}

	if s.RateLimiter != nil {
		response["rate_limiting"] = s.RateLimiter.GetStats()
	} else {
		response["rate_limiting"] = map[string]any{"enabled": false}
	}

	writeJSON(w, http.StatusOK, response)
}

// parseJSONRequest parses JSON request body into the provided struct
func parseJSONRequest(r *http.Request, v any) error {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "application/json" {
		return apperrors.NewValidationError(apperrors.ErrCodeInvalidRequest,
			"Content-Type must be application/json or multipart/form-data", nil)
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return bodyError(err)
	}
	defer func() {
		if err := r.Body.Close(); err != nil {
			log.Printf("Failed to close request body: %v", err)
		}
	}()

	if err := json.Unmarshal(body, v); err != nil {
		return apperrors.NewValidationError(apperrors.ErrCodeInvalidRequest, "Invalid JSON body", err)
	}
	return nil
}

// bodyError classifies a failure to read the request body
func bodyError(err error) error {
	var maxBytesErr *http.MaxBytesError
	if stderrors.As(err, &maxBytesErr) {
		return apperrors.NewValidationError(apperrors.ErrCodeFileTooLarge, tooLargeMessage, err).
			WithContext("limit", maxBytesErr.Limit)
	}
	return apperrors.NewValidationError(apperrors.ErrCodeInvalidRequest, "Failed to read request body", err)
}

// statusFor maps an error onto an HTTP status
func statusFor(err error) int {
	appErr, ok := apperrors.As(err)
	if !ok {
		return http.StatusInternalServerError
	}

	switch appErr.Code {
	case apperrors.ErrCodeFileTooLarge:
		return http.StatusRequestEntityTooLarge
	case apperrors.ErrCodeUnsupportedDocument:
		return http.StatusUnsupportedMediaType
	case apperrors.ErrCodeNoValidResumes:
		return http.StatusUnprocessableEntity
	case apperrors.ErrCodeAnalysisCancelled:
		return http.StatusServiceUnavailable
	}
	if appErr.Type == apperrors.ErrorTypeValidation {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// writeAppError writes err as an ErrorResponse. Internal details are not
// exposed for server errors.
func writeAppError(w http.ResponseWriter, err error, status int) {
	if status >= http.StatusInternalServerError {
		writeErrorResponse(w, "An error occurred while processing resumes", "", status)
		return
	}

	response := ErrorResponse{Error: err.Error()}
	if appErr, ok := apperrors.As(err); ok {
		response.Error = appErr.Message
		response.Code = appErr.Code
	}
	writeJSON(w, status, response)
}

// writeErrorResponse writes a standardized error response
func writeErrorResponse(w http.ResponseWriter, error, message string, statusCode int) {
	writeJSON(w, statusCode, ErrorResponse{Error: error, Message: message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}
