package handlers

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/budgetwise/budgetwise/internal/api/middleware"
	"github.com/budgetwise/budgetwise/internal/jobs"
	"github.com/budgetwise/budgetwise/internal/storage"
)

// maxReceiptSize caps receipt uploads at 10 MiB.
const maxReceiptSize = 10 << 20

// ReceiptsHandler handles receipt upload and extraction endpoints.
type ReceiptsHandler struct {
	objects   storage.ObjectStore
	publisher jobs.Publisher
	log       zerolog.Logger
}

// NewReceiptsHandler creates a new receipts handler.
func NewReceiptsHandler(objects storage.ObjectStore, publisher jobs.Publisher, log zerolog.Logger) *ReceiptsHandler {
	return &ReceiptsHandler{objects: objects, publisher: publisher, log: log}
}

// Upload handles POST /api/receipts/upload. The receipt image arrives as
// multipart form field "receipt" and lands in GCS; extraction is a separate
// request so the client can retry it without re-uploading.
func (h *ReceiptsHandler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.UserID(ctx)

	if err := r.ParseMultipartForm(maxReceiptSize); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	file, header, err := r.FormFile("receipt")
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Form field \"receipt\" is required")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		middleware.WriteError(w, http.StatusBadRequest, "Receipt must be an image")
		return
	}

	filename := filepath.Base(header.Filename)
	uri, err := h.objects.UploadReceipt(ctx, userID, filename, file)
	if err != nil {
		h.log.Error().Err(err).Str("filename", filename).Msg("Failed to upload receipt")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to upload receipt")
		return
	}

	h.log.Info().
		Str("user_id", userID).
		Str("receipt_uri", uri).
		Int64("bytes", header.Size).
		Msg("Receipt uploaded")

	middleware.WriteJSON(w, http.StatusOK, map[string]string{
		"receipt_uri": uri,
		"mime_type":   contentType,
	})
}

// Extract handles POST /api/receipts/extract. It enqueues an extraction
// job and returns immediately; poll /api/jobs/{id} for the candidates.
func (h *ReceiptsHandler) Extract(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.UserID(ctx)

	var req struct {
		ReceiptURI string `json:"receipt_uri"`
		MIMEType   string `json:"mime_type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.ReceiptURI == "" {
		middleware.WriteError(w, http.StatusBadRequest, "receipt_uri is required")
		return
	}
	if req.MIMEType == "" {
		req.MIMEType = "image/jpeg"
	}

	job := &jobs.ExtractReceiptJob{
		UserID:     userID,
		ReceiptURI: req.ReceiptURI,
		MIMEType:   req.MIMEType,
	}
	if err := h.publisher.PublishExtractReceipt(ctx, job); err != nil {
		h.log.Error().Err(err).Msg("Failed to enqueue extraction job")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to enqueue extraction job")
		return
	}

	h.log.Info().Str("job_id", job.JobID).Str("receipt_uri", req.ReceiptURI).Msg("Extraction job enqueued")

	middleware.WriteJSON(w, http.StatusAccepted, map[string]string{
		"job_id": job.JobID,
		"status": string(job.Status),
	})
}

// JobsHandler handles job status endpoints.
type JobsHandler struct {
	store jobs.JobStore
	log   zerolog.Logger
}

// NewJobsHandler creates a new jobs handler.
func NewJobsHandler(store jobs.JobStore, log zerolog.Logger) *JobsHandler {
	return &JobsHandler{store: store, log: log}
}

// GetJob handles GET /api/jobs/{id}
func (h *JobsHandler) GetJob(w http.ResponseWriter, r *http.Request, jobID string) {
	ctx := r.Context()
	userID := middleware.UserID(ctx)

	job, err := h.store.GetJob(ctx, jobID)
	if err != nil || job.UserID != userID {
		middleware.WriteError(w, http.StatusNotFound, "Job not found")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, job)
}

// ListJobs handles GET /api/jobs
func (h *JobsHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()

	filter := jobs.JobFilter{
		UserID: middleware.UserID(ctx),
		Status: jobs.JobStatus(query.Get("status")),
	}
	if limitStr := query.Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil {
			filter.Limit = limit
		}
	}
	if offsetStr := query.Get("offset"); offsetStr != "" {
		if offset, err := strconv.Atoi(offsetStr); err == nil {
			filter.Offset = offset
		}
	}

	jobsList, err := h.store.ListJobs(ctx, filter)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list jobs")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to list jobs")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"jobs":  jobsList,
		"count": len(jobsList),
	})
}
