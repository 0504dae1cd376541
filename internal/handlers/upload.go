package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5/middleware"
)

// extractFailure is the only message clients see for documents that could
// not be turned into a record.
const extractFailure = "Unable to extract metadata from document"

// multipartOverhead leaves room for boundaries and form fields around the file
const multipartOverhead = 1 << 20

// HandleExtract accepts a multipart upload in the "file" field (or "files")
// and responds with the record as mrk, structured record and MARCXML.
func (h *Handler) HandleExtract(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes+multipartOverhead)

	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.writeError(w, r, h.tooLargeMessage(), http.StatusRequestEntityTooLarge)
			return
		}
		file, header, err = r.FormFile("files")
		if err != nil {
			h.writeError(w, r, "Failed to read file: "+err.Error(), http.StatusBadRequest)
			return
		}
	}
	defer file.Close()

	payload, err := io.ReadAll(io.LimitReader(file, h.maxUploadBytes+1))
	if err != nil {
		h.writeError(w, r, "Failed to read file contents: "+err.Error(), http.StatusBadRequest)
		return
	}
	if int64(len(payload)) > h.maxUploadBytes {
		h.writeError(w, r, h.tooLargeMessage(), http.StatusRequestEntityTooLarge)
		return
	}

	declaredType := filepath.Ext(header.Filename)
	if declaredType == "" {
		declaredType = header.Header.Get("Content-Type")
	}

	rec, err := h.catalogingService.Process(r.Context(), payload, declaredType)
	if err != nil {
		h.logger.Error("Failed to extract metadata",
			"err", err,
			"filename", header.Filename,
			"request_id", middleware.GetReqID(r.Context()))
		http.Error(w, extractFailure, http.StatusUnprocessableEntity)
		return
	}

	h.logger.Info("Extracted catalog record",
		"filename", header.Filename,
		"control_id", rec.Structured.Control.ID,
		"title", rec.Metadata.Title)

	h.writeJSON(w, rec)
}

func (h *Handler) tooLargeMessage() string {
	return fmt.Sprintf("File too large (max %dMB)", h.maxUploadBytes/(1024*1024))
}
