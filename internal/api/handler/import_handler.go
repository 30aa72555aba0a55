package handler

import (
	"collection-engine/internal/api/handler/dto"
	"collection-engine/internal/importer"
	"collection-engine/internal/pkg/apperrors"
	"fmt"
	"log/slog"
	"net/http"
)

// maxImportSize caps the uploaded workbook at 10 MiB.
const maxImportSize = 10 << 20

type ImportHandler struct {
	importer *importer.ExcelImporter
	logger   *slog.Logger
}

func NewImportHandler(imp *importer.ExcelImporter, l *slog.Logger) *ImportHandler {
	if imp == nil {
		panic("importer cannot be nil")
	}
	return &ImportHandler{
		importer: imp,
		logger:   l.With("component", "ImportHandler"),
	}
}

// ImportCustomers handles POST /imports/customers. Expects a multipart
// form with the workbook under the "file" field.
func (h *ImportHandler) ImportCustomers(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportSize)

	if err := r.ParseMultipartForm(maxImportSize); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to parse multipart form", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: invalid multipart form: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, fmt.Errorf("%w: missing 'file' form field: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	defer file.Close()

	h.logger.InfoContext(r.Context(), "Importing customers from workbook",
		slog.String("filename", header.Filename),
		slog.Int64("size", header.Size))

	result, err := h.importer.ImportCustomers(r.Context(), file)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Import failed", slog.Any("error", err))
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewImportResultResponse(result))
}
