package dto

import (
	"collection-engine/internal/importer"
)

type ImportRowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

type ImportResultResponse struct {
	Imported int              `json:"imported"`
	Failed   int              `json:"failed"`
	Errors   []ImportRowError `json:"errors"`
}

func NewImportResultResponse(result *importer.Result) ImportResultResponse {
	if result == nil {
		return ImportResultResponse{}
	}
	resp := ImportResultResponse{
		Imported: result.Imported,
		Failed:   result.Failed,
		Errors:   make([]ImportRowError, len(result.Errors)),
	}
	for i, e := range result.Errors {
		resp.Errors[i] = ImportRowError{Row: e.Row, Message: e.Message}
	}
	return resp
}
