package controllers

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/jedmarcnocum/spendledger-backend/api/responses"
	"github.com/jedmarcnocum/spendledger-backend/internal/ingest"
	"github.com/jedmarcnocum/spendledger-backend/pkg/config"
	pkgerrors "github.com/jedmarcnocum/spendledger-backend/pkg/errors"
	"github.com/jedmarcnocum/spendledger-backend/pkg/logger"
)

const uploadFieldName = "file"

// BatchUpload accepts a multipart workbook upload and runs the ingestion
// pipeline. The report is returned even when the directory write fails, so a
// caller never loses aggregates it already paid to compute.
func BatchUpload(svc ingest.Service, cfg config.UploadConfig, logg *logger.Logger) http.HandlerFunc {
	maxBytes := int64(cfg.MaxUploadMB) << 20

	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ingest service unavailable"))
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
		if err := r.ParseMultipartForm(maxBytes); err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeValidation, err, "upload must be multipart form data within the size limit"))
			return
		}

		file, header, err := r.FormFile(uploadFieldName)
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeValidation, err, "multipart field \"file\" is required"))
			return
		}
		defer file.Close()

		if ext := strings.ToLower(filepath.Ext(header.Filename)); ext != ".xlsx" {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "only .xlsx workbooks are accepted"))
			return
		}

		report, err := svc.IngestBatch(r.Context(), ingest.BatchInput{
			Filename: header.Filename,
			Reader:   file,
			Mode:     r.URL.Query().Get("decoder"),
		})
		if err != nil {
			if report != nil {
				// Aggregation succeeded but the store write did not. Surface
				// the dependency failure status with the computed report.
				meta := pkgerrors.MetadataFor(pkgerrors.CodeDependency)
				responses.WriteSuccessStatus(w, meta.HTTPStatus, report)
				return
			}
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, report)
	}
}
