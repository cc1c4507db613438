package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/ThiagoRGoveia/payroll-reports/internal/database"
	"github.com/ThiagoRGoveia/payroll-reports/internal/ingestion"
	"github.com/ThiagoRGoveia/payroll-reports/internal/models"
	"github.com/ThiagoRGoveia/payroll-reports/internal/payroll"
)

const uploadFieldName = "csv_file"

type PayrollService struct {
	DBManager      database.DBManager
	Uploader       ingestion.Uploader
	MaxUploadBytes int64
	logger         *logrus.Logger
}

func NewPayrollService(dbManager database.DBManager, uploader ingestion.Uploader, maxUploadBytes int64, logger *logrus.Logger) *PayrollService {
	return &PayrollService{
		DBManager:      dbManager,
		Uploader:       uploader,
		MaxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

type uploadResponse struct {
	Success     string `json:"success"`
	ReportID    int    `json:"reportId"`
	UploadID    string `json:"uploadId"`
	RecordCount int    `json:"recordCount"`
}

func (h *PayrollService) UploadTimeReport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.MaxUploadBytes)

	file, header, err := r.FormFile(uploadFieldName)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "CSV file is too large"})
			return
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "No CSV file provided"})
		return
	}
	defer file.Close()

	report, err := h.Uploader.Ingest(r.Context(), header.Filename, file)
	if err != nil {
		status, message := uploadErrorResponse(err)
		if status == http.StatusInternalServerError {
			h.logger.WithError(err).WithField("file", header.Filename).Error("failed to ingest time report")
		}
		writeJSON(w, status, errorResponse{Error: message})
		return
	}

	writeJSON(w, http.StatusCreated, uploadResponse{
		Success:     "CSV file uploaded and processed",
		ReportID:    report.ReportID,
		UploadID:    report.UploadID.String(),
		RecordCount: report.RecordCount,
	})
}

func uploadErrorResponse(err error) (int, string) {
	switch {
	case errors.Is(err, ingestion.ErrInvalidFileType):
		return http.StatusBadRequest, "Invalid file type. Please upload a CSV file."
	case errors.Is(err, ingestion.ErrInvalidFileName):
		return http.StatusBadRequest, "Invalid file name format"
	case errors.Is(err, database.ErrDuplicateReport):
		return http.StatusBadRequest, "ID already exists in the database"
	case errors.Is(err, ingestion.ErrInvalidValues):
		return http.StatusBadRequest, "Invalid values"
	default:
		return http.StatusInternalServerError, "Failed to process CSV file"
	}
}

// GetPayrollReport recomputes the report from every stored record on each request.
func (h *PayrollService) GetPayrollReport(w http.ResponseWriter, r *http.Request) {
	records, err := h.DBManager.GetAllTimeRecords(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("failed to load time records")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed to retrieve payroll report"})
		return
	}

	envelope := models.PayrollReportEnvelope{PayrollReport: payroll.GenerateReport(records)}
	writeJSON(w, http.StatusOK, envelope)
}

func (h *PayrollService) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	payload, err := json.MarshalIndent(body, "", "  ")
	if err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(payload)
}
