package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"clinic-records/internal/delivery/dto"
	"clinic-records/internal/usecase"
	"clinic-records/pkg/response"
	"clinic-records/pkg/validator"

	"github.com/gorilla/mux"
)

type MedicalRecordHandler struct {
	recordUsecase usecase.MedicalRecordUsecase
	validator     *validator.CustomValidator
}

func NewMedicalRecordHandler(recordUsecase usecase.MedicalRecordUsecase, validator *validator.CustomValidator) *MedicalRecordHandler {
	return &MedicalRecordHandler{
		recordUsecase: recordUsecase,
		validator:     validator,
	}
}

func (h *MedicalRecordHandler) AddRecord(w http.ResponseWriter, r *http.Request) {
	h.appendRecord(w, r, h.recordUsecase.AddRecord, "Medical record added successfully")
}

// ReviseRecord appends a corrected copy of the latest visit.
func (h *MedicalRecordHandler) ReviseRecord(w http.ResponseWriter, r *http.Request) {
	h.appendRecord(w, r, h.recordUsecase.ReviseRecord, "Medical record revised successfully")
}

func (h *MedicalRecordHandler) GetAllRecords(w http.ResponseWriter, r *http.Request) {
	records, err := h.recordUsecase.GetAllRecords(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get medical records", err)
		return
	}

	response.Success(w, http.StatusOK, "Medical records retrieved successfully", records)
}

// GetRecordsByPatient backs both the records and history routes; rows are newest first.
func (h *MedicalRecordHandler) GetRecordsByPatient(w http.ResponseWriter, r *http.Request) {
	patientID, ok := patientIDVar(w, r)
	if !ok {
		return
	}

	records, err := h.recordUsecase.GetRecordsByPatient(r.Context(), patientID)
	if err != nil {
		response.InternalServerError(w, "Failed to get medical records", err)
		return
	}

	response.Success(w, http.StatusOK, "Medical records retrieved successfully", records)
}

func (h *MedicalRecordHandler) GetLatestRecord(w http.ResponseWriter, r *http.Request) {
	patientID, ok := patientIDVar(w, r)
	if !ok {
		return
	}

	latest, err := h.recordUsecase.GetLatestRecord(r.Context(), patientID)
	if err != nil {
		response.InternalServerError(w, "Failed to get latest medical record", err)
		return
	}

	message := "Latest medical record retrieved successfully"
	if !latest.Found {
		message = "No medical record found for this patient"
	}
	response.Success(w, http.StatusOK, message, latest)
}

func (h *MedicalRecordHandler) CountByPatient(w http.ResponseWriter, r *http.Request) {
	patientID, ok := patientIDVar(w, r)
	if !ok {
		return
	}

	count, err := h.recordUsecase.CountByPatient(r.Context(), patientID)
	if err != nil {
		response.InternalServerError(w, "Failed to count medical records", err)
		return
	}

	response.Success(w, http.StatusOK, "Medical record count retrieved successfully", count)
}

func (h *MedicalRecordHandler) CountPatientsToday(w http.ResponseWriter, r *http.Request) {
	count, err := h.recordUsecase.CountPatientsToday(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to count today's patients", err)
		return
	}

	response.Success(w, http.StatusOK, "Today's patient count retrieved successfully", count)
}

func (h *MedicalRecordHandler) MonthlyStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.recordUsecase.MonthlyStats(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get monthly stats", err)
		return
	}

	response.Success(w, http.StatusOK, "Monthly stats retrieved successfully", stats)
}

func (h *MedicalRecordHandler) YearlyStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.recordUsecase.YearlyStats(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get yearly stats", err)
		return
	}

	response.Success(w, http.StatusOK, "Yearly stats retrieved successfully", stats)
}

func (h *MedicalRecordHandler) PatientMonthlyMetrics(w http.ResponseWriter, r *http.Request) {
	patientID, ok := patientIDVar(w, r)
	if !ok {
		return
	}

	metrics, err := h.recordUsecase.PatientMonthlyMetrics(r.Context(), patientID)
	if err != nil {
		response.InternalServerError(w, "Failed to get monthly metrics", err)
		return
	}

	response.Success(w, http.StatusOK, "Monthly metrics retrieved successfully", metrics)
}

func (h *MedicalRecordHandler) PatientYearlyMetrics(w http.ResponseWriter, r *http.Request) {
	patientID, ok := patientIDVar(w, r)
	if !ok {
		return
	}

	metrics, err := h.recordUsecase.PatientYearlyMetrics(r.Context(), patientID)
	if err != nil {
		response.InternalServerError(w, "Failed to get yearly metrics", err)
		return
	}

	response.Success(w, http.StatusOK, "Yearly metrics retrieved successfully", metrics)
}

type appendFunc func(ctx context.Context, patientID int64, req *dto.MedicalRecordRequest) (*dto.RecordCreatedResponse, error)

func (h *MedicalRecordHandler) appendRecord(w http.ResponseWriter, r *http.Request, add appendFunc, message string) {
	patientID, ok := patientIDVar(w, r)
	if !ok {
		return
	}

	var req dto.MedicalRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	created, err := add(r.Context(), patientID, &req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrPatientNotFound):
			response.NotFound(w, "Patient not found")
		case errors.Is(err, usecase.ErrInvalidVisitDate),
			errors.Is(err, usecase.ErrBMIOutOfRange):
			response.BadRequest(w, err.Error())
		default:
			response.InternalServerError(w, "Failed to save medical record", err)
		}
		return
	}

	response.Success(w, http.StatusCreated, message, created)
}

// patientIDVar reads {patientId}, or {id} on the routes that name it that way.
func patientIDVar(w http.ResponseWriter, r *http.Request) (int64, bool) {
	name := "patientId"
	if _, ok := mux.Vars(r)[name]; !ok {
		name = "id"
	}
	return pathInt64(w, r, name, "Invalid patient ID")
}
