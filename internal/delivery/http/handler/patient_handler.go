package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"clinic-records/internal/delivery/dto"
	"clinic-records/internal/usecase"
	"clinic-records/pkg/response"
	"clinic-records/pkg/validator"

	"github.com/gorilla/mux"
)

type PatientHandler struct {
	patientUsecase usecase.PatientUsecase
	validator      *validator.CustomValidator
}

func NewPatientHandler(patientUsecase usecase.PatientUsecase, validator *validator.CustomValidator) *PatientHandler {
	return &PatientHandler{
		patientUsecase: patientUsecase,
		validator:      validator,
	}
}

func (h *PatientHandler) CreatePatient(w http.ResponseWriter, r *http.Request) {
	var req dto.CreatePatientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	created, err := h.patientUsecase.CreatePatient(r.Context(), &req)
	if err != nil {
		h.writePatientError(w, err, "Failed to add patient")
		return
	}

	response.Success(w, http.StatusCreated, "Patient added successfully", created)
}

// Intake registers a patient and records their visit in one call. An existing
// registration number is reused rather than rejected.
func (h *PatientHandler) Intake(w http.ResponseWriter, r *http.Request) {
	var req dto.IntakeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	result, err := h.patientUsecase.Intake(r.Context(), &req)
	if err != nil {
		h.writePatientError(w, err, "Failed to complete intake")
		return
	}

	status := http.StatusOK
	if result.PatientCreated {
		status = http.StatusCreated
	}
	response.Success(w, status, "Intake recorded successfully", result)
}

func (h *PatientHandler) CheckPatient(w http.ResponseWriter, r *http.Request) {
	result, err := h.patientUsecase.CheckPatient(r.Context(), r.URL.Query().Get("registrationNo"))
	if err != nil {
		h.writePatientError(w, err, "Failed to check patient")
		return
	}

	response.Success(w, http.StatusOK, "Patient check completed", result)
}

func (h *PatientHandler) GetAllPatients(w http.ResponseWriter, r *http.Request) {
	patients, err := h.patientUsecase.GetAllPatients(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get patients", err)
		return
	}

	response.Success(w, http.StatusOK, "Patients retrieved successfully", patients)
}

func (h *PatientHandler) GetPatient(w http.ResponseWriter, r *http.Request) {
	patientID, ok := pathInt64(w, r, "id", "Invalid patient ID")
	if !ok {
		return
	}

	patient, err := h.patientUsecase.GetPatient(r.Context(), patientID)
	if err != nil {
		h.writePatientError(w, err, "Failed to get patient")
		return
	}

	response.Success(w, http.StatusOK, "Patient retrieved successfully", patient)
}

func (h *PatientHandler) DeletePatient(w http.ResponseWriter, r *http.Request) {
	patientID, ok := pathInt64(w, r, "id", "Invalid patient ID")
	if !ok {
		return
	}

	if err := h.patientUsecase.DeletePatient(r.Context(), patientID); err != nil {
		h.writePatientError(w, err, "Failed to delete patient")
		return
	}

	response.Success(w, http.StatusOK, "Patient deleted successfully", nil)
}

func (h *PatientHandler) CountPatients(w http.ResponseWriter, r *http.Request) {
	count, err := h.patientUsecase.CountPatients(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to count patients", err)
		return
	}

	response.Success(w, http.StatusOK, "Patient count retrieved successfully", count)
}

func (h *PatientHandler) CountByDepartment(w http.ResponseWriter, r *http.Request) {
	counts, err := h.patientUsecase.CountByDepartment(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to count patients by department", err)
		return
	}

	response.Success(w, http.StatusOK, "Department counts retrieved successfully", counts)
}

func (h *PatientHandler) writePatientError(w http.ResponseWriter, err error, fallback string) {
	var conflict *usecase.RegistrationConflictError
	switch {
	case errors.As(err, &conflict):
		response.Conflict(w, "Patient with this registration number already exists", map[string]int64{"patientId": conflict.PatientID})
	case errors.Is(err, usecase.ErrPatientNotFound):
		response.NotFound(w, "Patient not found")
	case errors.Is(err, usecase.ErrRegistrationNoRequired),
		errors.Is(err, usecase.ErrInvalidDateFormat),
		errors.Is(err, usecase.ErrInvalidVisitDate),
		errors.Is(err, usecase.ErrBMIOutOfRange):
		response.BadRequest(w, err.Error())
	default:
		response.InternalServerError(w, fallback, err)
	}
}

// pathInt64 reads a numeric route variable, answering 400 when it is not one.
func pathInt64(w http.ResponseWriter, r *http.Request, name, message string) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil {
		response.Error(w, http.StatusBadRequest, message, nil)
		return 0, false
	}
	return id, true
}
