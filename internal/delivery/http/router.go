package http

import (
	"net/http"

	"clinic-records/internal/delivery/http/handler"
	"clinic-records/internal/delivery/http/middleware"
	"clinic-records/pkg/response"

	"github.com/gorilla/mux"
)

type Router struct {
	router               *mux.Router
	authHandler          *handler.AuthHandler
	patientHandler       *handler.PatientHandler
	staffHandler         *handler.StaffHandler
	medicalRecordHandler *handler.MedicalRecordHandler
	auditLogHandler      *handler.AuditLogHandler
	authMiddleware       *middleware.AuthMiddleware
	authRequired         bool
}

func NewRouter(
	authHandler *handler.AuthHandler,
	patientHandler *handler.PatientHandler,
	staffHandler *handler.StaffHandler,
	medicalRecordHandler *handler.MedicalRecordHandler,
	auditLogHandler *handler.AuditLogHandler,
	authMiddleware *middleware.AuthMiddleware,
	authRequired bool,
) *Router {
	return &Router{
		router:               mux.NewRouter(),
		authHandler:          authHandler,
		patientHandler:       patientHandler,
		staffHandler:         staffHandler,
		medicalRecordHandler: medicalRecordHandler,
		auditLogHandler:      auditLogHandler,
		authMiddleware:       authMiddleware,
		authRequired:         authRequired,
	}
}

// Setup registers every route. Literal paths are registered before the
// parameterized paths they would otherwise collide with.
func (r *Router) Setup() *mux.Router {
	r.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		response.NotFound(w, "Route not found")
	})

	// Health check
	r.router.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// User routes (public)
	users := r.router.PathPrefix("/users").Subrouter()
	users.HandleFunc("/register", r.authHandler.Register).Methods(http.MethodPost)
	users.HandleFunc("/login", r.authHandler.Login).Methods(http.MethodPost)

	// User routes (protected)
	me := r.router.PathPrefix("/users").Subrouter()
	me.Use(r.authMiddleware.Authenticate)
	me.HandleFunc("/me", r.authHandler.Me).Methods(http.MethodGet)

	api := r.router.NewRoute().Subrouter()
	if r.authRequired {
		api.Use(r.authMiddleware.Authenticate)
	}

	// Patients
	api.HandleFunc("/patients", r.patientHandler.GetAllPatients).Methods(http.MethodGet)
	api.HandleFunc("/patients/add", r.patientHandler.CreatePatient).Methods(http.MethodPost)
	api.HandleFunc("/patients/intake", r.patientHandler.Intake).Methods(http.MethodPost)
	api.HandleFunc("/patients/check", r.patientHandler.CheckPatient).Methods(http.MethodGet)
	api.HandleFunc("/patients/count", r.patientHandler.CountPatients).Methods(http.MethodGet)
	api.HandleFunc("/patients/departments/count", r.patientHandler.CountByDepartment).Methods(http.MethodGet)
	api.HandleFunc("/patients/delete/{id}", r.patientHandler.DeletePatient).Methods(http.MethodDelete)
	api.HandleFunc("/patients/{id}", r.patientHandler.GetPatient).Methods(http.MethodGet)

	// Staff
	api.HandleFunc("/staff", r.staffHandler.GetAllStaff).Methods(http.MethodGet)
	api.HandleFunc("/staff/add", r.staffHandler.CreateStaff).Methods(http.MethodPost)
	api.HandleFunc("/staff/count", r.staffHandler.CountStaff).Methods(http.MethodGet)
	api.HandleFunc("/staff/update/{id}", r.staffHandler.UpdateStaff).Methods(http.MethodPut)
	api.HandleFunc("/staff/{id}/status", r.staffHandler.UpdateStaffStatus).Methods(http.MethodPatch)
	api.HandleFunc("/staff/{id}", r.staffHandler.GetStaff).Methods(http.MethodGet)
	api.HandleFunc("/staff/{id}", r.staffHandler.DeleteStaff).Methods(http.MethodDelete)

	// Medical records
	records := api.PathPrefix("/patientmedicalrecords").Subrouter()
	records.HandleFunc("/records", r.medicalRecordHandler.GetAllRecords).Methods(http.MethodGet)
	records.HandleFunc("/records/today/count", r.medicalRecordHandler.CountPatientsToday).Methods(http.MethodGet)
	records.HandleFunc("/stats/monthly", r.medicalRecordHandler.MonthlyStats).Methods(http.MethodGet)
	records.HandleFunc("/stats/yearly", r.medicalRecordHandler.YearlyStats).Methods(http.MethodGet)
	records.HandleFunc("/count/{patientId}", r.medicalRecordHandler.CountByPatient).Methods(http.MethodGet)
	records.HandleFunc("/{id}/records", r.medicalRecordHandler.GetRecordsByPatient).Methods(http.MethodGet)
	records.HandleFunc("/{patientId}/records", r.medicalRecordHandler.AddRecord).Methods(http.MethodPost)
	records.HandleFunc("/{patientId}/revise", r.medicalRecordHandler.ReviseRecord).Methods(http.MethodPost)
	records.HandleFunc("/{patientId}/latest", r.medicalRecordHandler.GetLatestRecord).Methods(http.MethodGet)
	records.HandleFunc("/{patientId}/history", r.medicalRecordHandler.GetRecordsByPatient).Methods(http.MethodGet)
	records.HandleFunc("/{patientId}/monthly", r.medicalRecordHandler.PatientMonthlyMetrics).Methods(http.MethodGet)
	records.HandleFunc("/{patientId}/yearly", r.medicalRecordHandler.PatientYearlyMetrics).Methods(http.MethodGet)

	// Audit trail
	api.HandleFunc("/audit-logs", r.auditLogHandler.GetAllAuditLogs).Methods(http.MethodGet)
	api.HandleFunc("/audit-logs/{id}", r.auditLogHandler.GetAuditLog).Methods(http.MethodGet)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	response.Success(w, http.StatusOK, "ok", map[string]string{"status": "ok"})
}
