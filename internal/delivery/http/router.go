package http

import (
	"net/http"

	"clinic-scheduling-service/internal/delivery/http/handler"
	"clinic-scheduling-service/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
)

type Router struct {
	router             *mux.Router
	appointmentHandler *handler.AppointmentHandler
	slotConfigHandler  *handler.SlotConfigHandler
	auditLogHandler    *handler.AuditLogHandler
	authMiddleware     *middleware.AuthMiddleware
	corsMiddleware     *middleware.CORSMiddleware
}

func NewRouter(
	appointmentHandler *handler.AppointmentHandler,
	slotConfigHandler *handler.SlotConfigHandler,
	auditLogHandler *handler.AuditLogHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
) *Router {
	return &Router{
		router:             mux.NewRouter(),
		appointmentHandler: appointmentHandler,
		slotConfigHandler:  slotConfigHandler,
		auditLogHandler:    auditLogHandler,
		authMiddleware:     authMiddleware,
		corsMiddleware:     corsMiddleware,
	}
}

func (r *Router) Setup() *mux.Router {
	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Tenant scoped routes (protected)
	scoped := api.NewRoute().Subrouter()
	scoped.Use(r.authMiddleware.Authenticate)
	scoped.Use(middleware.RequireTenant)

	// Appointments
	scoped.HandleFunc("/appointments", r.appointmentHandler.CreateAppointment).Methods(http.MethodPost)
	scoped.HandleFunc("/appointments", r.appointmentHandler.GetAppointments).Methods(http.MethodGet)
	scoped.HandleFunc("/appointments/{id}", r.appointmentHandler.GetAppointment).Methods(http.MethodGet)
	scoped.HandleFunc("/appointments/{id}", r.appointmentHandler.UpdateAppointment).Methods(http.MethodPatch)
	scoped.HandleFunc("/appointments/{id}/status", r.appointmentHandler.UpdateAppointmentStatus).Methods(http.MethodPatch)
	scoped.HandleFunc("/appointments/{id}/reorder", r.appointmentHandler.ReorderQueue).Methods(http.MethodPost)
	scoped.HandleFunc("/appointments/{id}/audit-logs", r.auditLogHandler.GetAppointmentHistory).Methods(http.MethodGet)
	scoped.HandleFunc("/doctors/{doctorId}/available-slots", r.appointmentHandler.GetAvailableSlots).Methods(http.MethodGet)

	// Slot configuration
	scoped.HandleFunc("/slot-config/clinic", r.slotConfigHandler.GetClinicConfig).Methods(http.MethodGet)
	scoped.HandleFunc("/slot-config/clinic", r.slotConfigHandler.UpsertClinicConfig).Methods(http.MethodPut)
	scoped.HandleFunc("/slot-config/doctors/{doctorId}", r.slotConfigHandler.GetDoctorConfig).Methods(http.MethodGet)
	scoped.HandleFunc("/slot-config/doctors/{doctorId}", r.slotConfigHandler.UpsertDoctorConfig).Methods(http.MethodPut)
	scoped.HandleFunc("/slot-config/overrides", r.slotConfigHandler.ListDateOverrides).Methods(http.MethodGet)
	scoped.HandleFunc("/slot-config/overrides", r.slotConfigHandler.UpsertDateOverride).Methods(http.MethodPut)
	scoped.HandleFunc("/slot-config/overrides/{id}", r.slotConfigHandler.DeleteDateOverride).Methods(http.MethodDelete)

	// Audit trail
	scoped.HandleFunc("/audit-logs/{id}", r.auditLogHandler.GetAuditLog).Methods(http.MethodGet)

	// Middleware only runs on a matched route, so preflight requests need one of their own.
	r.router.PathPrefix("/").Methods(http.MethodOptions).HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	// Add CORS middleware
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
