package http

import (
	"net/http"

	"go-medical-scheduling/internal/delivery/http/handler"
	"go-medical-scheduling/internal/delivery/http/middleware"
	"go-medical-scheduling/internal/domain/entity"

	"github.com/gorilla/mux"
)

type Router struct {
	router              *mux.Router
	authHandler         *handler.AuthHandler
	doctorHandler       *handler.DoctorHandler
	scheduleHandler     *handler.ScheduleHandler
	availabilityHandler *handler.AvailabilityHandler
	slotHandler         *handler.SlotHandler
	bookingHandler      *handler.BookingHandler
	auditLogHandler     *handler.AuditLogHandler
	authMiddleware      *middleware.AuthMiddleware
	corsMiddleware      *middleware.CORSMiddleware
}

func NewRouter(
	authHandler *handler.AuthHandler,
	doctorHandler *handler.DoctorHandler,
	scheduleHandler *handler.ScheduleHandler,
	availabilityHandler *handler.AvailabilityHandler,
	slotHandler *handler.SlotHandler,
	bookingHandler *handler.BookingHandler,
	auditLogHandler *handler.AuditLogHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
) *Router {
	return &Router{
		router:              mux.NewRouter(),
		authHandler:         authHandler,
		doctorHandler:       doctorHandler,
		scheduleHandler:     scheduleHandler,
		availabilityHandler: availabilityHandler,
		slotHandler:         slotHandler,
		bookingHandler:      bookingHandler,
		auditLogHandler:     auditLogHandler,
		authMiddleware:      authMiddleware,
		corsMiddleware:      corsMiddleware,
	}
}

func (r *Router) Setup() *mux.Router {
	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Auth routes (public)
	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/register/patient", r.authHandler.RegisterPatient).Methods(http.MethodPost)
	auth.HandleFunc("/register/doctor", r.authHandler.RegisterDoctor).Methods(http.MethodPost)
	auth.HandleFunc("/login", r.authHandler.Login).Methods(http.MethodPost)
	auth.HandleFunc("/refresh-token", r.authHandler.RefreshToken).Methods(http.MethodPost)

	// Auth routes (protected)
	authProtected := api.PathPrefix("/auth").Subrouter()
	authProtected.Use(r.authMiddleware.Authenticate)
	authProtected.HandleFunc("/logout", r.authHandler.Logout).Methods(http.MethodPost)
	authProtected.HandleFunc("/me", r.authHandler.GetCurrentUser).Methods(http.MethodGet)

	// Doctor directory and schedule reads (public)
	api.HandleFunc("/doctors", r.doctorHandler.GetAllDoctors).Methods(http.MethodGet)
	api.HandleFunc("/doctors/{id}", r.doctorHandler.GetDoctor).Methods(http.MethodGet)
	api.HandleFunc("/doctors/{doctorId}/schedules", r.scheduleHandler.GetSchedulesByDoctor).Methods(http.MethodGet)
	api.HandleFunc("/schedules", r.scheduleHandler.GetAllSchedules).Methods(http.MethodGet)
	api.HandleFunc("/schedules/{id:[0-9]+}", r.scheduleHandler.GetSchedule).Methods(http.MethodGet)
	api.HandleFunc("/schedules/{id:[0-9]+}/availabilities", r.availabilityHandler.GetAvailabilities).Methods(http.MethodGet)
	api.HandleFunc("/schedules/{id:[0-9]+}/slots", r.slotHandler.GetSlots).Methods(http.MethodGet)

	// Schedule management (doctor owns, admin manages all)
	schedules := api.PathPrefix("/schedules").Subrouter()
	schedules.Use(r.authMiddleware.Authenticate)
	schedules.Use(middleware.RequireAdminOrDoctor)
	schedules.HandleFunc("", r.scheduleHandler.CreateSchedule).Methods(http.MethodPost)
	schedules.HandleFunc("/{id:[0-9]+}", r.scheduleHandler.UpdateSchedule).Methods(http.MethodPut)
	schedules.HandleFunc("/{id:[0-9]+}", r.scheduleHandler.DeleteSchedule).Methods(http.MethodDelete)
	schedules.HandleFunc("/{id:[0-9]+}/availabilities/{date}", r.availabilityHandler.UpsertAvailability).Methods(http.MethodPut)
	schedules.HandleFunc("/{id:[0-9]+}/availabilities/{date}", r.availabilityHandler.DeleteAvailability).Methods(http.MethodDelete)

	// Patient bookings
	bookings := api.PathPrefix("/bookings").Subrouter()
	bookings.Use(r.authMiddleware.Authenticate)
	bookings.Handle("", middleware.RequirePatient(http.HandlerFunc(r.bookingHandler.CreateBooking))).Methods(http.MethodPost)
	bookings.Handle("/me", middleware.RequirePatient(http.HandlerFunc(r.bookingHandler.GetMyBookings))).Methods(http.MethodGet)
	bookings.Handle("/{id}/cancel", middleware.RequireRole(entity.RoleIDPatient, entity.RoleIDAdmin)(http.HandlerFunc(r.bookingHandler.CancelBooking))).Methods(http.MethodPost)

	// Admin routes (protected - admin only)
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(r.authMiddleware.Authenticate)
	admin.Use(middleware.RequireAdmin)
	admin.HandleFunc("/audit-logs", r.auditLogHandler.GetAllAuditLogs).Methods(http.MethodGet)
	admin.HandleFunc("/audit-logs/{id}", r.auditLogHandler.GetAuditLog).Methods(http.MethodGet)

	// Add CORS middleware
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
