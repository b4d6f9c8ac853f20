package controllers

import (
	"github.com/M7HZ/bright-clinic/handlers"
	"github.com/M7HZ/bright-clinic/middlewares"
	"github.com/M7HZ/bright-clinic/models"
	"github.com/gin-gonic/gin"
)

// SetupDashboardRoutes registers the three role-guarded dashboard
// surfaces. Every group passes token auth first, then the role guard,
// which answers 401/403 with the login surface the client should
// redirect to.
func SetupDashboardRoutes(
	router *gin.Engine,
	appointmentHandler *handlers.AppointmentHandler,
	recordHandler *handlers.RecordHandler,
) {
	patient := router.Group("/patient-dashboard").Use(
		middlewares.TokenAuthMiddleware(),
		middlewares.RoleGuardMiddleware(models.RolePatient),
	)
	{
		patient.GET("/appointments", appointmentHandler.ListAppointments)
		patient.POST("/appointments", appointmentHandler.BookAppointment)
		patient.GET("/doctors", appointmentHandler.ListAvailableDoctors)
		patient.GET("/record", recordHandler.GetMyRecord)
	}

	doctor := router.Group("/doctor-dashboard").Use(
		middlewares.TokenAuthMiddleware(),
		middlewares.RoleGuardMiddleware(models.RoleDoctor),
	)
	{
		doctor.GET("/appointments", appointmentHandler.ListAppointments)
		doctor.PUT("/appointments/:id/status", appointmentHandler.UpdateAppointmentStatus)
		doctor.PUT("/availability", appointmentHandler.SetAvailability)
		doctor.GET("/patients/:patientId/record", recordHandler.GetPatientRecord)
		doctor.PUT("/patients/:patientId/record", recordHandler.UpsertPatientRecord)
	}

	admin := router.Group("/admin-dashboard").Use(
		middlewares.TokenAuthMiddleware(),
		middlewares.RoleGuardMiddleware(models.RoleClerkAdmin),
	)
	{
		admin.GET("/appointments", appointmentHandler.ListAppointments)
		admin.PUT("/appointments/:id/status", appointmentHandler.UpdateAppointmentStatus)
		admin.GET("/patients/:patientId/record", recordHandler.GetPatientRecord)
		admin.PUT("/patients/:patientId/record", recordHandler.UpsertPatientRecord)
	}
}
