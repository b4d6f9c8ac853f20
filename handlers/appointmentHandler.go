package handlers

import (
	"errors"

	"github.com/M7HZ/bright-clinic/middlewares"
	"github.com/M7HZ/bright-clinic/models"
	"github.com/M7HZ/bright-clinic/services"
	"github.com/gin-gonic/gin"
)

type AppointmentHandler struct {
	Appointments *services.AppointmentService
	Bookings     *services.BookingService
}

func NewAppointmentHandler(appointments *services.AppointmentService, bookings *services.BookingService) *AppointmentHandler {
	return &AppointmentHandler{Appointments: appointments, Bookings: bookings}
}

// viewer pulls the authenticated user's id and role out of the request
// context populated by the token middleware.
func viewer(c *gin.Context) (string, models.AppRole, bool) {
	ctx := c.Request.Context()
	userID, err := middlewares.ExtractUserIDFromContext(ctx)
	if err != nil {
		c.JSON(401, gin.H{"error": "Not authenticated"})
		return "", "", false
	}
	role, err := middlewares.ExtractUserRoleFromContext(ctx)
	if err != nil {
		c.JSON(401, gin.H{"error": "Not authenticated"})
		return "", "", false
	}
	return userID, role, true
}

// ListAppointments returns the viewer's appointment feed: patients see
// their own bookings, doctors their schedule, clerk admins everything.
func (h *AppointmentHandler) ListAppointments(c *gin.Context) {
	viewerID, role, ok := viewer(c)
	if !ok {
		return
	}

	views, err := h.Appointments.ListAppointments(c.Request.Context(), viewerID, role)
	if err != nil {
		if errors.Is(err, services.ErrListUnavailable) {
			c.JSON(503, gin.H{"error": "Appointments are temporarily unavailable"})
			return
		}
		middlewares.HttpError(c, "Failed to load appointments", 500, err)
		return
	}

	middlewares.RespondJSON(c, gin.H{"appointments": views}, 200)
}

// ListAvailableDoctors returns the doctors offered in the booking form.
func (h *AppointmentHandler) ListAvailableDoctors(c *gin.Context) {
	if _, _, ok := viewer(c); !ok {
		return
	}

	doctors, err := h.Appointments.ListAvailableDoctors(c.Request.Context())
	if err != nil {
		c.JSON(503, gin.H{"error": "Doctors are temporarily unavailable"})
		return
	}

	middlewares.RespondJSON(c, gin.H{"doctors": doctors}, 200)
}

// BookAppointment submits a new appointment request for the signed-in
// patient. It lands as pending until reception confirms it.
func (h *AppointmentHandler) BookAppointment(c *gin.Context) {
	viewerID, role, ok := viewer(c)
	if !ok {
		return
	}
	if role != models.RolePatient {
		c.JSON(403, gin.H{"error": "Only patients book appointments"})
		return
	}

	var req services.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request body"})
		return
	}

	apt, err := h.Bookings.Submit(c.Request.Context(), viewerID, req)
	if err != nil {
		if services.IsValidation(err) {
			respondValidation(c, err)
			return
		}
		middlewares.HttpError(c, "Failed to book appointment", 500, err)
		return
	}

	c.JSON(201, gin.H{"appointment": apt})
}

// SetAvailability toggles the signed-in doctor's booking availability.
func (h *AppointmentHandler) SetAvailability(c *gin.Context) {
	viewerID, role, ok := viewer(c)
	if !ok {
		return
	}

	var body struct {
		Available *bool `json:"available"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.Available == nil {
		c.JSON(400, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.Appointments.SetDoctorAvailability(c.Request.Context(), viewerID, role, viewerID, *body.Available); err != nil {
		middlewares.HttpError(c, "Failed to update availability", 500, err)
		return
	}
	c.Status(200)
}

// UpdateAppointmentStatus moves an appointment through its lifecycle.
// Staff only; doctors are limited to their own appointments.
func (h *AppointmentHandler) UpdateAppointmentStatus(c *gin.Context) {
	viewerID, role, ok := viewer(c)
	if !ok {
		return
	}

	var body struct {
		Status models.AppointmentStatus `json:"status"`
		Notes  string                   `json:"notes"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request body"})
		return
	}
	if !body.Status.Valid() {
		c.JSON(400, gin.H{"error": "Unknown appointment status"})
		return
	}

	id := c.Param("id")
	err := h.Appointments.UpdateStatus(c.Request.Context(), viewerID, role, id, body.Status, body.Notes)
	if err != nil {
		if errors.Is(err, services.ErrNotAuthenticated) {
			c.JSON(403, gin.H{"error": "Only staff update appointment status"})
			return
		}
		c.JSON(409, gin.H{"error": err.Error()})
		return
	}

	c.Status(200)
}
