package handlers

import (
	"errors"

	"github.com/M7HZ/bright-clinic/middlewares"
	"github.com/M7HZ/bright-clinic/models"
	"github.com/M7HZ/bright-clinic/services"
	"github.com/gin-gonic/gin"
)

type RecordHandler struct {
	Records *services.RecordService
}

func NewRecordHandler(records *services.RecordService) *RecordHandler {
	return &RecordHandler{Records: records}
}

// GetMyRecord returns the signed-in patient's own clinical record.
func (h *RecordHandler) GetMyRecord(c *gin.Context) {
	viewerID, role, ok := viewer(c)
	if !ok {
		return
	}

	record, err := h.Records.GetRecord(c.Request.Context(), viewerID, role, viewerID)
	if err != nil {
		middlewares.HttpError(c, "Failed to load record", 500, err)
		return
	}
	if record == nil {
		c.JSON(404, gin.H{"error": "No record on file"})
		return
	}

	middlewares.RespondJSON(c, gin.H{"record": record}, 200)
}

// GetPatientRecord returns a patient's record to a clinician.
func (h *RecordHandler) GetPatientRecord(c *gin.Context) {
	viewerID, role, ok := viewer(c)
	if !ok {
		return
	}

	patientID := c.Param("patientId")
	record, err := h.Records.GetRecord(c.Request.Context(), viewerID, role, patientID)
	if err != nil {
		c.JSON(403, gin.H{"error": "Not allowed to view this record"})
		return
	}
	if record == nil {
		c.JSON(404, gin.H{"error": "No record on file"})
		return
	}

	middlewares.RespondJSON(c, gin.H{"record": record}, 200)
}

// UpsertPatientRecord creates or updates a patient's clinical record.
func (h *RecordHandler) UpsertPatientRecord(c *gin.Context) {
	viewerID, role, ok := viewer(c)
	if !ok {
		return
	}

	var record models.PatientRecord
	if err := c.ShouldBindJSON(&record); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request body"})
		return
	}
	record.PatientID = c.Param("patientId")

	err := h.Records.SaveRecord(c.Request.Context(), viewerID, role, &record)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotAuthenticated):
			c.JSON(403, gin.H{"error": "Only staff edit clinical records"})
		case services.IsValidation(err):
			respondValidation(c, err)
		default:
			middlewares.HttpError(c, "Failed to save record", 500, err)
		}
		return
	}

	middlewares.RespondJSON(c, gin.H{"record": record}, 200)
}
