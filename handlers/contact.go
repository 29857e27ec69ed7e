package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"techsetu-website-api/database"
	"techsetu-website-api/models"
	"techsetu-website-api/queue"
	"techsetu-website-api/utils"
)

type ContactHandler struct {
	db    *database.Connection
	queue *queue.Queue
}

func NewContactHandler(db *database.Connection, q *queue.Queue) *ContactHandler {
	return &ContactHandler{db: db, queue: q}
}

// SubmitContact stores a contact enquiry and queues the sales notification.
func (h *ContactHandler) SubmitContact(w http.ResponseWriter, r *http.Request) {
	var lead models.ContactLead
	if err := json.NewDecoder(r.Body).Decode(&lead); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	lead.Name = strings.TrimSpace(lead.Name)
	lead.Email = strings.TrimSpace(lead.Email)
	lead.Message = strings.TrimSpace(lead.Message)

	if lead.Name == "" || lead.Message == "" {
		utils.SendErrorResponse(w, http.StatusBadRequest, "Name and message are required")
		return
	}
	if !strings.Contains(lead.Email, "@") {
		utils.SendErrorResponse(w, http.StatusBadRequest, "A valid email address is required")
		return
	}

	lead.ID = uuid.New().String()
	lead.CreatedAt = time.Now()

	if err := h.db.SaveLead(&lead); err != nil {
		log.Printf("Error saving lead from %s: %v", lead.Email, err)
		utils.SendErrorResponse(w, http.StatusInternalServerError, "Could not save your enquiry, please try again")
		return
	}

	// Notification is best effort; the lead is already stored.
	err := h.queue.Enqueue(r.Context(), queue.JobTypeLeadNotification, map[string]interface{}{
		"lead_id": lead.ID,
		"name":    lead.Name,
		"email":   lead.Email,
		"phone":   lead.Phone,
		"company": lead.Company,
		"service": lead.Service,
		"message": lead.Message,
	})
	if err != nil {
		log.Printf("Error enqueuing lead notification for %s: %v", lead.ID, err)
	}

	utils.SendSuccessResponse(w, models.APIResponse{
		Status:  "success",
		Message: "Thank you for reaching out. We will get back to you within one business day.",
		Data:    map[string]string{"lead_id": lead.ID},
	})
}
