package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"campmedix-api-server/internal/api/middleware"
	"campmedix-api-server/internal/database"
	"campmedix-api-server/internal/models"
	"campmedix-api-server/internal/socket"
)

type RegistrationHandler struct {
	DB  *mongo.Database
	Hub *socket.Hub
}

type CreateRegistrationRequest struct {
	CampID          string  `json:"campId" binding:"required"`
	CampName        string  `json:"campName" binding:"required"`
	CampFees        float64 `json:"campFees" binding:"min=0"`
	ParticipantName string  `json:"participantName"`
	OrganizerEmail  string  `json:"organizerEmail" binding:"required"`
}

// CreateRegistration enrolls the calling participant in a camp. Payment and
// confirmation start at their initial states; the related camp's participant
// count is bumped by a separate request from the client.
func (h *RegistrationHandler) CreateRegistration(c *gin.Context) {
	var req CreateRegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	campID, err := primitive.ObjectIDFromHex(req.CampID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid camp id"})
		return
	}

	principal, _ := middleware.PrincipalFrom(c)

	registration := models.Registration{
		CampID:             campID,
		CampName:           req.CampName,
		CampFees:           req.CampFees,
		ParticipantEmail:   principal.Email,
		ParticipantName:    req.ParticipantName,
		OrganizerEmail:     req.OrganizerEmail,
		PaymentStatus:      models.PaymentStatusUnpaid,
		ConfirmationStatus: models.ConfirmationPending,
		CreatedAt:          time.Now(),
	}

	result, err := h.DB.Collection(database.RegistrationsCollection).InsertOne(c.Request.Context(), registration)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create registration"})
		return
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		registration.ID = oid
	}

	if h.Hub != nil {
		h.Hub.Broadcast(socket.Event{Type: "new_registration", Payload: gin.H{
			"campId":           req.CampID,
			"campName":         req.CampName,
			"participantEmail": principal.Email,
		}})
	}

	c.JSON(http.StatusCreated, registration)
}

// ListByParticipant lists the calling participant's registrations.
func (h *RegistrationHandler) ListByParticipant(c *gin.Context) {
	h.list(c, ListParams{NameField: "campName", EmailField: "participantEmail"})
}

// ListByOrganizer lists registrations for camps the calling organizer owns.
func (h *RegistrationHandler) ListByOrganizer(c *gin.Context) {
	h.list(c, ListParams{NameField: "campName", EmailField: "organizerEmail"})
}

// list is the shared find path: the email query parameter must match the
// caller's identity, everything else is plain query building.
func (h *RegistrationHandler) list(c *gin.Context, params ListParams) {
	principal, _ := middleware.PrincipalFrom(c)
	if email := c.Query("email"); email != "" && email != principal.Email {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden access"})
		return
	}

	filter, findOpts, err := ListQuery(c, params)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	// scope to the caller even when the email parameter is omitted
	filter[params.EmailField] = principal.Email

	cursor, err := h.DB.Collection(database.RegistrationsCollection).Find(c.Request.Context(), filter, findOpts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query registrations"})
		return
	}
	defer cursor.Close(c.Request.Context())

	var registrations []models.Registration
	if err = cursor.All(c.Request.Context(), &registrations); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode registrations"})
		return
	}

	if registrations == nil {
		registrations = []models.Registration{}
	}

	c.JSON(http.StatusOK, registrations)
}

// CountRegistrations counts the caller's registrations, organizer or
// participant side depending on the resolved role.
func (h *RegistrationHandler) CountRegistrations(c *gin.Context) {
	principal, _ := middleware.PrincipalFrom(c)

	field := "participantEmail"
	if principal.Role == models.RoleOrganizer {
		field = "organizerEmail"
	}

	count, err := h.DB.Collection(database.RegistrationsCollection).CountDocuments(c.Request.Context(), bson.M{field: principal.Email})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count registrations"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": count})
}

type UpdateRegistrationRequest struct {
	ConfirmationStatus string `json:"confirmationStatus" binding:"omitempty,oneof=pending confirmed"`
	PaymentStatus      string `json:"paymentStatus" binding:"omitempty,oneof=unpaid paid"`
}

// UpdateRegistration patches the workflow and/or payment status of one
// registration. The related payment record is written by a separate request;
// there is no compensating action if that second write fails.
func (h *RegistrationHandler) UpdateRegistration(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid registration id"})
		return
	}

	var req UpdateRegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	set := bson.M{}
	if req.ConfirmationStatus != "" {
		set["confirmationStatus"] = req.ConfirmationStatus
	}
	if req.PaymentStatus != "" {
		set["paymentStatus"] = req.PaymentStatus
	}
	if len(set) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nothing to update"})
		return
	}

	result, err := h.DB.Collection(database.RegistrationsCollection).UpdateOne(c.Request.Context(), bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update registration"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// DeleteRegistration cancels a registration by id. Deleting a missing
// registration returns the zero-deleted acknowledgement, not an error.
func (h *RegistrationHandler) DeleteRegistration(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid registration id"})
		return
	}

	result, err := h.DB.Collection(database.RegistrationsCollection).DeleteOne(c.Request.Context(), bson.M{"_id": id})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete registration"})
		return
	}

	c.JSON(http.StatusOK, result)
}
