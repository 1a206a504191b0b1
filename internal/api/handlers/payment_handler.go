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
	"campmedix-api-server/internal/payment"
)

type PaymentHandler struct {
	DB     *mongo.Database
	Bridge *payment.Bridge
}

type CreateIntentRequest struct {
	Price float64 `json:"price" binding:"required,gt=0"`
}

// CreateIntent asks the processor for a payment intent over the camp fee and
// returns the client secret for the frontend to confirm the card payment.
func (h *PaymentHandler) CreateIntent(c *gin.Context) {
	var req CreateIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	clientSecret, err := h.Bridge.CreateIntent(c.Request.Context(), req.Price)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create payment intent", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"clientSecret": clientSecret})
}

type CreatePaymentRequest struct {
	RegistrationID string  `json:"registrationId" binding:"required"`
	CampName       string  `json:"campName"`
	Amount         float64 `json:"amount" binding:"required,gt=0"`
	Currency       string  `json:"currency"`
	TransactionID  string  `json:"transactionId" binding:"required"`
}

// CreatePayment records a confirmed external charge for a registration. The
// registration's own paymentStatus is patched by a separate client request.
func (h *PaymentHandler) CreatePayment(c *gin.Context) {
	var req CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	registrationID, err := primitive.ObjectIDFromHex(req.RegistrationID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid registration id"})
		return
	}

	principal, _ := middleware.PrincipalFrom(c)

	currency := req.Currency
	if currency == "" {
		currency = "usd"
	}

	record := models.Payment{
		RegistrationID:   registrationID,
		CampName:         req.CampName,
		ParticipantEmail: principal.Email,
		Amount:           req.Amount,
		Currency:         currency,
		TransactionID:    req.TransactionID,
		Status:           models.PaymentRecordPending,
		PaidAt:           time.Now(),
	}

	result, err := h.DB.Collection(database.PaymentsCollection).InsertOne(c.Request.Context(), record)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save payment"})
		return
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		record.ID = oid
	}

	c.JSON(http.StatusCreated, record)
}

// ListPayments lists payments for one participant email. Scoped to "self".
func (h *PaymentHandler) ListPayments(c *gin.Context) {
	email := c.Param("email")

	principal, _ := middleware.PrincipalFrom(c)
	if principal.Email != email {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden access"})
		return
	}

	cursor, err := h.DB.Collection(database.PaymentsCollection).Find(c.Request.Context(), bson.M{"participantEmail": email})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query payments"})
		return
	}
	defer cursor.Close(c.Request.Context())

	var payments []models.Payment
	if err = cursor.All(c.Request.Context(), &payments); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode payments"})
		return
	}

	if payments == nil {
		payments = []models.Payment{}
	}

	c.JSON(http.StatusOK, payments)
}

type UpdatePaymentRequest struct {
	Status string `json:"status" binding:"required,oneof=pending completed"`
}

// UpdatePaymentInfo patches a payment's status. The path id is the linked
// registration id, not the payment's own id.
func (h *PaymentHandler) UpdatePaymentInfo(c *gin.Context) {
	registrationID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid registration id"})
		return
	}

	var req UpdatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.DB.Collection(database.PaymentsCollection).UpdateOne(
		c.Request.Context(),
		bson.M{"registrationId": registrationID},
		bson.M{"$set": bson.M{"status": req.Status}},
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update payment"})
		return
	}

	c.JSON(http.StatusOK, result)
}
