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
)

type FeedbackHandler struct {
	DB *mongo.Database
}

// GetFeedback lists feedback entries, optionally narrowed to one camp.
func (h *FeedbackHandler) GetFeedback(c *gin.Context) {
	filter := bson.M{}
	if rawID := c.Query("campId"); rawID != "" {
		campID, err := primitive.ObjectIDFromHex(rawID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid camp id"})
			return
		}
		filter["campId"] = campID
	}

	cursor, err := h.DB.Collection(database.FeedbacksCollection).Find(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query feedback"})
		return
	}
	defer cursor.Close(c.Request.Context())

	var feedbacks []models.Feedback
	if err = cursor.All(c.Request.Context(), &feedbacks); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode feedback"})
		return
	}

	if feedbacks == nil {
		feedbacks = []models.Feedback{}
	}

	c.JSON(http.StatusOK, feedbacks)
}

type CreateFeedbackRequest struct {
	CampID          string `json:"campId" binding:"required"`
	CampName        string `json:"campName"`
	ParticipantName string `json:"participantName"`
	Rating          int    `json:"rating" binding:"required,min=1,max=5"`
	Feedback        string `json:"feedback" binding:"required"`
}

// CreateFeedback appends a feedback entry for the calling participant.
func (h *FeedbackHandler) CreateFeedback(c *gin.Context) {
	var req CreateFeedbackRequest
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

	feedback := models.Feedback{
		CampID:           campID,
		CampName:         req.CampName,
		ParticipantEmail: principal.Email,
		ParticipantName:  req.ParticipantName,
		Rating:           req.Rating,
		Feedback:         req.Feedback,
		CreatedAt:        time.Now(),
	}

	result, err := h.DB.Collection(database.FeedbacksCollection).InsertOne(c.Request.Context(), feedback)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save feedback"})
		return
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		feedback.ID = oid
	}

	c.JSON(http.StatusCreated, feedback)
}
