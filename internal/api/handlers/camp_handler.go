package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"campmedix-api-server/internal/api/middleware"
	"campmedix-api-server/internal/database"
	"campmedix-api-server/internal/models"
	"campmedix-api-server/internal/s3"
	"campmedix-api-server/internal/socket"
)

const popularCampsLimit = 6

type CampHandler struct {
	DB       *mongo.Database
	Uploader *s3.Uploader
	Hub      *socket.Hub
}

var campListParams = ListParams{NameField: "campName", EmailField: "organizerEmail"}

// GetCamps lists camps with optional search, sort and pagination. The query
// options are passed through to Find so search and sort actually apply.
func (h *CampHandler) GetCamps(c *gin.Context) {
	filter, findOpts, err := ListQuery(c, campListParams)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	collection := h.DB.Collection(database.CampsCollection)
	cursor, err := collection.Find(c.Request.Context(), filter, findOpts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query camps"})
		return
	}
	defer cursor.Close(c.Request.Context())

	var camps []models.Camp
	if err = cursor.All(c.Request.Context(), &camps); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode camps"})
		return
	}

	if camps == nil {
		camps = []models.Camp{}
	}

	c.JSON(http.StatusOK, camps)
}

// CountCamps returns the number of camps matching the optional search, for
// client-side pagination.
func (h *CampHandler) CountCamps(c *gin.Context) {
	filter := searchFilter(c, "campName")

	count, err := h.DB.Collection(database.CampsCollection).CountDocuments(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count camps"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": count})
}

// GetPopularCamps returns the camps with the highest participant counts.
func (h *CampHandler) GetPopularCamps(c *gin.Context) {
	findOpts := options.Find().
		SetSort(bson.D{{Key: "participantCount", Value: -1}}).
		SetLimit(popularCampsLimit)

	cursor, err := h.DB.Collection(database.CampsCollection).Find(c.Request.Context(), bson.M{}, findOpts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query camps"})
		return
	}
	defer cursor.Close(c.Request.Context())

	var camps []models.Camp
	if err = cursor.All(c.Request.Context(), &camps); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode camps"})
		return
	}

	if camps == nil {
		camps = []models.Camp{}
	}

	c.JSON(http.StatusOK, camps)
}

// GetCamp returns one camp by id.
func (h *CampHandler) GetCamp(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid camp id"})
		return
	}

	var camp models.Camp
	err = h.DB.Collection(database.CampsCollection).FindOne(c.Request.Context(), bson.M{"_id": id}).Decode(&camp)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Camp not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve camp"})
		}
		return
	}

	c.JSON(http.StatusOK, camp)
}

type CampRequest struct {
	CampName               string    `json:"campName" binding:"required"`
	CampFees               float64   `json:"campFees" binding:"min=0"`
	DateTime               time.Time `json:"dateTime" binding:"required"`
	Location               string    `json:"location" binding:"required"`
	HealthcareProfessional string    `json:"healthcareProfessional"`
	Description            string    `json:"description"`
	Image                  string    `json:"image"`
}

// CreateCamp creates a camp owned by the calling organizer.
func (h *CampHandler) CreateCamp(c *gin.Context) {
	var req CampRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	principal, _ := middleware.PrincipalFrom(c)

	newCamp := models.Camp{
		CampName:               req.CampName,
		CampFees:               req.CampFees,
		DateTime:               req.DateTime,
		Location:               req.Location,
		HealthcareProfessional: req.HealthcareProfessional,
		Description:            req.Description,
		Image:                  req.Image,
		OrganizerEmail:         principal.Email,
		ParticipantCount:       0,
		CreatedAt:              time.Now(),
		UpdatedAt:              time.Now(),
	}

	result, err := h.DB.Collection(database.CampsCollection).InsertOne(c.Request.Context(), newCamp)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create camp"})
		return
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		newCamp.ID = oid
	}

	c.JSON(http.StatusCreated, newCamp)
}

// UpdateCamp updates a camp's details by id. Organizer only.
func (h *CampHandler) UpdateCamp(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid camp id"})
		return
	}

	var req CampRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.DB.Collection(database.CampsCollection).UpdateOne(c.Request.Context(), bson.M{"_id": id}, bson.M{"$set": bson.M{
		"campName":               req.CampName,
		"campFees":               req.CampFees,
		"dateTime":               req.DateTime,
		"location":               req.Location,
		"healthcareProfessional": req.HealthcareProfessional,
		"description":            req.Description,
		"updatedAt":              time.Now(),
	}})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update camp"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// DeleteCamp deletes a camp by id. Deleting a missing camp returns the
// zero-deleted acknowledgement, not an error.
func (h *CampHandler) DeleteCamp(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid camp id"})
		return
	}

	result, err := h.DB.Collection(database.CampsCollection).DeleteOne(c.Request.Context(), bson.M{"_id": id})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete camp"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// IncrementParticipant bumps a camp's participant count by one and pushes the
// update to connected dashboards.
func (h *CampHandler) IncrementParticipant(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid camp id"})
		return
	}

	result, err := h.DB.Collection(database.CampsCollection).UpdateOne(
		c.Request.Context(),
		bson.M{"_id": id},
		bson.M{"$inc": bson.M{"participantCount": 1}},
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update participant count"})
		return
	}

	if h.Hub != nil && result.ModifiedCount > 0 {
		h.Hub.Broadcast(socket.Event{Type: "participant_count", Payload: gin.H{"campId": id.Hex()}})
	}

	c.JSON(http.StatusOK, result)
}

// UploadPhoto stores a camp photo in S3 and patches the camp's image URL.
func (h *CampHandler) UploadPhoto(c *gin.Context) {
	if h.Uploader == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Photo storage is not configured"})
		return
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid camp id"})
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "An image file is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read uploaded file"})
		return
	}
	defer file.Close()

	url, err := h.Uploader.UploadCampPhoto(c.Request.Context(), file, fileHeader.Filename, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload photo", "details": err.Error()})
		return
	}

	_, err = h.DB.Collection(database.CampsCollection).UpdateOne(
		c.Request.Context(),
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"image": url, "updatedAt": time.Now()}},
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save photo URL"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"image": url})
}
