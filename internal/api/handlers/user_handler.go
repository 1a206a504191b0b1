package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"campmedix-api-server/internal/api/middleware"
	"campmedix-api-server/internal/auth"
	"campmedix-api-server/internal/database"
	"campmedix-api-server/internal/models"
)

type UserHandler struct {
	DB     *mongo.Database
	Tokens *auth.Manager
}

type IssueTokenRequest struct {
	Email string `json:"email" binding:"required"`
	Role  string `json:"role"`
}

// IssueToken mints a bearer token for a client-asserted identity. The role
// claim is advisory only: guarded routes re-resolve the role from the store.
func (h *UserHandler) IssueToken(c *gin.Context) {
	var req IssueTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, err := h.Tokens.Generate(req.Email, req.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login authenticates the seeded admin organizer by password.
func (h *UserHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	err := h.DB.Collection(database.UsersCollection).FindOne(c.Request.Context(), bson.M{"email": req.Email}).Decode(&user)
	if err != nil || user.Password == "" || !auth.CheckPasswordHash(req.Password, user.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	token, err := h.Tokens.Generate(user.Email, user.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

type UpsertUserRequest struct {
	Email    string `json:"email" binding:"required"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	PhotoURL string `json:"photoURL"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

// UpsertUser saves a user keyed by email on sign-in. A first sign-in inserts
// the full document; a repeat sign-in refreshes the profile fields but leaves
// the stored role untouched.
func (h *UserHandler) UpsertUser(c *gin.Context) {
	var req UpsertUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	collection := h.DB.Collection(database.UsersCollection)
	query := bson.M{"email": req.Email}
	now := time.Now()

	updateDoc := bson.M{
		"$set": bson.M{
			"name":      req.Name,
			"photoURL":  req.PhotoURL,
			"phone":     req.Phone,
			"address":   req.Address,
			"updatedAt": now,
		},
		"$setOnInsert": bson.M{
			"email":     req.Email,
			"role":      req.Role,
			"createdAt": now,
		},
	}

	result, err := collection.UpdateOne(c.Request.Context(), query, updateDoc, options.Update().SetUpsert(true))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save user"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetUser returns one user by email. The route is scoped to "self": the path
// email must match the token identity.
func (h *UserHandler) GetUser(c *gin.Context) {
	email := c.Param("email")

	principal, _ := middleware.PrincipalFrom(c)
	if principal.Email != email {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden access"})
		return
	}

	var user models.User
	err := h.DB.Collection(database.UsersCollection).FindOne(c.Request.Context(), bson.M{"email": email}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve user"})
		}
		return
	}

	c.JSON(http.StatusOK, user)
}

// GetUsers lists all users. Organizer only.
func (h *UserHandler) GetUsers(c *gin.Context) {
	cursor, err := h.DB.Collection(database.UsersCollection).Find(c.Request.Context(), bson.M{})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query users"})
		return
	}
	defer cursor.Close(c.Request.Context())

	var users []models.User
	if err = cursor.All(c.Request.Context(), &users); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode users"})
		return
	}

	if users == nil {
		users = []models.User{}
	}

	c.JSON(http.StatusOK, users)
}

type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=organizer participant"`
}

// UpdateRole changes the role on an existing user record. Organizer only.
func (h *UserHandler) UpdateRole(c *gin.Context) {
	email := c.Param("email")

	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.DB.Collection(database.UsersCollection).UpdateOne(
		c.Request.Context(),
		bson.M{"email": email},
		bson.M{"$set": bson.M{"role": req.Role, "updatedAt": time.Now()}},
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update role"})
		return
	}

	c.JSON(http.StatusOK, result)
}
