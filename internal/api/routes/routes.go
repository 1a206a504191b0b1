package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"campmedix-api-server/config"
	"campmedix-api-server/internal/api/handlers"
	"campmedix-api-server/internal/api/middleware"
	"campmedix-api-server/internal/auth"
	"campmedix-api-server/internal/database"
	"campmedix-api-server/internal/models"
	"campmedix-api-server/internal/payment"
	"campmedix-api-server/internal/s3"
	"campmedix-api-server/internal/socket"
)

// SetupRouter wires the handlers to their routes. All dependencies are owned
// by the caller and passed in explicitly.
func SetupRouter(
	cfg config.Config,
	db *mongo.Database,
	tokens *auth.Manager,
	bridge *payment.Bridge,
	uploader *s3.Uploader,
	hub *socket.Hub,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	corsConfig := cors.DefaultConfig()
	if cfg.Server.AllowedOrigins != "" {
		corsConfig.AllowOrigins = strings.Split(cfg.Server.AllowedOrigins, ",")
	} else {
		corsConfig.AllowOrigins = []string{"http://localhost:5173"}
	}
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	userHandler := &handlers.UserHandler{DB: db, Tokens: tokens}
	campHandler := &handlers.CampHandler{DB: db, Uploader: uploader, Hub: hub}
	registrationHandler := &handlers.RegistrationHandler{DB: db, Hub: hub}
	feedbackHandler := &handlers.FeedbackHandler{DB: db}
	paymentHandler := &handlers.PaymentHandler{DB: db, Bridge: bridge}
	webSocketHandler := &handlers.WebSocketHandler{Hub: hub, Tokens: tokens}

	resolveRole := database.UserRoleResolver(db)

	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Welcome to CampMedix Server")
	})

	// === PUBLIC ROUTES ===

	router.POST("/jwt", userHandler.IssueToken)
	router.POST("/auth/login", userHandler.Login)
	router.PUT("/user", userHandler.UpsertUser)

	router.GET("/camps", campHandler.GetCamps)
	router.GET("/campscount", campHandler.CountCamps)
	router.GET("/popular-camps", campHandler.GetPopularCamps)
	router.GET("/camps/:id", campHandler.GetCamp)
	router.GET("/feedback", feedbackHandler.GetFeedback)

	router.GET("/ws", webSocketHandler.ServeWs)

	// === PROTECTED ROUTES ===

	authenticated := router.Group("/")
	authenticated.Use(middleware.Authenticate(tokens))
	{
		authenticated.GET("/user/:email", userHandler.GetUser)
		authenticated.PATCH("/participant/:id", campHandler.IncrementParticipant)
		authenticated.PATCH("/register/:id", registrationHandler.UpdateRegistration)
		authenticated.DELETE("/register/:id", registrationHandler.DeleteRegistration)
		authenticated.GET("/registers-count", registrationHandler.CountRegistrations)
	}

	organizer := router.Group("/")
	organizer.Use(middleware.Authenticate(tokens))
	organizer.Use(middleware.RequireRole(resolveRole, models.RoleOrganizer))
	{
		organizer.GET("/users", userHandler.GetUsers)
		organizer.PATCH("/user/role/:email", userHandler.UpdateRole)
		organizer.POST("/camps", campHandler.CreateCamp)
		organizer.PUT("/camp/update/:id", campHandler.UpdateCamp)
		organizer.DELETE("/camp/:id", campHandler.DeleteCamp)
		organizer.POST("/camps/:id/photo", campHandler.UploadPhoto)
		organizer.GET("/registers-organizer", registrationHandler.ListByOrganizer)
	}

	participant := router.Group("/")
	participant.Use(middleware.Authenticate(tokens))
	participant.Use(middleware.RequireRole(resolveRole, models.RoleParticipant))
	{
		participant.POST("/register", registrationHandler.CreateRegistration)
		participant.GET("/registers-participant", registrationHandler.ListByParticipant)
		participant.POST("/feedback", feedbackHandler.CreateFeedback)
		participant.POST("/create-payment-intent", paymentHandler.CreateIntent)
		participant.POST("/payments", paymentHandler.CreatePayment)
		participant.GET("/payments/:email", paymentHandler.ListPayments)
		participant.PATCH("/paymentinfo/:id", paymentHandler.UpdatePaymentInfo)
	}

	return router
}
