package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"campmedix-api-server/config"
	"campmedix-api-server/internal/api/routes"
	"campmedix-api-server/internal/auth"
	"campmedix-api-server/internal/database"
	"campmedix-api-server/internal/models"
	"campmedix-api-server/internal/payment"
	"campmedix-api-server/internal/socket"
)

const (
	testMongoURI    = "mongodb://127.0.0.1:27017"
	testDBName      = "campsDB-test"
	organizerEmail  = "organizer@example.com"
	participantMail = "alice@example.com"
)

type HandlerTestSuite struct {
	suite.Suite
	client *mongo.Client
	db     *mongo.Database
	router *gin.Engine
	tokens *auth.Manager
}

func (s *HandlerTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(testMongoURI))
	if err != nil {
		s.T().Skipf("mongo not available: %v", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		s.T().Skipf("mongo not available: %v", err)
	}

	s.client = client
	s.db = client.Database(testDBName)

	// start from a clean environment
	s.Require().NoError(s.db.Drop(context.Background()))

	s.tokens = auth.NewManager("handler-test-secret", "1h")

	cfg := config.Config{}
	cfg.Server.AllowedOrigins = "http://localhost:5173"
	s.router = routes.SetupRouter(cfg, s.db, s.tokens, payment.NewBridge("sk_test_dummy", "usd"), nil, socket.NewHub())

	now := time.Now()
	_, err = s.db.Collection(database.UsersCollection).InsertMany(context.Background(), []interface{}{
		models.User{Email: organizerEmail, Name: "Org", Role: models.RoleOrganizer, CreatedAt: now, UpdatedAt: now},
		models.User{Email: participantMail, Name: "Alice", Role: models.RoleParticipant, CreatedAt: now, UpdatedAt: now},
	})
	s.Require().NoError(err)
}

func (s *HandlerTestSuite) TearDownSuite() {
	if s.client == nil {
		return
	}
	s.NoError(s.db.Drop(context.Background()))
	s.NoError(s.client.Disconnect(context.Background()))
}

func (s *HandlerTestSuite) tokenFor(email, role string) string {
	token, err := s.tokens.Generate(email, role)
	s.Require().NoError(err)
	return token
}

func (s *HandlerTestSuite) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *HandlerTestSuite) TestUpsertUserTwicePreservesRole() {
	w := s.do(http.MethodPut, "/user", "", gin.H{
		"email": "bob@example.com",
		"name":  "Bob",
		"role":  models.RoleParticipant,
	})
	s.Equal(http.StatusOK, w.Code)

	// a second sign-in with a different payload must not change the role
	w = s.do(http.MethodPut, "/user", "", gin.H{
		"email": "bob@example.com",
		"name":  "Bobby",
		"role":  models.RoleOrganizer,
	})
	s.Equal(http.StatusOK, w.Code)

	var user models.User
	err := s.db.Collection(database.UsersCollection).FindOne(context.Background(), bson.M{"email": "bob@example.com"}).Decode(&user)
	s.NoError(err)
	s.Equal(models.RoleParticipant, user.Role)
	s.Equal("Bobby", user.Name)
}

func (s *HandlerTestSuite) TestGuardedRouteWithoutToken() {
	w := s.do(http.MethodGet, "/users", "", nil)
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *HandlerTestSuite) TestOrganizerRouteAsParticipant() {
	w := s.do(http.MethodGet, "/users", s.tokenFor(participantMail, models.RoleParticipant), nil)
	s.Equal(http.StatusForbidden, w.Code)
}

func (s *HandlerTestSuite) TestOrganizerRoute() {
	w := s.do(http.MethodGet, "/users", s.tokenFor(organizerEmail, models.RoleOrganizer), nil)
	s.Equal(http.StatusOK, w.Code)
}

func (s *HandlerTestSuite) TestGetUserSelfScope() {
	token := s.tokenFor(participantMail, models.RoleParticipant)

	w := s.do(http.MethodGet, "/user/"+organizerEmail, token, nil)
	s.Equal(http.StatusForbidden, w.Code)

	w = s.do(http.MethodGet, "/user/"+participantMail, token, nil)
	s.Equal(http.StatusOK, w.Code)
}

func (s *HandlerTestSuite) TestDeleteMissingRegistration() {
	token := s.tokenFor(participantMail, models.RoleParticipant)

	w := s.do(http.MethodDelete, "/register/"+primitive.NewObjectID().Hex(), token, nil)
	s.Equal(http.StatusOK, w.Code)

	var result struct {
		DeletedCount int64 `json:"DeletedCount"`
	}
	s.NoError(json.Unmarshal(w.Body.Bytes(), &result))
	s.Equal(int64(0), result.DeletedCount)
}

func (s *HandlerTestSuite) TestRegistrationListSelfScope() {
	token := s.tokenFor(participantMail, models.RoleParticipant)

	w := s.do(http.MethodGet, "/registers-participant?email=other@example.com", token, nil)
	s.Equal(http.StatusForbidden, w.Code)

	w = s.do(http.MethodGet, "/registers-participant?email="+participantMail, token, nil)
	s.Equal(http.StatusOK, w.Code)
}

func (s *HandlerTestSuite) TestPaymentPatchByRegistrationID() {
	registrationID := primitive.NewObjectID()
	_, err := s.db.Collection(database.PaymentsCollection).InsertOne(context.Background(), models.Payment{
		RegistrationID:   registrationID,
		ParticipantEmail: participantMail,
		Amount:           19.99,
		Currency:         "usd",
		TransactionID:    "txn_123",
		Status:           models.PaymentRecordPending,
		PaidAt:           time.Now(),
	})
	s.Require().NoError(err)

	// the patch is matched on the linked registration id, not the payment _id
	token := s.tokenFor(participantMail, models.RoleParticipant)
	w := s.do(http.MethodPatch, "/paymentinfo/"+registrationID.Hex(), token, gin.H{"status": models.PaymentRecordCompleted})
	s.Equal(http.StatusOK, w.Code)

	var stored models.Payment
	err = s.db.Collection(database.PaymentsCollection).FindOne(context.Background(), bson.M{"registrationId": registrationID}).Decode(&stored)
	s.NoError(err)
	s.Equal(models.PaymentRecordCompleted, stored.Status)
}

func (s *HandlerTestSuite) TestCampsSearchAndPagination() {
	camps := make([]interface{}, 0, 5)
	for i, name := range []string{"PagiCamp A", "PagiCamp B", "PagiCamp C", "PagiCamp D", "PagiCamp E"} {
		camps = append(camps, models.Camp{
			CampName:       name,
			CampFees:       float64(10 * (i + 1)),
			DateTime:       time.Now(),
			Location:       "Dhaka",
			OrganizerEmail: organizerEmail,
		})
	}
	_, err := s.db.Collection(database.CampsCollection).InsertMany(context.Background(), camps)
	s.Require().NoError(err)

	// the search filter is applied to the find call, case-insensitively
	w := s.do(http.MethodGet, "/camps?search=pagicamp+a", "", nil)
	s.Equal(http.StatusOK, w.Code)
	var matched []models.Camp
	s.NoError(json.Unmarshal(w.Body.Bytes(), &matched))
	s.Len(matched, 1)
	s.Equal("PagiCamp A", matched[0].CampName)

	w = s.do(http.MethodGet, "/camps?search=xyz", "", nil)
	s.Equal(http.StatusOK, w.Code)
	var none []models.Camp
	s.NoError(json.Unmarshal(w.Body.Bytes(), &none))
	s.Empty(none)

	// size=2, page=2 with an ascending name sort lands on C and D
	w = s.do(http.MethodGet, "/camps?search=pagicamp&sort=campName&size=2&page=2", "", nil)
	s.Equal(http.StatusOK, w.Code)
	var page []models.Camp
	s.NoError(json.Unmarshal(w.Body.Bytes(), &page))
	s.Require().Len(page, 2)
	s.Equal("PagiCamp C", page[0].CampName)
	s.Equal("PagiCamp D", page[1].CampName)

	w = s.do(http.MethodGet, "/camps?page=abc", "", nil)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlerTestSuite) TestPopularCampsSorted() {
	camps := make([]interface{}, 0, 8)
	for i := 0; i < 8; i++ {
		camps = append(camps, models.Camp{
			CampName:         fmt.Sprintf("Popular Camp %d", i),
			DateTime:         time.Now(),
			Location:         "Dhaka",
			OrganizerEmail:   organizerEmail,
			ParticipantCount: i * 3,
		})
	}
	_, err := s.db.Collection(database.CampsCollection).InsertMany(context.Background(), camps)
	s.Require().NoError(err)

	w := s.do(http.MethodGet, "/popular-camps", "", nil)
	s.Equal(http.StatusOK, w.Code)

	var popular []models.Camp
	s.NoError(json.Unmarshal(w.Body.Bytes(), &popular))
	s.Require().Len(popular, 6)
	for i := 1; i < len(popular); i++ {
		s.GreaterOrEqual(popular[i-1].ParticipantCount, popular[i].ParticipantCount)
	}
}

func (s *HandlerTestSuite) TestRegistrationFlow() {
	token := s.tokenFor(participantMail, models.RoleParticipant)
	campID := primitive.NewObjectID()

	w := s.do(http.MethodPost, "/register", token, gin.H{
		"campId":          campID.Hex(),
		"campName":        "Flow Camp",
		"campFees":        19.99,
		"participantName": "Alice",
		"organizerEmail":  organizerEmail,
	})
	s.Require().Equal(http.StatusCreated, w.Code)

	var created models.Registration
	s.NoError(json.Unmarshal(w.Body.Bytes(), &created))
	s.Equal(participantMail, created.ParticipantEmail)
	s.Equal(models.PaymentStatusUnpaid, created.PaymentStatus)
	s.Equal(models.ConfirmationPending, created.ConfirmationStatus)

	w = s.do(http.MethodPatch, "/register/"+created.ID.Hex(), token, gin.H{"paymentStatus": models.PaymentStatusPaid})
	s.Equal(http.StatusOK, w.Code)

	var stored models.Registration
	err := s.db.Collection(database.RegistrationsCollection).FindOne(context.Background(), bson.M{"_id": created.ID}).Decode(&stored)
	s.NoError(err)
	s.Equal(models.PaymentStatusPaid, stored.PaymentStatus)
}

func (s *HandlerTestSuite) TestCreateFeedback() {
	token := s.tokenFor(participantMail, models.RoleParticipant)

	w := s.do(http.MethodPost, "/feedback", token, gin.H{
		"campId":   primitive.NewObjectID().Hex(),
		"campName": "Flow Camp",
		"rating":   5,
		"feedback": "Very helpful staff",
	})
	s.Require().Equal(http.StatusCreated, w.Code)

	w = s.do(http.MethodGet, "/feedback", "", nil)
	s.Equal(http.StatusOK, w.Code)
	var entries []models.Feedback
	s.NoError(json.Unmarshal(w.Body.Bytes(), &entries))
	s.NotEmpty(entries)
}

func TestHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}
