package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"campmedix-api-server/config"
	"campmedix-api-server/internal/auth"
	"campmedix-api-server/internal/payment"
	"campmedix-api-server/internal/socket"
)

func TestSetupRouterMiddlewareChain(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := SetupRouter(
		config.Config{},
		nil,
		auth.NewManager("test-secret", "1h"),
		payment.NewBridge("sk_test_dummy", "usd"),
		nil,
		socket.NewHub(),
	)

	// logger, recovery and cors, each registered exactly once
	assert.Len(t, router.Handlers, 3)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Welcome to CampMedix Server")
}
