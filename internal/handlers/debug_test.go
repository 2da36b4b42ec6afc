package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"review-service/internal/mocks"
	"review-service/internal/telemetry"
)

func TestDebugAuditTest(t *testing.T) {
	gin.SetMode(gin.TestMode)
	publisher := new(mocks.PublisherMock)
	publisher.On("Publish", mock.Anything, "audit.review-service", mock.MatchedBy(func(env telemetry.AuditEnvelope) bool {
		return env.Payload.Level == "WARN" && env.Payload.Text == "review audit pipeline check for group 4" && env.UserID != nil && *env.UserID == 7
	})).Return(nil).Once()
	emitter := telemetry.NewAuditEmitter(publisher, "audit.review-service", "review-service", "test", zap.NewNop())

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", 7)
		c.Next()
	})
	RegisterDebugRoutes(r, emitter, true)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/debug/audit-test?level=warn&group_id=4", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	publisher.AssertExpectations(t)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/debug/audit-test?level=TRACE", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	publisher.AssertNumberOfCalls(t, "Publish", 1)
}

func TestDebugRoutesDisabled(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterDebugRoutes(r, nil, false)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/debug/audit-test", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
