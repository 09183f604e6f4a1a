package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const testSecret = "middleware-test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func runAuth(t *testing.T, authorization string) (*httptest.ResponseRecorder, *gin.Context) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/orders", nil)
	if authorization != "" {
		c.Request.Header.Set("Authorization", authorization)
	}
	UserAuth(testSecret)(c)
	return w, c
}

func TestUserAuthRejectsMissingToken(t *testing.T) {
	w, c := runAuth(t, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.True(t, c.IsAborted())
}

func TestUserAuthRejectsMalformedHeader(t *testing.T) {
	for _, header := range []string{"Bearer", "Token abc", "Bearer a b"} {
		w, c := runAuth(t, header)
		assert.Equal(t, http.StatusUnauthorized, w.Code, header)
		assert.True(t, c.IsAborted(), header)
	}
}

func TestUserAuthRejectsWrongSecret(t *testing.T) {
	token := signToken(t, "other-secret", jwt.MapClaims{
		"userId": primitive.NewObjectID().Hex(),
		"exp":    time.Now().Add(time.Hour).Unix(),
	})
	w, c := runAuth(t, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.True(t, c.IsAborted())
}

func TestUserAuthRejectsBadUserIDClaim(t *testing.T) {
	for _, claims := range []jwt.MapClaims{
		{"exp": time.Now().Add(time.Hour).Unix()},
		{"userId": "not-an-object-id", "exp": time.Now().Add(time.Hour).Unix()},
	} {
		token := signToken(t, testSecret, claims)
		w, c := runAuth(t, "Bearer "+token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.True(t, c.IsAborted())
	}
}

func TestUserAuthSetsIdentity(t *testing.T) {
	userID := primitive.NewObjectID()
	token := signToken(t, testSecret, jwt.MapClaims{
		"userId": userID.Hex(),
		"email":  "user@example.com",
		"exp":    time.Now().Add(time.Hour).Unix(),
	})
	w, c := runAuth(t, "Bearer "+token)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.False(t, c.IsAborted())

	got, ok := c.Get("userId")
	require.True(t, ok)
	assert.Equal(t, userID, got)

	email, ok := c.Get("email")
	require.True(t, ok)
	assert.Equal(t, "user@example.com", email)
}
