package middleware

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-tracker/pkg/logger"
	"task-tracker/pkg/utils"
)

const testSecret = "middleware-secret"

func newProtectedApp() *fiber.App {
	logger.Silence()

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler()})
	app.Use(RequestIDMiddleware())
	app.Get("/me", Protected(testSecret), func(c *fiber.Ctx) error {
		user, err := utils.GetUserFromContext(c)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"id": user.ID})
	})
	return app
}

func signed(t *testing.T, claims jwt.Claims, secret string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestProtected(t *testing.T) {
	valid, err := utils.GenerateToken("owner-1", "a@example.com", "test", testSecret, time.Hour)
	require.NoError(t, err)

	subjectOnly := signed(t, jwt.RegisteredClaims{Subject: "owner-sub"}, testSecret)
	expired := signed(t, utils.JWTClaims{
		UserID: "owner-1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}, testSecret)
	wrongSecret := signed(t, jwt.RegisteredClaims{Subject: "owner-1"}, "other-secret")
	noOwner := signed(t, jwt.RegisteredClaims{Issuer: "test"}, testSecret)

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantID     string
		wantError  string
	}{
		{"valid token", "Bearer " + valid, fiber.StatusOK, "owner-1", ""},
		{"subject claim", "Bearer " + subjectOnly, fiber.StatusOK, "owner-sub", ""},
		{"missing header", "", fiber.StatusUnauthorized, "", "Missing authorization header"},
		{"wrong scheme", "Basic abc", fiber.StatusUnauthorized, "", "Invalid authorization header format"},
		{"expired", "Bearer " + expired, fiber.StatusUnauthorized, "", "Token has expired"},
		{"wrong secret", "Bearer " + wrongSecret, fiber.StatusUnauthorized, "", "Invalid token"},
		{"no owner", "Bearer " + noOwner, fiber.StatusUnauthorized, "", "Invalid token"},
		{"garbage", "Bearer not.a.jwt", fiber.StatusUnauthorized, "", "Invalid token"},
	}

	app := newProtectedApp()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(fiber.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.NotEmpty(t, resp.Header.Get(RequestIDHeader))

			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)

			if tt.wantStatus == fiber.StatusOK {
				var got map[string]string
				require.NoError(t, json.Unmarshal(body, &got))
				assert.Equal(t, tt.wantID, got["id"])
				return
			}

			var errBody utils.ErrorBody
			require.NoError(t, json.Unmarshal(body, &errBody))
			assert.Equal(t, tt.wantError, errBody.Error)
			assert.Equal(t, utils.ErrCodeUnauthorized, errBody.Code)
		})
	}
}

func TestRequestIDMiddleware_KeepsClientID(t *testing.T) {
	app := newProtectedApp()

	req := httptest.NewRequest(fiber.MethodGet, "/me", nil)
	req.Header.Set(RequestIDHeader, "req-123")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "req-123", resp.Header.Get(RequestIDHeader))
}

func TestErrorHandler_FiberError(t *testing.T) {
	logger.Silence()
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler()})
	app.Get("/boom", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusTeapot, "short and stout")
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/boom", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusTeapot, resp.StatusCode)
	var body utils.ErrorBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "short and stout", body.Error)

	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/missing", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
