package utils

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
	ErrMissingToken = errors.New("missing token")
)

// UserLocalsKey is where Protected stores the *UserContext.
const UserLocalsKey = "user"

// JWTClaims accepts identity-provider tokens that carry the owner either in
// user_id or in the standard subject claim.
type JWTClaims struct {
	UserID string `json:"user_id,omitempty"`
	Email  string `json:"email,omitempty"`
	Role   string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// UserContext is the authenticated identity. ID is opaque.
type UserContext struct {
	ID    string
	Email string
	Role  string
}

func ValidateToken(tokenString, jwtSecret string) (*UserContext, error) {
	tokenString = strings.TrimSpace(strings.TrimPrefix(tokenString, "Bearer "))
	if tokenString == "" {
		return nil, ErrMissingToken
	}

	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(jwtSecret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	ownerID := claims.UserID
	if ownerID == "" {
		ownerID = claims.Subject
	}
	if strings.TrimSpace(ownerID) == "" {
		return nil, ErrInvalidToken
	}

	return &UserContext{
		ID:    ownerID,
		Email: claims.Email,
		Role:  claims.Role,
	}, nil
}

// GenerateToken signs an HS256 token for ownerID. A zero ttl means no expiry.
func GenerateToken(ownerID, email, issuer, jwtSecret string, ttl time.Duration) (string, error) {
	if strings.TrimSpace(ownerID) == "" {
		return "", errors.New("owner id is required")
	}

	now := time.Now()
	claims := JWTClaims{
		UserID: ownerID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  ownerID,
			Issuer:   issuer,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(jwtSecret))
}

func ExtractTokenFromHeader(authHeader string) string {
	if authHeader == "" {
		return ""
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}

	return parts[1]
}

func GetUserFromContext(c *fiber.Ctx) (*UserContext, error) {
	user := c.Locals(UserLocalsKey)
	if user == nil {
		return nil, errors.New("user not found in context")
	}

	userCtx, ok := user.(*UserContext)
	if !ok || userCtx.ID == "" {
		return nil, errors.New("invalid user context type")
	}

	return userCtx, nil
}
