// utils/auth.go
package utils

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	// TokenCookie is the cookie carrying the session token.
	TokenCookie = "token"

	identityKey = "identity"

	defaultExpiryHours = 8
)

// PasswordCost is the bcrypt cost used by HashPassword.
var PasswordCost = 14

var tokenSettings struct {
	secret []byte
	ttl    time.Duration
}

// ConfigureTokens sets the signing secret and session lifetime. Call it once at
// startup. Unset values fall back to JWT_SECRET and JWT_EXPIRY_HOURS.
func ConfigureTokens(secret string, ttl time.Duration) {
	tokenSettings.secret = []byte(secret)
	tokenSettings.ttl = ttl
}

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleMechanic Role = "mechanic"
	RoleCustomer Role = "customer"
)

// IsValidRole reports whether role is one of the known roles.
func IsValidRole(role Role) bool {
	switch role {
	case RoleAdmin, RoleMechanic, RoleCustomer:
		return true
	default:
		return false
	}
}

// Identity is the authenticated caller derived from a session token.
type Identity struct {
	UserID   uuid.UUID
	UserName string
	Role     Role
	OwnerID  *uuid.UUID
}

// TokenClaims is the JWT payload issued at login.
type TokenClaims struct {
	UserName string     `json:"user_name"`
	Role     Role       `json:"role"`
	OwnerID  *uuid.UUID `json:"owner_id,omitempty"`
	jwt.RegisteredClaims
}

// Generate JWT secret key (run once initially)
func GenerateJWTSecret() string {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		panic("failed to generate JWT secret")
	}
	return base64.StdEncoding.EncodeToString(key)
}

// Hash password
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
	return string(bytes), err
}

// Check password
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// TokenTTL returns the configured session lifetime.
func TokenTTL() time.Duration {
	if tokenSettings.ttl > 0 {
		return tokenSettings.ttl
	}
	expiryHours := defaultExpiryHours
	if env := os.Getenv("JWT_EXPIRY_HOURS"); env != "" {
		if h, err := strconv.Atoi(env); err == nil && h > 0 {
			expiryHours = h
		}
	}
	return time.Duration(expiryHours) * time.Hour
}

func jwtSecret() ([]byte, error) {
	if len(tokenSettings.secret) > 0 {
		return tokenSettings.secret, nil
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, errors.New("JWT_SECRET not set")
	}
	return []byte(secret), nil
}

// GenerateToken signs a session token for the identity.
func GenerateToken(identity Identity) (string, error) {
	secret, err := jwtSecret()
	if err != nil {
		return "", err
	}

	now := time.Now()
	claims := TokenClaims{
		UserName: identity.UserName,
		Role:     identity.Role,
		OwnerID:  identity.OwnerID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.UserID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL())),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ParseToken validates a signed token and returns the identity it carries.
func ParseToken(tokenString string) (*Identity, error) {
	secret, err := jwtSecret()
	if err != nil {
		return nil, err
	}

	var claims TokenClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, Errorf(ErrUnauthenticated, "Session expired")
		}
		return nil, Errorf(ErrUnauthenticated, "Invalid token")
	}
	if !token.Valid {
		return nil, Errorf(ErrUnauthenticated, "Invalid token")
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil || !IsValidRole(claims.Role) {
		return nil, Errorf(ErrUnauthenticated, "Invalid token claims")
	}

	identity := &Identity{
		UserID:   userID,
		UserName: claims.UserName,
		Role:     claims.Role,
	}
	if claims.Role == RoleCustomer {
		identity.OwnerID = claims.OwnerID
	}
	return identity, nil
}

// tokenFromRequest reads the session cookie, falling back to a bearer header.
func tokenFromRequest(c *gin.Context) string {
	if cookie, err := c.Cookie(TokenCookie); err == nil && cookie != "" {
		return cookie
	}

	tokenString := c.GetHeader("Authorization")
	if len(tokenString) > 7 && strings.ToUpper(tokenString[0:6]) == "BEARER" {
		return strings.TrimSpace(tokenString[7:])
	}
	return ""
}

// Auth middleware
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := tokenFromRequest(c)
		if tokenString == "" {
			RespondWithError(c, http.StatusUnauthorized, "Authentication required")
			return
		}

		identity, err := ParseToken(tokenString)
		if err != nil {
			HandleError(c, err)
			return
		}

		SetIdentity(c, identity)
		c.Next()
	}
}

// RequireRoles rejects callers whose role is not listed.
func RequireRoles(roles ...Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := CurrentIdentity(c)
		if err != nil {
			HandleError(c, err)
			return
		}
		if err := Authorize(identity, roles...); err != nil {
			HandleError(c, err)
			return
		}
		c.Next()
	}
}

// RequireAdmin is RequireRoles(RoleAdmin).
func RequireAdmin() gin.HandlerFunc {
	return RequireRoles(RoleAdmin)
}

// CurrentIdentity returns the identity stored by AuthMiddleware.
func CurrentIdentity(c *gin.Context) (*Identity, error) {
	value, exists := c.Get(identityKey)
	if !exists {
		return nil, Errorf(ErrUnauthenticated, "Authentication required")
	}
	identity, ok := value.(*Identity)
	if !ok || identity == nil {
		return nil, Errorf(ErrUnauthenticated, "Authentication required")
	}
	return identity, nil
}

// SetIdentity stores identity on the request context.
func SetIdentity(c *gin.Context, identity *Identity) {
	c.Set(identityKey, identity)
}
