package handler

import (
	"net/http"
	"strings"

	"farmmarket/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const callerKey = "caller"

// Authenticator verifies bearer tokens and turns their claims into a model.Caller
type Authenticator struct {
	secret []byte
	logger *zap.Logger
}

// NewAuthenticator creates an authenticator for HMAC-signed tokens
func NewAuthenticator(secret string, logger *zap.Logger) *Authenticator {
	return &Authenticator{secret: []byte(secret), logger: logger}
}

// OptionalAuth sets the caller when a valid token is present. It never
// rejects the request.
func (a *Authenticator) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok || len(a.secret) == 0 {
			c.Next()
			return
		}
		if caller, err := a.parse(token); err == nil {
			c.Set(callerKey, caller)
		}
		c.Next()
	}
}

// RequireAuth enforces a valid token
func (a *Authenticator) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if len(a.secret) == 0 {
			a.logger.Error("JWT_SECRET not set")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Server not configured"})
			return
		}
		token, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}
		caller, err := a.parse(token)
		if err != nil {
			a.logger.Debug("token rejected", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}
		c.Set(callerKey, caller)
		c.Next()
	}
}

// RequireRole rejects authenticated callers without the given role
func RequireRole(role model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if CallerFrom(c).Role != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": string(role) + " access required"})
			return
		}
		c.Next()
	}
}

// CallerFrom returns the caller set by the auth middleware, or model.Anonymous
func CallerFrom(c *gin.Context) model.Caller {
	if v, ok := c.Get(callerKey); ok {
		if caller, ok := v.(model.Caller); ok {
			return caller
		}
	}
	return model.Anonymous
}

func bearerToken(c *gin.Context) (string, bool) {
	parts := strings.Fields(c.GetHeader("Authorization"))
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

// parse validates the token and reads the user id from "user_id" or "sub",
// and the marketplace role from "app_role" or "role"
func (a *Authenticator) parse(tokenString string) (model.Caller, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return a.secret, nil
	}, jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}))
	if err != nil {
		return model.Anonymous, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return model.Anonymous, jwt.ErrTokenInvalidClaims
	}

	subject, _ := claims["user_id"].(string)
	if subject == "" {
		subject, _ = claims.GetSubject()
	}
	userID, err := uuid.Parse(subject)
	if err != nil {
		return model.Anonymous, jwt.ErrTokenInvalidSubject
	}

	role, _ := claims["app_role"].(string)
	if role == "" {
		role, _ = claims["role"].(string)
	}

	return model.Caller{UserID: userID, Role: parseRole(role)}, nil
}

func parseRole(role string) model.Role {
	switch model.Role(strings.ToLower(role)) {
	case model.RoleFarmer:
		return model.RoleFarmer
	case model.RoleAdmin:
		return model.RoleAdmin
	default:
		return model.RoleCustomer
	}
}
