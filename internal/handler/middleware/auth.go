package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"lab-booking-api/internal/domain/user"
	"lab-booking-api/internal/handler/httperr"
	"lab-booking-api/internal/pkg/jwt"
	"lab-booking-api/internal/usecase/authz"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	ctxUserIDKey   = "user_id"
	ctxUserRoleKey = "user_role"
	ctxUserLabKey  = "user_lab"
)

type AuthMiddleware struct {
	tokens *jwt.Service
}

func NewAuthMiddleware(tokens *jwt.Service) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		var token string

		authHeader := c.GetHeader("Authorization")
		if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
			token = strings.TrimSpace(authHeader[len("Bearer "):])
		}

		if token == "" {
			c.JSON(http.StatusUnauthorized, httperr.Envelope{Success: false, Message: "Access token required"})
			c.Abort()
			return
		}

		claims, err := m.tokens.ValidateToken(token)
		if err != nil {
			slog.Warn("Token validation failed in auth middleware", "error", err.Error())
			c.JSON(http.StatusUnauthorized, httperr.Envelope{Success: false, Message: "Invalid or expired token"})
			c.Abort()
			return
		}

		role := user.Role(claims.Role)
		if !role.IsValid() {
			c.JSON(http.StatusUnauthorized, httperr.Envelope{Success: false, Message: "Invalid or expired token"})
			c.Abort()
			return
		}

		c.Set(ctxUserIDKey, claims.UserID)
		c.Set(ctxUserRoleKey, role)
		if claims.LabID != nil {
			c.Set(ctxUserLabKey, *claims.LabID)
		}
		c.Set("jwt_claims", map[string]any{
			"user_id": claims.UserID.String(),
			"role":    claims.Role,
		})
		c.Next()
	}
}

// RequireRole gates a route group to specific roles. Lab-level scoping still
// happens in the authorization engine; this only rejects roles that can never
// reach the operation.
func (m *AuthMiddleware) RequireRole(roles ...user.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := GetUserRole(c)
		if !ok {
			// Unexpected error: should be used after RequireAuth()
			c.JSON(http.StatusInternalServerError, httperr.Envelope{Success: false, Message: "Internal server error"})
			c.Abort()
			return
		}

		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, httperr.Envelope{Success: false, Message: "Insufficient permissions"})
		c.Abort()
	}
}

func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	userID, exists := c.Get(ctxUserIDKey)
	if !exists {
		return uuid.Nil, false
	}

	id, ok := userID.(uuid.UUID)
	return id, ok
}

func GetUserRole(c *gin.Context) (user.Role, bool) {
	userRole, exists := c.Get(ctxUserRoleKey)
	if !exists {
		return "", false
	}

	role, ok := userRole.(user.Role)
	return role, ok
}

// GetActor assembles the authorization actor from the authenticated context.
func GetActor(c *gin.Context) (*authz.Actor, bool) {
	id, ok := GetUserID(c)
	if !ok {
		return nil, false
	}
	role, ok := GetUserRole(c)
	if !ok {
		return nil, false
	}

	var labID *uuid.UUID
	if v, exists := c.Get(ctxUserLabKey); exists {
		if lab, ok := v.(uuid.UUID); ok {
			labID = &lab
		}
	}

	return authz.NewActor(id, role, labID), true
}
