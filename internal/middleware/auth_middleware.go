package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/alumnet/internal/app/models"
	"github.com/yigit/alumnet/internal/app/models/dto"
	"github.com/yigit/alumnet/internal/app/session"
	"github.com/yigit/alumnet/internal/pkg/apperrors"
	"github.com/yigit/alumnet/internal/pkg/auth"
)

// AuthMiddleware for authentication and authorization
type AuthMiddleware struct {
	jwtService *auth.JWTService
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(jwtService *auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
	}
}

// JWTAuth validates the bearer token and stores the viewer session on the
// request. The raw token is kept so it can be forwarded upstream.
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")

		// Swagger UI sometimes puts the token in the query string
		if authHeader == "" {
			authHeader = c.Query("token")
		}

		tokenString, err := auth.ExtractBearerToken(authHeader)
		if err != nil {
			abortUnauthorized(c, err)
			return
		}

		claims, err := m.jwtService.ValidateAndExtractClaims(tokenString)
		if err != nil {
			abortUnauthorized(c, err)
			return
		}

		sess := session.Session{
			Viewer: claims.User(),
			Token:  tokenString,
		}
		c.Set(session.ContextKey, sess)
		c.Set("userID", sess.Viewer.ID)
		c.Set("roleType", string(sess.Viewer.Role))
		c.Request = c.Request.WithContext(session.NewContext(c.Request.Context(), sess))

		c.Next()
	}
}

// RoleRequired middleware to check if user has required role
func (m *AuthMiddleware) RoleRequired(requiredRole models.RoleType) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Ensure JWTAuth middleware has run first
		sess, err := session.FromGin(c)
		if err != nil {
			abortUnauthorized(c, err)
			return
		}

		if sess.Viewer.Role != requiredRole {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeForbidden, "Access denied")
			errorDetail = errorDetail.WithDetails("You don't have sufficient permissions for this operation")

			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(errorDetail))
			return
		}

		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, err error) {
	errorCode := dto.ErrorCodeInvalidToken
	errorDetails := "Invalid token"

	switch {
	case errors.Is(err, apperrors.ErrTokenNotFound):
		errorCode = dto.ErrorCodeUnauthorized
		errorDetails = "Authorization header missing"
	case errors.Is(err, apperrors.ErrTokenExpired):
		errorCode = dto.ErrorCodeExpiredToken
		errorDetails = "Token has expired"
	case errors.Is(err, apperrors.ErrInvalidFormat):
		errorDetails = "Invalid token format"
	}

	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{
		Success:   false,
		Error:     dto.NewErrorDetail(errorCode, "Authentication required").WithDetails(errorDetails),
		Timestamp: time.Now(),
	})
}
