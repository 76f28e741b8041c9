// Package session carries the authenticated viewer through a request.
package session

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/yigit/alumnet/internal/app/models"
	"github.com/yigit/alumnet/internal/pkg/apperrors"
)

// ContextKey is the gin context key the auth middleware stores the session under
const ContextKey = "session"

type ctxKey struct{}

// Session is the viewer identity and the bearer token forwarded to upstream
// services. It is passed explicitly to every service operation.
type Session struct {
	Viewer models.User
	Token  string
}

// IsAdmin reports whether the viewer has the admin role
func (s Session) IsAdmin() bool {
	return s.Viewer.Role == models.RoleAdmin
}

// AuthorizationHeader returns the header value forwarded upstream
func (s Session) AuthorizationHeader() string {
	if s.Token == "" {
		return ""
	}
	return "Bearer " + s.Token
}

// NewContext returns a copy of ctx carrying sess
func NewContext(ctx context.Context, sess Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, sess)
}

// FromContext extracts the session stored by NewContext
func FromContext(ctx context.Context) (Session, bool) {
	sess, ok := ctx.Value(ctxKey{}).(Session)
	return sess, ok
}

// FromGin extracts the session set by the auth middleware
func FromGin(c *gin.Context) (Session, error) {
	v, exists := c.Get(ContextKey)
	if !exists {
		return Session{}, apperrors.ErrTokenNotFound
	}
	sess, ok := v.(Session)
	if !ok || sess.Viewer.ID == "" {
		return Session{}, apperrors.ErrTokenInvalid
	}
	return sess, nil
}
