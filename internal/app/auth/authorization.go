package auth

import (
	"strings"

	"github.com/yigit/alumnet/internal/app/models"
	"github.com/yigit/alumnet/internal/app/session"
	"github.com/yigit/alumnet/internal/pkg/apperrors"
)

// AuthorizationService answers per-request permission questions about the viewer
type AuthorizationService struct{}

// NewAuthorizationService creates a new AuthorizationService
func NewAuthorizationService() *AuthorizationService {
	return &AuthorizationService{}
}

// ValidateViewer checks that the session carries an identified viewer
func (s *AuthorizationService) ValidateViewer(sess session.Session) error {
	if strings.TrimSpace(sess.Viewer.ID) == "" {
		return apperrors.ErrTokenNotFound
	}
	return nil
}

// ValidateAdmin checks that the viewer may use the moderation views
func (s *AuthorizationService) ValidateAdmin(sess session.Session) error {
	if err := s.ValidateViewer(sess); err != nil {
		return err
	}
	if sess.Viewer.Role != models.RoleAdmin {
		return apperrors.NewForbiddenError("admin role required")
	}
	return nil
}

// ValidateSubject checks that subjectID names another member the viewer can
// act on. Acting on oneself is a validation error.
func (s *AuthorizationService) ValidateSubject(sess session.Session, subjectID string) error {
	if err := s.ValidateViewer(sess); err != nil {
		return err
	}
	subjectID = strings.TrimSpace(subjectID)
	if subjectID == "" {
		return apperrors.NewValidationError("subject user id is required")
	}
	if subjectID == sess.Viewer.ID {
		return apperrors.NewValidationError("cannot follow or message yourself")
	}
	return nil
}
