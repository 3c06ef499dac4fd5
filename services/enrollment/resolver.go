package enrollmentService

import (
	"errors"

	"lms/models"

	"gorm.io/gorm"
)

// resolveToken maps an opaque enrollment token to its enrollment joined with
// the product, enforcing expiry. No side effects.
func (s *Completer) resolveToken(token string) (*models.Enrollment, *Error) {
	var enrollment models.Enrollment
	err := s.db.Preload("Product").
		Where("token = ? AND is_deleted = false", token).
		First(&enrollment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fail(ErrNotFound, "Enrollment not found!")
		}
		return nil, wrap(ErrInternal, "Failed to look up enrollment", err)
	}

	if s.now().After(enrollment.TokenExpiresAt) {
		return nil, fail(ErrTokenExpired, "This enrollment link has expired. Please request a new one.")
	}

	return &enrollment, nil
}
