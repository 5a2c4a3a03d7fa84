package authz

import (
	"pet-clinic-platform/internal/platform/logger"
	"pet-clinic-platform/internal/ports/auth"
)

// LogDenial deja rastro de toda denegación con su razón concreta.
func LogDenial(log logger.Logger, p auth.Principal, action Action, res Resource, reason Reason) {
	log.Warn("access denied", map[string]any{
		"user_id": p.UserID,
		"role":    string(p.Role),
		"action":  string(action),
		"kind":    string(res.Kind),
		"reason":  string(reason),
	})
}
