package users

import (
	"time"

	"pet-clinic-platform/internal/ports/auth"
)

// User es la cuenta de acceso. El perfil (Owner o Veterinarian) vive en su
// propio módulo, vinculado 1:1 por UserID.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Role         auth.Role

	CreatedAt time.Time
}
