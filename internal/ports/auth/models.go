package auth

// Role es el rol cerrado de un usuario. Se decide siempre del lado servidor
// (nunca se confía en un role enviado por el cliente).
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleOwner Role = "OWNER"
	RoleVet   Role = "VETERINARIAN"
)

// Valid reporta si el rol es uno de los tres conocidos.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleOwner, RoleVet:
		return true
	}
	return false
}

// Claims es lo único que viaja dentro del token: el usuario.
// El rol y los perfiles vinculados se resuelven contra el store en cada request.
type Claims struct {
	UserID string
}

// Principal es la identidad ya resuelta que hace un request.
// OwnerID/VetID quedan vacíos si el rol no tiene ese perfil.
type Principal struct {
	UserID  string
	Role    Role
	OwnerID string
	VetID   string
}
