package authz

import "pet-clinic-platform/internal/ports/auth"

// Action es una de las cuatro operaciones sobre una entidad.
type Action string

const (
	ActionCreate Action = "create"
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Kind identifica el tipo de entidad objetivo.
type Kind string

const (
	KindUser   Kind = "user"
	KindOwner  Kind = "owner"
	KindVet    Kind = "veterinarian"
	KindPet    Kind = "pet"
	KindRecord Kind = "medical_record"
)

// Resource describe el objetivo de la operación: su tipo y su atribución.
// OwnerID es el dueño al que pertenece (perfil owner, o el owner de la mascota
// para pets/records). VetID es el vet autor (records) o el perfil vet objetivo.
type Resource struct {
	Kind    Kind
	OwnerID string
	VetID   string
}

// Reason explica una decisión. Nunca se deniega sin razón concreta.
type Reason string

const (
	ReasonGranted          Reason = "granted"
	ReasonRoleNotPermitted Reason = "role_not_permitted"
	ReasonNotOwner         Reason = "not_owner"
	ReasonNotAuthor        Reason = "not_record_author"
)

type Decision struct {
	Allowed bool
	Reason  Reason
}

func grant() Decision             { return Decision{Allowed: true, Reason: ReasonGranted} }
func deny(reason Reason) Decision { return Decision{Allowed: false, Reason: reason} }

func ownerMatch(ok bool) Decision {
	if ok {
		return grant()
	}
	return deny(ReasonNotOwner)
}

// Authorize evalúa la matriz de permisos. Es pura, determinista y
// deny-by-default: cualquier tupla (rol, acción, tipo) no contemplada se niega.
// La comparación de atribución exige IDs no vacíos: un principal sin perfil
// nunca "matchea" un recurso sin atribución.
func Authorize(p auth.Principal, action Action, res Resource) Decision {
	switch p.Role {
	case auth.RoleAdmin:
		return authorizeAdmin(action, res)
	case auth.RoleOwner:
		return authorizeOwner(p, action, res)
	case auth.RoleVet:
		return authorizeVet(p, action, res)
	}
	return deny(ReasonRoleNotPermitted)
}

func authorizeAdmin(action Action, res Resource) Decision {
	switch res.Kind {
	case KindUser, KindOwner, KindVet, KindPet:
		return grant()
	case KindRecord:
		// Admin solo lee historiales; escribirlos es trabajo clínico del vet.
		if action == ActionRead {
			return grant()
		}
		return deny(ReasonRoleNotPermitted)
	}
	return deny(ReasonRoleNotPermitted)
}

func authorizeOwner(p auth.Principal, action Action, res Resource) Decision {
	sameOwner := p.OwnerID != "" && p.OwnerID == res.OwnerID

	switch res.Kind {
	case KindOwner:
		// Solo su propio perfil. El alta de owners va por auto-registro
		// (endpoint público) o por admin, nunca por un owner autenticado.
		switch action {
		case ActionRead, ActionUpdate, ActionDelete:
			return ownerMatch(sameOwner)
		}
		return deny(ReasonRoleNotPermitted)

	case KindPet:
		// CRUD completo pero solo sobre sus mascotas.
		return ownerMatch(sameOwner)

	case KindRecord:
		// Lectura de los historiales de sus propias mascotas.
		if action == ActionRead {
			return ownerMatch(sameOwner)
		}
		return deny(ReasonRoleNotPermitted)

	case KindVet:
		// Ver datos del vet asignado.
		if action == ActionRead {
			return grant()
		}
		return deny(ReasonRoleNotPermitted)
	}
	return deny(ReasonRoleNotPermitted)
}

func authorizeVet(p auth.Principal, action Action, res Resource) Decision {
	sameVet := p.VetID != "" && p.VetID == res.VetID

	switch res.Kind {
	case KindPet:
		// Lectura global para consultar pacientes.
		if action == ActionRead {
			return grant()
		}
		return deny(ReasonRoleNotPermitted)

	case KindRecord:
		switch action {
		case ActionCreate, ActionRead:
			// Puede registrar atención a cualquier mascota y leer historiales.
			return grant()
		case ActionUpdate, ActionDelete:
			// Solo sus propios registros.
			if sameVet {
				return grant()
			}
			return deny(ReasonNotAuthor)
		}
		return deny(ReasonRoleNotPermitted)

	case KindVet:
		// Su propio perfil, solo lectura.
		if action == ActionRead && sameVet {
			return grant()
		}
		if action == ActionRead {
			return deny(ReasonNotOwner)
		}
		return deny(ReasonRoleNotPermitted)
	}
	return deny(ReasonRoleNotPermitted)
}
