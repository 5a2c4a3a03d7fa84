package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"pet-clinic-platform/internal/ports/auth"
)

var (
	admin  = auth.Principal{UserID: "u-admin", Role: auth.RoleAdmin}
	owner  = auth.Principal{UserID: "u-owner", Role: auth.RoleOwner, OwnerID: "o-1"}
	vet    = auth.Principal{UserID: "u-vet", Role: auth.RoleVet, VetID: "v-1"}
	nobody = auth.Principal{UserID: "u-x", Role: auth.Role("INTERN")}
)

var allActions = []Action{ActionCreate, ActionRead, ActionUpdate, ActionDelete}
var allKinds = []Kind{KindUser, KindOwner, KindVet, KindPet, KindRecord}

func TestAuthorize_UnknownRoleAlwaysDenied(t *testing.T) {
	for _, k := range allKinds {
		for _, a := range allActions {
			d := Authorize(nobody, a, Resource{Kind: k, OwnerID: "o-1", VetID: "v-1"})
			assert.False(t, d.Allowed, "role desconocido: %s %s", a, k)
			assert.Equal(t, ReasonRoleNotPermitted, d.Reason)
		}
	}
}

func TestAuthorize_Admin(t *testing.T) {
	// CRUD completo sobre cuentas, perfiles y mascotas.
	for _, k := range []Kind{KindUser, KindOwner, KindVet, KindPet} {
		for _, a := range allActions {
			d := Authorize(admin, a, Resource{Kind: k})
			assert.True(t, d.Allowed, "admin %s %s", a, k)
		}
	}

	// Historiales: solo lectura.
	assert.True(t, Authorize(admin, ActionRead, Resource{Kind: KindRecord}).Allowed)
	for _, a := range []Action{ActionCreate, ActionUpdate, ActionDelete} {
		d := Authorize(admin, a, Resource{Kind: KindRecord})
		assert.False(t, d.Allowed, "admin %s record", a)
		assert.Equal(t, ReasonRoleNotPermitted, d.Reason)
	}
}

func TestAuthorize_OwnerProfile(t *testing.T) {
	own := Resource{Kind: KindOwner, OwnerID: "o-1"}
	other := Resource{Kind: KindOwner, OwnerID: "o-2"}

	for _, a := range []Action{ActionRead, ActionUpdate, ActionDelete} {
		assert.True(t, Authorize(owner, a, own).Allowed, "owner %s propio perfil", a)

		d := Authorize(owner, a, other)
		assert.False(t, d.Allowed)
		assert.Equal(t, ReasonNotOwner, d.Reason)
	}

	// El alta de owners no pasa por un owner autenticado.
	d := Authorize(owner, ActionCreate, own)
	assert.False(t, d.Allowed)
	assert.Equal(t, ReasonRoleNotPermitted, d.Reason)
}

func TestAuthorize_OwnerPetsAndRecords(t *testing.T) {
	for _, a := range allActions {
		assert.True(t, Authorize(owner, a, Resource{Kind: KindPet, OwnerID: "o-1"}).Allowed)

		d := Authorize(owner, a, Resource{Kind: KindPet, OwnerID: "o-2"})
		assert.False(t, d.Allowed)
		assert.Equal(t, ReasonNotOwner, d.Reason)
	}

	// Historiales de sus mascotas: solo lectura.
	assert.True(t, Authorize(owner, ActionRead, Resource{Kind: KindRecord, OwnerID: "o-1"}).Allowed)
	assert.False(t, Authorize(owner, ActionRead, Resource{Kind: KindRecord, OwnerID: "o-2"}).Allowed)
	for _, a := range []Action{ActionCreate, ActionUpdate, ActionDelete} {
		d := Authorize(owner, a, Resource{Kind: KindRecord, OwnerID: "o-1"})
		assert.False(t, d.Allowed, "owner %s record", a)
	}

	// Puede ver veterinarios (el vet asignado de su mascota).
	assert.True(t, Authorize(owner, ActionRead, Resource{Kind: KindVet, VetID: "v-9"}).Allowed)
	assert.False(t, Authorize(owner, ActionUpdate, Resource{Kind: KindVet, VetID: "v-9"}).Allowed)
}

func TestAuthorize_VetRecordsAuthorship(t *testing.T) {
	// Lectura global de mascotas, nada de escribirlas.
	assert.True(t, Authorize(vet, ActionRead, Resource{Kind: KindPet, OwnerID: "o-2"}).Allowed)
	assert.False(t, Authorize(vet, ActionUpdate, Resource{Kind: KindPet, OwnerID: "o-2"}).Allowed)

	// Crear y leer historiales, siempre.
	assert.True(t, Authorize(vet, ActionCreate, Resource{Kind: KindRecord}).Allowed)
	assert.True(t, Authorize(vet, ActionRead, Resource{Kind: KindRecord, VetID: "v-2"}).Allowed)

	// Mutar: solo los propios.
	for _, a := range []Action{ActionUpdate, ActionDelete} {
		assert.True(t, Authorize(vet, a, Resource{Kind: KindRecord, VetID: "v-1"}).Allowed)

		d := Authorize(vet, a, Resource{Kind: KindRecord, VetID: "v-2"})
		assert.False(t, d.Allowed)
		assert.Equal(t, ReasonNotAuthor, d.Reason)
	}
}

func TestAuthorize_EmptyAttributionNeverMatches(t *testing.T) {
	// Un principal sin perfil no "matchea" un recurso sin atribución.
	ghost := auth.Principal{UserID: "u-g", Role: auth.RoleOwner}
	d := Authorize(ghost, ActionRead, Resource{Kind: KindPet})
	assert.False(t, d.Allowed)

	ghostVet := auth.Principal{UserID: "u-h", Role: auth.RoleVet}
	d = Authorize(ghostVet, ActionUpdate, Resource{Kind: KindRecord})
	assert.False(t, d.Allowed)
	assert.Equal(t, ReasonNotAuthor, d.Reason)
}
