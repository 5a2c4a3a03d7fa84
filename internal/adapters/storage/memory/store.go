package memory

import (
	"sync"

	"pet-clinic-platform/internal/domain/owners"
	"pet-clinic-platform/internal/domain/pets"
	"pet-clinic-platform/internal/domain/records"
	"pet-clinic-platform/internal/domain/users"
	"pet-clinic-platform/internal/domain/vets"
)

// Store es el estado in-memory compartido por todos los repos del adapter.
// Un solo mutex para todo: las operaciones compuestas (alta User+perfil,
// cascades) tocan varias entidades y tienen que ser atómicas también acá.
type Store struct {
	mu sync.RWMutex

	users   map[string]users.User
	owners  map[string]owners.Owner
	vets    map[string]vets.Veterinarian
	pets    map[string]pets.Pet
	records map[string]records.MedicalRecord

	// petSeq respalda al allocator de códigos; solo avanza bajo mu.
	petSeq int64
}

func NewStore() *Store {
	return &Store{
		users:   make(map[string]users.User),
		owners:  make(map[string]owners.Owner),
		vets:    make(map[string]vets.Veterinarian),
		pets:    make(map[string]pets.Pet),
		records: make(map[string]records.MedicalRecord),
	}
}
