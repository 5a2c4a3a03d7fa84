package records

import "time"

// MedicalRecord es una atención clínica. Pertenece a su mascota (se va con
// ella en el cascade) y queda atribuida al vet autor: VetID decide quién
// puede modificarla o borrarla.
type MedicalRecord struct {
	ID    string
	PetID string
	VetID string

	Diagnosis string
	Treatment string

	AppointmentDate *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}
