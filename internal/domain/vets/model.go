package vets

import "time"

// Veterinarian es el perfil profesional, vinculado 1:1 a una cuenta con rol
// VETERINARIAN. Solo un admin puede darlo de alta.
type Veterinarian struct {
	ID     string
	UserID string

	Name       string
	Phone      string
	Speciality string

	CreatedAt time.Time
}
