package pets

import (
	"fmt"
	"time"
)

// Pet es una mascota registrada. Code es el identificador externo secuencial
// (P-000001, P-000002, ...): se asigna una sola vez al crear y nunca cambia.
// VetID es una referencia débil al último vet tratante; puede quedar vacía.
type Pet struct {
	ID      string
	Code    string
	OwnerID string

	Name    string
	Species string
	Breed   string
	Age     int
	Weight  float64
	Gender  string

	// ImageRef es una referencia opaca a la imagen (el storage de archivos
	// es un colaborador externo, acá solo se guarda la referencia).
	ImageRef string

	VetID string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// FormatCode arma el código externo a partir del número de secuencia.
func FormatCode(n int64) string {
	return fmt.Sprintf("P-%06d", n)
}
