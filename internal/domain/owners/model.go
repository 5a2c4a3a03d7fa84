package owners

import "time"

// Owner es el perfil de un dueño de mascotas. Se crea solo como efecto del
// auto-registro OWNER (o por un admin); el nombre es único en todo el sistema.
type Owner struct {
	ID     string
	UserID string

	Name    string
	Email   string
	Phone   string
	Address string
	Gender  string

	CreatedAt time.Time
}
