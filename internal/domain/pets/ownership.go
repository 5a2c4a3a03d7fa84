package pets

import "context"

// OwnerOf expone el dueño de una mascota sin devolver el perfil completo.
// Lo usan los handlers para armar el recurso que evalúa la policy.
func (s *Service) OwnerOf(ctx context.Context, petID string) (string, error) {
	p, err := s.GetByID(ctx, petID)
	if err != nil {
		return "", err
	}
	return p.OwnerID, nil
}
