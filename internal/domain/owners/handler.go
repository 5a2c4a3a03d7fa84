package owners

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"pet-clinic-platform/internal/domain/authz"
	"pet-clinic-platform/internal/domain/pets"
	"pet-clinic-platform/internal/middleware"
	"pet-clinic-platform/internal/platform/httpx"
	"pet-clinic-platform/internal/platform/logger"
)

// PetLister entrega las mascotas de un dueño para el listado admin.
// Lo satisface *pets.Service.
type PetLister interface {
	List(ctx context.Context, f pets.Filter) ([]pets.Pet, error)
}

// RegisterRoutes cuelga lectura, edición y baja de perfiles de dueño.
// El alta (POST /owners) vive en el módulo de cuentas.
func RegisterRoutes(r chi.Router, svc *Service, petsSvc PetLister, log logger.Logger) {
	r.Get("/owners", listOwnersHandler(svc, petsSvc, log))
	r.Get("/owners/{ownerID}", getOwnerHandler(svc, log))
	r.Put("/owners/{ownerID}", updateOwnerHandler(svc, log))
	r.Delete("/owners/{ownerID}", deleteOwnerHandler(svc, log))
}

type ownerResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Address   string    `json:"address,omitempty"`
	Gender    string    `json:"gender,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type ownerPetSummary struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	Species string `json:"species"`
}

type ownerWithPetsResponse struct {
	ownerResponse
	Pets []ownerPetSummary `json:"pets"`
}

type updateOwnerRequest struct {
	// Punteros: nil = no tocar.
	Name    *string `json:"name"`
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
	Gender  *string `json:"gender"`
}

func listOwnersHandler(svc *Service, petsSvc PetLister, log logger.Logger) http.HandlerFunc {
	// Listado admin: cada dueño con el resumen de sus mascotas.
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := middleware.RequirePrincipal(r.Context())
		if err != nil {
			httpx.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		// Sin atribución: solo admin pasa el listado global.
		res := authz.Resource{Kind: authz.KindOwner}
		if d := authz.Authorize(p, authz.ActionRead, res); !d.Allowed {
			authz.LogDenial(log, p, authz.ActionRead, res, d.Reason)
			httpx.Error(w, http.StatusForbidden, "forbidden")
			return
		}

		items, err := svc.List(r.Context())
		if err != nil {
			httpx.Error(w, http.StatusInternalServerError, "internal error")
			return
		}

		out := make([]ownerWithPetsResponse, 0, len(items))
		for _, o := range items {
			entry := ownerWithPetsResponse{
				ownerResponse: toOwnerResponse(o),
				Pets:          []ownerPetSummary{},
			}
			ps, err := petsSvc.List(r.Context(), pets.Filter{OwnerID: o.ID})
			if err != nil {
				httpx.Error(w, http.StatusInternalServerError, "internal error")
				return
			}
			for _, pet := range ps {
				entry.Pets = append(entry.Pets, ownerPetSummary{
					Code:    pet.Code,
					Name:    pet.Name,
					Species: pet.Species,
				})
			}
			out = append(out, entry)
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

func getOwnerHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := middleware.RequirePrincipal(r.Context())
		if err != nil {
			httpx.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		o, err := svc.GetByID(r.Context(), chi.URLParam(r, "ownerID"))
		if err != nil {
			httpx.Error(w, http.StatusNotFound, "owner not found")
			return
		}

		res := authz.Resource{Kind: authz.KindOwner, OwnerID: o.ID}
		if d := authz.Authorize(p, authz.ActionRead, res); !d.Allowed {
			authz.LogDenial(log, p, authz.ActionRead, res, d.Reason)
			httpx.Error(w, http.StatusForbidden, "forbidden")
			return
		}

		httpx.WriteJSON(w, http.StatusOK, toOwnerResponse(o))
	}
}

func updateOwnerHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := middleware.RequirePrincipal(r.Context())
		if err != nil {
			httpx.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		ownerID := chi.URLParam(r, "ownerID")
		o, err := svc.GetByID(r.Context(), ownerID)
		if err != nil {
			httpx.Error(w, http.StatusNotFound, "owner not found")
			return
		}

		res := authz.Resource{Kind: authz.KindOwner, OwnerID: o.ID}
		if d := authz.Authorize(p, authz.ActionUpdate, res); !d.Allowed {
			authz.LogDenial(log, p, authz.ActionUpdate, res, d.Reason)
			httpx.Error(w, http.StatusForbidden, "forbidden")
			return
		}

		var req updateOwnerRequest
		if !httpx.DecodeJSON(w, r, &req) {
			return
		}

		updated, err := svc.Update(r.Context(), ownerID, UpdateInput{
			Name:    req.Name,
			Email:   req.Email,
			Phone:   req.Phone,
			Address: req.Address,
			Gender:  req.Gender,
		})
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				httpx.Error(w, http.StatusBadRequest, "invalid input")
			case errors.Is(err, ErrNotFound):
				httpx.Error(w, http.StatusNotFound, "owner not found")
			case errors.Is(err, ErrNameTaken):
				httpx.Error(w, http.StatusConflict, "owner name already exists")
			default:
				httpx.Error(w, http.StatusInternalServerError, "internal error")
			}
			return
		}

		httpx.WriteJSON(w, http.StatusOK, toOwnerResponse(updated))
	}
}

// deleteOwnerHandler godoc
// @Summary Baja de dueño
// @Description Borra el perfil en cascada: historiales de sus mascotas, mascotas, perfil y cuenta, todo en una transacción. Admin o el propio dueño.
// @Tags owners
// @Param Authorization header string true "Bearer token"
// @Param ownerID path string true "ID del dueño"
// @Success 204 "sin contenido"
// @Failure 401 {object} map[string]string "unauthorized"
// @Failure 403 {object} map[string]string "forbidden"
// @Failure 404 {object} map[string]string "owner not found"
// @Router /owners/{ownerID} [delete]
func deleteOwnerHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := middleware.RequirePrincipal(r.Context())
		if err != nil {
			httpx.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		ownerID := chi.URLParam(r, "ownerID")
		o, err := svc.GetByID(r.Context(), ownerID)
		if err != nil {
			httpx.Error(w, http.StatusNotFound, "owner not found")
			return
		}

		res := authz.Resource{Kind: authz.KindOwner, OwnerID: o.ID}
		if d := authz.Authorize(p, authz.ActionDelete, res); !d.Allowed {
			authz.LogDenial(log, p, authz.ActionDelete, res, d.Reason)
			httpx.Error(w, http.StatusForbidden, "forbidden")
			return
		}

		if err := svc.Delete(r.Context(), ownerID); err != nil {
			if errors.Is(err, ErrNotFound) {
				httpx.Error(w, http.StatusNotFound, "owner not found")
				return
			}
			httpx.Error(w, http.StatusInternalServerError, "internal error")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func toOwnerResponse(o Owner) ownerResponse {
	return ownerResponse{
		ID:        o.ID,
		UserID:    o.UserID,
		Name:      o.Name,
		Email:     o.Email,
		Phone:     o.Phone,
		Address:   o.Address,
		Gender:    o.Gender,
		CreatedAt: o.CreatedAt,
	}
}
