package vets

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"pet-clinic-platform/internal/domain/authz"
	"pet-clinic-platform/internal/middleware"
	"pet-clinic-platform/internal/platform/httpx"
	"pet-clinic-platform/internal/platform/logger"
)

// RegisterRoutes cuelga lectura, edición y baja de perfiles de veterinario.
// El alta (POST /veterinarians) vive en el módulo de cuentas.
func RegisterRoutes(r chi.Router, svc *Service, log logger.Logger) {
	r.Get("/veterinarians", listVetsHandler(svc, log))
	r.Get("/veterinarians/{vetID}", getVetHandler(svc, log))
	r.Put("/veterinarians/{vetID}", updateVetHandler(svc, log))
	r.Delete("/veterinarians/{vetID}", deleteVetHandler(svc, log))
}

type vetResponse struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Name       string    `json:"name"`
	Phone      string    `json:"phone,omitempty"`
	Speciality string    `json:"speciality"`
	CreatedAt  time.Time `json:"created_at"`
}

type updateVetRequest struct {
	// Punteros: nil = no tocar.
	Name       *string `json:"name"`
	Phone      *string `json:"phone"`
	Speciality *string `json:"speciality"`
}

func listVetsHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	// Los dueños lo usan para ver el vet asignado de su mascota.
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := middleware.RequirePrincipal(r.Context())
		if err != nil {
			httpx.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		res := authz.Resource{Kind: authz.KindVet}
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

		out := make([]vetResponse, 0, len(items))
		for _, v := range items {
			out = append(out, toVetResponse(v))
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

func getVetHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := middleware.RequirePrincipal(r.Context())
		if err != nil {
			httpx.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		v, err := svc.GetByID(r.Context(), chi.URLParam(r, "vetID"))
		if err != nil {
			httpx.Error(w, http.StatusNotFound, "veterinarian not found")
			return
		}

		res := authz.Resource{Kind: authz.KindVet, VetID: v.ID}
		if d := authz.Authorize(p, authz.ActionRead, res); !d.Allowed {
			authz.LogDenial(log, p, authz.ActionRead, res, d.Reason)
			httpx.Error(w, http.StatusForbidden, "forbidden")
			return
		}

		httpx.WriteJSON(w, http.StatusOK, toVetResponse(v))
	}
}

func updateVetHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := middleware.RequirePrincipal(r.Context())
		if err != nil {
			httpx.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		vetID := chi.URLParam(r, "vetID")
		v, err := svc.GetByID(r.Context(), vetID)
		if err != nil {
			httpx.Error(w, http.StatusNotFound, "veterinarian not found")
			return
		}

		res := authz.Resource{Kind: authz.KindVet, VetID: v.ID}
		if d := authz.Authorize(p, authz.ActionUpdate, res); !d.Allowed {
			authz.LogDenial(log, p, authz.ActionUpdate, res, d.Reason)
			httpx.Error(w, http.StatusForbidden, "forbidden")
			return
		}

		var req updateVetRequest
		if !httpx.DecodeJSON(w, r, &req) {
			return
		}

		updated, err := svc.Update(r.Context(), vetID, UpdateInput{
			Name:       req.Name,
			Phone:      req.Phone,
			Speciality: req.Speciality,
		})
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				httpx.Error(w, http.StatusBadRequest, "invalid input")
			case errors.Is(err, ErrNotFound):
				httpx.Error(w, http.StatusNotFound, "veterinarian not found")
			default:
				httpx.Error(w, http.StatusInternalServerError, "internal error")
			}
			return
		}

		httpx.WriteJSON(w, http.StatusOK, toVetResponse(updated))
	}
}

// deleteVetHandler godoc
// @Summary Baja de veterinario
// @Description Solo admin. Borra perfil y cuenta; las mascotas que lo tenían asignado quedan sin vet tratante, los historiales que escribió se conservan.
// @Tags veterinarians
// @Param Authorization header string true "Bearer token"
// @Param vetID path string true "ID del veterinario"
// @Success 204 "sin contenido"
// @Failure 401 {object} map[string]string "unauthorized"
// @Failure 403 {object} map[string]string "forbidden"
// @Failure 404 {object} map[string]string "veterinarian not found"
// @Router /veterinarians/{vetID} [delete]
func deleteVetHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := middleware.RequirePrincipal(r.Context())
		if err != nil {
			httpx.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		vetID := chi.URLParam(r, "vetID")
		v, err := svc.GetByID(r.Context(), vetID)
		if err != nil {
			httpx.Error(w, http.StatusNotFound, "veterinarian not found")
			return
		}

		res := authz.Resource{Kind: authz.KindVet, VetID: v.ID}
		if d := authz.Authorize(p, authz.ActionDelete, res); !d.Allowed {
			authz.LogDenial(log, p, authz.ActionDelete, res, d.Reason)
			httpx.Error(w, http.StatusForbidden, "forbidden")
			return
		}

		if err := svc.Delete(r.Context(), vetID); err != nil {
			if errors.Is(err, ErrNotFound) {
				httpx.Error(w, http.StatusNotFound, "veterinarian not found")
				return
			}
			httpx.Error(w, http.StatusInternalServerError, "internal error")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func toVetResponse(v Veterinarian) vetResponse {
	return vetResponse{
		ID:         v.ID,
		UserID:     v.UserID,
		Name:       v.Name,
		Phone:      v.Phone,
		Speciality: v.Speciality,
		CreatedAt:  v.CreatedAt,
	}
}
