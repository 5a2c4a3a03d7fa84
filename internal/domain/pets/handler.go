package pets

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"pet-clinic-platform/internal/domain/authz"
	"pet-clinic-platform/internal/middleware"
	"pet-clinic-platform/internal/platform/httpx"
	"pet-clinic-platform/internal/platform/logger"
	"pet-clinic-platform/internal/ports/auth"
)

// RegisterRoutes cuelga el CRUD de mascotas. El identificador externo es el
// código secuencial (P-000001), no el UUID interno.
func RegisterRoutes(r chi.Router, svc *Service, log logger.Logger) {
	r.Post("/pets", createPetHandler(svc, log))
	r.Get("/pets", listPetsHandler(svc, log))
	r.Get("/pets/{code}", getPetHandler(svc, log))
	r.Put("/pets/{code}", updatePetHandler(svc, log))
	r.Delete("/pets/{code}", deletePetHandler(svc, log))
}

type createPetRequest struct {
	// OwnerID solo lo usa el admin; para un dueño autenticado se ignora y
	// se usa su propio perfil.
	OwnerID  string  `json:"owner_id,omitempty"`
	Name     string  `json:"name"`
	Species  string  `json:"species"`
	Breed    string  `json:"breed,omitempty"`
	Age      int     `json:"age"`
	Weight   float64 `json:"weight"`
	Gender   string  `json:"gender,omitempty"`
	ImageRef string  `json:"image_ref,omitempty"`
}

type petResponse struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	OwnerID   string    `json:"owner_id"`
	Name      string    `json:"name"`
	Species   string    `json:"species"`
	Breed     string    `json:"breed,omitempty"`
	Age       int       `json:"age"`
	Weight    float64   `json:"weight"`
	Gender    string    `json:"gender,omitempty"`
	ImageRef  string    `json:"image_ref,omitempty"`
	VetID     string    `json:"vet_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type updatePetRequest struct {
	// Punteros: nil = no tocar. Código y dueño son inmutables y no aparecen.
	Name     *string  `json:"name"`
	Species  *string  `json:"species"`
	Breed    *string  `json:"breed"`
	Age      *int     `json:"age"`
	Weight   *float64 `json:"weight"`
	Gender   *string  `json:"gender"`
	ImageRef *string  `json:"image_ref"`
}

// createPetHandler godoc
// @Summary Registrar mascota
// @Description Crea una mascota con el siguiente código secuencial (P-000001, P-000002, ...). Un dueño crea sobre su propio perfil; el admin puede indicar owner_id.
// @Tags pets
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param payload body createPetRequest true "Datos de la mascota; age y weight deben ser positivos"
// @Success 201 {object} petResponse
// @Failure 400 {object} map[string]string "invalid input"
// @Failure 401 {object} map[string]string "unauthorized"
// @Failure 403 {object} map[string]string "forbidden"
// @Router /pets [post]
func createPetHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := middleware.RequirePrincipal(r.Context())
		if err != nil {
			httpx.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		var req createPetRequest
		if !httpx.DecodeJSON(w, r, &req) {
			return
		}

		ownerID := req.OwnerID
		if p.Role == auth.RoleOwner {
			ownerID = p.OwnerID
		}

		res := authz.Resource{Kind: authz.KindPet, OwnerID: ownerID}
		if d := authz.Authorize(p, authz.ActionCreate, res); !d.Allowed {
			authz.LogDenial(log, p, authz.ActionCreate, res, d.Reason)
			httpx.Error(w, http.StatusForbidden, "forbidden")
			return
		}

		pet, err := svc.Create(r.Context(), CreateInput{
			OwnerID:  ownerID,
			Name:     req.Name,
			Species:  req.Species,
			Breed:    req.Breed,
			Age:      req.Age,
			Weight:   req.Weight,
			Gender:   req.Gender,
			ImageRef: req.ImageRef,
		})
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				httpx.Error(w, http.StatusBadRequest, "invalid input")
				return
			}
			httpx.Error(w, http.StatusInternalServerError, "internal error")
			return
		}

		httpx.WriteJSON(w, http.StatusCreated, toPetResponse(pet))
	}
}

func listPetsHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	// ?ownerId= y ?vetId= filtran; un dueño siempre queda acotado a lo suyo.
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := middleware.RequirePrincipal(r.Context())
		if err != nil {
			httpx.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		f := Filter{
			OwnerID: r.URL.Query().Get("ownerId"),
			VetID:   r.URL.Query().Get("vetId"),
		}
		if p.Role == auth.RoleOwner {
			f.OwnerID = p.OwnerID
		}

		res := authz.Resource{Kind: authz.KindPet, OwnerID: f.OwnerID}
		if d := authz.Authorize(p, authz.ActionRead, res); !d.Allowed {
			authz.LogDenial(log, p, authz.ActionRead, res, d.Reason)
			httpx.Error(w, http.StatusForbidden, "forbidden")
			return
		}

		items, err := svc.List(r.Context(), f)
		if err != nil {
			httpx.Error(w, http.StatusInternalServerError, "internal error")
			return
		}

		out := make([]petResponse, 0, len(items))
		for _, pet := range items {
			out = append(out, toPetResponse(pet))
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

func getPetHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := middleware.RequirePrincipal(r.Context())
		if err != nil {
			httpx.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		pet, err := svc.GetByCode(r.Context(), chi.URLParam(r, "code"))
		if err != nil {
			httpx.Error(w, http.StatusNotFound, "pet not found")
			return
		}

		res := authz.Resource{Kind: authz.KindPet, OwnerID: pet.OwnerID}
		if d := authz.Authorize(p, authz.ActionRead, res); !d.Allowed {
			authz.LogDenial(log, p, authz.ActionRead, res, d.Reason)
			httpx.Error(w, http.StatusForbidden, "forbidden")
			return
		}

		httpx.WriteJSON(w, http.StatusOK, toPetResponse(pet))
	}
}

func updatePetHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := middleware.RequirePrincipal(r.Context())
		if err != nil {
			httpx.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		code := chi.URLParam(r, "code")
		pet, err := svc.GetByCode(r.Context(), code)
		if err != nil {
			httpx.Error(w, http.StatusNotFound, "pet not found")
			return
		}

		res := authz.Resource{Kind: authz.KindPet, OwnerID: pet.OwnerID}
		if d := authz.Authorize(p, authz.ActionUpdate, res); !d.Allowed {
			authz.LogDenial(log, p, authz.ActionUpdate, res, d.Reason)
			httpx.Error(w, http.StatusForbidden, "forbidden")
			return
		}

		var req updatePetRequest
		if !httpx.DecodeJSON(w, r, &req) {
			return
		}

		updated, err := svc.Update(r.Context(), code, UpdateInput{
			Name:     req.Name,
			Species:  req.Species,
			Breed:    req.Breed,
			Age:      req.Age,
			Weight:   req.Weight,
			Gender:   req.Gender,
			ImageRef: req.ImageRef,
		})
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				httpx.Error(w, http.StatusBadRequest, "invalid input")
			case errors.Is(err, ErrNotFound):
				httpx.Error(w, http.StatusNotFound, "pet not found")
			default:
				httpx.Error(w, http.StatusInternalServerError, "internal error")
			}
			return
		}

		httpx.WriteJSON(w, http.StatusOK, toPetResponse(updated))
	}
}

// deletePetHandler godoc
// @Summary Baja de mascota
// @Description Borra la mascota y todos sus historiales en una sola transacción. Dueño de la mascota o admin.
// @Tags pets
// @Param Authorization header string true "Bearer token"
// @Param code path string true "Código de la mascota (P-000001)"
// @Success 204 "sin contenido"
// @Failure 401 {object} map[string]string "unauthorized"
// @Failure 403 {object} map[string]string "forbidden"
// @Failure 404 {object} map[string]string "pet not found"
// @Router /pets/{code} [delete]
func deletePetHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := middleware.RequirePrincipal(r.Context())
		if err != nil {
			httpx.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		code := chi.URLParam(r, "code")
		pet, err := svc.GetByCode(r.Context(), code)
		if err != nil {
			httpx.Error(w, http.StatusNotFound, "pet not found")
			return
		}

		res := authz.Resource{Kind: authz.KindPet, OwnerID: pet.OwnerID}
		if d := authz.Authorize(p, authz.ActionDelete, res); !d.Allowed {
			authz.LogDenial(log, p, authz.ActionDelete, res, d.Reason)
			httpx.Error(w, http.StatusForbidden, "forbidden")
			return
		}

		if err := svc.DeleteByCode(r.Context(), code); err != nil {
			if errors.Is(err, ErrNotFound) {
				httpx.Error(w, http.StatusNotFound, "pet not found")
				return
			}
			httpx.Error(w, http.StatusInternalServerError, "internal error")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func toPetResponse(p Pet) petResponse {
	return petResponse{
		ID:        p.ID,
		Code:      p.Code,
		OwnerID:   p.OwnerID,
		Name:      p.Name,
		Species:   p.Species,
		Breed:     p.Breed,
		Age:       p.Age,
		Weight:    p.Weight,
		Gender:    p.Gender,
		ImageRef:  p.ImageRef,
		VetID:     p.VetID,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
