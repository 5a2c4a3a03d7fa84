package users

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"pet-clinic-platform/internal/domain/authz"
	"pet-clinic-platform/internal/domain/owners"
	"pet-clinic-platform/internal/domain/vets"
	"pet-clinic-platform/internal/middleware"
	"pet-clinic-platform/internal/platform/httpx"
	"pet-clinic-platform/internal/platform/logger"
	"pet-clinic-platform/internal/ports/auth"
)

// RegisterRoutes cuelga las rutas de cuentas y sesiones. El alta de owners y
// vets vive acá (y no en sus módulos) porque son composites de cuenta:
// crean User + perfil en una sola transacción.
func RegisterRoutes(r chi.Router, svc *Service, log logger.Logger) {
	r.Post("/sessions", loginHandler(svc))
	r.Get("/session", sessionHandler())

	r.Post("/owners", registerOwnerHandler(svc))
	r.Post("/veterinarians", createVetHandler(svc, log))

	r.Get("/users", listUsersHandler(svc, log))
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type principalResponse struct {
	UserID  string `json:"user_id"`
	Role    string `json:"role"`
	OwnerID string `json:"owner_id,omitempty"`
	VetID   string `json:"vet_id,omitempty"`
}

type loginResponse struct {
	Token     string            `json:"token"`
	Principal principalResponse `json:"principal"`
}

// loginHandler godoc
// @Summary Iniciar sesión
// @Description Valida credenciales y devuelve un bearer token. La respuesta de fallo es deliberadamente genérica: no distingue email desconocido de password incorrecto.
// @Tags sessions
// @Accept json
// @Produce json
// @Param payload body loginRequest true "Credenciales"
// @Success 200 {object} loginResponse
// @Failure 401 {object} map[string]string "invalid credentials"
// @Router /sessions [post]
func loginHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if !httpx.DecodeJSON(w, r, &req) {
			return
		}

		token, p, err := svc.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			if errors.Is(err, ErrInvalidCredentials) {
				httpx.Error(w, http.StatusUnauthorized, "invalid credentials")
				return
			}
			httpx.Error(w, http.StatusInternalServerError, "internal error")
			return
		}

		httpx.WriteJSON(w, http.StatusOK, loginResponse{
			Token:     token,
			Principal: toPrincipalResponse(p),
		})
	}
}

// sessionHandler godoc
// @Summary Introspección de sesión
// @Description Devuelve el principal del token presentado. 401 si el token falta, venció o la cuenta ya no existe.
// @Tags sessions
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Success 200 {object} principalResponse
// @Failure 401 {object} map[string]string "unauthorized"
// @Router /session [get]
func sessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := middleware.RequirePrincipal(r.Context())
		if err != nil {
			httpx.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toPrincipalResponse(p))
	}
}

type registerOwnerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Gender   string `json:"gender"`

	// Role se acepta pero se ignora: el auto-registro siempre crea un OWNER,
	// venga lo que venga del cliente.
	Role string `json:"role,omitempty"`
}

type registeredOwnerResponse struct {
	User  userResponse `json:"user"`
	Owner ownerSummary `json:"owner"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type ownerSummary struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
	Gender  string `json:"gender,omitempty"`
}

// registerOwnerHandler godoc
// @Summary Auto-registro de dueño
// @Description Crea cuenta + perfil de dueño como unidad atómica. Endpoint público. Cualquier campo `role` enviado se descarta.
// @Tags owners
// @Accept json
// @Produce json
// @Param payload body registerOwnerRequest true "Datos de registro"
// @Success 201 {object} registeredOwnerResponse
// @Failure 400 {object} map[string]string "invalid input"
// @Failure 409 {object} map[string]string "email o nombre en uso"
// @Router /owners [post]
func registerOwnerHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerOwnerRequest
		if !httpx.DecodeJSON(w, r, &req) {
			return
		}

		u, o, err := svc.Register(r.Context(), RegisterInput{
			Email:    req.Email,
			Password: req.Password,
			Name:     req.Name,
			Phone:    req.Phone,
			Address:  req.Address,
			Gender:   req.Gender,
		})
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				httpx.Error(w, http.StatusBadRequest, "invalid input")
			case errors.Is(err, ErrEmailTaken):
				httpx.Error(w, http.StatusConflict, "email already exists")
			case errors.Is(err, ErrNameTaken):
				httpx.Error(w, http.StatusConflict, "owner name already exists")
			default:
				httpx.Error(w, http.StatusInternalServerError, "internal error")
			}
			return
		}

		httpx.WriteJSON(w, http.StatusCreated, registeredOwnerResponse{
			User:  toUserResponse(u),
			Owner: toOwnerSummary(o),
		})
	}
}

type createVetRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Speciality string `json:"speciality"`
}

type createdVetResponse struct {
	User userResponse `json:"user"`
	Vet  vetSummary   `json:"vet"`
}

type vetSummary struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Phone      string `json:"phone,omitempty"`
	Speciality string `json:"speciality"`
}

// createVetHandler godoc
// @Summary Alta de veterinario
// @Description Solo admin. Crea cuenta + perfil de veterinario en una transacción.
// @Tags veterinarians
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param payload body createVetRequest true "Datos del veterinario"
// @Success 201 {object} createdVetResponse
// @Failure 401 {object} map[string]string "unauthorized"
// @Failure 403 {object} map[string]string "forbidden"
// @Failure 409 {object} map[string]string "email en uso"
// @Router /veterinarians [post]
func createVetHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := middleware.RequirePrincipal(r.Context())
		if err != nil {
			httpx.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		res := authz.Resource{Kind: authz.KindVet}
		if d := authz.Authorize(p, authz.ActionCreate, res); !d.Allowed {
			authz.LogDenial(log, p, authz.ActionCreate, res, d.Reason)
			httpx.Error(w, http.StatusForbidden, "forbidden")
			return
		}

		var req createVetRequest
		if !httpx.DecodeJSON(w, r, &req) {
			return
		}

		u, v, err := svc.CreateVeterinarian(r.Context(), CreateVetInput{
			Email:      req.Email,
			Password:   req.Password,
			Name:       req.Name,
			Phone:      req.Phone,
			Speciality: req.Speciality,
		})
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				httpx.Error(w, http.StatusBadRequest, "invalid input")
			case errors.Is(err, ErrEmailTaken):
				httpx.Error(w, http.StatusConflict, "email already exists")
			default:
				httpx.Error(w, http.StatusInternalServerError, "internal error")
			}
			return
		}

		httpx.WriteJSON(w, http.StatusCreated, createdVetResponse{
			User: toUserResponse(u),
			Vet:  toVetSummary(v),
		})
	}
}

type accountResponse struct {
	userResponse
	OwnerID   string `json:"owner_id,omitempty"`
	OwnerName string `json:"owner_name,omitempty"`
	VetID     string `json:"vet_id,omitempty"`
	VetName   string `json:"vet_name,omitempty"`
}

func listUsersHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	// Listado admin: cada cuenta con el resumen de su perfil enlazado.
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := middleware.RequirePrincipal(r.Context())
		if err != nil {
			httpx.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		res := authz.Resource{Kind: authz.KindUser}
		if d := authz.Authorize(p, authz.ActionRead, res); !d.Allowed {
			authz.LogDenial(log, p, authz.ActionRead, res, d.Reason)
			httpx.Error(w, http.StatusForbidden, "forbidden")
			return
		}

		items, err := svc.ListAccounts(r.Context())
		if err != nil {
			httpx.Error(w, http.StatusInternalServerError, "internal error")
			return
		}

		out := make([]accountResponse, 0, len(items))
		for _, a := range items {
			out = append(out, accountResponse{
				userResponse: toUserResponse(a.User),
				OwnerID:      a.OwnerID,
				OwnerName:    a.OwnerName,
				VetID:        a.VetID,
				VetName:      a.VetName,
			})
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

func toPrincipalResponse(p auth.Principal) principalResponse {
	return principalResponse{
		UserID:  p.UserID,
		Role:    string(p.Role),
		OwnerID: p.OwnerID,
		VetID:   p.VetID,
	}
}

func toUserResponse(u User) userResponse {
	return userResponse{
		ID:        u.ID,
		Email:     u.Email,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
	}
}

func toOwnerSummary(o owners.Owner) ownerSummary {
	return ownerSummary{
		ID:      o.ID,
		Name:    o.Name,
		Email:   o.Email,
		Phone:   o.Phone,
		Address: o.Address,
		Gender:  o.Gender,
	}
}

func toVetSummary(v vets.Veterinarian) vetSummary {
	return vetSummary{
		ID:         v.ID,
		Name:       v.Name,
		Phone:      v.Phone,
		Speciality: v.Speciality,
	}
}
