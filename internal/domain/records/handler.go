package records

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"pet-clinic-platform/internal/domain/authz"
	"pet-clinic-platform/internal/domain/pets"
	"pet-clinic-platform/internal/middleware"
	"pet-clinic-platform/internal/platform/httpx"
	"pet-clinic-platform/internal/platform/logger"
	"pet-clinic-platform/internal/ports/auth"
)

func RegisterRoutes(r chi.Router, svc *Service, log logger.Logger) {
	r.Post("/medical-records", createRecordHandler(svc, log))
	r.Get("/medical-records", listRecordsHandler(svc, log))
	r.Get("/medical-records/{recordID}", getRecordHandler(svc, log))
	r.Put("/medical-records/{recordID}", updateRecordHandler(svc, log))
	r.Delete("/medical-records/{recordID}", deleteRecordHandler(svc, log))
}

type createRecordRequest struct {
	PetID           string `json:"pet_id"`
	Diagnosis       string `json:"diagnosis"`
	Treatment       string `json:"treatment"`
	AppointmentDate string `json:"appointment_date,omitempty"` // RFC3339 opcional
}

type recordResponse struct {
	ID              string     `json:"id"`
	PetID           string     `json:"pet_id"`
	VetID           string     `json:"vet_id"`
	Diagnosis       string     `json:"diagnosis"`
	Treatment       string     `json:"treatment"`
	AppointmentDate *time.Time `json:"appointment_date,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

type updateRecordRequest struct {
	// Punteros: nil = no tocar.
	Diagnosis *string `json:"diagnosis"`
	Treatment *string `json:"treatment"`
	// appointment_date se maneja aparte para distinguir "no enviado" de
	// "null" (= limpiar la fecha).
}

// createRecordHandler godoc
// @Summary Registrar atención clínica
// @Description Crea un historial médico firmado por el vet autenticado y lo marca como vet tratante de la mascota. Solo veterinarios.
// @Tags medical-records
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param payload body createRecordRequest true "Datos de la atención; appointment_date en RFC3339"
// @Success 201 {object} recordResponse
// @Failure 400 {object} map[string]string "invalid input"
// @Failure 401 {object} map[string]string "unauthorized"
// @Failure 403 {object} map[string]string "forbidden"
// @Failure 404 {object} map[string]string "pet not found"
// @Router /medical-records [post]
func createRecordHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := middleware.RequirePrincipal(r.Context())
		if err != nil {
			httpx.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		res := authz.Resource{Kind: authz.KindRecord}
		if d := authz.Authorize(p, authz.ActionCreate, res); !d.Allowed {
			authz.LogDenial(log, p, authz.ActionCreate, res, d.Reason)
			httpx.Error(w, http.StatusForbidden, "forbidden")
			return
		}

		var req createRecordRequest
		if !httpx.DecodeJSON(w, r, &req) {
			return
		}

		var date *time.Time
		if req.AppointmentDate != "" {
			t, err := time.Parse(time.RFC3339, req.AppointmentDate)
			if err != nil {
				httpx.Error(w, http.StatusBadRequest, "appointment_date must be RFC3339")
				return
			}
			date = &t
		}

		// El autor es siempre el vet autenticado, no un campo del body.
		rec, err := svc.Create(r.Context(), CreateInput{
			PetID:           req.PetID,
			VetID:           p.VetID,
			Diagnosis:       req.Diagnosis,
			Treatment:       req.Treatment,
			AppointmentDate: date,
		})
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				httpx.Error(w, http.StatusBadRequest, "invalid input")
			case errors.Is(err, pets.ErrNotFound):
				httpx.Error(w, http.StatusNotFound, "pet not found")
			default:
				httpx.Error(w, http.StatusInternalServerError, "internal error")
			}
			return
		}

		httpx.WriteJSON(w, http.StatusCreated, toRecordResponse(rec))
	}
}

func listRecordsHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	// ?petId= y ?vetId= filtran. Un dueño tiene que indicar petId y solo ve
	// historiales de sus propias mascotas; admin y vets ven todo.
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := middleware.RequirePrincipal(r.Context())
		if err != nil {
			httpx.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		f := Filter{
			PetID: r.URL.Query().Get("petId"),
			VetID: r.URL.Query().Get("vetId"),
		}

		res := authz.Resource{Kind: authz.KindRecord}
		if p.Role == auth.RoleOwner {
			if f.PetID == "" {
				authz.LogDenial(log, p, authz.ActionRead, res, authz.ReasonNotOwner)
				httpx.Error(w, http.StatusForbidden, "forbidden")
				return
			}
			ownerID, err := svc.PetOwner(r.Context(), f.PetID)
			if err != nil {
				httpx.Error(w, http.StatusNotFound, "pet not found")
				return
			}
			res.OwnerID = ownerID
		}

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

		out := make([]recordResponse, 0, len(items))
		for _, rec := range items {
			out = append(out, toRecordResponse(rec))
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

func getRecordHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := middleware.RequirePrincipal(r.Context())
		if err != nil {
			httpx.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		rec, err := svc.GetByID(r.Context(), chi.URLParam(r, "recordID"))
		if err != nil {
			httpx.Error(w, http.StatusNotFound, "medical record not found")
			return
		}

		res := authz.Resource{Kind: authz.KindRecord, VetID: rec.VetID}
		if p.Role == auth.RoleOwner {
			ownerID, err := svc.PetOwner(r.Context(), rec.PetID)
			if err == nil {
				res.OwnerID = ownerID
			}
		}

		if d := authz.Authorize(p, authz.ActionRead, res); !d.Allowed {
			authz.LogDenial(log, p, authz.ActionRead, res, d.Reason)
			httpx.Error(w, http.StatusForbidden, "forbidden")
			return
		}

		httpx.WriteJSON(w, http.StatusOK, toRecordResponse(rec))
	}
}

// updateRecordHandler godoc
// @Summary Editar historial médico
// @Description Solo el vet autor puede editar. La autoría se verifica dentro de la misma operación que aplica el cambio.
// @Tags medical-records
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param recordID path string true "ID del historial"
// @Param payload body updateRecordRequest true "Campos a cambiar; appointment_date admite null para limpiar"
// @Success 200 {object} recordResponse
// @Failure 401 {object} map[string]string "unauthorized"
// @Failure 403 {object} map[string]string "forbidden"
// @Failure 404 {object} map[string]string "medical record not found"
// @Router /medical-records/{recordID} [put]
func updateRecordHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := middleware.RequirePrincipal(r.Context())
		if err != nil {
			httpx.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		recordID := chi.URLParam(r, "recordID")
		rec, err := svc.GetByID(r.Context(), recordID)
		if err != nil {
			httpx.Error(w, http.StatusNotFound, "medical record not found")
			return
		}

		res := authz.Resource{Kind: authz.KindRecord, VetID: rec.VetID}
		if d := authz.Authorize(p, authz.ActionUpdate, res); !d.Allowed {
			authz.LogDenial(log, p, authz.ActionUpdate, res, d.Reason)
			httpx.Error(w, http.StatusForbidden, "forbidden")
			return
		}

		// Para permitir "appointment_date": null (= limpiar) hay que detectar
		// presencia del campo, así que primero se decodifica a un map.
		var raw map[string]json.RawMessage
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			httpx.Error(w, http.StatusBadRequest, "invalid json")
			return
		}

		var req updateRecordRequest
		{
			b, _ := json.Marshal(raw)
			if err := json.Unmarshal(b, &req); err != nil {
				httpx.Error(w, http.StatusBadRequest, "invalid json")
				return
			}
		}

		in := UpdateInput{
			Diagnosis: req.Diagnosis,
			Treatment: req.Treatment,
		}
		if v, exists := raw["appointment_date"]; exists {
			if string(v) == "null" {
				var cleared *time.Time
				in.AppointmentDate = &cleared
			} else {
				var s string
				if err := json.Unmarshal(v, &s); err != nil {
					httpx.Error(w, http.StatusBadRequest, "appointment_date must be RFC3339 or null")
					return
				}
				t, err := time.Parse(time.RFC3339, s)
				if err != nil {
					httpx.Error(w, http.StatusBadRequest, "appointment_date must be RFC3339 or null")
					return
				}
				date := &t
				in.AppointmentDate = &date
			}
		}

		updated, err := svc.Update(r.Context(), recordID, p.VetID, in)
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				httpx.Error(w, http.StatusBadRequest, "invalid input")
			case errors.Is(err, ErrNotFound):
				httpx.Error(w, http.StatusNotFound, "medical record not found")
			case errors.Is(err, ErrNotAuthor):
				httpx.Error(w, http.StatusForbidden, "forbidden")
			default:
				httpx.Error(w, http.StatusInternalServerError, "internal error")
			}
			return
		}

		httpx.WriteJSON(w, http.StatusOK, toRecordResponse(updated))
	}
}

func deleteRecordHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := middleware.RequirePrincipal(r.Context())
		if err != nil {
			httpx.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		recordID := chi.URLParam(r, "recordID")
		rec, err := svc.GetByID(r.Context(), recordID)
		if err != nil {
			httpx.Error(w, http.StatusNotFound, "medical record not found")
			return
		}

		res := authz.Resource{Kind: authz.KindRecord, VetID: rec.VetID}
		if d := authz.Authorize(p, authz.ActionDelete, res); !d.Allowed {
			authz.LogDenial(log, p, authz.ActionDelete, res, d.Reason)
			httpx.Error(w, http.StatusForbidden, "forbidden")
			return
		}

		if err := svc.Delete(r.Context(), recordID, p.VetID); err != nil {
			switch {
			case errors.Is(err, ErrNotFound):
				httpx.Error(w, http.StatusNotFound, "medical record not found")
			case errors.Is(err, ErrNotAuthor):
				httpx.Error(w, http.StatusForbidden, "forbidden")
			default:
				httpx.Error(w, http.StatusInternalServerError, "internal error")
			}
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func toRecordResponse(rec MedicalRecord) recordResponse {
	return recordResponse{
		ID:              rec.ID,
		PetID:           rec.PetID,
		VetID:           rec.VetID,
		Diagnosis:       rec.Diagnosis,
		Treatment:       rec.Treatment,
		AppointmentDate: rec.AppointmentDate,
		CreatedAt:       rec.CreatedAt,
		UpdatedAt:       rec.UpdatedAt,
	}
}
