package catalog_api

import (
	"context"
	"fmt"
	"net/http"

	"ms-airport/internal/catalog"
	"ms-airport/internal/logger"
	"ms-airport/internal/models"
	"ms-airport/internal/presenters"
	"ms-airport/internal/utils"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	Service *catalog.CatalogService
	Logger  *logger.Logger
}

func NewHandler(service *catalog.CatalogService, log *logger.Logger) *Handler {
	return &Handler{Service: service, Logger: log}
}

// RegisterRoutes mounts the catalog resources. Reads are open to any
// authenticated caller, writes go through admin.
func (h *Handler) RegisterRoutes(r chi.Router, admin func(http.Handler) http.Handler) {
	r.Route("/airplane-types", func(r chi.Router) {
		r.Get("/", h.ListAirplaneTypes)
		r.Get("/{id}", h.GetAirplaneType)
		r.With(admin).Post("/", h.CreateAirplaneType)
		r.With(admin).Put("/{id}", h.UpdateAirplaneType)
		r.With(admin).Delete("/{id}", h.DeleteAirplaneType)
	})
	r.Route("/airplanes", func(r chi.Router) {
		r.Get("/", h.ListAirplanes)
		r.Get("/{id}", h.GetAirplane)
		r.With(admin).Post("/", h.CreateAirplane)
		r.With(admin).Put("/{id}", h.UpdateAirplane)
		r.With(admin).Delete("/{id}", h.DeleteAirplane)
	})
	r.Route("/airports", func(r chi.Router) {
		r.Get("/", h.ListAirports)
		r.Get("/{id}", h.GetAirport)
		r.With(admin).Post("/", h.CreateAirport)
		r.With(admin).Put("/{id}", h.UpdateAirport)
		r.With(admin).Delete("/{id}", h.DeleteAirport)
	})
	r.Route("/routes", func(r chi.Router) {
		r.Get("/", h.ListRoutes)
		r.Get("/{id}", h.GetRoute)
		r.With(admin).Post("/", h.CreateRoute)
		r.With(admin).Put("/{id}", h.UpdateRoute)
		r.With(admin).Delete("/{id}", h.DeleteRoute)
	})
	r.Route("/crews", func(r chi.Router) {
		r.Get("/", h.ListCrews)
		r.Get("/{id}", h.GetCrew)
		r.With(admin).Post("/", h.CreateCrew)
		r.With(admin).Put("/{id}", h.UpdateCrew)
		r.With(admin).Delete("/{id}", h.DeleteCrew)
	})
}

func (h *Handler) fail(w http.ResponseWriter, op string, err error) {
	status := utils.WriteError(w, err)
	if status >= http.StatusInternalServerError {
		h.Logger.Error("API", fmt.Sprintf("%s: %v", op, err))
		return
	}
	h.Logger.Debug("API", fmt.Sprintf("%s: %d %v", op, status, err))
}

func (h *Handler) ordering(r *http.Request, allowed map[string]string) (utils.Ordering, error) {
	return utils.ParseOrdering(r.URL.Query().Get("ordering"), allowed, catalog.DefaultOrdering)
}

// ---------------- AIRPLANE TYPES ----------------

func (h *Handler) ListAirplaneTypes(w http.ResponseWriter, r *http.Request) {
	o, err := h.ordering(r, catalog.AirplaneTypeOrderings)
	if err != nil {
		h.fail(w, "ListAirplaneTypes", err)
		return
	}
	types, err := h.Service.ListAirplaneTypes(r.Context(), o)
	if err != nil {
		h.fail(w, "ListAirplaneTypes", err)
		return
	}
	body := make([]presenters.AirplaneTypeBody, 0, len(types))
	for _, t := range types {
		body = append(body, presenters.AirplaneType(t))
	}
	utils.WriteJSON(w, http.StatusOK, body)
}

func (h *Handler) GetAirplaneType(w http.ResponseWriter, r *http.Request) {
	id, err := utils.URLID(r, "id")
	if err != nil {
		h.fail(w, "GetAirplaneType", err)
		return
	}
	t, err := h.Service.GetAirplaneType(r.Context(), id)
	if err != nil {
		h.fail(w, "GetAirplaneType", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, presenters.AirplaneType(*t))
}

func (h *Handler) CreateAirplaneType(w http.ResponseWriter, r *http.Request) {
	var p models.AirplaneTypePayload
	if err := utils.DecodeAndValidate(r, &p); err != nil {
		h.fail(w, "CreateAirplaneType", err)
		return
	}
	t, err := h.Service.CreateAirplaneType(r.Context(), p)
	if err != nil {
		h.fail(w, "CreateAirplaneType", err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, presenters.AirplaneType(*t))
}

func (h *Handler) UpdateAirplaneType(w http.ResponseWriter, r *http.Request) {
	id, err := utils.URLID(r, "id")
	if err != nil {
		h.fail(w, "UpdateAirplaneType", err)
		return
	}
	var p models.AirplaneTypePayload
	if err := utils.DecodeAndValidate(r, &p); err != nil {
		h.fail(w, "UpdateAirplaneType", err)
		return
	}
	t, err := h.Service.UpdateAirplaneType(r.Context(), id, p)
	if err != nil {
		h.fail(w, "UpdateAirplaneType", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, presenters.AirplaneType(*t))
}

func (h *Handler) DeleteAirplaneType(w http.ResponseWriter, r *http.Request) {
	h.delete(w, r, "DeleteAirplaneType", h.Service.DeleteAirplaneType)
}

// ---------------- AIRPLANES ----------------

func (h *Handler) ListAirplanes(w http.ResponseWriter, r *http.Request) {
	o, err := h.ordering(r, catalog.AirplaneOrderings)
	if err != nil {
		h.fail(w, "ListAirplanes", err)
		return
	}
	planes, err := h.Service.ListAirplanes(r.Context(), o)
	if err != nil {
		h.fail(w, "ListAirplanes", err)
		return
	}
	body := make([]presenters.AirplaneBody, 0, len(planes))
	for _, a := range planes {
		body = append(body, presenters.Airplane(a, models.ViewList))
	}
	utils.WriteJSON(w, http.StatusOK, body)
}

func (h *Handler) GetAirplane(w http.ResponseWriter, r *http.Request) {
	id, err := utils.URLID(r, "id")
	if err != nil {
		h.fail(w, "GetAirplane", err)
		return
	}
	a, err := h.Service.GetAirplane(r.Context(), id)
	if err != nil {
		h.fail(w, "GetAirplane", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, presenters.Airplane(*a, models.ViewDetail))
}

func (h *Handler) CreateAirplane(w http.ResponseWriter, r *http.Request) {
	var p models.AirplanePayload
	if err := utils.DecodeAndValidate(r, &p); err != nil {
		h.fail(w, "CreateAirplane", err)
		return
	}
	a, err := h.Service.CreateAirplane(r.Context(), p)
	if err != nil {
		h.fail(w, "CreateAirplane", err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, presenters.Airplane(*a, models.ViewWrite))
}

func (h *Handler) UpdateAirplane(w http.ResponseWriter, r *http.Request) {
	id, err := utils.URLID(r, "id")
	if err != nil {
		h.fail(w, "UpdateAirplane", err)
		return
	}
	var p models.AirplanePayload
	if err := utils.DecodeAndValidate(r, &p); err != nil {
		h.fail(w, "UpdateAirplane", err)
		return
	}
	a, err := h.Service.UpdateAirplane(r.Context(), id, p)
	if err != nil {
		h.fail(w, "UpdateAirplane", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, presenters.Airplane(*a, models.ViewWrite))
}

func (h *Handler) DeleteAirplane(w http.ResponseWriter, r *http.Request) {
	h.delete(w, r, "DeleteAirplane", h.Service.DeleteAirplane)
}

// ---------------- AIRPORTS ----------------

// ListAirports accepts ?city= for a case-insensitive substring match on closest_big_city.
func (h *Handler) ListAirports(w http.ResponseWriter, r *http.Request) {
	o, err := h.ordering(r, catalog.AirportOrderings)
	if err != nil {
		h.fail(w, "ListAirports", err)
		return
	}
	airports, err := h.Service.ListAirports(r.Context(), r.URL.Query().Get("city"), o)
	if err != nil {
		h.fail(w, "ListAirports", err)
		return
	}
	body := make([]presenters.AirportBody, 0, len(airports))
	for _, a := range airports {
		body = append(body, presenters.Airport(a))
	}
	utils.WriteJSON(w, http.StatusOK, body)
}

func (h *Handler) GetAirport(w http.ResponseWriter, r *http.Request) {
	id, err := utils.URLID(r, "id")
	if err != nil {
		h.fail(w, "GetAirport", err)
		return
	}
	a, err := h.Service.GetAirport(r.Context(), id)
	if err != nil {
		h.fail(w, "GetAirport", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, presenters.Airport(*a))
}

func (h *Handler) CreateAirport(w http.ResponseWriter, r *http.Request) {
	var p models.AirportPayload
	if err := utils.DecodeAndValidate(r, &p); err != nil {
		h.fail(w, "CreateAirport", err)
		return
	}
	a, err := h.Service.CreateAirport(r.Context(), p)
	if err != nil {
		h.fail(w, "CreateAirport", err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, presenters.Airport(*a))
}

func (h *Handler) UpdateAirport(w http.ResponseWriter, r *http.Request) {
	id, err := utils.URLID(r, "id")
	if err != nil {
		h.fail(w, "UpdateAirport", err)
		return
	}
	var p models.AirportPayload
	if err := utils.DecodeAndValidate(r, &p); err != nil {
		h.fail(w, "UpdateAirport", err)
		return
	}
	a, err := h.Service.UpdateAirport(r.Context(), id, p)
	if err != nil {
		h.fail(w, "UpdateAirport", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, presenters.Airport(*a))
}

func (h *Handler) DeleteAirport(w http.ResponseWriter, r *http.Request) {
	h.delete(w, r, "DeleteAirport", h.Service.DeleteAirport)
}

// ---------------- ROUTES ----------------

func (h *Handler) ListRoutes(w http.ResponseWriter, r *http.Request) {
	o, err := h.ordering(r, catalog.RouteOrderings)
	if err != nil {
		h.fail(w, "ListRoutes", err)
		return
	}
	routes, err := h.Service.ListRoutes(r.Context(), o)
	if err != nil {
		h.fail(w, "ListRoutes", err)
		return
	}
	body := make([]presenters.RouteBody, 0, len(routes))
	for _, rt := range routes {
		body = append(body, presenters.Route(rt, models.ViewList))
	}
	utils.WriteJSON(w, http.StatusOK, body)
}

func (h *Handler) GetRoute(w http.ResponseWriter, r *http.Request) {
	id, err := utils.URLID(r, "id")
	if err != nil {
		h.fail(w, "GetRoute", err)
		return
	}
	rt, err := h.Service.GetRoute(r.Context(), id)
	if err != nil {
		h.fail(w, "GetRoute", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, presenters.Route(*rt, models.ViewDetail))
}

func (h *Handler) CreateRoute(w http.ResponseWriter, r *http.Request) {
	var p models.RoutePayload
	if err := utils.DecodeAndValidate(r, &p); err != nil {
		h.fail(w, "CreateRoute", err)
		return
	}
	rt, err := h.Service.CreateRoute(r.Context(), p)
	if err != nil {
		h.fail(w, "CreateRoute", err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, presenters.Route(*rt, models.ViewWrite))
}

func (h *Handler) UpdateRoute(w http.ResponseWriter, r *http.Request) {
	id, err := utils.URLID(r, "id")
	if err != nil {
		h.fail(w, "UpdateRoute", err)
		return
	}
	var p models.RoutePayload
	if err := utils.DecodeAndValidate(r, &p); err != nil {
		h.fail(w, "UpdateRoute", err)
		return
	}
	rt, err := h.Service.UpdateRoute(r.Context(), id, p)
	if err != nil {
		h.fail(w, "UpdateRoute", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, presenters.Route(*rt, models.ViewWrite))
}

func (h *Handler) DeleteRoute(w http.ResponseWriter, r *http.Request) {
	h.delete(w, r, "DeleteRoute", h.Service.DeleteRoute)
}

// ---------------- CREWS ----------------

func (h *Handler) ListCrews(w http.ResponseWriter, r *http.Request) {
	o, err := h.ordering(r, catalog.CrewOrderings)
	if err != nil {
		h.fail(w, "ListCrews", err)
		return
	}
	crews, err := h.Service.ListCrews(r.Context(), o)
	if err != nil {
		h.fail(w, "ListCrews", err)
		return
	}
	body := make([]presenters.CrewBody, 0, len(crews))
	for _, c := range crews {
		body = append(body, presenters.Crew(c))
	}
	utils.WriteJSON(w, http.StatusOK, body)
}

func (h *Handler) GetCrew(w http.ResponseWriter, r *http.Request) {
	id, err := utils.URLID(r, "id")
	if err != nil {
		h.fail(w, "GetCrew", err)
		return
	}
	c, err := h.Service.GetCrew(r.Context(), id)
	if err != nil {
		h.fail(w, "GetCrew", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, presenters.Crew(*c))
}

func (h *Handler) CreateCrew(w http.ResponseWriter, r *http.Request) {
	var p models.CrewPayload
	if err := utils.DecodeAndValidate(r, &p); err != nil {
		h.fail(w, "CreateCrew", err)
		return
	}
	c, err := h.Service.CreateCrew(r.Context(), p)
	if err != nil {
		h.fail(w, "CreateCrew", err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, presenters.Crew(*c))
}

func (h *Handler) UpdateCrew(w http.ResponseWriter, r *http.Request) {
	id, err := utils.URLID(r, "id")
	if err != nil {
		h.fail(w, "UpdateCrew", err)
		return
	}
	var p models.CrewPayload
	if err := utils.DecodeAndValidate(r, &p); err != nil {
		h.fail(w, "UpdateCrew", err)
		return
	}
	c, err := h.Service.UpdateCrew(r.Context(), id, p)
	if err != nil {
		h.fail(w, "UpdateCrew", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, presenters.Crew(*c))
}

func (h *Handler) DeleteCrew(w http.ResponseWriter, r *http.Request) {
	h.delete(w, r, "DeleteCrew", h.Service.DeleteCrew)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request, op string, del func(ctx context.Context, id int64) error) {
	id, err := utils.URLID(r, "id")
	if err != nil {
		h.fail(w, op, err)
		return
	}
	if err := del(r.Context(), id); err != nil {
		h.fail(w, op, err)
		return
	}
	h.Logger.Info("API", fmt.Sprintf("%s: id=%d removed", op, id))
	w.WriteHeader(http.StatusNoContent)
}
