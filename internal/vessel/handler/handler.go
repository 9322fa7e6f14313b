package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"vesselregistry/internal/vessel/models"
	"vesselregistry/internal/vessel/service"
	dErrors "vesselregistry/pkg/domain-errors"
	"vesselregistry/pkg/platform/httputil"
	"vesselregistry/pkg/requestcontext"
)

// Handler wires vessel registry endpoints to the service.
type Handler struct {
	service *service.Service
	logger  *slog.Logger
}

// New constructs a vessel handler with its dependencies.
func New(svc *service.Service, logger *slog.Logger) *Handler {
	return &Handler{service: svc, logger: logger}
}

// Register mounts vessel endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/api/vessels", func(r chi.Router) {
		r.Get("/", h.HandleList)
		r.Post("/", h.HandleCreate)
		r.Get("/search", h.HandleSearchByName)
		r.Get("/built", h.HandleByYearBuilt)
		r.Get("/tonnage", h.HandleByTonnage)
		r.Get("/imo/{imoNumber}", h.HandleGetByIMO)
		r.Get("/type/{type}", h.HandleByType)
		r.Get("/status/{status}", h.HandleByStatus)
		r.Get("/flag/{flagState}", h.HandleByFlagState)
		r.Get("/flag/{flagState}/status/{status}", h.HandleByFlagStateAndStatus)
		r.Get("/statistics/count-by-type/{type}", h.HandleCountByType)
		r.Get("/{id}", h.HandleGetByID)
		r.Put("/{id}", h.HandleUpdate)
		r.Delete("/{id}", h.HandleDelete)
		r.Patch("/{id}/status", h.HandleUpdateStatus)
	})
}

// HandleList handles GET /api/vessels with page/size/sortBy/sortDir query params.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	params := models.ListParams{SortBy: r.URL.Query().Get("sortBy")}
	if dir := r.URL.Query().Get("sortDir"); dir != "" {
		params.SortDir = models.SortDir(dir)
	}
	var err error
	if params.Page, err = queryInt(r, "page", 0); err != nil {
		httputil.WriteError(w, err)
		return
	}
	if params.Size, err = queryInt(r, "size", 0); err != nil {
		httputil.WriteError(w, err)
		return
	}

	page, err := h.service.List(ctx, params)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromPage(page))
}

// HandleGetByID handles GET /api/vessels/{id}.
func (h *Handler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	v, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromVessel(v))
}

// HandleGetByIMO handles GET /api/vessels/imo/{imoNumber}.
func (h *Handler) HandleGetByIMO(w http.ResponseWriter, r *http.Request) {
	v, err := h.service.GetByIMONumber(r.Context(), chi.URLParam(r, "imoNumber"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromVessel(v))
}

// HandleCreate handles POST /api/vessels.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[VesselRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	created, err := h.service.Create(ctx, req.Vessel())
	if err != nil {
		h.logger.WarnContext(ctx, "vessel registration rejected",
			"request_id", requestID,
			"imo_number", req.IMONumber,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "vessel registered via API",
		"request_id", requestID,
		"vessel_id", created.ID,
		"imo_number", created.IMONumber,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusCreated, FromVessel(created))
}

// HandleUpdate handles PUT /api/vessels/{id}. The body is a full replacement.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	id, ok := pathID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[VesselRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	updated, err := h.service.Update(ctx, id, req.Vessel())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromVessel(updated))
}

// HandleUpdateStatus handles PATCH /api/vessels/{id}/status.
func (h *Handler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	id, ok := pathID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[StatusUpdateRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	updated, err := h.service.UpdateStatus(ctx, id, req.ParsedStatus())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromVessel(updated))
}

// HandleDelete handles DELETE /api/vessels/{id}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleSearchByName handles GET /api/vessels/search?name=.
func (h *Handler) HandleSearchByName(w http.ResponseWriter, r *http.Request) {
	vessels, err := h.service.SearchByName(r.Context(), r.URL.Query().Get("name"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromVessels(vessels))
}

// HandleByType handles GET /api/vessels/type/{type}.
func (h *Handler) HandleByType(w http.ResponseWriter, r *http.Request) {
	t, err := models.ParseVesselType(chi.URLParam(r, "type"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	vessels, err := h.service.FindByType(r.Context(), t)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromVessels(vessels))
}

// HandleByStatus handles GET /api/vessels/status/{status}.
func (h *Handler) HandleByStatus(w http.ResponseWriter, r *http.Request) {
	status, err := models.ParseVesselStatus(chi.URLParam(r, "status"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	vessels, err := h.service.FindByStatus(r.Context(), status)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromVessels(vessels))
}

// HandleByFlagState handles GET /api/vessels/flag/{flagState}.
func (h *Handler) HandleByFlagState(w http.ResponseWriter, r *http.Request) {
	vessels, err := h.service.FindByFlagState(r.Context(), chi.URLParam(r, "flagState"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromVessels(vessels))
}

// HandleByFlagStateAndStatus handles GET /api/vessels/flag/{flagState}/status/{status}.
func (h *Handler) HandleByFlagStateAndStatus(w http.ResponseWriter, r *http.Request) {
	status, err := models.ParseVesselStatus(chi.URLParam(r, "status"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	vessels, err := h.service.FindByFlagStateAndStatus(r.Context(), chi.URLParam(r, "flagState"), status)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromVessels(vessels))
}

// HandleByYearBuilt handles GET /api/vessels/built?from=&to= (inclusive range).
func (h *Handler) HandleByYearBuilt(w http.ResponseWriter, r *http.Request) {
	from, err := queryRequiredInt(r, "from")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	to, err := queryRequiredInt(r, "to")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	vessels, err := h.service.FindByYearBuiltBetween(r.Context(), from, to)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromVessels(vessels))
}

// HandleByTonnage handles GET /api/vessels/tonnage?min= (strict threshold).
func (h *Handler) HandleByTonnage(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("min")
	if raw == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "min query parameter is required"))
		return
	}
	min, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "min must be a number"))
		return
	}
	vessels, err := h.service.FindByGrossTonnageGreaterThan(r.Context(), min)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromVessels(vessels))
}

// HandleCountByType handles GET /api/vessels/statistics/count-by-type/{type}.
func (h *Handler) HandleCountByType(w http.ResponseWriter, r *http.Request) {
	t, err := models.ParseVesselType(chi.URLParam(r, "type"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	count, err := h.service.CountByType(r.Context(), t)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, CountResponse{Type: string(t), Count: count})
}

func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "vessel id must be a valid UUID"))
		return uuid.Nil, false
	}
	return id, true
}

func queryInt(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, dErrors.Newf(dErrors.CodeValidation, "%s must be an integer", name)
	}
	return n, nil
}

func queryRequiredInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, dErrors.Newf(dErrors.CodeValidation, "%s query parameter is required", name)
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, dErrors.Newf(dErrors.CodeValidation, "%s must be an integer", name)
	}
	return n, nil
}
