package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"staywise/internal/externalbookings/service"
	httputil "staywise/pkg/http"
	"staywise/pkg/logger"
	"staywise/pkg/middleware"
	"staywise/pkg/model"
	"staywise/pkg/token"
)

type ExternalBookingHandler struct {
	service service.ExternalBookingService
	codec   *token.Codec
	log     *logger.Logger
}

func NewExternalBookingHandler(service service.ExternalBookingService, codec *token.Codec, log *logger.Logger) *ExternalBookingHandler {
	return &ExternalBookingHandler{
		service: service,
		codec:   codec,
		log:     log,
	}
}

func (h *ExternalBookingHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		h.writeUnauthorized(w, "Create")
		return
	}

	var req model.ExternalBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Create", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	booking, err := h.service.Create(r.Context(), claims.UserID(), &req)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, booking); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *ExternalBookingHandler) GetMine(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		h.writeUnauthorized(w, "GetMine")
		return
	}

	bookings, err := h.service.ListMine(r.Context(), claims.UserID())
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetMine", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, bookings); err != nil {
		h.log.Error("failed to write success response", "handler", "GetMine", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ExternalBookingHandler) GetForAdmin(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		h.writeUnauthorized(w, "GetForAdmin")
		return
	}

	bookings, err := h.service.ListForAdmin(r.Context(), claims.UserID())
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetForAdmin", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, bookings); err != nil {
		h.log.Error("failed to write success response", "handler", "GetForAdmin", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ExternalBookingHandler) Cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		h.writeUnauthorized(w, "Cancel")
		return
	}

	booking, err := h.service.Cancel(r.Context(), claims.UserID(), ps.ByName("id"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Cancel", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "Cancel", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ExternalBookingHandler) writeUnauthorized(w http.ResponseWriter, handler string) {
	if err := httputil.WriteJSON(w, http.StatusUnauthorized, httputil.ErrorResponse{
		Error: "Unauthorized",
	}); err != nil {
		h.log.Error("failed to write JSON response", "handler", handler, "operation", "WriteJSON", "error", err)
	}
}

func (h *ExternalBookingHandler) RegisterRoutes(router *httprouter.Router) {
	authed := middleware.Authenticate(h.codec, h.log)
	adminOnly := middleware.RequireRole(model.RoleAdmin, h.log)

	router.POST("/api/v1/external-bookings", authed(h.Create))
	router.GET("/api/v1/external-bookings/mine", authed(h.GetMine))
	router.GET("/api/v1/external-bookings/admin", authed(adminOnly(h.GetForAdmin)))
	router.PATCH("/api/v1/external-bookings/id/:id/cancel", authed(h.Cancel))
}
