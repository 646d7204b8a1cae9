package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"staywise/internal/bookings/service"
	httputil "staywise/pkg/http"
	"staywise/pkg/logger"
	"staywise/pkg/middleware"
	"staywise/pkg/model"
	"staywise/pkg/token"
)

type BookingHandler struct {
	service service.BookingService
	codec   *token.Codec
	log     *logger.Logger
}

func NewBookingHandler(service service.BookingService, codec *token.Codec, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		codec:   codec,
		log:     log,
	}
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		h.writeUnauthorized(w, "Create")
		return
	}

	var req model.BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Create", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	booking, err := h.service.Create(r.Context(), claims.UserID(), claims.Email, &req)
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

func (h *BookingHandler) GetMine(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
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

func (h *BookingHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	bookings, err := h.service.ListAll(r.Context())
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetAll", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, bookings); err != nil {
		h.log.Error("failed to write success response", "handler", "GetAll", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) GetForOwner(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		h.writeUnauthorized(w, "GetForOwner")
		return
	}

	bookings, err := h.service.ListForOwner(r.Context(), claims.UserID())
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetForOwner", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, bookings); err != nil {
		h.log.Error("failed to write success response", "handler", "GetForOwner", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
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

func (h *BookingHandler) writeUnauthorized(w http.ResponseWriter, handler string) {
	if err := httputil.WriteJSON(w, http.StatusUnauthorized, httputil.ErrorResponse{
		Error: "Unauthorized",
	}); err != nil {
		h.log.Error("failed to write JSON response", "handler", handler, "operation", "WriteJSON", "error", err)
	}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	authed := middleware.Authenticate(h.codec, h.log)
	adminOnly := middleware.RequireRole(model.RoleAdmin, h.log)

	router.POST("/api/v1/bookings", authed(h.Create))
	router.GET("/api/v1/bookings/mine", authed(h.GetMine))
	router.GET("/api/v1/bookings/all", authed(adminOnly(h.GetAll)))
	router.GET("/api/v1/bookings/owner", authed(adminOnly(h.GetForOwner)))
	router.PATCH("/api/v1/bookings/id/:id/cancel", authed(h.Cancel))
}
