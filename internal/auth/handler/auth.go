package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"staywise/internal/auth/service"
	httputil "staywise/pkg/http"
	"staywise/pkg/logger"
	"staywise/pkg/model"
)

type AuthHandler struct {
	service service.AuthService
	log     *logger.Logger
}

func NewAuthHandler(service service.AuthService, log *logger.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		log:     log,
	}
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	h.authenticate(w, r, "Signup", h.service.Signup, http.StatusCreated)
}

func (h *AuthHandler) AdminSignup(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	h.authenticate(w, r, "AdminSignup", h.service.AdminSignup, http.StatusCreated)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	h.authenticate(w, r, "Login", h.service.Login, http.StatusOK)
}

func (h *AuthHandler) authenticate(
	w http.ResponseWriter,
	r *http.Request,
	name string,
	fn func(ctx context.Context, creds *model.Credentials) (*service.AuthResult, error),
	successStatus int,
) {
	var creds model.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", name, "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	result, err := fn(r.Context(), &creds)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", name, "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteJSON(w, successStatus, httputil.SuccessResponse{Data: result}); err != nil {
		h.log.Error("failed to write success response", "handler", name, "operation", "WriteJSON", "error", err)
	}
}

func (h *AuthHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/auth/signup", h.Signup)
	router.POST("/api/v1/auth/login", h.Login)
	router.POST("/api/v1/auth/admin/signup", h.AdminSignup)
}
