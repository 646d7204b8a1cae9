package hotels

import (
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"

	httputil "staywise/pkg/http"
	"staywise/pkg/logger"
)

const defaultAdults = 2

type Handler struct {
	client *SearchClient
	log    *logger.Logger
}

func NewHandler(client *SearchClient, log *logger.Logger) *Handler {
	return &Handler{
		client: client,
		log:    log,
	}
}

func (h *Handler) Search(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()

	params := SearchParams{
		Location: query.Get("location"),
		CheckIn:  query.Get("checkIn"),
		CheckOut: query.Get("checkOut"),
		Adults:   defaultAdults,
	}

	if params.Location == "" || params.CheckIn == "" || params.CheckOut == "" {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "'location', 'checkIn' and 'checkOut' query parameters are required",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Search", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if adultsStr := query.Get("adults"); adultsStr != "" {
		adults, err := strconv.Atoi(adultsStr)
		if err != nil || adults < 1 {
			if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
				Error: "'adults' must be a positive number",
			}); writeErr != nil {
				h.log.Error("failed to write JSON response", "handler", "Search", "operation", "WriteJSON", "error", writeErr)
			}
			return
		}
		params.Adults = adults
	}

	body, err := h.client.Search(r.Context(), params)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Search", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	// The provider payload goes through verbatim, no envelope.
	if err := httputil.WriteRaw(w, http.StatusOK, body); err != nil {
		h.log.Error("failed to write raw response", "handler", "Search", "operation", "WriteRaw", "error", err)
	}
}

func (h *Handler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/hotels", h.Search)
}
