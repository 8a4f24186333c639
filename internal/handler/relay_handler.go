package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"walletbridge/relay/internal/model"
	"walletbridge/relay/internal/service"
	"walletbridge/relay/pkg/response"
)

type RelayHandler struct {
	relay service.RelayService
}

func NewRelayHandler(relay service.RelayService) *RelayHandler {
	return &RelayHandler{relay: relay}
}

type RequestCreatedResponse struct {
	RequestID uuid.UUID `json:"request_id"`
}

type StatusResponse struct {
	Status model.Status `json:"status"`
}

// CreateRequest handles POST /request.
func (h *RelayHandler) CreateRequest(c *gin.Context) {
	var payload model.Payload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.BadRequest(c, "invalid payload: "+err.Error())
		return
	}

	id, err := h.relay.CreateRequest(c.Request.Context(), payload)
	if err != nil {
		response.InternalError(c, "create request failed")
		return
	}
	c.JSON(http.StatusCreated, RequestCreatedResponse{RequestID: id})
}

// HasRequest handles HEAD /request/:request_id.
func (h *RelayHandler) HasRequest(c *gin.Context) {
	id, err := uuid.Parse(c.Param("request_id"))
	if err != nil {
		c.Status(http.StatusNotFound)
		return
	}

	exists, err := h.relay.HasRequest(c.Request.Context(), id)
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	if !exists {
		c.Status(http.StatusNotFound)
		return
	}
	c.Status(http.StatusOK)
}

// ClaimRequest handles GET /request/:request_id. The stored payload is
// echoed verbatim and consumed; at most one caller ever receives it.
func (h *RelayHandler) ClaimRequest(c *gin.Context) {
	id, err := uuid.Parse(c.Param("request_id"))
	if err != nil {
		// A malformed id is indistinguishable from an unknown one.
		response.NotFound(c, "request not found")
		return
	}

	body, err := h.relay.ClaimRequest(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			response.NotFound(c, "request not found")
			return
		}
		response.InternalError(c, "claim request failed")
		return
	}
	c.Data(http.StatusOK, "application/json", body)
}

// PutRequest handles PUT /request/:request_id, the retry-safe creation
// path with a caller-supplied id. Mounted only when enabled.
func (h *RelayHandler) PutRequest(c *gin.Context) {
	id, err := uuid.Parse(c.Param("request_id"))
	if err != nil {
		response.BadRequest(c, "invalid request id")
		return
	}

	var payload model.Payload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.BadRequest(c, "invalid payload: "+err.Error())
		return
	}

	created, err := h.relay.PutRequest(c.Request.Context(), id, payload)
	if err != nil {
		if errors.Is(err, service.ErrIdempotentDisabled) {
			response.NotFound(c, "not found")
			return
		}
		response.InternalError(c, "put request failed")
		return
	}
	if created {
		c.Status(http.StatusCreated)
		return
	}
	c.Status(http.StatusOK)
}

// SubmitResponse handles PUT /response/:request_id.
func (h *RelayHandler) SubmitResponse(c *gin.Context) {
	id, err := uuid.Parse(c.Param("request_id"))
	if err != nil {
		response.BadRequest(c, "invalid request id")
		return
	}

	var payload model.Payload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.BadRequest(c, "invalid payload: "+err.Error())
		return
	}

	if err := h.relay.SubmitResponse(c.Request.Context(), id, payload); err != nil {
		switch {
		case errors.Is(err, service.ErrNotInitialized):
			response.BadRequest(c, err.Error())
		case errors.Is(err, service.ErrAlreadySubmitted):
			response.Conflict(c, err.Error())
		default:
			response.InternalError(c, "submit response failed")
		}
		return
	}
	c.Status(http.StatusCreated)
}

// FetchResponse handles GET /response/:request_id. A stored response is
// consumed and echoed verbatim; otherwise the pairing's status is
// reported.
func (h *RelayHandler) FetchResponse(c *gin.Context) {
	id, err := uuid.Parse(c.Param("request_id"))
	if err != nil {
		response.NotFound(c, "pairing not found")
		return
	}

	body, status, err := h.relay.FetchResponse(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			response.NotFound(c, "pairing not found")
			return
		}
		response.InternalError(c, "fetch response failed")
		return
	}
	if body != nil {
		c.Data(http.StatusOK, "application/json", body)
		return
	}
	c.JSON(http.StatusOK, StatusResponse{Status: status})
}
