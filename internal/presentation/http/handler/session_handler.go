package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/kedaikopi/pos-api/internal/application/service"
	"github.com/kedaikopi/pos-api/internal/presentation/http/dto/request"
	"github.com/kedaikopi/pos-api/internal/presentation/http/dto/response"
	"github.com/kedaikopi/pos-api/pkg/pagination"
)

// SessionHandler handles cashier shift HTTP requests
type SessionHandler struct {
	sessionService  *service.SessionService
	settingsService *service.SettingsService
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessionService *service.SessionService, settingsService *service.SettingsService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService, settingsService: settingsService}
}

// Open starts a shift with the declared starting cash
func (h *SessionHandler) Open(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.OpenSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	session, err := h.sessionService.Open(c.Request.Context(), *userID, req.StartingCash, req.Notes)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Session opened", session)
}

// Current returns the caller's open session
func (h *SessionHandler) Current(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	session, err := h.sessionService.Current(c.Request.Context(), *userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Session retrieved successfully", session)
}

// ClosingPreview returns the open session together with its expected
// closing figures. Under blind close the figures are withheld so the
// cashier counts the drawer without knowing the target.
func (h *SessionHandler) ClosingPreview(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	session, figures, err := h.sessionService.ClosingPreview(c.Request.Context(), *userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	settings, err := h.settingsService.GetSettings(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	payload := gin.H{"session": session, "blind_close": settings.RequireBlindClose}
	if !settings.RequireBlindClose {
		payload["figures"] = figures
	}

	response.OK(c, "Closing preview computed", payload)
}

// Close ends the shift with the counted drawer amount
func (h *SessionHandler) Close(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.CloseSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	session, err := h.sessionService.Close(c.Request.Context(), *userID, req.ActualCash, req.Notes)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Session closed", session)
}

// Get returns a single session by ID
func (h *SessionHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid session ID")
		return
	}

	session, err := h.sessionService.GetSession(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Session retrieved successfully", session)
}

// List returns sessions, optionally filtered to one cashier. Managers
// see every cashier's sessions; cashiers only their own.
func (h *SessionHandler) List(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "15"))
	params := &pagination.PaginationParams{Page: page, PerPage: perPage}

	filterUser := *userID
	if IsManager(c) {
		filterUser = uuid.Nil
		if userIDStr := c.Query("user_id"); userIDStr != "" {
			if id, err := uuid.Parse(userIDStr); err == nil {
				filterUser = id
			}
		}
	}

	result, err := h.sessionService.ListSessions(c.Request.Context(), filterUser, params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Sessions retrieved successfully", result)
}
