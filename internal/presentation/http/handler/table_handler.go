package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kedaikopi/pos-api/internal/application/service"
	"github.com/kedaikopi/pos-api/internal/presentation/http/dto/request"
	"github.com/kedaikopi/pos-api/internal/presentation/http/dto/response"
)

// TableHandler handles dining table HTTP requests
type TableHandler struct {
	tableService *service.TableService
}

// NewTableHandler creates a new table handler
func NewTableHandler(tableService *service.TableService) *TableHandler {
	return &TableHandler{tableService: tableService}
}

// List returns the floor plan with live occupancy
func (h *TableHandler) List(c *gin.Context) {
	tables, err := h.tableService.ListTables(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Tables retrieved successfully", tables)
}

// Get returns one table with its active sale, if any
func (h *TableHandler) Get(c *gin.Context) {
	tableNo, err := strconv.Atoi(c.Param("tableNo"))
	if err != nil {
		response.BadRequest(c, "Invalid table number")
		return
	}

	table, err := h.tableService.GetTable(c.Request.Context(), tableNo)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Table retrieved successfully", table)
}

// Create adds a table to the floor plan
func (h *TableHandler) Create(c *gin.Context) {
	var req request.CreateTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	table, err := h.tableService.CreateTable(c.Request.Context(), req.TableNo, req.Seats)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Table created successfully", table)
}

// Clear frees a table that has no active sale
func (h *TableHandler) Clear(c *gin.Context) {
	tableNo, err := strconv.Atoi(c.Param("tableNo"))
	if err != nil {
		response.BadRequest(c, "Invalid table number")
		return
	}

	if err := h.tableService.ClearTable(c.Request.Context(), tableNo); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Table cleared", nil)
}
