package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/kedaikopi/pos-api/internal/application/service"
	"github.com/kedaikopi/pos-api/internal/domain/enum"
	"github.com/kedaikopi/pos-api/internal/presentation/http/dto/request"
	"github.com/kedaikopi/pos-api/internal/presentation/http/dto/response"
)

// CartHandler handles live cart and held-order HTTP requests
type CartHandler struct {
	cartService *service.CartService
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cartService *service.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

// Get returns the current cart with totals
func (h *CartHandler) Get(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	view, err := h.cartService.GetCart(c.Request.Context(), *userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Cart retrieved successfully", view)
}

// AddProduct adds a catalog product to the cart
func (h *CartHandler) AddProduct(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.AddProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	view, err := h.cartService.AddProduct(c.Request.Context(), *userID, req.ProductID, req.AddonIDs, req.Quantity)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Product added to cart", view)
}

// AddManualItem adds a free-form priced line to the cart
func (h *CartHandler) AddManualItem(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.AddManualItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	view, err := h.cartService.AddManualItem(c.Request.Context(), *userID, req.Name, req.Price, req.Quantity)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Item added to cart", view)
}

// SetQuantity updates a line's quantity; zero removes the line
func (h *CartHandler) SetQuantity(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	lineID, err := uuid.Parse(c.Param("lineId"))
	if err != nil {
		response.BadRequest(c, "Invalid line ID")
		return
	}

	var req request.SetQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	view, err := h.cartService.SetQuantity(c.Request.Context(), *userID, lineID, req.Quantity)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Quantity updated", view)
}

// RemoveLine deletes a line from the cart
func (h *CartHandler) RemoveLine(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	lineID, err := uuid.Parse(c.Param("lineId"))
	if err != nil {
		response.BadRequest(c, "Invalid line ID")
		return
	}

	view, err := h.cartService.RemoveLine(c.Request.Context(), *userID, lineID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Line removed", view)
}

// Clear empties the cart
func (h *CartHandler) Clear(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	view, err := h.cartService.Clear(c.Request.Context(), *userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Cart cleared", view)
}

// SetOrderInfo attaches table and customer details to the cart
func (h *CartHandler) SetOrderInfo(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.OrderInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	view, err := h.cartService.SetOrderInfo(c.Request.Context(), *userID, req.TableNo, req.CustomerName, req.WaiterName)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Order info updated", view)
}

// ApplyDiscount sets the cart discount
func (h *CartHandler) ApplyDiscount(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.DiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	discountType, ok := enum.ParseDiscountType(req.Type)
	if !ok {
		response.BadRequest(c, "Unknown discount type")
		return
	}

	view, err := h.cartService.ApplyDiscount(c.Request.Context(), *userID, discountType, req.Value, req.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Discount applied", view)
}

// RemoveDiscount clears the cart discount
func (h *CartHandler) RemoveDiscount(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	view, err := h.cartService.RemoveDiscount(c.Request.Context(), *userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Discount removed", view)
}

// Hold suspends the current cart onto the held-order queue
func (h *CartHandler) Hold(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	order, err := h.cartService.Hold(c.Request.Context(), *userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Order held", order)
}

// ListHeld returns held orders, newest first
func (h *CartHandler) ListHeld(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	response.OK(c, "Held orders retrieved successfully", h.cartService.ListHeld(*userID))
}

// Restore moves a held order back into the cart
func (h *CartHandler) Restore(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid held order ID")
		return
	}

	view, err := h.cartService.Restore(c.Request.Context(), *userID, orderID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Order restored", view)
}

// DeleteHeld discards a held order
func (h *CartHandler) DeleteHeld(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid held order ID")
		return
	}

	if err := h.cartService.DeleteHeld(*userID, orderID); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Held order deleted", nil)
}

// PreviewSplit prices a split selection without committing it
func (h *CartHandler) PreviewSplit(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.SplitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.cartService.PreviewSplit(*userID, req.Selections)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Split preview computed", result)
}
