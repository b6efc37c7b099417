package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/HughSean/MiniProgram-Backend/internal/service"
)

type OrderHandler struct {
	svc *service.ReservationSvc
}

func NewOrderHandler(svc *service.ReservationSvc) *OrderHandler {
	return &OrderHandler{svc: svc}
}

// POST /order/submit
func (h *OrderHandler) Submit(c *gin.Context) {
	var in struct {
		CourtID string    `json:"court_id" binding:"required"`
		Start   time.Time `json:"apt_start" binding:"required"`
		End     time.Time `json:"apt_end" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err.Error())
		return
	}
	view, err := h.svc.Submit(c.Request.Context(), userID(c), in.CourtID, in.Start, in.End)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusCreated, "booked", view)
}

// GET /order/all
func (h *OrderHandler) All(c *gin.Context) {
	views, err := h.svc.List(c.Request.Context(), userID(c))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, "query succeeded", views)
}

// DELETE /order/del
func (h *OrderHandler) Del(c *gin.Context) {
	var in struct {
		OrderID string `json:"order_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err.Error())
		return
	}
	if err := h.svc.Cancel(c.Request.Context(), userID(c), in.OrderID); err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, "order cancelled", nil)
}

// POST /order/update
func (h *OrderHandler) Update(c *gin.Context) {
	var in struct {
		OrderID string    `json:"order_id" binding:"required"`
		Start   time.Time `json:"apt_start" binding:"required"`
		End     time.Time `json:"apt_end" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err.Error())
		return
	}
	view, err := h.svc.Update(c.Request.Context(), userID(c), in.OrderID, in.Start, in.End)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, "order updated", view)
}
