package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/HughSean/MiniProgram-Backend/internal/domain"
	"github.com/HughSean/MiniProgram-Backend/internal/service"
)

type CourtHandler struct {
	svc *service.CourtSvc
}

func NewCourtHandler(svc *service.CourtSvc) *CourtHandler {
	return &CourtHandler{svc: svc}
}

type courtBody struct {
	CourtID      string  `json:"court_id"`
	Name         string  `json:"court_name" binding:"required"`
	Location     string  `json:"location"`
	Label        string  `json:"label"`
	PricePerHour float64 `json:"price_per_hour"`
	OpenTime     string  `json:"open_time" binding:"required"`
	CloseTime    string  `json:"close_time" binding:"required"`
}

func (b courtBody) toDomain() domain.Court {
	return domain.Court{
		ID:           b.CourtID,
		Name:         b.Name,
		Location:     b.Location,
		Label:        b.Label,
		PricePerHour: b.PricePerHour,
		OpenTime:     b.OpenTime,
		CloseTime:    b.CloseTime,
	}
}

// POST /court/add (OWNER/ADMIN)
func (h *CourtHandler) Add(c *gin.Context) {
	var in courtBody
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err.Error())
		return
	}
	court, err := h.svc.Add(c.Request.Context(), userID(c), in.toDomain())
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusCreated, "court added", court)
}

// POST /court/update (OWNER/ADMIN)
func (h *CourtHandler) Update(c *gin.Context) {
	var in courtBody
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err.Error())
		return
	}
	court, err := h.svc.Update(c.Request.Context(), userID(c), in.toDomain())
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, "court updated", court)
}

// DELETE /court/del (OWNER/ADMIN)
func (h *CourtHandler) Del(c *gin.Context) {
	var in struct {
		CourtID string `json:"court_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err.Error())
		return
	}
	if err := h.svc.Delete(c.Request.Context(), userID(c), in.CourtID); err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, "court deleted", nil)
}

// GET /court/all (OWNER/ADMIN), the caller's own courts
func (h *CourtHandler) Mine(c *gin.Context) {
	courts, err := h.svc.ListMine(c.Request.Context(), userID(c))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, "query succeeded", courts)
}

// GET /courts, public browse
func (h *CourtHandler) ListAll(c *gin.Context) {
	courts, err := h.svc.ListAll(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, "query succeeded", courts)
}

// GET /court/orders?court_id=... (OWNER/ADMIN)
func (h *CourtHandler) Orders(c *gin.Context) {
	courtID := c.Query("court_id")
	if courtID == "" {
		badRequest(c, "court_id is required")
		return
	}
	views, err := h.svc.OrdersOfCourt(c.Request.Context(), userID(c), courtID)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, "query succeeded", views)
}
