package http

import (
	"github.com/gin-gonic/gin"

	"github.com/HughSean/MiniProgram-Backend/internal/domain"
	"github.com/HughSean/MiniProgram-Backend/internal/service"
)

// NewRouter mounts the full API surface. Court management needs an OWNER or
// ADMIN token; order routes need any authenticated user.
func NewRouter(auth *service.AuthSvc, courts *service.CourtSvc, orders *service.ReservationSvc) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	ah := NewAuthHandler(auth)
	r.POST("/register", ah.Register)
	r.POST("/login", ah.Login)
	r.POST("/refresh", ah.Refresh)

	ch := NewCourtHandler(courts)
	r.GET("/courts", ch.ListAll)

	owner := r.Group("/court")
	owner.Use(JWTAuth(), RequireRole(string(domain.RoleOwner), string(domain.RoleAdmin)))
	{
		owner.POST("/add", ch.Add)
		owner.POST("/update", ch.Update)
		owner.DELETE("/del", ch.Del)
		owner.GET("/all", ch.Mine)
		owner.GET("/orders", ch.Orders)
	}

	oh := NewOrderHandler(orders)
	user := r.Group("/order")
	user.Use(JWTAuth())
	{
		user.POST("/submit", oh.Submit)
		user.GET("/all", oh.All)
		user.DELETE("/del", oh.Del)
		user.POST("/update", oh.Update)
	}

	return r
}
