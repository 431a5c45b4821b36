package match

import (
	"github.com/gin-gonic/gin"

	"github.com/kindredapp/kindred/internal/app"
)

// Registrar ties the match service into the HTTP server
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the match service
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register attaches the match routes to the authenticated API group
func (r *Registrar) Register(rg *gin.RouterGroup) {
	service := NewService(r.appCtx)

	rg.GET("/matches", service.handleList)
	rg.GET("/matches/:matchId", service.handleGet)
	rg.GET("/matches/:matchId/timer", service.handleTimer)
	rg.POST("/matches/:matchId/timer", service.handleExtend)
	rg.PUT("/matches/:matchId/timer", service.handleRematch)
	rg.GET("/matches/:matchId/messages", service.handleMessages)
	rg.POST("/matches/:matchId/messages", service.handleSendMessage)
}
