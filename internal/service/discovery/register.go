package discovery

import (
	"github.com/gin-gonic/gin"

	"github.com/kindredapp/kindred/internal/app"
)

// Registrar ties the discovery service into the HTTP server
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the discovery service
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register attaches the discovery routes to the authenticated API group
func (r *Registrar) Register(rg *gin.RouterGroup) {
	service := NewService(r.appCtx)

	rg.GET("/feed", service.handleFeed)
	rg.POST("/boost", service.handleActivateBoost)
	rg.GET("/boost", service.handleBoostStatus)
}
