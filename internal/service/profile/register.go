package profile

import (
	"github.com/gin-gonic/gin"

	"github.com/kindredapp/kindred/internal/app"
)

// Registrar ties the profile service into the HTTP server
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the profile service
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register attaches the profile routes to the authenticated API group
func (r *Registrar) Register(rg *gin.RouterGroup) {
	service := NewService(r.appCtx)

	rg.GET("/profile", service.handleGet)
	rg.PUT("/profile", service.handleUpdate)
	rg.GET("/profiles/:userId", service.handleGetPublic)
	rg.POST("/blocks/:userId", service.handleBlock)
	rg.DELETE("/blocks/:userId", service.handleUnblock)
}
