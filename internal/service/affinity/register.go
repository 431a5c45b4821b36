package affinity

import (
	"github.com/gin-gonic/gin"

	"github.com/kindredapp/kindred/internal/app"
)

// Registrar ties the affinity service into the HTTP server
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the affinity service
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register attaches the affinity routes to the authenticated API group
func (r *Registrar) Register(rg *gin.RouterGroup) {
	service := NewService(r.appCtx)

	rg.POST("/likes/:userId", service.handleLike)
	rg.GET("/likes/received", service.handleLikedYou)
	rg.GET("/likes/received/new", service.handleNewLikedYou)
	rg.GET("/likes/count", service.handleLikedYouCount)
	rg.POST("/superlikes/:userId", service.handleSuperLike)
	rg.GET("/superlikes", service.handleSuperLikesReceived)
	rg.POST("/compliments", service.handleCompliment)
	rg.GET("/compliments", service.handleComplimentsReceived)
}
