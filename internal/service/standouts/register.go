package standouts

import (
	"github.com/gin-gonic/gin"

	"github.com/kindredapp/kindred/internal/app"
	"github.com/kindredapp/kindred/internal/service/affinity"
)

// Registrar ties the standouts service into the HTTP server
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the standouts service
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register attaches the standouts routes to the authenticated API group
func (r *Registrar) Register(rg *gin.RouterGroup) {
	service := NewService(r.appCtx, affinity.NewService(r.appCtx))

	rg.GET("/standouts", service.handleGetStandouts)
	rg.PATCH("/standouts", service.handleMarkStandout)
}
