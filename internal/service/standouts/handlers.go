package standouts

import (
	"net/http"

	"github.com/gin-gonic/gin"

	svcErr "github.com/kindredapp/kindred/internal/errors"
	"github.com/kindredapp/kindred/internal/middleware"
)

type markRequest struct {
	StandoutID uint64 `json:"standoutId"`
	Viewed     *bool  `json:"viewed"`
	Liked      *bool  `json:"liked"`
}

// handleGetStandouts returns (or first generates) today's standouts.
// GET /standouts
func (s *Service) handleGetStandouts(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	views, err := s.GetOrGenerate(c.Request.Context(), userID, s.now())
	if err != nil {
		svcErr.WriteHTTP(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"standouts": views})
}

// handleMarkStandout updates viewed/liked flags on a selection item.
// PATCH /standouts
func (s *Service) handleMarkStandout(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	var req markRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.StandoutID == 0 {
		svcErr.WriteHTTP(c, svcErr.InvalidArgument("standoutId is required"))
		return
	}

	row, err := s.Mark(c.Request.Context(), userID, req.StandoutID, req.Viewed, req.Liked)
	if err != nil {
		svcErr.WriteHTTP(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"standout": row})
}
