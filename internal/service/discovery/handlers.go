package discovery

import (
	"net/http"

	"github.com/gin-gonic/gin"

	svcErr "github.com/kindredapp/kindred/internal/errors"
	"github.com/kindredapp/kindred/internal/middleware"
)

// handleFeed returns swipe-feed candidates for the caller.
// GET /feed
func (s *Service) handleFeed(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	profiles, err := s.Feed(c.Request.Context(), userID)
	if err != nil {
		svcErr.WriteHTTP(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profiles": profiles})
}

// handleActivateBoost starts a boost.
// POST /boost
func (s *Service) handleActivateBoost(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	boost, err := s.ActivateBoost(c.Request.Context(), userID)
	if err != nil {
		svcErr.WriteHTTP(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"boost": boost})
}

// handleBoostStatus reports the active boost, if any.
// GET /boost
func (s *Service) handleBoostStatus(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	boost, err := s.BoostStatus(c.Request.Context(), userID)
	if err != nil {
		svcErr.WriteHTTP(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"boost": boost, "isActive": boost != nil})
}
