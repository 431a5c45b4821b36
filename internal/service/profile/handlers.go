package profile

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	svcErr "github.com/kindredapp/kindred/internal/errors"
	"github.com/kindredapp/kindred/internal/middleware"
)

type updateRequest struct {
	DisplayName *string       `json:"displayName"`
	Bio         *string       `json:"bio"`
	Interests   *[]string     `json:"interests"`
	Photos      *[]string     `json:"photos"`
	Height      *int          `json:"height"`
	LookingFor  *string       `json:"lookingFor"`
	Drinking    *string       `json:"drinking"`
	Smoking     *string       `json:"smoking"`
	WantsKids   *string       `json:"wantsKids"`
	Religion    *string       `json:"religion"`
	AgeMin      *int          `json:"ageMin"`
	AgeMax      *int          `json:"ageMax"`
	Prompts     *[]PromptView `json:"prompts"`
}

// handleGet returns the caller's own profile.
// GET /profile
func (s *Service) handleGet(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	view, err := s.Get(c.Request.Context(), userID)
	if err != nil {
		svcErr.WriteHTTP(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": view})
}

// handleUpdate applies a partial profile edit.
// PUT /profile
func (s *Service) handleUpdate(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		svcErr.WriteHTTP(c, svcErr.InvalidArgument("malformed request body"))
		return
	}

	view, err := s.Update(c.Request.Context(), userID, UpdateInput{
		DisplayName: req.DisplayName,
		Bio:         req.Bio,
		Interests:   req.Interests,
		Photos:      req.Photos,
		Height:      req.Height,
		LookingFor:  req.LookingFor,
		Drinking:    req.Drinking,
		Smoking:     req.Smoking,
		WantsKids:   req.WantsKids,
		Religion:    req.Religion,
		AgeMin:      req.AgeMin,
		AgeMax:      req.AgeMax,
		Prompts:     req.Prompts,
	})
	if err != nil {
		svcErr.WriteHTTP(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": view})
}

// handleGetPublic returns another user's public projection.
// GET /profiles/:userId
func (s *Service) handleGetPublic(c *gin.Context) {
	viewerID, _ := middleware.UserID(c)
	targetID, err := parseUserID(c.Param("userId"))
	if err != nil {
		svcErr.WriteHTTP(c, err)
		return
	}

	view, err := s.GetPublic(c.Request.Context(), viewerID, targetID)
	if err != nil {
		svcErr.WriteHTTP(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": view})
}

// handleBlock hides a user from the caller.
// POST /blocks/:userId
func (s *Service) handleBlock(c *gin.Context) {
	userID, _ := middleware.UserID(c)
	targetID, err := parseUserID(c.Param("userId"))
	if err != nil {
		svcErr.WriteHTTP(c, err)
		return
	}

	if err := s.Block(c.Request.Context(), userID, targetID); err != nil {
		svcErr.WriteHTTP(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"blocked": true})
}

// handleUnblock lifts a block.
// DELETE /blocks/:userId
func (s *Service) handleUnblock(c *gin.Context) {
	userID, _ := middleware.UserID(c)
	targetID, err := parseUserID(c.Param("userId"))
	if err != nil {
		svcErr.WriteHTTP(c, err)
		return
	}

	if err := s.Unblock(c.Request.Context(), userID, targetID); err != nil {
		svcErr.WriteHTTP(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"blocked": false})
}

func parseUserID(raw string) (uint64, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, svcErr.InvalidArgument("userId must be a valid id")
	}
	return id, nil
}
