package match

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	svcErr "github.com/kindredapp/kindred/internal/errors"
	"github.com/kindredapp/kindred/internal/middleware"
)

type messageRequest struct {
	Body string `json:"body"`
}

// handleList lists the caller's matches.
// GET /matches
func (s *Service) handleList(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	views, err := s.List(c.Request.Context(), userID)
	if err != nil {
		svcErr.WriteHTTP(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"matches": views})
}

// handleGet returns a single match of the caller's.
// GET /matches/:matchId
func (s *Service) handleGet(c *gin.Context) {
	userID, _ := middleware.UserID(c)
	matchID, err := parseMatchID(c.Param("matchId"))
	if err != nil {
		svcErr.WriteHTTP(c, err)
		return
	}

	view, err := s.Get(c.Request.Context(), matchID, userID)
	if err != nil {
		svcErr.WriteHTTP(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"match": view})
}

// handleTimer reports the reply-window state.
// GET /matches/:matchId/timer
func (s *Service) handleTimer(c *gin.Context) {
	userID, _ := middleware.UserID(c)
	matchID, err := parseMatchID(c.Param("matchId"))
	if err != nil {
		svcErr.WriteHTTP(c, err)
		return
	}

	view, err := s.Timer(c.Request.Context(), matchID, userID)
	if err != nil {
		svcErr.WriteHTTP(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"match": view})
}

// handleExtend extends the reply window.
// POST /matches/:matchId/timer
func (s *Service) handleExtend(c *gin.Context) {
	userID, _ := middleware.UserID(c)
	matchID, err := parseMatchID(c.Param("matchId"))
	if err != nil {
		svcErr.WriteHTTP(c, err)
		return
	}

	m, err := s.Extend(c.Request.Context(), matchID, userID)
	if err != nil {
		svcErr.WriteHTTP(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"match":   gin.H{"id": m.ID, "expiresAt": m.ExpiresAt},
	})
}

// handleRematch reopens an expired match.
// PUT /matches/:matchId/timer
func (s *Service) handleRematch(c *gin.Context) {
	userID, _ := middleware.UserID(c)
	matchID, err := parseMatchID(c.Param("matchId"))
	if err != nil {
		svcErr.WriteHTTP(c, err)
		return
	}

	m, err := s.Rematch(c.Request.Context(), matchID, userID)
	if err != nil {
		svcErr.WriteHTTP(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"match":   gin.H{"id": m.ID, "expiresAt": m.ExpiresAt},
	})
}

// handleMessages lists the conversation.
// GET /matches/:matchId/messages
func (s *Service) handleMessages(c *gin.Context) {
	userID, _ := middleware.UserID(c)
	matchID, err := parseMatchID(c.Param("matchId"))
	if err != nil {
		svcErr.WriteHTTP(c, err)
		return
	}

	messages, err := s.Messages(c.Request.Context(), matchID, userID)
	if err != nil {
		svcErr.WriteHTTP(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

// handleSendMessage appends a message to the conversation.
// POST /matches/:matchId/messages
func (s *Service) handleSendMessage(c *gin.Context) {
	userID, _ := middleware.UserID(c)
	matchID, err := parseMatchID(c.Param("matchId"))
	if err != nil {
		svcErr.WriteHTTP(c, err)
		return
	}

	var req messageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		svcErr.WriteHTTP(c, svcErr.InvalidArgument("malformed request body"))
		return
	}

	msg, err := s.SendMessage(c.Request.Context(), matchID, userID, req.Body)
	if err != nil {
		svcErr.WriteHTTP(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": msg})
}

func parseMatchID(raw string) (uint64, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, svcErr.InvalidArgument("matchId must be a valid id")
	}
	return id, nil
}
