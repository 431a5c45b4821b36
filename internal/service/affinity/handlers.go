package affinity

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kindredapp/kindred/internal/db"
	svcErr "github.com/kindredapp/kindred/internal/errors"
	"github.com/kindredapp/kindred/internal/middleware"
)

const likedYouPageSize = 20

type likeRequest struct {
	Comment      string `json:"comment"`
	CommentField string `json:"commentField"`
}

type superLikeRequest struct {
	Message string `json:"message"`
}

type complimentRequest struct {
	ReceiverID uint64 `json:"receiverId"`
	Type       string `json:"type"`
	Message    string `json:"message"`
}

type likerView struct {
	LikerID       uint64 `json:"likerId"`
	UnixTimestamp int64  `json:"unixTimestamp"`
	Comment       string `json:"comment,omitempty"`
}

type complimentView struct {
	SenderID      uint64 `json:"senderId"`
	Type          string `json:"type,omitempty"`
	Message       string `json:"message"`
	UnixTimestamp int64  `json:"unixTimestamp"`
}

type matchView struct {
	MatchID uint64 `json:"matchId"`
	Matched bool   `json:"matched"`
}

// handleLike records a regular like for the target user.
// POST /likes/:userId
func (s *Service) handleLike(c *gin.Context) {
	likerID, _ := middleware.UserID(c)
	likeeID, err := parseUserID(c.Param("userId"))
	if err != nil {
		svcErr.WriteHTTP(c, err)
		return
	}

	var req likeRequest
	_ = c.ShouldBindJSON(&req) // body is optional

	result, err := s.RecordLike(c.Request.Context(), likerID, likeeID, EdgeLike, Annotation{
		Comment:      req.Comment,
		CommentField: req.CommentField,
	})
	if err != nil {
		svcErr.WriteHTTP(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"liked": result.EdgeCreated,
		"match": toMatchView(result.Match),
	})
}

// handleSuperLike records a super-like for the target user.
// POST /superlikes/:userId
func (s *Service) handleSuperLike(c *gin.Context) {
	likerID, _ := middleware.UserID(c)
	likeeID, err := parseUserID(c.Param("userId"))
	if err != nil {
		svcErr.WriteHTTP(c, err)
		return
	}

	var req superLikeRequest
	_ = c.ShouldBindJSON(&req)

	result, err := s.RecordLike(c.Request.Context(), likerID, likeeID, EdgeSuperLike, Annotation{
		Message: req.Message,
	})
	if err != nil {
		svcErr.WriteHTTP(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"superLiked": result.EdgeCreated,
		"mutual":     result.Match != nil,
		"match":      toMatchView(result.Match),
	})
}

// handleSuperLikesReceived lists super-likes sent to the caller.
// GET /superlikes
func (s *Service) handleSuperLikesReceived(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	edges, err := s.ListSuperLikesReceived(c.Request.Context(), userID)
	if err != nil {
		svcErr.WriteHTTP(c, err)
		return
	}

	views := make([]likerView, 0, len(edges))
	for _, e := range edges {
		views = append(views, likerView{
			LikerID:       e.LikerID,
			UnixTimestamp: e.CreatedAt.UnixMilli(),
			Comment:       e.Message,
		})
	}
	c.JSON(http.StatusOK, gin.H{"superLikes": views})
}

// handleLikedYou lists the caller's received likes with cursor pagination.
// GET /likes/received?token=
func (s *Service) handleLikedYou(c *gin.Context) {
	s.listLikers(c, s.ListLikedYou)
}

// handleNewLikedYou lists received likes without a match yet.
// GET /likes/received/new?token=
func (s *Service) handleNewLikedYou(c *gin.Context) {
	s.listLikers(c, s.ListNewLikedYou)
}

func (s *Service) listLikers(
	c *gin.Context,
	list func(ctx context.Context, likeeID uint64, token *string, limit int) ([]db.Like, *string, error),
) {
	userID, _ := middleware.UserID(c)

	var token *string
	if raw := c.Query("token"); raw != "" {
		token = &raw
	}

	likes, nextToken, err := list(c.Request.Context(), userID, token, likedYouPageSize)
	if err != nil {
		svcErr.WriteHTTP(c, err)
		return
	}

	views := make([]likerView, 0, len(likes))
	for _, l := range likes {
		views = append(views, likerView{
			LikerID:       l.LikerID,
			UnixTimestamp: l.CreatedAt.UnixMilli(),
			Comment:       l.Comment,
		})
	}

	resp := gin.H{"likers": views}
	if nextToken != nil {
		resp["nextPaginationToken"] = *nextToken
	}
	c.JSON(http.StatusOK, resp)
}

// handleLikedYouCount returns the caller's received-like count.
// GET /likes/count
func (s *Service) handleLikedYouCount(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	count, err := s.CountLikedYou(c.Request.Context(), userID)
	if err != nil {
		svcErr.WriteHTTP(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

// handleCompliment sends a compliment.
// POST /compliments
func (s *Service) handleCompliment(c *gin.Context) {
	senderID, _ := middleware.UserID(c)

	var req complimentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		svcErr.WriteHTTP(c, svcErr.InvalidArgument("malformed request body"))
		return
	}

	compliment, err := s.SendCompliment(c.Request.Context(), senderID, req.ReceiverID, req.Type, req.Message)
	if err != nil {
		svcErr.WriteHTTP(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"compliment": compliment})
}

// handleComplimentsReceived lists compliments sent to the caller.
// GET /compliments
func (s *Service) handleComplimentsReceived(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	compliments, err := s.ListComplimentsReceived(c.Request.Context(), userID)
	if err != nil {
		svcErr.WriteHTTP(c, err)
		return
	}

	views := make([]complimentView, 0, len(compliments))
	for _, cm := range compliments {
		views = append(views, complimentView{
			SenderID:      cm.SenderID,
			Type:          cm.Type,
			Message:       cm.Message,
			UnixTimestamp: cm.CreatedAt.UnixMilli(),
		})
	}
	c.JSON(http.StatusOK, gin.H{"compliments": views})
}

func toMatchView(m *db.Match) *matchView {
	if m == nil {
		return nil
	}
	return &matchView{MatchID: m.ID, Matched: true}
}

func parseUserID(raw string) (uint64, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, svcErr.InvalidArgument("userId must be a valid id")
	}
	return id, nil
}
