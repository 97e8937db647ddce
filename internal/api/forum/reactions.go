package forum

import (
	"encoding/json"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/createconomy/createconomy/internal/db"
	"github.com/createconomy/createconomy/internal/events"
	"github.com/createconomy/createconomy/internal/models"
	"github.com/createconomy/createconomy/internal/rpc"
	"github.com/createconomy/createconomy/pkg/logging"
)

// ReactionAPI provides reaction-related API methods
type ReactionAPI struct {
	repo   *db.Repository
	broker *events.Broker
	logger *zap.Logger
}

// NewReactionAPI creates a new reaction API
func NewReactionAPI(repo *db.Repository, broker *events.Broker) *ReactionAPI {
	return &ReactionAPI{
		repo:   repo,
		broker: broker,
		logger: logging.GetLogger().With(zap.String("component", "forum-api-reactions")),
	}
}

type toggleParams struct {
	TargetType string `json:"targetType"`
	TargetID   int64  `json:"targetId"`
	Kind       string `json:"kind"`
}

// Toggle handles forum.toggleReaction. A repeated toggle of the same kind
// removes the reaction; an upvote replaces a held downvote and vice versa.
func (a *ReactionAPI) Toggle(c *gin.Context, params json.RawMessage) (interface{}, error) {
	user, err := rpc.RequireUser(c)
	if err != nil {
		return nil, err
	}

	var p toggleParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, rpc.Validation("invalid params")
	}
	if !models.ValidTargetType(p.TargetType) {
		return nil, rpc.Validation("unknown target type")
	}
	if !models.ValidReactionKind(p.Kind) {
		return nil, rpc.Validation("unknown reaction kind")
	}

	ctx := c.Request.Context()
	switch p.TargetType {
	case models.TargetThread:
		thread, err := db.NewThreadRepository(a.repo).GetByID(ctx, p.TargetID)
		if err != nil {
			return nil, err
		}
		if thread == nil || thread.IsDeleted {
			return nil, rpc.NotFound("thread")
		}
	case models.TargetComment:
		comment, err := db.NewCommentRepository(a.repo).GetByID(ctx, p.TargetID)
		if err != nil {
			return nil, err
		}
		if comment == nil || comment.IsDeleted {
			return nil, rpc.NotFound("comment")
		}
	}

	action, err := db.NewReactionRepository(a.repo).Toggle(ctx, p.TargetType, p.TargetID, user.ID, p.Kind)
	if err != nil {
		return nil, err
	}

	a.broker.Publish(ctx, events.Event{
		Entity: p.TargetType,
		ID:     p.TargetID,
		Action: events.ActionUpdated,
	})

	return gin.H{"action": action}, nil
}
