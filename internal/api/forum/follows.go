package forum

import (
	"encoding/json"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/createconomy/createconomy/internal/db"
	"github.com/createconomy/createconomy/internal/events"
	"github.com/createconomy/createconomy/internal/rpc"
	"github.com/createconomy/createconomy/pkg/logging"
)

// FollowAPI provides follow-related API methods
type FollowAPI struct {
	repo   *db.Repository
	broker *events.Broker
	logger *zap.Logger
}

// NewFollowAPI creates a new follow API
func NewFollowAPI(repo *db.Repository, broker *events.Broker) *FollowAPI {
	return &FollowAPI{
		repo:   repo,
		broker: broker,
		logger: logging.GetLogger().With(zap.String("component", "forum-api-follows")),
	}
}

type followParams struct {
	UserID int64 `json:"userId"`
}

// GetFollowStatus handles forum.getFollowStatus
func (a *FollowAPI) GetFollowStatus(c *gin.Context, params json.RawMessage) (interface{}, error) {
	user, err := rpc.RequireUser(c)
	if err != nil {
		return nil, err
	}

	var p followParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, rpc.Validation("invalid params")
	}

	isFollowing, err := db.NewFollowRepository(a.repo).IsFollowing(c.Request.Context(), user.ID, p.UserID)
	if err != nil {
		return nil, err
	}
	return gin.H{"isFollowing": isFollowing}, nil
}

// FollowUser handles forum.followUser. Repeated follows are no-ops.
func (a *FollowAPI) FollowUser(c *gin.Context, params json.RawMessage) (interface{}, error) {
	user, err := rpc.RequireUser(c)
	if err != nil {
		return nil, err
	}

	var p followParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, rpc.Validation("invalid params")
	}
	if p.UserID == user.ID {
		return nil, rpc.Validation("cannot follow yourself")
	}

	ctx := c.Request.Context()
	followee, err := db.NewUserRepository(a.repo).GetByID(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	if followee == nil || followee.IsBanned {
		return nil, rpc.NotFound("user")
	}

	if err := db.NewFollowRepository(a.repo).Follow(ctx, user.ID, p.UserID); err != nil {
		return nil, err
	}

	a.broker.Publish(ctx, events.Event{
		Entity: "user",
		ID:     p.UserID,
		Action: events.ActionUpdated,
	})
	return gin.H{"isFollowing": true}, nil
}

// UnfollowUser handles forum.unfollowUser. Repeated unfollows are no-ops.
func (a *FollowAPI) UnfollowUser(c *gin.Context, params json.RawMessage) (interface{}, error) {
	user, err := rpc.RequireUser(c)
	if err != nil {
		return nil, err
	}

	var p followParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, rpc.Validation("invalid params")
	}

	ctx := c.Request.Context()
	if err := db.NewFollowRepository(a.repo).Unfollow(ctx, user.ID, p.UserID); err != nil {
		return nil, err
	}

	a.broker.Publish(ctx, events.Event{
		Entity: "user",
		ID:     p.UserID,
		Action: events.ActionUpdated,
	})
	return gin.H{"isFollowing": false}, nil
}
