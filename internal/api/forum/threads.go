// Package forum implements the forum.* API methods.
package forum

import (
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/createconomy/createconomy/internal/db"
	"github.com/createconomy/createconomy/internal/events"
	"github.com/createconomy/createconomy/internal/models"
	"github.com/createconomy/createconomy/internal/rpc"
	"github.com/createconomy/createconomy/pkg/logging"
)

// ThreadAPI provides thread-related API methods
type ThreadAPI struct {
	repo   *db.Repository
	broker *events.Broker
	logger *zap.Logger
}

// NewThreadAPI creates a new thread API
func NewThreadAPI(repo *db.Repository, broker *events.Broker) *ThreadAPI {
	return &ThreadAPI{
		repo:   repo,
		broker: broker,
		logger: logging.GetLogger().With(zap.String("component", "forum-api-threads")),
	}
}

type getThreadParams struct {
	ThreadID int64 `json:"threadId"`
}

// GetThread handles forum.getThread
func (t *ThreadAPI) GetThread(c *gin.Context, params json.RawMessage) (interface{}, error) {
	var p getThreadParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, rpc.Validation("invalid params")
	}

	ctx := c.Request.Context()
	threadRepo := db.NewThreadRepository(t.repo)
	thread, err := threadRepo.GetByID(ctx, p.ThreadID)
	if err != nil {
		return nil, err
	}
	if thread == nil || thread.IsDeleted {
		return nil, rpc.NotFound("thread")
	}

	// Show the committed counter; on failure keep the value already read
	if count, err := threadRepo.IncrementViews(ctx, thread.ID); err != nil {
		t.logger.Warn("Failed to bump view counter", zap.Int64("thread", thread.ID), zap.Error(err))
	} else {
		thread.ViewCount = count
	}

	author, err := db.NewUserRepository(t.repo).GetByID(ctx, thread.AuthorID)
	if err != nil {
		return nil, err
	}
	category, err := db.NewCategoryRepository(t.repo).GetByID(ctx, thread.CategoryID)
	if err != nil {
		return nil, err
	}

	return projectThread(thread, author, category), nil
}

// projectThread builds the client-facing thread representation
func projectThread(thread *models.Thread, author *models.User, category *models.Category) gin.H {
	out := gin.H{
		"id":           thread.ID,
		"title":        thread.Title,
		"postType":     thread.PostType,
		"score":        thread.Score,
		"viewCount":    thread.ViewCount,
		"commentCount": thread.CommentCount,
		"isPinned":     thread.IsPinned,
		"isLocked":     thread.IsLocked,
		"createdAt":    thread.CreatedAt.UTC().Format(time.RFC3339),
	}
	if thread.Body.Valid {
		out["body"] = thread.Body.String
	}
	if thread.LinkURL.Valid {
		out["linkUrl"] = thread.LinkURL.String
	}
	if thread.ImageURL.Valid {
		out["imageUrl"] = thread.ImageURL.String
	}
	if thread.Tags.Valid && thread.Tags.String != "" {
		out["tags"] = strings.Split(thread.Tags.String, ",")
	}
	if thread.Flair.Valid {
		out["flair"] = thread.Flair.String
	}
	if author != nil {
		out["author"] = author.Username
	}
	if category != nil {
		out["category"] = gin.H{"id": category.ID, "slug": category.Slug, "name": category.Name}
	}
	return out
}

type pollPayload struct {
	Options     []string `json:"options"`
	EndsAt      *string  `json:"endsAt"`
	MultiSelect bool     `json:"multiSelect"`
}

type createThreadParams struct {
	Title      string       `json:"title"`
	PostType   string       `json:"postType"`
	Body       string       `json:"body"`
	LinkURL    string       `json:"linkUrl"`
	ImageURL   string       `json:"imageUrl"`
	CategoryID int64        `json:"categoryId"`
	Tags       []string     `json:"tags"`
	Flair      string       `json:"flair"`
	Poll       *pollPayload `json:"poll"`
}

// CreateThread handles forum.createThread
func (t *ThreadAPI) CreateThread(c *gin.Context, params json.RawMessage) (interface{}, error) {
	user, err := rpc.RequireUser(c)
	if err != nil {
		return nil, err
	}

	var p createThreadParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, rpc.Validation("invalid params")
	}

	p.Title = strings.TrimSpace(p.Title)
	if p.Title == "" || len(p.Title) > 300 {
		return nil, rpc.Validation("title must be between 1 and 300 characters")
	}

	thread := &models.Thread{
		Title:      p.Title,
		PostType:   p.PostType,
		AuthorID:   user.ID,
		CategoryID: p.CategoryID,
		CreatedAt:  time.Now().UTC(),
	}

	var options []models.PollOption
	switch p.PostType {
	case models.PostTypeText:
		if strings.TrimSpace(p.Body) == "" {
			return nil, rpc.Validation("text post requires a body")
		}
		thread.Body = sql.NullString{String: p.Body, Valid: true}
	case models.PostTypeLink:
		if !strings.HasPrefix(p.LinkURL, "http://") && !strings.HasPrefix(p.LinkURL, "https://") {
			return nil, rpc.Validation("link post requires a valid URL")
		}
		thread.LinkURL = sql.NullString{String: p.LinkURL, Valid: true}
	case models.PostTypeImage:
		if p.ImageURL == "" {
			return nil, rpc.Validation("image post requires an image URL")
		}
		thread.ImageURL = sql.NullString{String: p.ImageURL, Valid: true}
	case models.PostTypePoll:
		if p.Poll == nil {
			return nil, rpc.Validation("poll post requires poll options")
		}
		if len(p.Poll.Options) < models.PollMinOptions || len(p.Poll.Options) > models.PollMaxOptions {
			return nil, rpc.Validation("polls require between 2 and 10 options")
		}
		for i, label := range p.Poll.Options {
			label = strings.TrimSpace(label)
			if label == "" {
				return nil, rpc.Validation("poll options must not be empty")
			}
			options = append(options, models.PollOption{OptionIndex: i, Label: label})
		}
		if p.Poll.EndsAt != nil {
			endsAt, err := time.Parse(time.RFC3339, *p.Poll.EndsAt)
			if err != nil {
				return nil, rpc.Validation("invalid poll end time")
			}
			if !endsAt.After(time.Now()) {
				return nil, rpc.Validation("poll end time must be in the future")
			}
			thread.PollEndsAt = sql.NullTime{Time: endsAt.UTC(), Valid: true}
		}
		thread.PollMultiSelect = p.Poll.MultiSelect
		if p.Body != "" {
			thread.Body = sql.NullString{String: p.Body, Valid: true}
		}
	default:
		return nil, rpc.Validation("unknown post type")
	}

	ctx := c.Request.Context()
	category, err := db.NewCategoryRepository(t.repo).GetByID(ctx, p.CategoryID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, rpc.NotFound("category")
	}

	if len(p.Tags) > 0 {
		thread.Tags = sql.NullString{String: strings.Join(p.Tags, ","), Valid: true}
	}
	if p.Flair != "" {
		thread.Flair = sql.NullString{String: p.Flair, Valid: true}
	}

	if err := db.NewThreadRepository(t.repo).Create(ctx, thread, options); err != nil {
		return nil, err
	}

	t.broker.Publish(ctx, events.Event{
		Entity: "thread",
		ID:     thread.ID,
		Action: events.ActionCreated,
	})

	return gin.H{"threadId": thread.ID}, nil
}

type moderateThreadParams struct {
	ThreadID int64 `json:"threadId"`
}

// moderate runs a moderator-only thread mutation and publishes the change
func (t *ThreadAPI) moderate(c *gin.Context, params json.RawMessage, apply func(*db.ThreadRepository, int64) error) (interface{}, error) {
	if _, err := rpc.RequireRole(c, models.RoleModerator, models.RoleAdmin); err != nil {
		return nil, err
	}

	var p moderateThreadParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, rpc.Validation("invalid params")
	}

	ctx := c.Request.Context()
	threadRepo := db.NewThreadRepository(t.repo)
	thread, err := threadRepo.GetByID(ctx, p.ThreadID)
	if err != nil {
		return nil, err
	}
	if thread == nil {
		return nil, rpc.NotFound("thread")
	}

	if err := apply(threadRepo, p.ThreadID); err != nil {
		return nil, err
	}

	t.broker.Publish(ctx, events.Event{
		Entity: "thread",
		ID:     p.ThreadID,
		Action: events.ActionUpdated,
	})
	return gin.H{"threadId": p.ThreadID}, nil
}

// PinThread handles forum.pinThread
func (t *ThreadAPI) PinThread(c *gin.Context, params json.RawMessage) (interface{}, error) {
	return t.moderate(c, params, func(r *db.ThreadRepository, id int64) error {
		return r.SetPinned(c.Request.Context(), id, true)
	})
}

// UnpinThread handles forum.unpinThread
func (t *ThreadAPI) UnpinThread(c *gin.Context, params json.RawMessage) (interface{}, error) {
	return t.moderate(c, params, func(r *db.ThreadRepository, id int64) error {
		return r.SetPinned(c.Request.Context(), id, false)
	})
}

// LockThread handles forum.lockThread
func (t *ThreadAPI) LockThread(c *gin.Context, params json.RawMessage) (interface{}, error) {
	return t.moderate(c, params, func(r *db.ThreadRepository, id int64) error {
		return r.SetLocked(c.Request.Context(), id, true)
	})
}

// UnlockThread handles forum.unlockThread
func (t *ThreadAPI) UnlockThread(c *gin.Context, params json.RawMessage) (interface{}, error) {
	return t.moderate(c, params, func(r *db.ThreadRepository, id int64) error {
		return r.SetLocked(c.Request.Context(), id, false)
	})
}

// DeleteThread handles forum.deleteThread (soft delete)
func (t *ThreadAPI) DeleteThread(c *gin.Context, params json.RawMessage) (interface{}, error) {
	return t.moderate(c, params, func(r *db.ThreadRepository, id int64) error {
		return r.SoftDelete(c.Request.Context(), id)
	})
}
