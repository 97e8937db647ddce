package forum

import (
	"database/sql"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/createconomy/createconomy/internal/db"
	"github.com/createconomy/createconomy/internal/events"
	"github.com/createconomy/createconomy/internal/models"
	"github.com/createconomy/createconomy/internal/ratelimit"
	"github.com/createconomy/createconomy/internal/rpc"
	"github.com/createconomy/createconomy/pkg/config"
	"github.com/createconomy/createconomy/pkg/logging"
)

const (
	defaultPageSize = 50
	maxPageSize     = 100
	maxCommentBody  = 10000
)

// CommentAPI provides comment-related API methods
type CommentAPI struct {
	repo    *db.Repository
	broker  *events.Broker
	limiter *ratelimit.Limiter
	limits  *config.LimitsConfig
	logger  *zap.Logger
}

// NewCommentAPI creates a new comment API
func NewCommentAPI(repo *db.Repository, broker *events.Broker, limiter *ratelimit.Limiter, limits *config.LimitsConfig) *CommentAPI {
	return &CommentAPI{
		repo:    repo,
		broker:  broker,
		limiter: limiter,
		limits:  limits,
		logger:  logging.GetLogger().With(zap.String("component", "forum-api-comments")),
	}
}

// parseCursor decodes an offset cursor; empty means the first page
func parseCursor(cursor string) (int, error) {
	if cursor == "" {
		return 0, nil
	}
	offset, err := strconv.Atoi(cursor)
	if err != nil || offset < 0 {
		return 0, rpc.Validation("invalid cursor")
	}
	return offset, nil
}

type listCommentsParams struct {
	ThreadID int64  `json:"threadId"`
	Sort     string `json:"sort"`
	Cursor   string `json:"cursor"`
	Limit    int    `json:"limit"`
}

// ListComments handles forum.listComments. Comments come back as a flat
// page, each carrying its parent ID for client-side tree reconstruction.
func (a *CommentAPI) ListComments(c *gin.Context, params json.RawMessage) (interface{}, error) {
	var p listCommentsParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, rpc.Validation("invalid params")
	}

	if p.Sort == "" {
		p.Sort = models.SortBest
	}
	if !models.ValidSort(p.Sort) {
		return nil, rpc.Validation("unknown sort mode")
	}

	offset, err := parseCursor(p.Cursor)
	if err != nil {
		return nil, err
	}

	limit := p.Limit
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	ctx := c.Request.Context()
	thread, err := db.NewThreadRepository(a.repo).GetByID(ctx, p.ThreadID)
	if err != nil {
		return nil, err
	}
	if thread == nil || thread.IsDeleted {
		return nil, rpc.NotFound("thread")
	}

	comments, hasMore, err := db.NewCommentRepository(a.repo).ListByThread(ctx, p.ThreadID, p.Sort, offset, limit)
	if err != nil {
		return nil, err
	}

	// Resolve author names in one pass
	authorIDs := make([]int64, 0, len(comments))
	seen := make(map[int64]struct{}, len(comments))
	for _, comment := range comments {
		if _, ok := seen[comment.AuthorID]; !ok {
			seen[comment.AuthorID] = struct{}{}
			authorIDs = append(authorIDs, comment.AuthorID)
		}
	}
	names, err := a.usernames(c, authorIDs)
	if err != nil {
		return nil, err
	}

	result := make([]gin.H, 0, len(comments))
	for _, comment := range comments {
		result = append(result, projectComment(comment, names[comment.AuthorID]))
	}

	resp := gin.H{
		"comments": result,
		"hasMore":  hasMore,
	}
	if hasMore {
		resp["nextCursor"] = strconv.Itoa(offset + len(comments))
	}
	return resp, nil
}

func (a *CommentAPI) usernames(c *gin.Context, ids []int64) (map[int64]string, error) {
	names := make(map[int64]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	var users []*models.User
	err := a.repo.DB().WithContext(c.Request.Context()).
		Select("id", "username").
		Where("id IN ?", ids).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	for _, user := range users {
		names[user.ID] = user.Username
	}
	return names, nil
}

// projectComment builds the client-facing comment representation.
// Deleted comments keep their position but expose only the marker body.
func projectComment(comment *models.Comment, author string) gin.H {
	out := gin.H{
		"id":        comment.ID,
		"threadId":  comment.ThreadID,
		"body":      comment.Body,
		"score":     comment.Score,
		"isDeleted": comment.IsDeleted,
		"createdAt": comment.CreatedAt.UTC().Format(time.RFC3339),
	}
	if comment.ParentID.Valid {
		out["parentId"] = comment.ParentID.Int64
	}
	if comment.EditedAt.Valid {
		out["editedAt"] = comment.EditedAt.Time.UTC().Format(time.RFC3339)
	}
	if !comment.IsDeleted {
		out["author"] = author
	}
	return out
}

type createCommentParams struct {
	ThreadID int64  `json:"threadId"`
	ParentID *int64 `json:"parentId"`
	Body     string `json:"body"`
}

// CreateComment handles forum.createComment
func (a *CommentAPI) CreateComment(c *gin.Context, params json.RawMessage) (interface{}, error) {
	user, err := rpc.RequireUser(c)
	if err != nil {
		return nil, err
	}

	var p createCommentParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, rpc.Validation("invalid params")
	}

	body := strings.TrimSpace(p.Body)
	if body == "" || len(body) > maxCommentBody {
		return nil, rpc.Validation("comment body must be between 1 and 10000 characters")
	}

	ctx := c.Request.Context()
	if err := a.limiter.Allow(ctx, "comment", user.ID, a.limits.CommentsPerMinute, time.Minute); err != nil {
		if errors.Is(err, ratelimit.ErrLimited) {
			return nil, rpc.RateLimited("too many comments, slow down")
		}
		return nil, err
	}

	thread, err := db.NewThreadRepository(a.repo).GetByID(ctx, p.ThreadID)
	if err != nil {
		return nil, err
	}
	if thread == nil || thread.IsDeleted {
		return nil, rpc.NotFound("thread")
	}
	if thread.IsLocked {
		return nil, rpc.ThreadLocked()
	}

	commentRepo := db.NewCommentRepository(a.repo)
	comment := &models.Comment{
		ThreadID:  p.ThreadID,
		AuthorID:  user.ID,
		Body:      body,
		CreatedAt: time.Now().UTC(),
	}
	if p.ParentID != nil {
		parent, err := commentRepo.GetByID(ctx, *p.ParentID)
		if err != nil {
			return nil, err
		}
		if parent == nil || parent.ThreadID != p.ThreadID {
			return nil, rpc.NotFound("parent comment")
		}
		comment.ParentID = sql.NullInt64{Int64: *p.ParentID, Valid: true}
	}

	if err := commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	a.broker.Publish(ctx, events.Event{
		Entity: "thread",
		ID:     p.ThreadID,
		Action: events.ActionUpdated,
	})

	return gin.H{"commentId": comment.ID}, nil
}

type editCommentParams struct {
	CommentID int64  `json:"commentId"`
	Body      string `json:"body"`
}

// EditComment handles forum.editComment
func (a *CommentAPI) EditComment(c *gin.Context, params json.RawMessage) (interface{}, error) {
	user, err := rpc.RequireUser(c)
	if err != nil {
		return nil, err
	}

	var p editCommentParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, rpc.Validation("invalid params")
	}

	body := strings.TrimSpace(p.Body)
	if body == "" || len(body) > maxCommentBody {
		return nil, rpc.Validation("comment body must be between 1 and 10000 characters")
	}

	ctx := c.Request.Context()
	commentRepo := db.NewCommentRepository(a.repo)
	comment, err := commentRepo.GetByID(ctx, p.CommentID)
	if err != nil {
		return nil, err
	}
	if comment == nil || comment.IsDeleted {
		return nil, rpc.NotFound("comment")
	}
	if comment.AuthorID != user.ID {
		return nil, rpc.Forbidden("only the author can edit a comment")
	}

	if err := commentRepo.Edit(ctx, p.CommentID, body); err != nil {
		return nil, err
	}

	a.broker.Publish(ctx, events.Event{
		Entity: "thread",
		ID:     comment.ThreadID,
		Action: events.ActionUpdated,
	})
	return gin.H{"commentId": p.CommentID}, nil
}

type deleteCommentParams struct {
	CommentID int64 `json:"commentId"`
}

// DeleteComment handles forum.deleteComment. Authors can delete their own
// comments; moderators can delete any.
func (a *CommentAPI) DeleteComment(c *gin.Context, params json.RawMessage) (interface{}, error) {
	user, err := rpc.RequireUser(c)
	if err != nil {
		return nil, err
	}

	var p deleteCommentParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, rpc.Validation("invalid params")
	}

	ctx := c.Request.Context()
	commentRepo := db.NewCommentRepository(a.repo)
	comment, err := commentRepo.GetByID(ctx, p.CommentID)
	if err != nil {
		return nil, err
	}
	if comment == nil || comment.IsDeleted {
		return nil, rpc.NotFound("comment")
	}
	if comment.AuthorID != user.ID && !user.CanModerate() {
		return nil, rpc.Forbidden("not allowed to delete this comment")
	}

	if err := commentRepo.SoftDelete(ctx, p.CommentID); err != nil {
		return nil, err
	}

	a.broker.Publish(ctx, events.Event{
		Entity: "thread",
		ID:     comment.ThreadID,
		Action: events.ActionUpdated,
	})
	return gin.H{"commentId": p.CommentID}, nil
}
