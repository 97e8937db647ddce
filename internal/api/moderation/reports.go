// Package moderation implements the moderation.* API methods.
package moderation

import (
	"database/sql"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
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
)

// API provides moderation-related API methods
type API struct {
	repo    *db.Repository
	broker  *events.Broker
	limiter *ratelimit.Limiter
	limits  *config.LimitsConfig
	logger  *zap.Logger
}

// NewAPI creates a new moderation API
func NewAPI(repo *db.Repository, broker *events.Broker, limiter *ratelimit.Limiter, limits *config.LimitsConfig) *API {
	return &API{
		repo:    repo,
		broker:  broker,
		limiter: limiter,
		limits:  limits,
		logger:  logging.GetLogger().With(zap.String("component", "moderation-api")),
	}
}

type createReportParams struct {
	TargetType string `json:"targetType"`
	TargetID   int64  `json:"targetId"`
	Reason     string `json:"reason"`
	Details    string `json:"details"`
}

// validateReport checks a report submission, returning a typed error for
// the first violated rule
func validateReport(p *createReportParams) error {
	if !models.ValidTargetType(p.TargetType) {
		return rpc.Validation("unknown target type")
	}
	if !models.ValidReportReason(p.Reason) {
		return rpc.Validation("unknown report reason")
	}
	p.Details = strings.TrimSpace(p.Details)
	if p.Reason == models.ReasonOther && p.Details == "" {
		return rpc.Validation("details are required when the reason is other")
	}
	if len(p.Details) > models.MaxReportDetails {
		return rpc.Validation("details must be at most 500 characters")
	}
	return nil
}

// admitReport rejects a submission duplicating the reporter's still
// pending report on the same target. A resolved or dismissed report does
// not block a new one.
func admitReport(hasPending bool) error {
	if hasPending {
		return rpc.Duplicate("you already reported this")
	}
	return nil
}

// CreateReport handles moderation.createReport
func (a *API) CreateReport(c *gin.Context, params json.RawMessage) (interface{}, error) {
	user, err := rpc.RequireUser(c)
	if err != nil {
		return nil, err
	}

	var p createReportParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, rpc.Validation("invalid params")
	}
	if err := validateReport(&p); err != nil {
		return nil, err
	}

	ctx := c.Request.Context()
	if err := a.limiter.Allow(ctx, "report", user.ID, a.limits.ReportsPerHour, time.Hour); err != nil {
		if errors.Is(err, ratelimit.ErrLimited) {
			return nil, rpc.RateLimited("too many reports submitted")
		}
		return nil, err
	}

	reportRepo := db.NewReportRepository(a.repo)
	pending, err := reportRepo.HasPending(ctx, user.ID, p.TargetType, p.TargetID)
	if err != nil {
		return nil, err
	}
	if err := admitReport(pending); err != nil {
		return nil, err
	}

	report := &models.Report{
		Reference:  uuid.NewString(),
		TargetType: p.TargetType,
		TargetID:   p.TargetID,
		ReporterID: user.ID,
		Reason:     p.Reason,
		Status:     models.ReportPending,
		CreatedAt:  time.Now().UTC(),
	}
	if p.Details != "" {
		report.Details = sql.NullString{String: p.Details, Valid: true}
	}

	if err := reportRepo.Create(ctx, report); err != nil {
		return nil, err
	}

	a.broker.Publish(ctx, events.Event{
		Entity: "modqueue",
		ID:     0,
		Action: events.ActionUpdated,
	})

	return gin.H{"reportId": report.Reference}, nil
}

type listReportsParams struct {
	Status string `json:"status"`
	Cursor string `json:"cursor"`
	Limit  int    `json:"limit"`
}

// ListReports handles moderation.listReports (moderator only)
func (a *API) ListReports(c *gin.Context, params json.RawMessage) (interface{}, error) {
	if _, err := rpc.RequireRole(c, models.RoleModerator, models.RoleAdmin); err != nil {
		return nil, err
	}

	var p listReportsParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, rpc.Validation("invalid params")
	}

	offset := 0
	if p.Cursor != "" {
		var err error
		offset, err = strconv.Atoi(p.Cursor)
		if err != nil || offset < 0 {
			return nil, rpc.Validation("invalid cursor")
		}
	}

	limit := p.Limit
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	reports, hasMore, err := db.NewReportRepository(a.repo).List(c.Request.Context(), p.Status, offset, limit)
	if err != nil {
		return nil, err
	}

	result := make([]gin.H, 0, len(reports))
	for _, report := range reports {
		entry := gin.H{
			"reportId":   report.Reference,
			"targetType": report.TargetType,
			"targetId":   report.TargetID,
			"reason":     report.Reason,
			"status":     report.Status,
			"createdAt":  report.CreatedAt.UTC().Format(time.RFC3339),
		}
		if report.Details.Valid {
			entry["details"] = report.Details.String
		}
		result = append(result, entry)
	}

	resp := gin.H{
		"reports": result,
		"hasMore": hasMore,
	}
	if hasMore {
		resp["nextCursor"] = strconv.Itoa(offset + len(reports))
	}
	return resp, nil
}

type resolveReportParams struct {
	ReportID string `json:"reportId"`
	Action   string `json:"action"`
	Note     string `json:"note"`
}

// ResolveReport handles moderation.resolveReport (moderator only)
func (a *API) ResolveReport(c *gin.Context, params json.RawMessage) (interface{}, error) {
	reviewer, err := rpc.RequireRole(c, models.RoleModerator, models.RoleAdmin)
	if err != nil {
		return nil, err
	}

	var p resolveReportParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, rpc.Validation("invalid params")
	}
	if p.Action != models.ReportActioned && p.Action != models.ReportDismissed {
		return nil, rpc.Validation("action must be actioned or dismissed")
	}

	ctx := c.Request.Context()
	reportRepo := db.NewReportRepository(a.repo)
	report, err := reportRepo.GetByReference(ctx, p.ReportID)
	if err != nil {
		return nil, err
	}
	if report == nil {
		return nil, rpc.NotFound("report")
	}
	if report.Status != models.ReportPending {
		return nil, rpc.Validation("report is already resolved")
	}

	if err := reportRepo.Resolve(ctx, report.ID, reviewer.ID, p.Action, p.Note); err != nil {
		return nil, err
	}

	a.broker.Publish(ctx, events.Event{
		Entity: "modqueue",
		ID:     0,
		Action: events.ActionUpdated,
	})
	return gin.H{"reportId": p.ReportID, "status": p.Action}, nil
}

// QueueCount handles moderation.queueCount (moderator only)
func (a *API) QueueCount(c *gin.Context, params json.RawMessage) (interface{}, error) {
	if _, err := rpc.RequireRole(c, models.RoleModerator, models.RoleAdmin); err != nil {
		return nil, err
	}

	count, err := db.NewReportRepository(a.repo).PendingCount(c.Request.Context())
	if err != nil {
		return nil, err
	}
	return gin.H{"pending": count}, nil
}

type banParams struct {
	UserID int64  `json:"userId"`
	Reason string `json:"reason"`
}

// BanUser handles moderation.banUser (admin only). Banning revokes all of
// the user's sessions.
func (a *API) BanUser(c *gin.Context, params json.RawMessage) (interface{}, error) {
	if _, err := rpc.RequireRole(c, models.RoleAdmin); err != nil {
		return nil, err
	}

	var p banParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, rpc.Validation("invalid params")
	}

	ctx := c.Request.Context()
	userRepo := db.NewUserRepository(a.repo)
	target, err := userRepo.GetByID(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, rpc.NotFound("user")
	}
	if target.Role == models.RoleAdmin {
		return nil, rpc.Forbidden("cannot ban an admin")
	}

	if err := userRepo.Ban(ctx, p.UserID, p.Reason); err != nil {
		return nil, err
	}

	a.broker.Publish(ctx, events.Event{
		Entity: "user",
		ID:     p.UserID,
		Action: events.ActionUpdated,
	})
	return gin.H{"userId": p.UserID, "banned": true}, nil
}

// UnbanUser handles moderation.unbanUser (admin only)
func (a *API) UnbanUser(c *gin.Context, params json.RawMessage) (interface{}, error) {
	if _, err := rpc.RequireRole(c, models.RoleAdmin); err != nil {
		return nil, err
	}

	var p banParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, rpc.Validation("invalid params")
	}

	ctx := c.Request.Context()
	if err := db.NewUserRepository(a.repo).Unban(ctx, p.UserID); err != nil {
		return nil, err
	}

	a.broker.Publish(ctx, events.Event{
		Entity: "user",
		ID:     p.UserID,
		Action: events.ActionUpdated,
	})
	return gin.H{"userId": p.UserID, "banned": false}, nil
}
