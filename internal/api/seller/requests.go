package seller

import (
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/createconomy/createconomy/internal/db"
	"github.com/createconomy/createconomy/internal/events"
	"github.com/createconomy/createconomy/internal/models"
	"github.com/createconomy/createconomy/internal/ratelimit"
	"github.com/createconomy/createconomy/internal/rpc"
)

type requestRoleParams struct {
	BusinessName  string `json:"businessName"`
	BusinessEmail string `json:"businessEmail"`
	Description   string `json:"description"`
}

// RequestRole handles seller.requestRole
func (a *API) RequestRole(c *gin.Context, params json.RawMessage) (interface{}, error) {
	user, err := rpc.RequireUser(c)
	if err != nil {
		return nil, err
	}
	if user.Role != models.RoleUser {
		return nil, rpc.Validation("account already has an elevated role")
	}

	var p requestRoleParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, rpc.Validation("invalid params")
	}
	p.BusinessName = strings.TrimSpace(p.BusinessName)
	if p.BusinessName == "" || len(p.BusinessName) > 200 {
		return nil, rpc.Validation("business name is required and must be at most 200 characters")
	}
	if len(p.Description) > 1000 {
		return nil, rpc.Validation("description must be at most 1000 characters")
	}

	ctx := c.Request.Context()
	if err := a.limiter.Allow(ctx, "seller_request", user.ID, a.limits.SellerRequestsPerHour, time.Hour); err != nil {
		if errors.Is(err, ratelimit.ErrLimited) {
			return nil, rpc.RateLimited("too many seller requests, try again later")
		}
		return nil, err
	}

	requestRepo := db.NewSellerRequestRepository(a.repo)
	pending, err := requestRepo.HasPending(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, rpc.Duplicate("a seller request is already pending")
	}

	request := &models.SellerRequest{
		UserID:       user.ID,
		BusinessName: p.BusinessName,
		Status:       models.RequestPending,
		CreatedAt:    time.Now().UTC(),
	}
	if p.BusinessEmail != "" {
		request.BusinessEmail = sql.NullString{String: p.BusinessEmail, Valid: true}
	}
	if p.Description != "" {
		request.Description = sql.NullString{String: p.Description, Valid: true}
	}

	if err := requestRepo.Create(ctx, request); err != nil {
		return nil, err
	}

	a.logger.Info("seller request submitted",
		zap.Int64("user_id", user.ID),
		zap.Int64("request_id", request.ID))
	a.broker.Publish(ctx, events.Event{Entity: "modqueue", ID: 0, Action: "seller_request"})

	return gin.H{
		"requestId": request.ID,
		"status":    models.RequestPending,
		"message":   "your request has been submitted for review",
	}, nil
}

type reviewRequestParams struct {
	RequestID int64 `json:"requestId"`
	Approve   bool  `json:"approve"`
}

// ReviewRequest handles seller.reviewRequest
func (a *API) ReviewRequest(c *gin.Context, params json.RawMessage) (interface{}, error) {
	_, err := rpc.RequireRole(c, models.RoleAdmin)
	if err != nil {
		return nil, err
	}

	var p reviewRequestParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, rpc.Validation("invalid params")
	}

	ctx := c.Request.Context()
	requestRepo := db.NewSellerRequestRepository(a.repo)
	if err := requestRepo.Review(ctx, p.RequestID, p.Approve); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, rpc.NotFound("pending seller request")
		}
		return nil, err
	}

	status := models.RequestRejected
	if p.Approve {
		status = models.RequestApproved
	}
	return gin.H{"requestId": p.RequestID, "status": status}, nil
}
