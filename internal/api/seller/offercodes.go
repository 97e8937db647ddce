// Package seller implements the seller.* API methods.
package seller

import (
	"database/sql"
	"encoding/json"
	"math"
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

// API provides seller-related API methods
type API struct {
	repo    *db.Repository
	broker  *events.Broker
	limiter *ratelimit.Limiter
	limits  *config.LimitsConfig
	logger  *zap.Logger
}

// NewAPI creates a new seller API
func NewAPI(repo *db.Repository, broker *events.Broker, limiter *ratelimit.Limiter, limits *config.LimitsConfig) *API {
	return &API{
		repo:    repo,
		broker:  broker,
		limiter: limiter,
		limits:  limits,
		logger:  logging.GetLogger().With(zap.String("component", "seller-api")),
	}
}

type createOfferCodeParams struct {
	Code          string  `json:"code"`
	DiscountType  string  `json:"discountType"`
	DiscountValue float64 `json:"discountValue"`
	MaxUses       *int64  `json:"maxUses"`
	ExpiresAt     *string `json:"expiresAt"`
}

// NormalizeCode upper-cases and trims an offer code
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// buildOfferCode validates the submission and produces the record to
// store. Percent values stay as given; fixed values arrive in dollars and
// are stored in cents.
func buildOfferCode(p *createOfferCodeParams) (*models.OfferCode, error) {
	code := NormalizeCode(p.Code)
	if len(code) < 3 || len(code) > 32 {
		return nil, rpc.Validation("code must be between 3 and 32 characters")
	}
	for _, r := range code {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') && r != '-' && r != '_' {
			return nil, rpc.Validation("code may only contain letters, digits, - and _")
		}
	}

	offerCode := &models.OfferCode{
		Code:         code,
		DiscountType: p.DiscountType,
		CreatedAt:    time.Now().UTC(),
		IsActive:     true,
	}

	switch p.DiscountType {
	case models.DiscountPercent:
		if p.DiscountValue <= 0 || p.DiscountValue > 100 {
			return nil, rpc.Validation("percent discount must be in (0, 100]")
		}
		offerCode.DiscountValue = int64(math.Round(p.DiscountValue))
	case models.DiscountFixed:
		if p.DiscountValue <= 0 {
			return nil, rpc.Validation("fixed discount must be positive")
		}
		// Dollars in, cents stored
		offerCode.DiscountValue = int64(math.Round(p.DiscountValue * 100))
	default:
		return nil, rpc.Validation("discount type must be percent or fixed")
	}

	if p.MaxUses != nil {
		if *p.MaxUses < 1 {
			return nil, rpc.Validation("max uses must be at least 1")
		}
		offerCode.MaxUses = sql.NullInt64{Int64: *p.MaxUses, Valid: true}
	}

	if p.ExpiresAt != nil {
		expiresAt, err := time.Parse(time.RFC3339, *p.ExpiresAt)
		if err != nil {
			return nil, rpc.Validation("invalid expiry time")
		}
		if !expiresAt.After(time.Now()) {
			return nil, rpc.Validation("expiry must be in the future")
		}
		offerCode.ExpiresAt = sql.NullTime{Time: expiresAt.UTC(), Valid: true}
	}

	return offerCode, nil
}

// CreateOfferCode handles seller.createOfferCode
func (a *API) CreateOfferCode(c *gin.Context, params json.RawMessage) (interface{}, error) {
	user, err := rpc.RequireRole(c, models.RoleSeller, models.RoleAdmin)
	if err != nil {
		return nil, err
	}

	var p createOfferCodeParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, rpc.Validation("invalid params")
	}

	offerCode, err := buildOfferCode(&p)
	if err != nil {
		return nil, err
	}
	offerCode.SellerID = user.ID

	ctx := c.Request.Context()
	codeRepo := db.NewOfferCodeRepository(a.repo)
	existing, err := codeRepo.GetBySellerAndCode(ctx, user.ID, offerCode.Code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, rpc.Duplicate("code already exists")
	}

	if err := codeRepo.Create(ctx, offerCode); err != nil {
		return nil, err
	}

	return gin.H{
		"offerCodeId":   offerCode.ID,
		"code":          offerCode.Code,
		"discountType":  offerCode.DiscountType,
		"discountValue": offerCode.DiscountValue,
		"currentUses":   offerCode.CurrentUses,
	}, nil
}

type deleteOfferCodeParams struct {
	OfferCodeID int64 `json:"offerCodeId"`
}

// DeleteOfferCode handles seller.deleteOfferCode. Codes are deactivated,
// not removed, so redemption history survives.
func (a *API) DeleteOfferCode(c *gin.Context, params json.RawMessage) (interface{}, error) {
	user, err := rpc.RequireRole(c, models.RoleSeller, models.RoleAdmin)
	if err != nil {
		return nil, err
	}

	var p deleteOfferCodeParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, rpc.Validation("invalid params")
	}

	ctx := c.Request.Context()
	codeRepo := db.NewOfferCodeRepository(a.repo)
	offerCode, err := codeRepo.GetByID(ctx, p.OfferCodeID)
	if err != nil {
		return nil, err
	}
	if offerCode == nil {
		return nil, rpc.NotFound("offer code")
	}
	if offerCode.SellerID != user.ID && user.Role != models.RoleAdmin {
		return nil, rpc.Forbidden("not your offer code")
	}

	if err := codeRepo.Deactivate(ctx, p.OfferCodeID); err != nil {
		return nil, err
	}
	return gin.H{"offerCodeId": p.OfferCodeID, "isActive": false}, nil
}

// ListOfferCodes handles seller.listOfferCodes
func (a *API) ListOfferCodes(c *gin.Context, params json.RawMessage) (interface{}, error) {
	user, err := rpc.RequireRole(c, models.RoleSeller, models.RoleAdmin)
	if err != nil {
		return nil, err
	}

	codes, err := db.NewOfferCodeRepository(a.repo).ListBySeller(c.Request.Context(), user.ID)
	if err != nil {
		return nil, err
	}

	result := make([]gin.H, 0, len(codes))
	for _, code := range codes {
		entry := gin.H{
			"offerCodeId":   code.ID,
			"code":          code.Code,
			"discountType":  code.DiscountType,
			"discountValue": code.DiscountValue,
			"currentUses":   code.CurrentUses,
			"isActive":      code.IsActive,
		}
		if code.MaxUses.Valid {
			entry["maxUses"] = code.MaxUses.Int64
		}
		if code.ExpiresAt.Valid {
			entry["expiresAt"] = code.ExpiresAt.Time.UTC().Format(time.RFC3339)
		}
		result = append(result, entry)
	}
	return gin.H{"offerCodes": result}, nil
}
