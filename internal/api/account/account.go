// Package account implements the account.* API methods.
package account

import (
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/createconomy/createconomy/internal/db"
	"github.com/createconomy/createconomy/internal/models"
	"github.com/createconomy/createconomy/internal/rpc"
	"github.com/createconomy/createconomy/pkg/logging"
)

// API provides account-related API methods
type API struct {
	repo   *db.Repository
	logger *zap.Logger
}

// NewAPI creates a new account API
func NewAPI(repo *db.Repository) *API {
	return &API{
		repo:   repo,
		logger: logging.GetLogger().With(zap.String("component", "account-api")),
	}
}

// Profile field length caps
const (
	maxDisplayName = 50
	maxBio         = 500
	maxAvatarURL   = 1024
	maxPhone       = 32
	maxAddress     = 500
	maxPreferences = 4096
)

type updateProfileParams struct {
	DisplayName *string `json:"displayName"`
	Bio         *string `json:"bio"`
	AvatarURL   *string `json:"avatarUrl"`
	Phone       *string `json:"phone"`
	Address     *string `json:"address"`
	Preferences *string `json:"preferences"`
}

// profileUpdates validates the submitted fields and returns the column
// map for a partial update. Omitted fields are left untouched; an empty
// string clears the field.
func profileUpdates(p *updateProfileParams) (map[string]interface{}, error) {
	caps := []struct {
		column string
		value  *string
		max    int
	}{
		{"display_name", p.DisplayName, maxDisplayName},
		{"bio", p.Bio, maxBio},
		{"avatar_url", p.AvatarURL, maxAvatarURL},
		{"phone", p.Phone, maxPhone},
		{"address", p.Address, maxAddress},
		{"preferences", p.Preferences, maxPreferences},
	}

	fields := make(map[string]interface{})
	for _, f := range caps {
		if f.value == nil {
			continue
		}
		v := strings.TrimSpace(*f.value)
		if len(v) > f.max {
			return nil, rpc.Validation(f.column + " is too long")
		}
		fields[f.column] = sql.NullString{String: v, Valid: v != ""}
	}

	if p.Preferences != nil && *p.Preferences != "" {
		if !json.Valid([]byte(*p.Preferences)) {
			return nil, rpc.Validation("preferences must be valid JSON")
		}
	}
	return fields, nil
}

// UpdateProfile handles account.updateProfile
func (a *API) UpdateProfile(c *gin.Context, params json.RawMessage) (interface{}, error) {
	user, err := rpc.RequireUser(c)
	if err != nil {
		return nil, err
	}

	var p updateProfileParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, rpc.Validation("invalid params")
	}

	fields, err := profileUpdates(&p)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, rpc.Validation("no fields to update")
	}

	userRepo := db.NewUserRepository(a.repo)
	if err := userRepo.UpdateProfile(c.Request.Context(), user.ID, fields); err != nil {
		return nil, err
	}

	updated, err := userRepo.GetByID(c.Request.Context(), user.ID)
	if err != nil {
		return nil, err
	}
	return projectOwnProfile(updated), nil
}

type getProfileParams struct {
	Username string `json:"username"`
	UserID   int64  `json:"userId"`
}

// GetProfile handles account.getProfile. Without params it returns the
// caller's own profile including private fields.
func (a *API) GetProfile(c *gin.Context, params json.RawMessage) (interface{}, error) {
	var p getProfileParams
	if len(params) > 0 {
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, rpc.Validation("invalid params")
		}
	}

	ctx := c.Request.Context()
	userRepo := db.NewUserRepository(a.repo)

	var target *models.User
	var err error
	switch {
	case p.Username != "":
		target, err = userRepo.GetByUsername(ctx, p.Username)
	case p.UserID != 0:
		target, err = userRepo.GetByID(ctx, p.UserID)
	default:
		user, rerr := rpc.RequireUser(c)
		if rerr != nil {
			return nil, rerr
		}
		target, err = userRepo.GetByID(ctx, user.ID)
	}
	if err != nil {
		return nil, err
	}
	if target == nil || target.IsBanned {
		return nil, rpc.NotFound("user")
	}

	followers, following, err := db.NewFollowRepository(a.repo).Counts(ctx, target.ID)
	if err != nil {
		return nil, err
	}

	caller, _ := rpc.UserFrom(c)
	if caller != nil && caller.ID == target.ID {
		result := projectOwnProfile(target)
		result["followers"] = followers
		result["following"] = following
		return result, nil
	}

	result := gin.H{
		"userId":    target.ID,
		"username":  target.Username,
		"role":      target.Role,
		"followers": followers,
		"following": following,
		"createdAt": target.CreatedAt.UTC().Format(time.RFC3339),
	}
	if target.DisplayName.Valid {
		result["displayName"] = target.DisplayName.String
	}
	if target.Bio.Valid {
		result["bio"] = target.Bio.String
	}
	if target.AvatarURL.Valid {
		result["avatarUrl"] = target.AvatarURL.String
	}
	return result, nil
}

// DeleteAccount handles account.delete. The row is soft-banned rather
// than removed so authored content keeps a stable owner.
func (a *API) DeleteAccount(c *gin.Context, params json.RawMessage) (interface{}, error) {
	user, err := rpc.RequireUser(c)
	if err != nil {
		return nil, err
	}

	userRepo := db.NewUserRepository(a.repo)
	if err := userRepo.Ban(c.Request.Context(), user.ID, "account deleted by owner"); err != nil {
		return nil, err
	}

	a.logger.Info("account deleted", zap.Int64("user_id", user.ID))
	return gin.H{"deleted": true}, nil
}

func projectOwnProfile(user *models.User) gin.H {
	result := gin.H{
		"userId":    user.ID,
		"username":  user.Username,
		"email":     user.Email,
		"role":      user.Role,
		"createdAt": user.CreatedAt.UTC().Format(time.RFC3339),
	}
	if user.DisplayName.Valid {
		result["displayName"] = user.DisplayName.String
	}
	if user.Bio.Valid {
		result["bio"] = user.Bio.String
	}
	if user.AvatarURL.Valid {
		result["avatarUrl"] = user.AvatarURL.String
	}
	if user.Phone.Valid {
		result["phone"] = user.Phone.String
	}
	if user.Address.Valid {
		result["address"] = user.Address.String
	}
	if user.Preferences.Valid {
		result["preferences"] = json.RawMessage(user.Preferences.String)
	}
	return result
}
