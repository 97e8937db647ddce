// Package authapi implements the auth.* API methods.
package authapi

import (
	"encoding/json"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/createconomy/createconomy/internal/auth"
	"github.com/createconomy/createconomy/internal/db"
	"github.com/createconomy/createconomy/internal/models"
	"github.com/createconomy/createconomy/internal/rpc"
	"github.com/createconomy/createconomy/pkg/config"
	"github.com/createconomy/createconomy/pkg/logging"
)

// API provides signup, login and logout
type API struct {
	repo   *db.Repository
	cfg    *config.AuthConfig
	logger *zap.Logger
}

// NewAPI creates a new auth API
func NewAPI(repo *db.Repository, cfg *config.AuthConfig) *API {
	return &API{
		repo:   repo,
		cfg:    cfg,
		logger: logging.GetLogger().With(zap.String("component", "auth-api")),
	}
}

var usernameRe = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{2,31}$`)

type signupParams struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Signup handles auth.signup
func (a *API) Signup(c *gin.Context, params json.RawMessage) (interface{}, error) {
	var p signupParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, rpc.Validation("invalid params")
	}

	p.Username = strings.ToLower(strings.TrimSpace(p.Username))
	p.Email = strings.ToLower(strings.TrimSpace(p.Email))
	if !usernameRe.MatchString(p.Username) {
		return nil, rpc.Validation("username must be 3-32 lowercase letters, digits, - or _")
	}
	if !strings.Contains(p.Email, "@") || len(p.Email) > 255 {
		return nil, rpc.Validation("invalid email address")
	}

	hash, err := auth.HashPassword(p.Password)
	if err != nil {
		return nil, rpc.Validation(err.Error())
	}

	ctx := c.Request.Context()
	userRepo := db.NewUserRepository(a.repo)
	if existing, err := userRepo.GetByUsername(ctx, p.Username); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, rpc.Duplicate("username is taken")
	}
	if existing, err := userRepo.GetByEmail(ctx, p.Email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, rpc.Duplicate("email is already registered")
	}

	now := time.Now().UTC()
	user := &models.User{
		Username:     p.Username,
		Email:        p.Email,
		PasswordHash: hash,
		Role:         models.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	token, session, err := a.openSession(c, user)
	if err != nil {
		return nil, err
	}

	a.logger.Info("user signed up",
		zap.Int64("user_id", user.ID),
		zap.String("username", user.Username))

	return gin.H{
		"userId":    user.ID,
		"username":  user.Username,
		"token":     token,
		"expiresAt": session.ExpiresAt.UTC().Format(time.RFC3339),
	}, nil
}

type loginParams struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login handles auth.login
func (a *API) Login(c *gin.Context, params json.RawMessage) (interface{}, error) {
	var p loginParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, rpc.Validation("invalid params")
	}

	ctx := c.Request.Context()
	userRepo := db.NewUserRepository(a.repo)
	user, err := userRepo.GetByUsername(ctx, strings.ToLower(strings.TrimSpace(p.Username)))
	if err != nil {
		return nil, err
	}
	// Same response for unknown user and bad password
	if user == nil || user.IsBanned || !auth.CheckPassword(user.PasswordHash, p.Password) {
		return nil, rpc.Unauthenticated()
	}

	token, session, err := a.openSession(c, user)
	if err != nil {
		return nil, err
	}

	a.logger.Info("user logged in", zap.Int64("user_id", user.ID))

	return gin.H{
		"userId":    user.ID,
		"username":  user.Username,
		"role":      user.Role,
		"token":     token,
		"expiresAt": session.ExpiresAt.UTC().Format(time.RFC3339),
	}, nil
}

// Logout handles auth.logout by revoking the current session
func (a *API) Logout(c *gin.Context, params json.RawMessage) (interface{}, error) {
	if _, err := rpc.RequireUser(c); err != nil {
		return nil, err
	}

	id, ok := rpc.SessionFrom(c)
	if !ok {
		return nil, rpc.Unauthenticated()
	}

	if err := db.NewSessionRepository(a.repo).Revoke(c.Request.Context(), id); err != nil {
		return nil, err
	}
	return gin.H{"loggedOut": true}, nil
}

func (a *API) openSession(c *gin.Context, user *models.User) (string, *models.Session, error) {
	now := time.Now().UTC()
	session := &models.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		ExpiresAt: now.Add(a.cfg.SessionTTL),
		CreatedAt: now,
	}
	if err := db.NewSessionRepository(a.repo).Create(c.Request.Context(), session); err != nil {
		return "", nil, err
	}

	token, err := auth.IssueToken(a.cfg.JWTSecret, session.ID, user.ID, a.cfg.SessionTTL)
	if err != nil {
		return "", nil, err
	}
	return token, session, nil
}
