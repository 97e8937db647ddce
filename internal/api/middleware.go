package api

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/createconomy/createconomy/internal/auth"
	"github.com/createconomy/createconomy/internal/db"
	"github.com/createconomy/createconomy/internal/rpc"
	"github.com/createconomy/createconomy/pkg/config"
	"github.com/createconomy/createconomy/pkg/logging"
)

// AuthMiddleware resolves the Authorization header into the request
// identity. Requests without a token pass through unauthenticated; the
// method handlers decide whether a caller is required.
func AuthMiddleware(repo *db.Repository, cfg *config.AuthConfig) gin.HandlerFunc {
	logger := logging.GetLogger().With(zap.String("component", "auth-middleware"))
	userRepo := db.NewUserRepository(repo)
	sessionRepo := db.NewSessionRepository(repo)

	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}
		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			c.Next()
			return
		}

		claims, err := auth.ParseToken(cfg.JWTSecret, tokenString)
		if err != nil {
			logger.Debug("Rejected token", zap.Error(err))
			c.Next()
			return
		}

		ctx := c.Request.Context()
		session, err := sessionRepo.GetByID(ctx, claims.SessionID)
		if err != nil {
			logger.Error("Session lookup failed", zap.Error(err))
			c.Next()
			return
		}
		if session == nil || session.UserID != claims.UserID || !session.Active(time.Now()) {
			c.Next()
			return
		}

		user, err := userRepo.GetByID(ctx, session.UserID)
		if err != nil {
			logger.Error("User lookup failed", zap.Error(err))
			c.Next()
			return
		}
		if user == nil || user.IsBanned {
			c.Next()
			return
		}

		rpc.SetUser(c, user)
		rpc.SetSession(c, session.ID)
		c.Next()
	}
}
