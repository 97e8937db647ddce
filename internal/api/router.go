// Package api wires the JSON-RPC methods, auth middleware and the
// websocket feed onto a gin engine.
package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/createconomy/createconomy/internal/api/account"
	"github.com/createconomy/createconomy/internal/api/authapi"
	"github.com/createconomy/createconomy/internal/api/forum"
	"github.com/createconomy/createconomy/internal/api/moderation"
	"github.com/createconomy/createconomy/internal/api/polls"
	"github.com/createconomy/createconomy/internal/api/seller"
	"github.com/createconomy/createconomy/internal/cache"
	"github.com/createconomy/createconomy/internal/db"
	"github.com/createconomy/createconomy/internal/events"
	"github.com/createconomy/createconomy/internal/ratelimit"
	"github.com/createconomy/createconomy/internal/rpc"
	"github.com/createconomy/createconomy/pkg/config"
	"github.com/createconomy/createconomy/pkg/logging"
)

// Router sets up API routes
type Router struct {
	handler *rpc.JSONRPCHandler
	db      *db.DB
	cache   *cache.Cache
	broker  *events.Broker
	cfg     *config.Config
	logger  *zap.Logger
}

// NewRouter creates a new API router
func NewRouter(database *db.DB, redisCache *cache.Cache, broker *events.Broker, cfg *config.Config) *Router {
	handler := rpc.NewJSONRPCHandler()
	router := &Router{
		handler: handler,
		db:      database,
		cache:   redisCache,
		broker:  broker,
		cfg:     cfg,
		logger:  logging.GetLogger().With(zap.String("component", "api-router")),
	}

	// Register all API methods
	router.registerMethods()

	return router
}

// SetupRoutes sets up all API routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	repo := db.NewRepository(r.db.DB)
	engine.Use(AuthMiddleware(repo, &r.cfg.Auth))

	// Health check endpoints
	engine.GET("/health", r.healthHandler)
	engine.GET("/.well-known/healthcheck.json", r.healthHandler)

	// Reactive event feed
	engine.GET("/feed", FeedHandler(r.broker))

	// JSON-RPC endpoint
	engine.POST("/", r.handler.Handle)
}

// registerMethods registers all API methods
func (r *Router) registerMethods() {
	repo := db.NewRepository(r.db.DB)
	limiter := ratelimit.New(r.cache)
	limits := &r.cfg.Limits

	// Auth
	authAPI := authapi.NewAPI(repo, &r.cfg.Auth)
	r.handler.RegisterMethod("auth.signup", authAPI.Signup)
	r.handler.RegisterMethod("auth.login", authAPI.Login)
	r.handler.RegisterMethod("auth.logout", authAPI.Logout)

	// Forum threads
	threadAPI := forum.NewThreadAPI(repo, r.broker)
	r.handler.RegisterMethod("forum.getThread", threadAPI.GetThread)
	r.handler.RegisterMethod("forum.createThread", threadAPI.CreateThread)
	r.handler.RegisterMethod("forum.pinThread", threadAPI.PinThread)
	r.handler.RegisterMethod("forum.unpinThread", threadAPI.UnpinThread)
	r.handler.RegisterMethod("forum.lockThread", threadAPI.LockThread)
	r.handler.RegisterMethod("forum.unlockThread", threadAPI.UnlockThread)
	r.handler.RegisterMethod("forum.deleteThread", threadAPI.DeleteThread)

	// Forum comments
	commentAPI := forum.NewCommentAPI(repo, r.broker, limiter, limits)
	r.handler.RegisterMethod("forum.listComments", commentAPI.ListComments)
	r.handler.RegisterMethod("forum.createComment", commentAPI.CreateComment)
	r.handler.RegisterMethod("forum.editComment", commentAPI.EditComment)
	r.handler.RegisterMethod("forum.deleteComment", commentAPI.DeleteComment)

	// Reactions
	reactionAPI := forum.NewReactionAPI(repo, r.broker)
	r.handler.RegisterMethod("forum.toggleReaction", reactionAPI.Toggle)

	// Follows
	followAPI := forum.NewFollowAPI(repo, r.broker)
	r.handler.RegisterMethod("forum.getFollowStatus", followAPI.GetFollowStatus)
	r.handler.RegisterMethod("forum.followUser", followAPI.FollowUser)
	r.handler.RegisterMethod("forum.unfollowUser", followAPI.UnfollowUser)

	// Polls
	pollAPI := polls.NewAPI(repo, r.cache, r.broker)
	r.handler.RegisterMethod("polls.getResults", pollAPI.GetResults)
	r.handler.RegisterMethod("polls.vote", pollAPI.Vote)
	r.handler.RegisterMethod("polls.removeVotes", pollAPI.RemoveVotes)

	// Moderation
	moderationAPI := moderation.NewAPI(repo, r.broker, limiter, limits)
	r.handler.RegisterMethod("moderation.createReport", moderationAPI.CreateReport)
	r.handler.RegisterMethod("moderation.listReports", moderationAPI.ListReports)
	r.handler.RegisterMethod("moderation.resolveReport", moderationAPI.ResolveReport)
	r.handler.RegisterMethod("moderation.queueCount", moderationAPI.QueueCount)
	r.handler.RegisterMethod("moderation.banUser", moderationAPI.BanUser)
	r.handler.RegisterMethod("moderation.unbanUser", moderationAPI.UnbanUser)

	// Seller
	sellerAPI := seller.NewAPI(repo, r.broker, limiter, limits)
	r.handler.RegisterMethod("seller.createOfferCode", sellerAPI.CreateOfferCode)
	r.handler.RegisterMethod("seller.deleteOfferCode", sellerAPI.DeleteOfferCode)
	r.handler.RegisterMethod("seller.listOfferCodes", sellerAPI.ListOfferCodes)
	r.handler.RegisterMethod("seller.requestRole", sellerAPI.RequestRole)
	r.handler.RegisterMethod("seller.reviewRequest", sellerAPI.ReviewRequest)

	// Account
	accountAPI := account.NewAPI(repo)
	r.handler.RegisterMethod("account.getProfile", accountAPI.GetProfile)
	r.handler.RegisterMethod("account.updateProfile", accountAPI.UpdateProfile)
	r.handler.RegisterMethod("account.delete", accountAPI.DeleteAccount)
}

// healthHandler handles health check requests
func (r *Router) healthHandler(c *gin.Context) {
	status := "OK"
	if err := r.db.Health(c.Request.Context()); err != nil {
		status = "DEGRADED"
	}
	c.JSON(200, gin.H{
		"status":  status,
		"service": "createconomy-api",
	})
}
