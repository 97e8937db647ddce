// Package polls implements the polls.* API methods.
package polls

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/createconomy/createconomy/internal/cache"
	"github.com/createconomy/createconomy/internal/db"
	"github.com/createconomy/createconomy/internal/events"
	"github.com/createconomy/createconomy/internal/models"
	"github.com/createconomy/createconomy/internal/rpc"
	"github.com/createconomy/createconomy/pkg/logging"
)

// tallyTTL bounds staleness of cached tallies between invalidations
const tallyTTL = 30 * time.Second

// API provides poll-related API methods
type API struct {
	repo   *db.Repository
	cache  *cache.Cache
	broker *events.Broker
	logger *zap.Logger
}

// NewAPI creates a new poll API
func NewAPI(repo *db.Repository, c *cache.Cache, broker *events.Broker) *API {
	return &API{
		repo:   repo,
		cache:  c,
		broker: broker,
		logger: logging.GetLogger().With(zap.String("component", "polls-api")),
	}
}

// Percentages converts per-option counts into whole percentages of total.
// All zeros when total is zero.
func Percentages(counts []int64, total int64) []int {
	percentages := make([]int, len(counts))
	if total == 0 {
		return percentages
	}
	for i, count := range counts {
		percentages[i] = int(math.Round(float64(count) / float64(total) * 100))
	}
	return percentages
}

// pollThread loads a thread and verifies it is a live poll
func (a *API) pollThread(ctx context.Context, threadID int64) (*models.Thread, error) {
	thread, err := db.NewThreadRepository(a.repo).GetByID(ctx, threadID)
	if err != nil {
		return nil, err
	}
	if thread == nil || thread.IsDeleted {
		return nil, rpc.NotFound("thread")
	}
	if thread.PostType != models.PostTypePoll {
		return nil, rpc.Validation("thread is not a poll")
	}
	return thread, nil
}

type resultsParams struct {
	ThreadID int64 `json:"threadId"`
}

type resultsResponse struct {
	Options     []string `json:"options"`
	VoteCounts  []int64  `json:"voteCounts"`
	Percentages []int    `json:"percentages"`
	TotalVotes  int64    `json:"totalVotes"`
	UserVotes   []int    `json:"userVotes"`
	EndsAt      *string  `json:"endsAt"`
	MultiSelect bool     `json:"multiSelect"`
	HasEnded    bool     `json:"hasEnded"`
}

// GetResults handles polls.getResults. Counts are revealed only to voters
// and after the poll ends, to avoid early-voter bias.
func (a *API) GetResults(c *gin.Context, params json.RawMessage) (interface{}, error) {
	var p resultsParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, rpc.Validation("invalid params")
	}

	ctx := c.Request.Context()
	thread, err := a.pollThread(ctx, p.ThreadID)
	if err != nil {
		return nil, err
	}

	pollRepo := db.NewPollRepository(a.repo)
	options, err := pollRepo.GetOptions(ctx, p.ThreadID)
	if err != nil {
		return nil, err
	}

	resp := resultsResponse{
		Options:     make([]string, len(options)),
		VoteCounts:  make([]int64, len(options)),
		Percentages: make([]int, len(options)),
		UserVotes:   []int{},
		MultiSelect: thread.PollMultiSelect,
		HasEnded:    thread.PollHasEnded(time.Now()),
	}
	for i, opt := range options {
		resp.Options[i] = opt.Label
	}
	if thread.PollEndsAt.Valid {
		endsAt := thread.PollEndsAt.Time.UTC().Format(time.RFC3339)
		resp.EndsAt = &endsAt
	}

	if user, ok := rpc.UserFrom(c); ok {
		votes, err := pollRepo.UserVotes(ctx, p.ThreadID, user.ID)
		if err != nil {
			return nil, err
		}
		resp.UserVotes = votes
	}

	// Non-voters see only the option list until the poll closes
	if !resp.HasEnded && len(resp.UserVotes) == 0 {
		return resp, nil
	}

	counts, total, err := a.tally(ctx, p.ThreadID, len(options))
	if err != nil {
		return nil, err
	}
	resp.VoteCounts = counts
	resp.TotalVotes = total
	resp.Percentages = Percentages(counts, total)
	return resp, nil
}

// cachedTally is the serialized form of a poll tally
type cachedTally struct {
	Counts []int64 `json:"counts"`
	Total  int64   `json:"total"`
}

// tally returns the live vote counts per option, via a short-lived cache
func (a *API) tally(ctx context.Context, threadID int64, optionCount int) ([]int64, int64, error) {
	key := a.tallyKey(threadID)
	if raw, err := a.cache.Get(key); err == nil {
		var cached cachedTally
		if err := json.Unmarshal([]byte(raw), &cached); err == nil && len(cached.Counts) == optionCount {
			return cached.Counts, cached.Total, nil
		}
	}

	byOption, err := db.NewPollRepository(a.repo).CountVotes(ctx, threadID)
	if err != nil {
		return nil, 0, err
	}

	counts := make([]int64, optionCount)
	var total int64
	for idx, count := range byOption {
		if idx >= 0 && idx < optionCount {
			counts[idx] = count
			total += count
		}
	}

	if payload, err := json.Marshal(cachedTally{Counts: counts, Total: total}); err == nil {
		if err := a.cache.Set(key, payload, tallyTTL); err != nil && err != cache.ErrCacheDisabled {
			a.logger.Warn("Failed to cache poll tally", zap.Error(err))
		}
	}
	return counts, total, nil
}

func (a *API) tallyKey(threadID int64) string {
	return fmt.Sprintf("poll:%d:tally", threadID)
}

func (a *API) invalidateTally(threadID int64) {
	if err := a.cache.Delete(a.tallyKey(threadID)); err != nil && err != cache.ErrCacheDisabled {
		a.logger.Warn("Failed to invalidate poll tally", zap.Error(err))
	}
}

type voteParams struct {
	ThreadID    int64 `json:"threadId"`
	OptionIndex int   `json:"optionIndex"`
}

// Vote handles polls.vote
func (a *API) Vote(c *gin.Context, params json.RawMessage) (interface{}, error) {
	user, err := rpc.RequireUser(c)
	if err != nil {
		return nil, err
	}

	var p voteParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, rpc.Validation("invalid params")
	}

	ctx := c.Request.Context()
	thread, err := a.pollThread(ctx, p.ThreadID)
	if err != nil {
		return nil, err
	}
	if thread.PollHasEnded(time.Now()) {
		return nil, rpc.PollEnded()
	}

	pollRepo := db.NewPollRepository(a.repo)
	options, err := pollRepo.GetOptions(ctx, p.ThreadID)
	if err != nil {
		return nil, err
	}
	if p.OptionIndex < 0 || p.OptionIndex >= len(options) {
		return nil, rpc.Validation("option index out of range")
	}

	action, err := pollRepo.Vote(ctx, p.ThreadID, user.ID, p.OptionIndex, thread.PollMultiSelect)
	if err != nil {
		return nil, err
	}

	a.invalidateTally(p.ThreadID)
	a.broker.Publish(ctx, events.Event{
		Entity: "thread",
		ID:     p.ThreadID,
		Action: events.ActionUpdated,
	})

	return gin.H{"action": action, "optionIndex": p.OptionIndex}, nil
}

// RemoveVotes handles polls.removeVotes
func (a *API) RemoveVotes(c *gin.Context, params json.RawMessage) (interface{}, error) {
	user, err := rpc.RequireUser(c)
	if err != nil {
		return nil, err
	}

	var p resultsParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, rpc.Validation("invalid params")
	}

	ctx := c.Request.Context()
	thread, err := a.pollThread(ctx, p.ThreadID)
	if err != nil {
		return nil, err
	}
	if thread.PollHasEnded(time.Now()) {
		return nil, rpc.PollEnded()
	}

	removed, err := db.NewPollRepository(a.repo).RemoveVotes(ctx, p.ThreadID, user.ID)
	if err != nil {
		return nil, err
	}

	if removed > 0 {
		a.invalidateTally(p.ThreadID)
		a.broker.Publish(ctx, events.Event{
			Entity: "thread",
			ID:     p.ThreadID,
			Action: events.ActionUpdated,
		})
	}

	return gin.H{"removed": removed}, nil
}
