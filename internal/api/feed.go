package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/createconomy/createconomy/internal/events"
	"github.com/createconomy/createconomy/pkg/logging"
)

const (
	feedWriteTimeout = 10 * time.Second
	feedPongTimeout  = 60 * time.Second
	feedPingInterval = 50 * time.Second
	maxFeedKeys      = 128
)

var feedUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// feedRequest is a client subscription change
type feedRequest struct {
	Op   string   `json:"op"`
	Keys []string `json:"keys"`
}

// feedPush is the client-facing form of an event. The broker's internal
// origin ID never reaches clients.
type feedPush struct {
	Key    string `json:"key"`
	Entity string `json:"entity"`
	ID     int64  `json:"id"`
	Action string `json:"action"`
}

func pushFor(ev events.Event) feedPush {
	return feedPush{
		Key:    ev.Key(),
		Entity: ev.Entity,
		ID:     ev.ID,
		Action: ev.Action,
	}
}

// FeedHandler serves the websocket event feed. Clients subscribe to
// entity keys ("thread:42", "user:7", "modqueue:0") and receive a push
// whenever a mutation touches those entities.
func FeedHandler(broker *events.Broker) gin.HandlerFunc {
	logger := logging.GetLogger().With(zap.String("component", "feed"))

	return func(c *gin.Context) {
		conn, err := feedUpgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.Debug("Upgrade failed", zap.Error(err))
			return
		}

		sub := broker.Subscribe()
		defer broker.Unsubscribe(sub)

		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()

		go feedWriteLoop(ctx, conn, sub)
		feedReadLoop(conn, broker, sub, logger)
	}
}

// feedReadLoop consumes subscription changes until the client goes away
func feedReadLoop(conn *websocket.Conn, broker *events.Broker, sub *events.Subscription, logger *zap.Logger) {
	defer conn.Close()

	conn.SetReadLimit(4096)
	conn.SetReadDeadline(time.Now().Add(feedPongTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(feedPongTimeout))
	})

	keyCount := 0
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var req feedRequest
		if err := json.Unmarshal(data, &req); err != nil {
			logger.Debug("Malformed feed request", zap.Error(err))
			continue
		}

		switch req.Op {
		case "subscribe":
			if keyCount+len(req.Keys) > maxFeedKeys {
				continue
			}
			broker.Add(sub, req.Keys...)
			keyCount += len(req.Keys)
		case "unsubscribe":
			broker.Remove(sub, req.Keys...)
			if keyCount -= len(req.Keys); keyCount < 0 {
				keyCount = 0
			}
		}
	}
}

// feedWriteLoop pushes broker events and keepalive pings to the client
func feedWriteLoop(ctx context.Context, conn *websocket.Conn, sub *events.Subscription) {
	ticker := time.NewTicker(feedPingInterval)
	defer ticker.Stop()
	defer conn.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-sub.C:
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(feedWriteTimeout))
			if err := conn.WriteJSON(pushFor(ev)); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(feedWriteTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
