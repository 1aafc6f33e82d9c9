// Package webhook handles LINE webhook requests: signature
// verification, event fan-out, and reply delivery.
package webhook

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
	"github.com/line/line-bot-sdk-go/v8/linebot/webhook"
	"golang.org/x/sync/errgroup"

	"github.com/equiptrack/linebot-go/internal/bot"
	"github.com/equiptrack/linebot-go/internal/config"
	"github.com/equiptrack/linebot-go/internal/ctxutil"
	"github.com/equiptrack/linebot-go/internal/logger"
	"github.com/equiptrack/linebot-go/internal/metrics"
	"github.com/equiptrack/linebot-go/internal/ratelimit"
)

// Handler handles LINE webhook events
type Handler struct {
	channelSecret string
	client        *messaging_api.MessagingApiAPI
	metrics       *metrics.Metrics
	logger        *logger.Logger
	processor     *bot.Processor
	globalLimiter *ratelimit.Limiter
	userLimiter   *ratelimit.UserRateLimiter

	// LINE API constraints (from config.BotConfig)
	webhookTimeout      time.Duration
	maxEventsPerWebhook int
	minReplyTokenLength int
	maxMessageLength    int
}

// HandlerConfig holds configuration for creating a new Handler
type HandlerConfig struct {
	ChannelSecret string
	ChannelToken  string
	BotConfig     *config.BotConfig
	Metrics       *metrics.Metrics
	Logger        *logger.Logger
	Processor     *bot.Processor
}

// NewHandler creates a new webhook handler.
func NewHandler(cfg HandlerConfig) (*Handler, error) {
	client, err := messaging_api.NewMessagingApiAPI(cfg.ChannelToken)
	if err != nil {
		return nil, err
	}

	return &Handler{
		channelSecret: cfg.ChannelSecret,
		client:        client,
		metrics:       cfg.Metrics,
		logger:        cfg.Logger.WithModule("webhook"),
		processor:     cfg.Processor,
		globalLimiter: ratelimit.New(cfg.BotConfig.GlobalRateLimitRPS, cfg.BotConfig.GlobalRateLimitRPS),
		userLimiter: ratelimit.NewUserRateLimiter(
			cfg.BotConfig.UserRateLimitTokens,
			cfg.BotConfig.UserRateLimitRefillRate,
			config.RateLimiterCleanupInterval,
			cfg.Metrics,
		),
		webhookTimeout:      cfg.BotConfig.WebhookTimeout,
		maxEventsPerWebhook: cfg.BotConfig.MaxEventsPerWebhook,
		minReplyTokenLength: cfg.BotConfig.MinReplyTokenLength,
		maxMessageLength:    cfg.BotConfig.MaxMessageLength,
	}, nil
}

// Handle is the Gin handler for the webhook endpoint. All events of a
// batch are processed before the webhook is acknowledged, so a 200
// means every event either settled or was skipped.
func (h *Handler) Handle(c *gin.Context) {
	cb, err := webhook.ParseRequest(h.channelSecret, c.Request)
	if err != nil {
		if errors.Is(err, webhook.ErrInvalidSignature) {
			h.logger.Warnf("Invalid webhook signature")
			h.metrics.RecordHTTPError("invalid_signature", "webhook")
			c.Status(http.StatusBadRequest)
		} else {
			h.logger.WithError(err).Errorf("Failed to parse webhook request")
			h.metrics.RecordHTTPError("parse_error", "webhook")
			c.Status(http.StatusInternalServerError)
		}
		return
	}

	start := time.Now()

	events := cb.Events
	if len(events) > h.maxEventsPerWebhook {
		h.logger.WithField("event_count", len(events)).
			WithField("limit", h.maxEventsPerWebhook).
			Warnf("Too many events in webhook batch; truncating")
		events = events[:h.maxEventsPerWebhook]
	}

	// Detached from the request context: LINE disconnecting early must
	// not cancel event processing mid-write. Tracing values set by the
	// middleware chain survive the detach.
	ctx, cancel := context.WithTimeout(ctxutil.PreserveTracing(c.Request.Context()), h.webhookTimeout)
	defer cancel()
	if _, ok := ctxutil.GetRequestID(ctx); !ok {
		ctx = ctxutil.WithRequestID(ctx, uuid.NewString())
	}

	var g errgroup.Group
	for _, event := range events {
		g.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					h.logger.WithField("panic", r).Errorf("Panic while processing webhook event")
				}
			}()
			h.processEvent(ctx, event)
			return nil
		})
	}
	_ = g.Wait()

	h.metrics.RecordWebhook("batch", "ok", time.Since(start).Seconds())
	c.Status(http.StatusOK)
}

// processEvent handles a single webhook event. Only text messages from
// 1:1 chats are served; everything else is skipped silently.
func (h *Handler) processEvent(ctx context.Context, event webhook.EventInterface) {
	start := time.Now()

	e, ok := event.(webhook.MessageEvent)
	if !ok {
		return
	}
	textMsg, ok := e.Message.(webhook.TextMessageContent)
	if !ok {
		return
	}
	src, ok := e.Source.(webhook.UserSource)
	if !ok || src.UserId == "" {
		return
	}
	userID := src.UserId

	ctx = ctxutil.WithUserID(ctx, userID)
	ctx = ctxutil.WithChatID(ctx, userID)
	ctx = ctxutil.WithEventID(ctx, e.WebhookEventId)
	ctx = ctxutil.WithMessageID(ctx, textMsg.Id)

	log := h.logger.WithField("user_id", userID)

	if textMsg.Text == "" {
		return
	}
	if len(textMsg.Text) > h.maxMessageLength {
		log.WithField("length", len(textMsg.Text)).Warnf("Text message too long; ignoring")
		h.metrics.RecordWebhook("message", "oversized", time.Since(start).Seconds())
		return
	}

	// Per-user throttle; the limiter reports drops to metrics itself.
	if !h.userLimiter.Allow(userID) {
		log.Warnf("User rate limit exceeded; dropping message")
		return
	}

	replyText := h.processor.HandleText(ctx, userID, textMsg.Text)

	status := "success"
	if !h.sendReply(ctx, e.ReplyToken, replyText) {
		status = "reply_error"
	}
	h.metrics.RecordWebhook("message", status, time.Since(start).Seconds())
}

// sendReply delivers the reply text best-effort. Reply tokens are
// single-use and expire quickly, so failures are logged and counted
// but never retried.
func (h *Handler) sendReply(ctx context.Context, replyToken, text string) bool {
	if len(replyToken) < h.minReplyTokenLength {
		h.logger.WithField("token_length", len(replyToken)).Debugf("Invalid reply token; skipping reply")
		return true
	}

	if !h.globalLimiter.Allow() {
		h.metrics.RecordRateLimiterDrop("global")
		waitStart := time.Now()
		if err := h.globalLimiter.Wait(ctx); err != nil {
			h.logger.WithError(err).Errorf("Gave up waiting for global rate limiter")
			h.metrics.RecordReplyFailure("rate_limit")
			return false
		}
		h.metrics.RecordRateLimiterWait("global", time.Since(waitStart).Seconds())
	}

	_, err := h.client.ReplyMessage(&messaging_api.ReplyMessageRequest{
		ReplyToken: replyToken,
		Messages: []messaging_api.MessageInterface{
			messaging_api.TextMessage{Text: text},
		},
	})
	if err == nil {
		return true
	}

	switch {
	case strings.Contains(err.Error(), "Invalid reply token"):
		h.logger.WithError(err).Debugf("Reply token already used or expired")
		h.metrics.RecordReplyFailure("expired_token")
	case strings.Contains(err.Error(), "rate limit"):
		h.logger.WithError(err).Errorf("LINE API rate limit hit")
		h.metrics.RecordReplyFailure("rate_limit")
	default:
		h.logger.WithError(err).Errorf("Failed to send reply")
		h.metrics.RecordReplyFailure("api")
	}
	return false
}

// Stop releases background resources held by the handler.
func (h *Handler) Stop() {
	h.userLimiter.Stop()
}
