package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/equiptrack/linebot-go/internal/admin"
	"github.com/equiptrack/linebot-go/internal/bot"
	"github.com/equiptrack/linebot-go/internal/config"
	"github.com/equiptrack/linebot-go/internal/ctxutil"
	"github.com/equiptrack/linebot-go/internal/logger"
	"github.com/equiptrack/linebot-go/internal/metrics"
	"github.com/equiptrack/linebot-go/internal/storage"
)

const testChannelSecret = "test_channel_secret"

// setupTestHandler creates a handler backed by an in-memory database.
func setupTestHandler(t *testing.T) *Handler {
	t.Helper()

	db, err := storage.NewTestDB()
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	m := metrics.New(prometheus.NewRegistry())
	log := logger.New("error")

	processor := bot.NewProcessor(bot.ProcessorConfig{
		Admins:   admin.NewRegistry("Udev", nil),
		Provider: storage.NewProvider(db),
		Logger:   log,
		Metrics:  m,
	})

	handler, err := NewHandler(HandlerConfig{
		ChannelSecret: testChannelSecret,
		ChannelToken:  "test_channel_token",
		BotConfig:     config.DefaultBotConfig(),
		Metrics:       m,
		Logger:        log,
		Processor:     processor,
	})
	if err != nil {
		t.Fatalf("Failed to create handler: %v", err)
	}
	t.Cleanup(handler.Stop)

	return handler
}

func newTestRouter(handler *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/webhook", handler.Handle)
	return router
}

// sign computes the LINE webhook signature for a body.
func sign(body []byte) string {
	mac := hmac.New(sha256.New, []byte(testChannelSecret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func postWebhook(router *gin.Engine, body []byte, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Line-Signature", signature)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// TestHandlerInitialization tests handler creation
func TestHandlerInitialization(t *testing.T) {
	t.Parallel()
	handler := setupTestHandler(t)

	if handler.channelSecret != testChannelSecret {
		t.Errorf("Expected channel secret %q, got %q", testChannelSecret, handler.channelSecret)
	}
	if handler.client == nil {
		t.Error("Expected client to be initialized")
	}
	if handler.processor == nil {
		t.Error("Expected processor to be initialized")
	}
}

// TestHandleInvalidSignature tests webhook with invalid signature
func TestHandleInvalidSignature(t *testing.T) {
	t.Parallel()
	router := newTestRouter(setupTestHandler(t))

	w := postWebhook(router, []byte(`{"events":[]}`), "invalid_signature")
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}

// TestHandleEmptyBatch tests a correctly signed webhook with no events
func TestHandleEmptyBatch(t *testing.T) {
	t.Parallel()
	router := newTestRouter(setupTestHandler(t))

	body := []byte(`{"destination":"Ubot","events":[]}`)
	w := postWebhook(router, body, sign(body))
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
}

// TestHandleTextMessage tests that a signed text message event is
// processed before the webhook is acknowledged. The reply token is
// deliberately shorter than the minimum so no reply call is made.
func TestHandleTextMessage(t *testing.T) {
	t.Parallel()
	router := newTestRouter(setupTestHandler(t))

	body := []byte(`{
		"destination": "Ubot",
		"events": [{
			"type": "message",
			"mode": "active",
			"timestamp": 1700000000000,
			"webhookEventId": "01HEVENT",
			"deliveryContext": {"isRedelivery": false},
			"replyToken": "short",
			"source": {"type": "user", "userId": "Udev"},
			"message": {"type": "text", "id": "m1", "text": "我的ID", "quoteToken": "q1"}
		}]
	}`)

	w := postWebhook(router, body, sign(body))
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
}

// TestHandleSkipsGroupMessages tests that group chat messages are ignored
func TestHandleSkipsGroupMessages(t *testing.T) {
	t.Parallel()
	router := newTestRouter(setupTestHandler(t))

	body := []byte(`{
		"destination": "Ubot",
		"events": [{
			"type": "message",
			"mode": "active",
			"timestamp": 1700000000000,
			"webhookEventId": "01HEVENT",
			"deliveryContext": {"isRedelivery": false},
			"replyToken": "short",
			"source": {"type": "group", "groupId": "Cgroup", "userId": "Udev"},
			"message": {"type": "text", "id": "m1", "text": "我的ID", "quoteToken": "q1"}
		}]
	}`)

	w := postWebhook(router, body, sign(body))
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
}

// TestHandleSkipsNonTextMessages tests that sticker events are ignored
func TestHandleSkipsNonTextMessages(t *testing.T) {
	t.Parallel()
	router := newTestRouter(setupTestHandler(t))

	body := []byte(`{
		"destination": "Ubot",
		"events": [{
			"type": "message",
			"mode": "active",
			"timestamp": 1700000000000,
			"webhookEventId": "01HEVENT",
			"deliveryContext": {"isRedelivery": false},
			"replyToken": "short",
			"source": {"type": "user", "userId": "Udev"},
			"message": {"type": "sticker", "id": "m1", "packageId": "1", "stickerId": "2"}
		}]
	}`)

	w := postWebhook(router, body, sign(body))
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
}

// TestHandleCarriesRequestContextTracing tests that a request ID set by
// upstream middleware survives into event processing. The handler detaches
// from the request context but preserves tracing values, generating its
// own ID only when none is present.
func TestHandleCarriesRequestContextTracing(t *testing.T) {
	t.Parallel()
	handler := setupTestHandler(t)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Request = c.Request.WithContext(ctxutil.WithRequestID(c.Request.Context(), "req-fixed"))
		c.Next()
	})
	router.POST("/webhook", handler.Handle)

	body := []byte(`{
		"destination": "Ubot",
		"events": [{
			"type": "message",
			"mode": "active",
			"timestamp": 1700000000000,
			"webhookEventId": "01HEVENT",
			"deliveryContext": {"isRedelivery": false},
			"replyToken": "short",
			"source": {"type": "user", "userId": "Udev"},
			"message": {"type": "text", "id": "m1", "text": "功能選單", "quoteToken": "q1"}
		}]
	}`)

	w := postWebhook(router, body, sign(body))
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	// The preserve behavior itself is observable at the ctxutil level
	detached := ctxutil.PreserveTracing(ctxutil.WithRequestID(context.Background(), "req-fixed"))
	if requestID, ok := ctxutil.GetRequestID(detached); !ok || requestID != "req-fixed" {
		t.Errorf("Expected preserved request ID req-fixed, got %q (ok=%v)", requestID, ok)
	}
}

// TestUserRateLimitDropsMessages tests the per-user throttle path
func TestUserRateLimitDropsMessages(t *testing.T) {
	t.Parallel()
	handler := setupTestHandler(t)
	router := newTestRouter(handler)

	body := []byte(`{
		"destination": "Ubot",
		"events": [{
			"type": "message",
			"mode": "active",
			"timestamp": 1700000000000,
			"webhookEventId": "01HEVENT",
			"deliveryContext": {"isRedelivery": false},
			"replyToken": "short",
			"source": {"type": "user", "userId": "Uflood"},
			"message": {"type": "text", "id": "m1", "text": "功能選單", "quoteToken": "q1"}
		}]
	}`)
	signature := sign(body)

	// Exhaust the user's bucket; each request must still be acknowledged
	for i := 0; i < 10; i++ {
		w := postWebhook(router, body, signature)
		if w.Code != http.StatusOK {
			t.Fatalf("Request %d: expected status 200, got %d", i, w.Code)
		}
	}

	if handler.userLimiter.GetActiveCount() != 1 {
		t.Errorf("Expected one active user bucket, got %d", handler.userLimiter.GetActiveCount())
	}
}
