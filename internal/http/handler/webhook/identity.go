package webhook

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	svix "github.com/svix/svix-webhooks/go"

	"tenantkit.dev/api/common/logger"
	"tenantkit.dev/api/internal/service"
)

const (
	deliveryIDHeader = "svix-id"
	maxBodyBytes     = 1 << 20
)

// Verifier checks a delivery's signature headers against its raw body.
type Verifier interface {
	Verify(payload []byte, headers http.Header) error
}

// NewSvixVerifier builds a Verifier from a whsec_ signing secret.
func NewSvixVerifier(secret string) (Verifier, error) {
	wh, err := svix.NewWebhook(secret)
	if err != nil {
		return nil, err
	}
	return wh, nil
}

type IdentityWebhookHandler struct {
	sync     service.IdentitySyncService
	verifier Verifier
}

func NewIdentityWebhookHandler(sync service.IdentitySyncService, verifier Verifier) *IdentityWebhookHandler {
	return &IdentityWebhookHandler{sync: sync, verifier: verifier}
}

// HandleEvent verifies and applies one identity provider delivery.
// Duplicates and unknown event types are acknowledged with 200 so the
// provider stops retrying; only processing failures ask for a retry.
func (h *IdentityWebhookHandler) HandleEvent(c *gin.Context) {
	ctx := c.Request.Context()

	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodyBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
		return
	}

	if err := h.verifier.Verify(body, c.Request.Header); err != nil {
		slog.WarnContext(ctx, "identity webhook signature rejected", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid webhook signature"})
		return
	}

	deliveryID := c.GetHeader(deliveryIDHeader)
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		DeliveryID: &deliveryID,
		Component:  "tenantkit.identity.sync",
	})

	result, err := h.sync.Process(ctx, deliveryID, body)
	if err != nil {
		if errors.Is(err, service.ErrMalformedEvent) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "malformed event"})
			return
		}
		slog.ErrorContext(ctx, "failed to process identity event", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process event"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": string(result)})
}
