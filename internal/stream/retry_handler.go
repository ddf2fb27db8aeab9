package stream

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// RetryHandler retries message processing with exponential backoff and moves
// messages that keep failing onto a dead letter stream for inspection.
type RetryHandler struct {
	client        *redis.Client
	deadLetterKey string
	maxRetries    int
	baseDelay     time.Duration
}

func NewRetryHandler(client *redis.Client, deadLetterKey string, maxRetries int) *RetryHandler {
	if maxRetries <= 0 {
		maxRetries = 3
	}
	return &RetryHandler{
		client:        client,
		deadLetterKey: deadLetterKey,
		maxRetries:    maxRetries,
		baseDelay:     time.Second,
	}
}

// RetryWithBackoff runs operation up to maxRetries times. When every attempt
// fails the original message fields go to the dead letter stream and the
// last error is returned.
func (h *RetryHandler) RetryWithBackoff(ctx context.Context, operation func() error, messageID string, fields map[string]interface{}) error {
	var lastErr error

	delay := h.baseDelay
	for attempt := 1; attempt <= h.maxRetries; attempt++ {
		lastErr = operation()
		if lastErr == nil {
			return nil
		}

		log.Warn().
			Err(lastErr).
			Str("message_id", messageID).
			Int("attempt", attempt).
			Int("max_retries", h.maxRetries).
			Msg("Message processing failed")

		if attempt == h.maxRetries {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}

	h.sendToDeadLetter(ctx, messageID, fields, lastErr)
	return lastErr
}

func (h *RetryHandler) sendToDeadLetter(ctx context.Context, messageID string, fields map[string]interface{}, cause error) {
	if h.deadLetterKey == "" {
		return
	}

	values := make(map[string]interface{}, len(fields)+3)
	for k, v := range fields {
		values[k] = v
	}
	values["original_message_id"] = messageID
	values["error"] = cause.Error()
	values["failed_at"] = time.Now().Format(time.RFC3339)

	err := h.client.XAdd(ctx, &redis.XAddArgs{
		Stream: h.deadLetterKey,
		Values: values,
	}).Err()
	if err != nil {
		log.Error().
			Err(err).
			Str("message_id", messageID).
			Msg("Failed to move message to dead letter stream")
		return
	}

	log.Info().
		Str("message_id", messageID).
		Str("dead_letter", h.deadLetterKey).
		Msg("Message moved to dead letter stream")
}
