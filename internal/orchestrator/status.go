package orchestrator

import (
	"context"
	"time"

	"github.com/inkforge/scribeguard/internal/infra/redis"
	"github.com/inkforge/scribeguard/internal/models"
	"github.com/rs/zerolog/log"
)

const (
	statusKeyPrefix = "plagiarism_report_status:"
	statusTTL       = 12 * time.Hour
)

var validSteps = map[models.Step]bool{
	models.StepIdle:        true,
	models.StepInitiated:   true,
	models.StepExtracting:  true,
	models.StepSearching:   true,
	models.StepFetching:    true,
	models.StepScoring:     true,
	models.StepAggregating: true,
	models.StepDone:        true,
	models.StepFailed:      true,
}

// RedisStatus publishes pipeline steps to Redis so the API can answer
// status polls without touching MongoDB.
type RedisStatus struct {
	client *redis.Client
}

func NewRedisStatus(client *redis.Client) *RedisStatus {
	return &RedisStatus{client: client}
}

// Update is best-effort: a failed status write is logged, never surfaced.
// The terminal step must land even when the pipeline context was cancelled,
// so the write runs detached from the caller's cancellation.
func (s *RedisStatus) Update(ctx context.Context, documentID string, step models.Step) {
	if !validSteps[step] {
		log.Error().Str("step", string(step)).Msg("Refusing to publish unknown step")
		return
	}

	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()

	rkey := statusKeyPrefix + documentID
	if err := s.client.Set(writeCtx, rkey, string(step), statusTTL).Err(); err != nil {
		log.Error().Err(err).
			Str("step", string(step)).
			Str("documentId", documentID).
			Str("redisKey", rkey).
			Msg("Failed to update status in Redis")
		return
	}

	log.Trace().
		Str("step", string(step)).
		Str("documentId", documentID).
		Msg("Status updated in Redis")
}

// GetStatus reads the last published step, defaulting to idle when the key
// expired or was never written.
func (s *RedisStatus) GetStatus(ctx context.Context, documentID string) models.Step {
	value, err := s.client.Get(ctx, statusKeyPrefix+documentID).Result()
	if err != nil {
		return models.StepIdle
	}
	step := models.Step(value)
	if !validSteps[step] {
		return models.StepIdle
	}
	return step
}
