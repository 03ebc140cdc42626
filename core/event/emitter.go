package event

import (
	"context"
	"time"

	"BeatWave/core/ledger"
	"BeatWave/db"
	"BeatWave/logger"
	"BeatWave/model"
	"BeatWave/repository"
)

// MultiEmitter fans one ledger event out to several sinks. Sink failures
// are logged, not propagated: the mutation has already committed and a
// broken listener must not fail the caller's operation.
type MultiEmitter []ledger.Emitter

// Emit sends the event to every sink in order.
func (m MultiEmitter) Emit(event model.Event) {
	for _, emitter := range m {
		emitter.Emit(event)
	}
}

// JournalEmitter persists every event through the event repository.
type JournalEmitter struct {
	Repo repository.EventRepository
}

// Emit appends the event to the journal.
func (e *JournalEmitter) Emit(event model.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := e.Repo.Append(ctx, event); err != nil {
		logger.Error("failed to journal ledger event",
			logger.String("type", string(event.Type)),
			logger.Int64("beatId", event.BeatID),
			logger.ErrorField(err),
		)
	}
}

// RedisEmitter publishes every event on a Redis pub/sub channel.
type RedisEmitter struct {
	Channel string
}

// Emit publishes the event.
func (e *RedisEmitter) Emit(event model.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PublishEvent(ctx, e.Channel, event); err != nil {
		logger.Error("failed to publish ledger event",
			logger.String("type", string(event.Type)),
			logger.Int64("beatId", event.BeatID),
			logger.ErrorField(err),
		)
	}
}
