package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/medconnect/scheduling/pkg/core/model"
	"github.com/medconnect/scheduling/pkg/core/services"
)

const (
	TypeReapAvailability = "availability:reap"

	queueDefault = "default"
)

// ReapPayload carries the reference date for a reap run. An empty Today means
// the worker resolves the date when the task is processed.
type ReapPayload struct {
	Today string `json:"today,omitempty"`
}

// NewReapTask builds a reap task. A zero date defers the choice of "today" to
// the handler, which is what scheduled runs want.
func NewReapTask(today model.Date) (*asynq.Task, error) {
	payload := ReapPayload{}
	if !today.IsZero() {
		payload.Today = today.String()
	}

	b, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeReapAvailability, b), nil
}

// HandleReapTask removes expired availability for the payload date, or for
// the date returned by today when the payload leaves it unset.
func HandleReapTask(store services.ShiftReaperStore, logger *zap.Logger, today func() model.Date) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p ReapPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			logger.Error("Invalid reap payload", zap.Error(err))
			return fmt.Errorf("invalid reap payload: %v: %w", err, asynq.SkipRetry)
		}

		var date model.Date
		if p.Today != "" {
			parsed, err := model.ParseDate(p.Today)
			if err != nil {
				logger.Error("Invalid reap date", zap.String("today", p.Today), zap.Error(err))
				return fmt.Errorf("invalid reap date %q: %w", p.Today, asynq.SkipRetry)
			}
			date = parsed
		} else {
			date = today()
		}

		removed := services.ReapExpired(ctx, store, logger, date)
		logger.Info("Reap task finished",
			zap.String("today", date.String()),
			zap.Int("removed", removed))
		return nil
	}
}

// NewServeMux routes reaper task types to their handlers
func NewServeMux(store services.ShiftReaperStore, logger *zap.Logger, today func() model.Date) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeReapAvailability, HandleReapTask(store, logger, today))
	return mux
}

// Today returns the local calendar date
func Today() model.Date {
	return model.DateOf(time.Now())
}
