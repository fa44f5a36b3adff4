// AngelaMos | 2026
// recorder.go

package audit

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// Recorder writes audit rows without ever failing the caller. A lost
// audit entry is logged and swallowed; the admin mutation it describes
// has already happened.
type Recorder struct {
	repo   Repository
	logger *slog.Logger
}

func NewRecorder(repo Repository, logger *slog.Logger) *Recorder {
	return &Recorder{repo: repo, logger: logger}
}

func (r *Recorder) Record(
	ctx context.Context,
	actorID, action, entityType, entityID string,
	detail Detail,
) {
	entry := &Log{
		ID:         uuid.New().String(),
		ActorID:    actorID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Detail:     detail,
	}

	if err := r.repo.Create(ctx, entry); err != nil {
		r.logger.Error("audit write failed",
			"action", action,
			"entity_type", entityType,
			"entity_id", entityID,
			"error", err,
		)
	}
}
