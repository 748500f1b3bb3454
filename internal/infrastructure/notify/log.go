package notify

import (
	"context"

	"github.com/jhoicas/leadflow-api/internal/application/dto"
	"github.com/jhoicas/leadflow-api/pkg/logger"
)

// LogNotifier solo registra el evento. Se usa cuando REDIS_ADDR está vacío.
type LogNotifier struct {
	log *logger.Logger
}

// NewLogNotifier construye el notificador de respaldo.
func NewLogNotifier(log *logger.Logger) *LogNotifier {
	if log == nil {
		log = logger.Nop()
	}
	return &LogNotifier{log: log.Component("log_notifier")}
}

// TaskCreated registra el evento y nunca falla.
func (n *LogNotifier) TaskCreated(_ context.Context, ev dto.TaskCreatedEvent) error {
	n.log.Info().
		Str("task_id", ev.TaskID).
		Str("application_id", ev.ApplicationID).
		Str("type", ev.Type).
		Time("due_at", ev.DueAt).
		Msg("task created")
	return nil
}
