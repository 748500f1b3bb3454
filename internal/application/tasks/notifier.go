package tasks

import (
	"context"
	"time"

	"github.com/jhoicas/leadflow-api/internal/application/dto"
	"github.com/jhoicas/leadflow-api/pkg/logger"
	"github.com/jhoicas/leadflow-api/pkg/metrics"
)

// Notifier publica el evento "task created" hacia el canal externo.
type Notifier interface {
	TaskCreated(ctx context.Context, ev dto.TaskCreatedEvent) error
}

// Dispatcher dispara notificaciones fuera del ciclo de la petición.
// Los fallos se registran y se cuentan; nunca llegan al llamador.
type Dispatcher struct {
	notifier Notifier
	timeout  time.Duration
	log      *logger.Logger
	metrics  *metrics.Metrics
}

// NewDispatcher construye el dispatcher. timeout <= 0 usa 5s.
func NewDispatcher(n Notifier, timeout time.Duration, log *logger.Logger, m *metrics.Metrics) *Dispatcher {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Dispatcher{notifier: n, timeout: timeout, log: log.Component("notify"), metrics: m}
}

// Dispatch lanza la notificación en una goroutine independiente con su propio timeout.
// El contexto de la petición no se usa: la notificación sobrevive a la respuesta.
func (d *Dispatcher) Dispatch(ev dto.TaskCreatedEvent) {
	if d == nil || d.notifier == nil {
		return
	}
	go d.send(ev)
}

func (d *Dispatcher) send(ev dto.TaskCreatedEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			d.fail(ev, nil, r)
		}
	}()

	if err := d.notifier.TaskCreated(ctx, ev); err != nil {
		d.fail(ev, err, nil)
		return
	}
	d.log.Debug().Str("task_id", ev.TaskID).Msg("notificación publicada")
}

func (d *Dispatcher) fail(ev dto.TaskCreatedEvent, err error, panicked any) {
	if d.metrics != nil {
		d.metrics.NotificationsFailed.Inc()
	}
	e := d.log.Warn().Str("task_id", ev.TaskID).Str("application_id", ev.ApplicationID)
	if panicked != nil {
		e = e.Interface("panic", panicked)
	}
	e.Err(err).Msg("no se pudo publicar la notificación de tarea")
}
