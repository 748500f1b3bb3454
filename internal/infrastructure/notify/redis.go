// Package notify publica eventos de dominio hacia el canal externo.
package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/leadflow-api/internal/application/dto"
	"github.com/jhoicas/leadflow-api/pkg/config"
	"github.com/jhoicas/leadflow-api/pkg/logger"
)

// Publisher abstrae PUBLISH para poder sustituir el cliente en tests.
type Publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// RedisNotifier publica "task created" como JSON en un canal Redis pub/sub.
type RedisNotifier struct {
	pub     Publisher
	channel string
	log     *logger.Logger
}

// NewRedisClient crea el cliente a partir de la configuración.
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// NewRedisNotifier construye el notificador sobre pub.
func NewRedisNotifier(pub Publisher, channel string, log *logger.Logger) *RedisNotifier {
	if log == nil {
		log = logger.Nop()
	}
	return &RedisNotifier{pub: pub, channel: channel, log: log.Component("redis_notifier")}
}

// TaskCreated publica el evento. Cero suscriptores no es un error.
func (n *RedisNotifier) TaskCreated(ctx context.Context, ev dto.TaskCreatedEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("notify: encode: %w", err)
	}
	receivers, err := n.pub.Publish(ctx, n.channel, payload).Result()
	if err != nil {
		return fmt.Errorf("notify: publish %s: %w", n.channel, err)
	}
	n.log.Debug().Str("task_id", ev.TaskID).Int64("receivers", receivers).Msg("evento publicado")
	return nil
}
