package cache

import (
	"context"
	"encoding/json"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/farmacore/ledger-api/internal/application/dto"
	"github.com/farmacore/ledger-api/internal/application/ledger"
	"github.com/farmacore/ledger-api/internal/application/reporting"
	"github.com/farmacore/ledger-api/internal/domain/entity"
)

var (
	_ reporting.SummaryCache = (*RedisCache)(nil)
	_ ledger.AuditNotifier   = (*RedisCache)(nil)
)

// auditStream stream al que se publican las entradas de bitácora confirmadas
// para consumidores externos (alertas, sincronización).
const auditStream = "ledger:audit"

// RedisCache cache del resumen del tablero y sink externo de bitácora sobre
// un mismo cliente Redis.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache construye el cliente.
func NewRedisCache(addr, password string, db int) *RedisCache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisCache{client: client}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

// Get lee el resumen cacheado; ok en false si no está o expiró.
func (c *RedisCache) Get(ctx context.Context, key string) (*dto.DashboardSummaryDTO, bool, error) {
	val, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var summary dto.DashboardSummaryDTO
	if err := json.Unmarshal([]byte(val), &summary); err != nil {
		return nil, false, err
	}
	return &summary, true, nil
}

// Set escribe el resumen con TTL.
func (c *RedisCache) Set(ctx context.Context, key string, value *dto.DashboardSummaryDTO, ttl time.Duration) error {
	if value == nil {
		return nil
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, payload, ttl).Err()
}

// Publish agrega las entradas de bitácora al stream. Se llama después del
// commit; el caller degrada a advertencia si esto falla.
func (c *RedisCache) Publish(ctx context.Context, entries []*entity.AuditLogEntry) error {
	pipe := c.client.Pipeline()
	for _, e := range entries {
		payload, err := json.Marshal(e)
		if err != nil {
			return err
		}
		pipe.XAdd(ctx, &redis.XAddArgs{
			Stream: auditStream,
			Values: map[string]any{"entry": payload},
		})
	}
	_, err := pipe.Exec(ctx)
	return err
}
