// Package cache caché de lecturas agregadas de stock sobre Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix  = "inventario:stock"
	versionKey = keyPrefix + ":version"
)

// StockCache caché versionada: cada entrada lleva en la clave la versión vigente
// e Invalidate sube la versión, de modo que todas las entradas anteriores quedan
// huérfanas y expiran por TTL.
type StockCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStockCache instancia la caché.
func NewStockCache(client *redis.Client, ttl time.Duration) *StockCache {
	return &StockCache{client: client, ttl: ttl}
}

// Version versión vigente; la inicializa en 1 si no existe.
func (c *StockCache) Version(ctx context.Context) (int64, error) {
	if c == nil || c.client == nil {
		return 0, nil
	}
	ver, err := c.client.Get(ctx, versionKey).Int64()
	if errors.Is(err, redis.Nil) {
		if err := c.client.SetNX(ctx, versionKey, 1, 0).Err(); err != nil {
			return 0, err
		}
		return c.client.Get(ctx, versionKey).Int64()
	}
	if err != nil {
		return 0, err
	}
	return ver, nil
}

func (c *StockCache) buildKey(ctx context.Context, name string) (string, error) {
	ver, err := c.Version(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s:%s:%d", keyPrefix, strings.ReplaceAll(name, " ", "_"), ver), nil
}

// Fetch lee name en dest o lo calcula con loader y lo guarda. Si Redis falla
// al leer se calcula directamente: la caché nunca bloquea una consulta.
func (c *StockCache) Fetch(ctx context.Context, name string, dest any, loader func(context.Context) (any, error)) error {
	if loader == nil {
		return errors.New("cache: loader requerido")
	}
	if c == nil || c.client == nil {
		return load(ctx, dest, loader, nil)
	}
	key, err := c.buildKey(ctx, name)
	if err != nil {
		return load(ctx, dest, loader, nil)
	}
	payload, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		return json.Unmarshal(payload, dest)
	}
	if !errors.Is(err, redis.Nil) {
		return load(ctx, dest, loader, nil)
	}
	return load(ctx, dest, loader, func(raw []byte) error {
		return c.client.Set(ctx, key, raw, c.ttl).Err()
	})
}

func load(ctx context.Context, dest any, loader func(context.Context) (any, error), store func([]byte) error) error {
	value, err := loader(ctx)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache: marshal: %w", err)
	}
	if store != nil {
		// un fallo al guardar no invalida el valor recién calculado
		_ = store(raw)
	}
	return json.Unmarshal(raw, dest)
}

// Invalidate sube la versión global.
func (c *StockCache) Invalidate(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Incr(ctx, versionKey).Err()
}
