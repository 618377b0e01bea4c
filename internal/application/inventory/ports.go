package inventory

import (
	"context"

	"github.com/jhoicas/inventario-pos/pkg/logger"
)

// Cache caché de lecturas agregadas (resumen de stock, estadísticas).
// Invalidate se llama después de cada recepción o venta confirmada.
type Cache interface {
	Fetch(ctx context.Context, name string, dest any, loader func(context.Context) (any, error)) error
	Invalidate(ctx context.Context) error
}

// cached lee name desde la caché o lo calcula con load. Sin caché configurada
// siempre calcula.
func cached[T any](ctx context.Context, c Cache, name string, load func(context.Context) (T, error)) (T, error) {
	if c == nil {
		return load(ctx)
	}
	var out T
	err := c.Fetch(ctx, name, &out, func(ctx context.Context) (any, error) {
		return load(ctx)
	})
	return out, err
}

// invalidate descarta las lecturas agregadas en caché. Un fallo de la caché no
// revierte una operación ya confirmada; solo se registra.
func invalidate(ctx context.Context, c Cache, log *logger.Logger) {
	if c == nil {
		return
	}
	if err := c.Invalidate(ctx); err != nil {
		log.Warn().Err(err).Msg("invalidar caché de stock")
	}
}
