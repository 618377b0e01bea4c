package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/inventario-pos/internal/domain"
	"github.com/jhoicas/inventario-pos/internal/domain/repository"
	"github.com/jhoicas/inventario-pos/pkg/config"
	"github.com/jhoicas/inventario-pos/pkg/logger"
)

var _ repository.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
// Las escrituras corren en READ COMMITTED con bloqueos explícitos (FOR UPDATE);
// las lecturas en REPEATABLE READ de solo lectura para ver una sola instantánea.
type TxRunner struct {
	pool *pgxpool.Pool
	cfg  config.TxConfig
	log  *logger.Logger
}

// NewTxRunner construye el runner con el pool y la política de reintentos.
func NewTxRunner(pool *pgxpool.Pool, cfg config.TxConfig, log *logger.Logger) *TxRunner {
	if log == nil {
		log = logger.Nop()
	}
	return &TxRunner{pool: pool, cfg: cfg, log: log.Component("tx")}
}

// Repos repositorios contra el pool, fuera de transacción.
func Repos(q Querier) repository.Repos {
	return repository.Repos{
		Products:  NewProductRepository(q),
		Items:     NewProductItemRepository(q),
		Movements: NewInventoryMovementRepository(q),
		Stock:     NewStockRepository(q),
		Sales:     NewSaleRepository(q),
	}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
// Un conflicto de serialización o deadlock repite fn completa.
func (r *TxRunner) Run(ctx context.Context, fn func(ctx context.Context, repos repository.Repos) error) error {
	opts := pgx.TxOptions{IsoLevel: pgx.ReadCommitted}
	return withRetry(ctx, r.cfg, r.log, func(ctx context.Context) error {
		return r.runOnce(ctx, opts, fn)
	})
}

// RunReadOnly lee desde una única instantánea.
func (r *TxRunner) RunReadOnly(ctx context.Context, fn func(ctx context.Context, repos repository.Repos) error) error {
	opts := pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}
	return withRetry(ctx, r.cfg, r.log, func(ctx context.Context) error {
		return r.runOnce(ctx, opts, fn)
	})
}

func (r *TxRunner) runOnce(ctx context.Context, opts pgx.TxOptions, fn func(ctx context.Context, repos repository.Repos) error) error {
	tx, err := r.pool.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	// el rollback debe llegar al servidor aunque ctx ya se haya cancelado
	defer func() { _ = tx.Rollback(context.WithoutCancel(ctx)) }()

	if err := fn(ctx, Repos(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// withRetry ejecuta op hasta cfg.MaxRetries veces más mientras falle con un error
// reintentable, con espera exponencial. Los errores de dominio pasan tal cual;
// el resto se clasifica como ErrStorage.
func withRetry(ctx context.Context, cfg config.TxConfig, log *logger.Logger, op func(context.Context) error) error {
	backoff := cfg.Backoff
	for attempt := 1; ; attempt++ {
		err := op(ctx)
		if err == nil {
			return nil
		}
		if !isRetryable(err) {
			return classify(err)
		}
		if attempt > cfg.MaxRetries {
			return fmt.Errorf("%w: %d intentos: %v", domain.ErrConcurrencyConflict, attempt, err)
		}
		log.Warn().Err(err).Int("attempt", attempt).Dur("backoff", backoff).Msg("transacción en conflicto, reintentando")
		if backoff > 0 {
			timer := time.NewTimer(backoff)
			select {
			case <-ctx.Done():
				timer.Stop()
				return fmt.Errorf("%w: %w", domain.ErrStorage, ctx.Err())
			case <-timer.C:
			}
			backoff *= 2
		}
	}
}

func classify(err error) error {
	if domain.IsDomainError(err) {
		return err
	}
	return fmt.Errorf("%w: %w", domain.ErrStorage, err)
}
