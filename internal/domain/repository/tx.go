package repository

import "context"

// Repos repositorios agrupados. Los que recibe fn en TxRunner.Run quedan
// atados a la transacción; fuera de ella operan contra el pool.
type Repos struct {
	Products  ProductRepository
	Items     ProductItemRepository
	Movements InventoryMovementRepository
	Stock     StockRepository
	Sales     SaleRepository
}

// TxRunner ejecuta fn dentro de una transacción: Commit si fn devuelve nil,
// Rollback en cualquier otro caso (incluida la cancelación de ctx).
type TxRunner interface {
	Run(ctx context.Context, fn func(ctx context.Context, repos Repos) error) error
	// RunReadOnly lee desde una única instantánea consistente.
	RunReadOnly(ctx context.Context, fn func(ctx context.Context, repos Repos) error) error
}
