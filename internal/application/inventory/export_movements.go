package inventory

import (
	"context"
	"fmt"

	"github.com/jhoicas/inventario-pos/internal/application/dto"
	"github.com/jhoicas/inventario-pos/internal/domain"
	"github.com/jhoicas/inventario-pos/internal/domain/repository"
)

// MovementExporter serializa el libro de movimientos a un archivo descargable.
type MovementExporter interface {
	ExportMovements(movements []dto.MovementResponse) ([]byte, error)
}

// ExportMovements todo el libro (o el de un producto) en el formato del exportador.
func (uc *StockUseCase) ExportMovements(ctx context.Context, productID string, exporter MovementExporter) ([]byte, error) {
	if exporter == nil {
		return nil, fmt.Errorf("%w: exportador no configurado", domain.ErrStorage)
	}
	list, err := uc.repos.Movements.List(ctx, repository.MovementFilter{ProductID: productID})
	if err != nil {
		return nil, err
	}
	rows := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		rows = append(rows, toMovementResponse(m))
	}
	return exporter.ExportMovements(rows)
}
