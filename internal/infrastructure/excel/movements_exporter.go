// Package excel exporta el libro de movimientos a xlsx.
package excel

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/inventario-pos/internal/application/dto"
)

// SheetMovements nombre de la hoja exportada.
const SheetMovements = "Movimientos"

var movementHeaders = []string{
	"Fecha", "Producto", "Serial", "Tipo", "Cantidad", "Costo unitario", "Razón", "ID",
}

// MovementsExporter implementa inventory.MovementExporter con excelize.
type MovementsExporter struct{}

// NewMovementsExporter construye el exportador.
func NewMovementsExporter() *MovementsExporter { return &MovementsExporter{} }

// ExportMovements escribe una fila por movimiento, en el orden recibido, y
// devuelve el libro en bytes.
func (e *MovementsExporter) ExportMovements(movements []dto.MovementResponse) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SheetMovements); err != nil {
		return nil, fmt.Errorf("excel: renombrar hoja: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("excel: estilo: %w", err)
	}
	for i, h := range movementHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(SheetMovements, cell, h); err != nil {
			return nil, fmt.Errorf("excel: encabezado %s: %w", h, err)
		}
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(movementHeaders), 1)
	if err := f.SetCellStyle(SheetMovements, "A1", lastHeader, bold); err != nil {
		return nil, fmt.Errorf("excel: estilo encabezado: %w", err)
	}

	for i, m := range movements {
		r := i + 2
		var cost any
		if m.UnitCost != nil {
			cost = m.UnitCost.InexactFloat64()
		}
		values := []any{
			m.CreatedAt.Format("2006-01-02 15:04:05"),
			m.ProductName,
			m.SerialNumber,
			m.Type,
			m.Quantity,
			cost,
			m.Reason,
			m.ID,
		}
		for c, v := range values {
			if v == nil {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(c+1, r)
			if err := f.SetCellValue(SheetMovements, cell, v); err != nil {
				return nil, fmt.Errorf("excel: fila %d: %w", r, err)
			}
		}
	}

	_ = f.SetColWidth(SheetMovements, "A", "A", 20)
	_ = f.SetColWidth(SheetMovements, "B", "B", 32)
	_ = f.SetColWidth(SheetMovements, "G", "G", 40)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("excel: escribir libro: %w", err)
	}
	return buf.Bytes(), nil
}
