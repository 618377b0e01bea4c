package excel

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/inventario-pos/internal/application/dto"
)

func TestExportMovements_LeeLoQueEscribe(t *testing.T) {
	cost := decimal.NewFromInt(320)
	item := "i1"
	at := time.Date(2025, 3, 14, 10, 30, 0, 0, time.UTC)
	movements := []dto.MovementResponse{
		{ID: "m2", ProductName: "iPhone 13", ProductItemID: &item, SerialNumber: "IMEI123",
			Type: "OUT", Quantity: 1, Reason: "Venta #s1", CreatedAt: at},
		{ID: "m1", ProductName: "iPhone 13", ProductItemID: &item, SerialNumber: "IMEI123",
			Type: "IN", Quantity: 1, UnitCost: &cost, Reason: "Recepción de mercancía", CreatedAt: at},
	}

	out, err := NewMovementsExporter().ExportMovements(movements)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetMovements)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, movementHeaders, rows[0])

	assert.Equal(t, "2025-03-14 10:30:00", rows[1][0])
	assert.Equal(t, "IMEI123", rows[1][2])
	assert.Equal(t, "OUT", rows[1][3])
	assert.Equal(t, "1", rows[1][4])
	assert.Equal(t, "", rows[1][5], "las salidas no llevan costo")
	assert.Equal(t, "m2", rows[1][7])

	assert.Equal(t, "IN", rows[2][3])
	assert.Equal(t, "320", rows[2][5])
	assert.Equal(t, "Recepción de mercancía", rows[2][6])
}

func TestExportMovements_SinMovimientos(t *testing.T) {
	out, err := NewMovementsExporter().ExportMovements(nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetMovements)
	require.NoError(t, err)
	require.Len(t, rows, 1)
}
