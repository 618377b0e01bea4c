package pos_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-pos/internal/domain"
)

func TestSearchProduct_PorNombre(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Cargador Rápido 20W", false)
	f.receiveBulk(t, p.ID, 3, "40")

	found, err := f.search.SearchProduct(context.Background(), "cargador")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, p.ID, found.ProductID)
	assert.Nil(t, found.ProductItemID)
	assert.Equal(t, 3, found.AvailableQty)
	assert.True(t, found.AvgUnitCost.Equal(dec("40")))
}

func TestSearchProduct_SinCoincidencias(t *testing.T) {
	f := newFixture(t)
	found, err := f.search.SearchProduct(context.Background(), "nada")
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestSearchProduct_CodigoVacio(t *testing.T) {
	f := newFixture(t)
	_, err := f.search.SearchProduct(context.Background(), "   ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSearchProduct_NormalizaUnicode(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "C\u00e1mara frontal", false)

	// la misma palabra con el acento como carácter combinado
	found, err := f.search.SearchProduct(context.Background(), "Ca\u0301mara")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, p.ID, found.ProductID)
}
