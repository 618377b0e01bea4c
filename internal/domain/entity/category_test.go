package entity_test

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-pos/internal/domain"
	"github.com/jhoicas/inventario-pos/internal/domain/entity"
)

func phonesCategory() *entity.Category {
	return &entity.Category{
		ID:   "c1",
		Name: "Celulares",
		Template: []entity.TemplateField{
			{Key: "brand", Label: "Marca", Type: entity.AttributeText},
			{Key: "storage_gb", Label: "Almacenamiento", Type: entity.AttributeNumber},
			{Key: "color", Label: "Color", Type: entity.AttributeSelect, Options: []string{"negro", "blanco"}},
		},
	}
}

func TestCategory_ValidateTemplate(t *testing.T) {
	require.NoError(t, phonesCategory().ValidateTemplate())

	cases := map[string]entity.TemplateField{
		"clave con mayúsculas": {Key: "Brand", Label: "Marca", Type: entity.AttributeText},
		"tipo desconocido":     {Key: "brand", Label: "Marca", Type: "date"},
		"select sin opciones":  {Key: "color", Label: "Color", Type: entity.AttributeSelect},
		"sin etiqueta":         {Key: "brand", Type: entity.AttributeText},
	}
	for name, f := range cases {
		t.Run(name, func(t *testing.T) {
			c := &entity.Category{Name: "x", Template: []entity.TemplateField{f}}
			assert.ErrorIs(t, c.ValidateTemplate(), domain.ErrInvalidInput)
		})
	}

	dup := &entity.Category{Template: []entity.TemplateField{
		{Key: "a", Label: "A", Type: entity.AttributeText},
		{Key: "a", Label: "A2", Type: entity.AttributeText},
	}}
	assert.ErrorIs(t, dup.ValidateTemplate(), domain.ErrInvalidInput)
}

func TestCategory_BuildAttributes(t *testing.T) {
	c := phonesCategory()
	attrs, err := c.BuildAttributes(map[string]any{
		"brand":      "Apple",
		"storage_gb": float64(256),
		"color":      "negro",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.TextValue("Apple"), attrs["brand"])
	assert.True(t, attrs["storage_gb"].Number.Equal(decimal.NewFromInt(256)))
	assert.Equal(t, entity.AttributeSelect, attrs["color"].Type)

	_, err = c.BuildAttributes(map[string]any{"color": "rojo"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = c.BuildAttributes(map[string]any{"storage_gb": "mucho"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = c.BuildAttributes(map[string]any{"weight": 1.0})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAttributes_JSON(t *testing.T) {
	attrs := entity.Attributes{
		"brand":      entity.TextValue("Samsung"),
		"storage_gb": entity.NumberValue(decimal.NewFromInt(128)),
	}
	raw, err := json.Marshal(attrs)
	require.NoError(t, err)
	assert.JSONEq(t, `{"brand":"Samsung","storage_gb":128}`, string(raw))

	var back entity.Attributes
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, "Samsung", back["brand"].Text)
	assert.True(t, back["storage_gb"].Number.Equal(decimal.NewFromInt(128)))

	conformed, err := phonesCategory().Conform(back)
	require.NoError(t, err)
	assert.Len(t, conformed, 2)
}
