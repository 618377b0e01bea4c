package entity

import (
	"fmt"
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-pos/internal/domain"
)

var templateKeyPattern = regexp.MustCompile(`^[a-z0-9_]+$`)

// TemplateField campo de la plantilla de atributos de una categoría.
type TemplateField struct {
	Key     string        `json:"key"`
	Label   string        `json:"label"`
	Type    AttributeType `json:"type"`
	Options []string      `json:"options,omitempty"` // solo para select
}

// Category agrupa productos y define qué atributos aceptan.
type Category struct {
	ID        string
	Name      string
	Template  []TemplateField
	CreatedAt time.Time
}

// ValidateTemplate revisa claves, tipos y opciones de la plantilla.
func (c *Category) ValidateTemplate() error {
	seen := make(map[string]struct{}, len(c.Template))
	for _, f := range c.Template {
		if !templateKeyPattern.MatchString(f.Key) {
			return domain.Invalid("clave de plantilla %q: solo minúsculas, dígitos y _", f.Key)
		}
		if _, dup := seen[f.Key]; dup {
			return domain.Invalid("clave de plantilla %q repetida", f.Key)
		}
		seen[f.Key] = struct{}{}
		if strings.TrimSpace(f.Label) == "" {
			return domain.Invalid("el campo %q requiere etiqueta", f.Key)
		}
		if !f.Type.Valid() {
			return domain.Invalid("tipo %q no soportado en %q", f.Type, f.Key)
		}
		if f.Type == AttributeSelect && len(f.Options) == 0 {
			return domain.Invalid("el campo select %q requiere opciones", f.Key)
		}
	}
	return nil
}

func (c *Category) field(key string) (TemplateField, bool) {
	for _, f := range c.Template {
		if f.Key == key {
			return f, true
		}
	}
	return TemplateField{}, false
}

// BuildAttributes convierte valores sin tipo (tal como llegan en JSON) en atributos
// tipados según la plantilla. Los campos de la plantilla son opcionales; una clave
// que no está en la plantilla es un error.
func (c *Category) BuildAttributes(raw map[string]any) (Attributes, error) {
	out := make(Attributes, len(raw))
	for key, value := range raw {
		f, ok := c.field(key)
		if !ok {
			return nil, domain.Invalid("el atributo %q no existe en la categoría %s", key, c.Name)
		}
		switch f.Type {
		case AttributeText:
			s, ok := value.(string)
			if !ok {
				return nil, domain.Invalid("el atributo %q debe ser texto", key)
			}
			out[key] = TextValue(s)
		case AttributeNumber:
			d, err := toDecimal(value)
			if err != nil {
				return nil, domain.Invalid("el atributo %q debe ser numérico", key)
			}
			out[key] = NumberValue(d)
		case AttributeSelect:
			s, ok := value.(string)
			if !ok || !slices.Contains(f.Options, s) {
				return nil, domain.Invalid("el atributo %q debe ser una de: %s", key, strings.Join(f.Options, ", "))
			}
			out[key] = SelectValue(s)
		}
	}
	return out, nil
}

// Conform revalida atributos ya tipados (p. ej. leídos de JSON) contra la plantilla.
func (c *Category) Conform(attrs Attributes) (Attributes, error) {
	raw := make(map[string]any, len(attrs))
	for k, v := range attrs {
		if v.Type == AttributeNumber {
			raw[k] = v.Number
			continue
		}
		raw[k] = v.Text
	}
	return c.BuildAttributes(raw)
}

func toDecimal(v any) (decimal.Decimal, error) {
	switch n := v.(type) {
	case decimal.Decimal:
		return n, nil
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return decimal.Zero, fmt.Errorf("número no finito")
		}
		return decimal.NewFromFloat(n), nil
	case int:
		return decimal.NewFromInt(int64(n)), nil
	case int64:
		return decimal.NewFromInt(n), nil
	case string:
		if _, err := strconv.ParseFloat(n, 64); err != nil {
			return decimal.Zero, err
		}
		return decimal.NewFromString(n)
	}
	return decimal.Zero, fmt.Errorf("tipo %T no numérico", v)
}
