package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
)

// AttributeType tipo de un campo de plantilla de categoría.
type AttributeType string

const (
	AttributeText   AttributeType = "text"
	AttributeNumber AttributeType = "number"
	AttributeSelect AttributeType = "select"
)

// Valid indica si el tipo es uno de los soportados.
func (t AttributeType) Valid() bool {
	switch t {
	case AttributeText, AttributeNumber, AttributeSelect:
		return true
	}
	return false
}

// AttributeValue valor tipado de un atributo de producto.
// Text se usa para text y select; Number para number.
type AttributeValue struct {
	Type   AttributeType
	Text   string
	Number decimal.Decimal
}

// TextValue construye un atributo de texto.
func TextValue(s string) AttributeValue { return AttributeValue{Type: AttributeText, Text: s} }

// NumberValue construye un atributo numérico.
func NumberValue(d decimal.Decimal) AttributeValue {
	return AttributeValue{Type: AttributeNumber, Number: d}
}

// SelectValue construye un atributo de selección.
func SelectValue(s string) AttributeValue { return AttributeValue{Type: AttributeSelect, Text: s} }

// MarshalJSON serializa el valor como escalar JSON (número sin comillas).
func (v AttributeValue) MarshalJSON() ([]byte, error) {
	if v.Type == AttributeNumber {
		return []byte(v.Number.String()), nil
	}
	return json.Marshal(v.Text)
}

// Attributes atributos de un producto, indexados por la clave de la plantilla.
type Attributes map[string]AttributeValue

// UnmarshalJSON reconstruye los atributos desde JSON. Los números quedan como
// AttributeNumber y las cadenas como AttributeText; la distinción text/select
// se recupera al validar contra la plantilla de la categoría.
func (a *Attributes) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(Attributes, len(raw))
	for key, msg := range raw {
		msg = bytes.TrimSpace(msg)
		if len(msg) > 0 && msg[0] == '"' {
			var s string
			if err := json.Unmarshal(msg, &s); err != nil {
				return fmt.Errorf("atributo %s: %w", key, err)
			}
			out[key] = TextValue(s)
			continue
		}
		d, err := decimal.NewFromString(string(msg))
		if err != nil {
			return fmt.Errorf("atributo %s: valor no soportado %s", key, strconv.Quote(string(msg)))
		}
		out[key] = NumberValue(d)
	}
	*a = out
	return nil
}
