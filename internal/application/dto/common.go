package dto

import (
	"bytes"
	"encoding/json"
)

// PageRequest paginación para listados.
type PageRequest struct {
	Limit  int `query:"limit" validate:"min=0,max=100"`
	Offset int `query:"offset" validate:"min=0"`
}

// DefaultPage aplica valores por defecto si Limit/Offset son cero.
func (p *PageRequest) DefaultPage() {
	if p.Limit <= 0 {
		p.Limit = 20
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total,omitempty"`
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Details []FieldError `json:"details,omitempty"`
}

// FieldError detalle de validación por campo.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// NumberInput campo numérico de entrada: acepta número JSON (10.5) o string ("10.50").
// Set distingue "no enviado" de "enviado"; un null explícito deja Set=true y Raw=nil.
// Se usa por valor (no puntero) para que encoding/json invoque UnmarshalJSON también con null.
type NumberInput struct {
	Raw any
	Set bool
}

// UnmarshalJSON conserva el literal sin pasar por float64.
func (n *NumberInput) UnmarshalJSON(b []byte) error {
	n.Set = true
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return err
	}
	n.Raw = v
	return nil
}

// MarshalJSON devuelve el valor tal como se recibió.
func (n NumberInput) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.Raw)
}

// Num construye un NumberInput presente (tests y código interno).
func Num(v any) NumberInput {
	return NumberInput{Raw: v, Set: true}
}
