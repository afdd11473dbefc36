package api

import (
	"strings"

	"github.com/Spok95/estoque/internal/domain/employees"
	"github.com/Spok95/estoque/internal/sheet"
)

// Payload is the decoded "data" object of a request.
type Payload map[string]any

// String returns the first present key as trimmed text. Numbers are
// rendered without a trailing fraction ("2" rather than "2.0").
func (p Payload) String(keys ...string) string {
	for _, k := range keys {
		v, ok := p[k]
		if !ok || v == nil {
			continue
		}
		return strings.TrimSpace(sheet.Text(v))
	}
	return ""
}

// Number returns the first present key as a number. Numeric strings,
// including a decimal comma, are accepted; anything else is 0.
func (p Payload) Number(keys ...string) float64 {
	for _, k := range keys {
		v, ok := p[k]
		if !ok || v == nil {
			continue
		}
		return sheet.Number(v)
	}
	return 0
}

func (p Payload) Badge(keys ...string) employees.Badge {
	for _, k := range keys {
		if v, ok := p[k]; ok && v != nil {
			return employees.ParseBadge(v)
		}
	}
	return ""
}

// Object returns the nested object under key. Clients that send the fields
// flat get the payload itself back.
func (p Payload) Object(key string) Payload {
	if m, ok := p[key].(map[string]any); ok {
		return Payload(m)
	}
	return p
}
