package analyses

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// The model is free to shape an amount as a bare scalar, or as an object
// like {"value": 149, "unit": "kcal"} or {"amount": 1, "unit": "bar",
// "grams": 45}. Classify folds all of that into one tagged union so the
// formatting functions below are a single exhaustive switch instead of
// repeated shape-sniffing.

// ValueKind enum
type ValueKind int

const (
	KindUnknown ValueKind = iota
	KindScalar
	KindAmount
)

// FlexValue is the parsed form of a model-produced amount.
type FlexValue struct {
	Kind  ValueKind
	Value string // KindScalar and KindAmount
	Unit  string // KindAmount only, may be empty
	Grams string // KindAmount only, empty when absent
}

// amountKeys in probe order, matching the shapes seen in model replies.
var amountKeys = []string{"value", "amount", "quantity", "val"}

// Classify parses an arbitrary decoded JSON value into a FlexValue.
// It never fails; anything unrecognized comes back as KindUnknown.
func Classify(v any) FlexValue {
	switch t := v.(type) {
	case string:
		return FlexValue{Kind: KindScalar, Value: t}
	case float64:
		return FlexValue{Kind: KindScalar, Value: formatNumber(t)}
	case int:
		return FlexValue{Kind: KindScalar, Value: strconv.Itoa(t)}
	case map[string]any:
		for _, key := range amountKeys {
			raw, ok := t[key]
			if !ok || raw == nil {
				continue
			}
			fv := FlexValue{Kind: KindAmount, Value: stringify(raw)}
			if u, ok := t["unit"].(string); ok {
				fv.Unit = u
			} else if u, ok := t["units"].(string); ok {
				fv.Unit = u
			}
			if g, ok := t["grams"]; ok && g != nil {
				fv.Grams = stringify(g)
			}
			return fv
		}
	}
	return FlexValue{Kind: KindUnknown}
}

// ExtractScalar renders any amount-shaped value as a display string.
// Unrecognized input maps to the "N/A" sentinel.
func ExtractScalar(v any) string {
	fv := Classify(v)
	switch fv.Kind {
	case KindScalar:
		return fv.Value
	case KindAmount:
		if fv.Unit != "" {
			return fv.Value + " " + fv.Unit
		}
		return fv.Value
	default:
		return "N/A"
	}
}

// FormatPortion renders a recommended portion, appending a parenthesized
// gram equivalent when the model provided one, e.g. "1 bar (45g)".
func FormatPortion(v any) string {
	if v == nil {
		return "Not specified"
	}
	if s, ok := v.(string); ok && strings.TrimSpace(s) == "" {
		return "Not specified"
	}
	fv := Classify(v)
	switch fv.Kind {
	case KindScalar:
		return fv.Value
	case KindAmount:
		out := fv.Value
		if fv.Unit != "" {
			out += " " + fv.Unit
		}
		if fv.Grams != "" {
			out += " (" + fv.Grams + "g)"
		}
		return out
	default:
		return "N/A"
	}
}

// nutrientSynonyms maps canonical nutrient names to the alternative keys
// models tend to pick.
var nutrientSynonyms = map[string][]string{
	"calories": {"calorie", "cal", "energy", "kcal"},
	"protein":  {"proteins", "prot"},
	"carbs":    {"carbohydrates", "carb", "carbohydrate"},
	"fat":      {"fats", "totalFat", "total_fat"},
	"sodium":   {"salt", "na"},
	"fiber":    {"fibre", "dietary_fiber", "dietaryFiber"},
}

// NutrientValue looks up key in a nutrition map, falling back to the
// synonym table on a miss.
func NutrientValue(nutrition map[string]any, key string) string {
	if len(nutrition) == 0 {
		return "N/A"
	}
	if v, ok := nutrition[key]; ok {
		return ExtractScalar(v)
	}
	for _, alt := range nutrientSynonyms[key] {
		if v, ok := nutrition[alt]; ok {
			return ExtractScalar(v)
		}
	}
	return "N/A"
}

// ClampHealthScore coerces a model-chosen score into [0,10].
func ClampHealthScore(v any) int {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case int:
		f = float64(t)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}
	if math.IsNaN(f) || f < 0 {
		return 0
	}
	if f > 10 {
		return 10
	}
	return int(math.Round(f))
}

// SanitizeConcerns keeps only non-empty string entries. A bare string is
// wrapped as a single-element list; anything else yields an empty list.
func SanitizeConcerns(v any) []string {
	out := []string{}
	switch t := v.(type) {
	case []any:
		for _, item := range t {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, s)
			}
		}
	case []string:
		for _, s := range t {
			if strings.TrimSpace(s) != "" {
				out = append(out, s)
			}
		}
	case string:
		if strings.TrimSpace(t) != "" {
			out = append(out, t)
		}
	}
	return out
}

// FormatKeyName turns a camelCase or snake_case nutrient key into a
// display label, e.g. "dietary_fiber" -> "Dietary fiber".
func FormatKeyName(key string) string {
	var b strings.Builder
	for i, r := range key {
		switch {
		case r == '_':
			b.WriteByte(' ')
		case i > 0 && r >= 'A' && r <= 'Z':
			b.WriteByte(' ')
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
	out := b.String()
	if out == "" {
		return out
	}
	return strings.ToUpper(out[:1]) + out[1:]
}

// SafeString renders v, substituting fallback for nil or empty input.
func SafeString(v any, fallback string) string {
	if v == nil {
		return fallback
	}
	s := stringify(v)
	if s == "" {
		return fallback
	}
	return s
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return formatNumber(t)
	case int:
		return strconv.Itoa(t)
	default:
		return fmt.Sprint(t)
	}
}

// formatNumber keeps integral floats free of a trailing ".0".
func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
