package analyses

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractScalar(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"value with unit", map[string]any{"value": 149.0, "unit": "kcal"}, "149 kcal"},
		{"value without unit", map[string]any{"value": 3.5}, "3.5"},
		{"amount with unit", map[string]any{"amount": 1.0, "unit": "bar"}, "1 bar"},
		{"quantity with units key", map[string]any{"quantity": 30.0, "units": "ml"}, "30 ml"},
		{"val fallback key", map[string]any{"val": 12.0}, "12"},
		{"plain string", "12 g", "12 g"},
		{"plain number", 200.0, "200"},
		{"nil", nil, "N/A"},
		{"bool", true, "N/A"},
		{"object with no amount key", map[string]any{"foo": 1.0}, "N/A"},
		{"string valued amount", map[string]any{"value": "1-2", "unit": "slices"}, "1-2 slices"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractScalar(tt.in))
		})
	}
}

func TestFormatPortion(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"amount unit grams", map[string]any{"amount": 1.0, "unit": "bar", "grams": 45.0}, "1 bar (45g)"},
		{"value with unit", map[string]any{"value": 30.0, "unit": "g"}, "30 g"},
		{"value with grams", map[string]any{"value": 2.0, "unit": "squares", "grams": 25.0}, "2 squares (25g)"},
		{"plain string", "a handful", "a handful"},
		{"nil", nil, "Not specified"},
		{"empty string", "", "Not specified"},
		{"unrecognized object", map[string]any{"size": "small"}, "N/A"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatPortion(tt.in))
		})
	}
}

func TestNutrientValue(t *testing.T) {
	nutrition := map[string]any{
		"energy":  200.0,
		"protein": map[string]any{"value": 5.0, "unit": "g"},
		"fibre":   "2 g",
	}

	assert.Equal(t, "200", NutrientValue(nutrition, "calories"), "synonym lookup")
	assert.Equal(t, "5 g", NutrientValue(nutrition, "protein"), "exact match")
	assert.Equal(t, "2 g", NutrientValue(nutrition, "fiber"))
	assert.Equal(t, "N/A", NutrientValue(nutrition, "sodium"))
	assert.Equal(t, "N/A", NutrientValue(nil, "calories"))

	// exact key wins over synonyms
	both := map[string]any{"calories": 100.0, "kcal": 999.0}
	assert.Equal(t, "100", NutrientValue(both, "calories"))
}

func TestClampHealthScore(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want int
	}{
		{"negative", -3.0, 0},
		{"above ten", 14.0, 10},
		{"in range", 7.0, 7},
		{"rounds up", 7.5, 8},
		{"rounds down", 7.4, 7},
		{"numeric string", "8", 8},
		{"garbage string", "very healthy", 0},
		{"nil", nil, 0},
		{"list", []any{5.0}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClampHealthScore(tt.in))
		})
	}
}

func TestSanitizeConcerns(t *testing.T) {
	assert.Equal(t, []string{"high sugar", "palm oil"},
		SanitizeConcerns([]any{"high sugar", "", 3.0, "palm oil", "   "}))
	assert.Equal(t, []string{"high sodium"}, SanitizeConcerns("high sodium"))
	assert.Empty(t, SanitizeConcerns(nil))
	assert.Empty(t, SanitizeConcerns(7.0))
	assert.Empty(t, SanitizeConcerns("  "))
}

func TestFormatKeyName(t *testing.T) {
	assert.Equal(t, "Dietary Fiber", FormatKeyName("dietaryFiber"))
	assert.Equal(t, "Total fat", FormatKeyName("total_fat"))
	assert.Equal(t, "Calories", FormatKeyName("calories"))
	assert.Equal(t, "", FormatKeyName(""))
}

func TestSafeString(t *testing.T) {
	assert.Equal(t, "N/A", SafeString(nil, "N/A"))
	assert.Equal(t, "Unknown Product", SafeString("", "Unknown Product"))
	assert.Equal(t, "Granola", SafeString("Granola", "Unknown Product"))
	assert.Equal(t, "4", SafeString(4.0, "N/A"))
}

func TestClassify(t *testing.T) {
	fv := Classify(map[string]any{"amount": 1.0, "unit": "bar", "grams": 45.0})
	assert.Equal(t, KindAmount, fv.Kind)
	assert.Equal(t, "1", fv.Value)
	assert.Equal(t, "bar", fv.Unit)
	assert.Equal(t, "45", fv.Grams)

	assert.Equal(t, KindScalar, Classify("x").Kind)
	assert.Equal(t, KindUnknown, Classify(nil).Kind)
	assert.Equal(t, KindUnknown, Classify(map[string]any{"value": nil}).Kind)
}
