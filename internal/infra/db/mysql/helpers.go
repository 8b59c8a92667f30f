package mysql

import (
	"encoding/json"
	"strings"

	domain "github.com/nutriscan/nutriscan-api/internal/domain/analyses"
)

// escapeLikePattern escapes LIKE wildcards in user-supplied filters
func escapeLikePattern(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

// marshalFlexFields serializes the variable-shape record fields into JSON
// columns, keeping the model's shapes verbatim.
func marshalFlexFields(rec *domain.Record) (score, concerns, portion, nutrition []byte, err error) {
	if score, err = json.Marshal(rec.HealthScore); err != nil {
		return
	}
	if concerns, err = json.Marshal(rec.Concerns); err != nil {
		return
	}
	if portion, err = json.Marshal(rec.RecommendedPortion); err != nil {
		return
	}
	nutrition, err = json.Marshal(rec.NutritionPerPortion)
	return
}

// unmarshalFlex decodes a JSON column back into its original shape.
// A column that fails to decode is treated as absent.
func unmarshalFlex(raw []byte) any {
	if len(raw) == 0 {
		return nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	return v
}
