package analyses

import (
	"encoding/json"
	"regexp"

	domain "github.com/nutriscan/nutriscan-api/internal/domain/analyses"
)

// The model is instructed to fence its structured output with a json
// language tag. Replies that omit the tag or fence irregularly are a hard
// extraction failure; we do not attempt a more lenient parse.
var fencedJSON = regexp.MustCompile("(?s)```json\n(.*?)\n```")

// ExtractJSON pulls the fenced JSON block out of a raw model reply.
func ExtractJSON(reply string) (map[string]any, error) {
	m := fencedJSON.FindStringSubmatch(reply)
	if m == nil {
		return nil, &domain.ExtractionError{Reason: "no structured data found"}
	}

	var parsed map[string]any
	if err := json.Unmarshal([]byte(m[1]), &parsed); err != nil {
		return nil, &domain.ExtractionError{Reason: "malformed JSON block", Cause: err}
	}
	return parsed, nil
}
