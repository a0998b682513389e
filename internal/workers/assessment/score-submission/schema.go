// internal/workers/assessment/score-submission/schema.go
package scoresubmission

import (
	"purpose-workers/internal/assessment/catalog"
)

// inputSchema checks shapes only. Cardinality and index ranges are left to the
// scoring engine so callers get its specific error codes.
func inputSchema(c *catalog.Catalog) map[string]interface{} {
	selection := map[string]interface{}{
		"type":  "array",
		"items": map[string]interface{}{"type": "integer"},
	}

	byQuestion := map[string]interface{}{}
	for _, q := range c.Questions() {
		byQuestion[q.ID] = selection
	}

	return map[string]interface{}{
		"$schema":  "http://json-schema.org/draft-07/schema#",
		"type":     "object",
		"required": []interface{}{"candidateId", "answers"},
		"properties": map[string]interface{}{
			"candidateId": map[string]interface{}{"type": "string"},
			"answers": map[string]interface{}{
				"oneOf": []interface{}{
					map[string]interface{}{
						"type":                 "object",
						"properties":           byQuestion,
						"additionalProperties": false,
					},
					map[string]interface{}{
						"type":  "array",
						"items": selection,
					},
				},
			},
		},
	}
}
