package exchange

import (
	"sync"

	"purpose-workers/internal/assessment/catalog"
	"purpose-workers/internal/common/validation"
	"purpose-workers/internal/models"
)

var (
	schemaOnce     sync.Once
	compiledSchema *validation.Schema
)

// PayloadSchema returns the JSON schema every exchange payload satisfies.
// Answer keys follow the default catalog's question IDs.
func PayloadSchema() map[string]interface{} {
	tiers := make([]interface{}, 0, len(models.Tiers))
	for _, t := range models.Tiers {
		tiers = append(tiers, t.String())
	}

	selection := map[string]interface{}{
		"type":        "array",
		"minItems":    models.SelectionsPerQuestion,
		"maxItems":    models.SelectionsPerQuestion,
		"uniqueItems": true,
		"items":       map[string]interface{}{"type": "integer", "minimum": 0},
	}

	keys := answerKeys()
	answerProps := make(map[string]interface{}, len(keys))
	required := make([]interface{}, 0, len(keys))
	for _, k := range keys {
		answerProps[k] = selection
		required = append(required, k)
	}

	text := map[string]interface{}{"type": "string"}
	textList := map[string]interface{}{
		"type":  "array",
		"items": text,
	}

	return map[string]interface{}{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"type":    "object",
		"required": []interface{}{
			"schemaVersion", "candidateId", "totalScore", "tier", "computedAt", "answers", "analysis",
		},
		"properties": map[string]interface{}{
			"schemaVersion": map[string]interface{}{"type": "integer", "enum": []interface{}{SchemaVersion}},
			"candidateId":   map[string]interface{}{"type": "string", "pattern": `\S`},
			"totalScore":    map[string]interface{}{"type": "integer", "minimum": 0},
			"tier":          map[string]interface{}{"type": "string", "enum": tiers},
			"computedAt":    map[string]interface{}{"type": "string", "minLength": 1},
			"answers": map[string]interface{}{
				"type":                 "object",
				"required":             required,
				"properties":           answerProps,
				"additionalProperties": false,
			},
			"analysis": map[string]interface{}{
				"type": "object",
				"required": []interface{}{
					"profileSummary", "competencies", "developmentAreas", "recommendations",
					"adaptability", "leadership", "interpersonal",
				},
				"properties": map[string]interface{}{
					"profileSummary":   text,
					"competencies":     textList,
					"developmentAreas": textList,
					"recommendations":  textList,
					"adaptability":     text,
					"leadership":       text,
					"interpersonal":    text,
				},
			},
		},
	}
}

func payloadSchema() *validation.Schema {
	schemaOnce.Do(func() {
		compiledSchema = validation.MustCompileMap(PayloadSchema())
	})
	return compiledSchema
}

// answerKeys is the payload's only source of question IDs. Every catalog
// version must keep the default catalog's IDs and question order.
func answerKeys() []string {
	questions := catalog.Default().Questions()
	keys := make([]string, len(questions))
	for i, q := range questions {
		keys[i] = q.ID
	}
	return keys
}
