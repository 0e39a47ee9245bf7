package llm

import (
	"encoding/json"
	"regexp"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"github.com/jonathan/gitfolio/internal/types"
)

// resultSchema describes the shape a provider response must satisfy before it
// is accepted as a GenerationResult.
const resultSchema = `{
  "type": "object",
  "required": ["summary"],
  "properties": {
    "summary": {"type": "string", "minLength": 1},
    "enhanced_experience": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "title": {"type": "string"},
          "company": {"type": "string"},
          "duration": {"type": "string"},
          "description": {"type": "string"},
          "highlights": {"type": "array", "items": {"type": "string"}}
        }
      }
    }
  }
}`

var (
	schemaOnce     sync.Once
	compiledSchema *gojsonschema.Schema
)

func resultJSONSchema() *gojsonschema.Schema {
	schemaOnce.Do(func() {
		schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(resultSchema))
		if err != nil {
			panic("llm: invalid embedded result schema: " + err.Error())
		}
		compiledSchema = schema
	})
	return compiledSchema
}

// extractStrategy attempts to pull a JSON document out of raw model output.
// It returns the candidate JSON and whether anything was found; validation
// happens afterwards.
type extractStrategy func(raw string) (string, bool)

// extractStrategies is the ordered chain of parsers. New strategies can be
// appended without touching control flow.
var extractStrategies = []extractStrategy{
	extractDirect,
	extractFencedBlock,
	extractBracedSubstring,
}

// ExtractResult runs the strategy chain over raw model output and returns the
// first candidate that is valid JSON satisfying the GenerationResult schema.
func ExtractResult(raw string) (*types.GenerationResult, bool) {
	for _, strategy := range extractStrategies {
		candidate, ok := strategy(raw)
		if !ok {
			continue
		}
		result, ok := decodeResult(candidate)
		if ok {
			return result, true
		}
	}
	return nil, false
}

func decodeResult(candidate string) (*types.GenerationResult, bool) {
	validation, err := resultJSONSchema().Validate(gojsonschema.NewStringLoader(candidate))
	if err != nil || !validation.Valid() {
		return nil, false
	}

	var result types.GenerationResult
	if err := json.Unmarshal([]byte(candidate), &result); err != nil {
		return nil, false
	}
	if result.EnhancedExperience == nil {
		result.EnhancedExperience = []types.ExperienceEntry{}
	}
	return &result, true
}

// extractDirect treats the whole response as JSON.
func extractDirect(raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", false
	}
	return trimmed, true
}

var fencedBlockRe = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")

// extractFencedBlock looks for a fenced code block containing a JSON object.
// Models often wrap JSON in fences even when told not to.
func extractFencedBlock(raw string) (string, bool) {
	match := fencedBlockRe.FindStringSubmatch(raw)
	if match == nil {
		return "", false
	}
	return match[1], true
}

// extractBracedSubstring takes the first balanced brace-delimited substring.
func extractBracedSubstring(raw string) (string, bool) {
	start := strings.Index(raw, "{")
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(raw); i++ {
		ch := raw[i]
		switch {
		case escaped:
			escaped = false
		case ch == '\\' && inString:
			escaped = true
		case ch == '"':
			inString = !inString
		case !inString && ch == '{':
			depth++
		case !inString && ch == '}':
			depth--
			if depth == 0 {
				return raw[start : i+1], true
			}
		}
	}
	return "", false
}
