package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	urlPattern   = regexp.MustCompile(`^https?://[^\s/$.?#].[^\s]*$`)
)

const rootField = "(root)"

// Schema is a compiled JSON schema. Safe for concurrent use.
type Schema struct {
	compiled *gojsonschema.Schema
}

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Compile parses a JSON schema document.
func Compile(schemaJSON string) (*Schema, error) {
	return compile(gojsonschema.NewStringLoader(schemaJSON))
}

// CompileMap compiles a schema expressed as Go maps and slices.
func CompileMap(schema map[string]interface{}) (*Schema, error) {
	return compile(gojsonschema.NewGoLoader(schema))
}

// MustCompileMap is CompileMap for package-level schemas; it panics on error.
func MustCompileMap(schema map[string]interface{}) *Schema {
	s, err := CompileMap(schema)
	if err != nil {
		panic(fmt.Sprintf("validation: invalid schema: %v", err))
	}
	return s
}

func compile(loader gojsonschema.JSONLoader) (*Schema, error) {
	compiled, err := gojsonschema.NewSchema(loader)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}
	return &Schema{compiled: compiled}, nil
}

// Validate checks document against the schema. The error is non-nil only when
// the document cannot be loaded at all (for example it is not JSON-encodable).
func (s *Schema) Validate(document interface{}) (*ValidationResult, error) {
	result, err := s.compiled.Validate(gojsonschema.NewGoLoader(document))
	if err != nil {
		return nil, fmt.Errorf("failed to load document: %w", err)
	}

	errors := make([]ValidationError, 0, len(result.Errors()))
	for _, re := range result.Errors() {
		errors = append(errors, ValidationError{
			Field:   fieldName(re),
			Message: re.Description(),
			Code:    strings.ToUpper(re.Type()),
		})
	}

	return &ValidationResult{
		Valid:  result.Valid(),
		Errors: errors,
	}, nil
}

// ValidateInput compiles schemaJSON and validates input against it in one step.
func ValidateInput(input map[string]interface{}, schemaJSON string) (*ValidationResult, error) {
	s, err := Compile(schemaJSON)
	if err != nil {
		return nil, err
	}
	return s.Validate(input)
}

// gojsonschema reports missing properties on the parent; point at the property itself.
func fieldName(re gojsonschema.ResultError) string {
	field := re.Field()
	if re.Type() == "required" {
		if prop, ok := re.Details()["property"].(string); ok {
			if field == rootField {
				return prop
			}
			return field + "." + prop
		}
	}
	return field
}

// GetErrorMessages returns a simple list of error messages
func (vr *ValidationResult) GetErrorMessages() []string {
	messages := make([]string, len(vr.Errors))
	for i, err := range vr.Errors {
		messages[i] = fmt.Sprintf("%s: %s", err.Field, err.Message)
	}
	return messages
}

// Error joins every message; handy when wrapping a failed result.
func (vr *ValidationResult) Error() string {
	return strings.Join(vr.GetErrorMessages(), "; ")
}

// HasErrors checks if validation has errors for specific field
func (vr *ValidationResult) HasErrors(field string) bool {
	for _, err := range vr.Errors {
		if err.Field == field {
			return true
		}
	}
	return false
}

// GetErrorsForField returns errors for a specific field
func (vr *ValidationResult) GetErrorsForField(field string) []ValidationError {
	var fieldErrors []ValidationError
	for _, err := range vr.Errors {
		if err.Field == field || strings.HasPrefix(err.Field, field+".") {
			fieldErrors = append(fieldErrors, err)
		}
	}
	return fieldErrors
}

// ValidateEmail validates email format
func ValidateEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// ValidateURL validates http(s) URL format
func ValidateURL(url string) bool {
	return urlPattern.MatchString(url)
}
