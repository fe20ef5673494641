// Package schema validates scenario files against an embedded CUE schema.
//
// Schema validation runs before structural loading so that authors get
// every problem in a file at once, each with the YAML line it came from.
package schema

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	cueyaml "cuelang.org/go/encoding/yaml"
)

//go:embed scenario.cue
var schemaSource string

// Validation error codes (E200-E299)
const (
	ErrYAMLSyntax      = "E200" // file is not valid YAML
	ErrUnknownField    = "E201" // field not allowed by the schema
	ErrMissingField    = "E202" // required field absent or incomplete
	ErrInvalidValue    = "E203" // value violates a type or constraint
	ErrInvalidScenario = "E204" // scenario fails structural loading
	ErrSchemaInternal  = "E299" // embedded schema failed to compile
)

// ValidationError represents a schema validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Line    int    `json:"line,omitempty"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("[%s] line %d: %s: %s", e.Code, e.Line, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// ValidateScenario checks scenario YAML against the #Scenario definition.
// Returns all errors found (does not fail-fast), sorted by line.
// filename is used for positions only; data is never read from disk.
func ValidateScenario(filename string, data []byte) []ValidationError {
	file, err := cueyaml.Extract(filename, data)
	if err != nil {
		return []ValidationError{{
			Field:   "yaml",
			Message: err.Error(),
			Code:    ErrYAMLSyntax,
			Line:    firstLine(err, filename),
		}}
	}

	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaSource, cue.Filename("scenario.cue"))
	if err := schema.Err(); err != nil {
		return []ValidationError{{Field: "schema", Message: err.Error(), Code: ErrSchemaInternal}}
	}
	def := schema.LookupPath(cue.ParsePath("#Scenario"))

	doc := ctx.BuildFile(file)
	if err := doc.Err(); err != nil {
		return convertErrors(err, filename)
	}

	if err := def.Unify(doc).Validate(cue.Concrete(true)); err != nil {
		return convertErrors(err, filename)
	}
	return nil
}

// convertErrors flattens a CUE error list into ValidationErrors.
func convertErrors(err error, filename string) []ValidationError {
	seen := make(map[string]bool)
	var out []ValidationError

	for _, e := range errors.Errors(err) {
		format, args := e.Msg()
		msg := fmt.Sprintf(format, args...)

		field := strings.Join(e.Path(), ".")
		field = strings.TrimPrefix(strings.TrimPrefix(field, "#Scenario"), ".")
		if field == "" {
			field = "scenario"
		}

		key := field + "\x00" + msg
		if seen[key] {
			continue
		}
		seen[key] = true

		out = append(out, ValidationError{
			Field:   field,
			Message: msg,
			Code:    classify(msg),
			Line:    firstLine(e, filename),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Line != out[j].Line {
			return out[i].Line < out[j].Line
		}
		return out[i].Field < out[j].Field
	})
	return out
}

func classify(msg string) string {
	switch {
	case strings.Contains(msg, "field not allowed"):
		return ErrUnknownField
	case strings.Contains(msg, "incomplete value"),
		strings.Contains(msg, "field is required"):
		return ErrMissingField
	default:
		return ErrInvalidValue
	}
}

// firstLine returns the first line of err located in filename, or 0.
func firstLine(err error, filename string) int {
	for _, pos := range errors.Positions(err) {
		if pos.Filename() == filename && pos.Line() > 0 {
			return pos.Line()
		}
	}
	return 0
}
