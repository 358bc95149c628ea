package availabilityclient

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// TransportError means the request never produced an HTTP response.
// It is always safe to retry and no remote state is known to have changed.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: request failed: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// FieldProblem is one server-side validation message
type FieldProblem struct {
	Entry   int // 1-based position in a batch request, 0 for single-object bodies
	Field   string
	Message string
}

func (p FieldProblem) String() string {
	var b strings.Builder
	if p.Entry > 0 {
		fmt.Fprintf(&b, "entry %d: ", p.Entry)
	}
	if p.Field != "" && !isGeneralField(p.Field) {
		b.WriteString(p.Field)
		b.WriteString(": ")
	}
	b.WriteString(p.Message)
	return b.String()
}

// RejectionError is a non-2xx response from the availability API
type RejectionError struct {
	Op         string
	StatusCode int
	Problems   []FieldProblem
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("%s: rejected with status %d: %s", e.Op, e.StatusCode, e.Message())
}

// Message joins every field problem into a multi-line, user-facing string
func (e *RejectionError) Message() string {
	if len(e.Problems) == 0 {
		return http.StatusText(e.StatusCode)
	}
	lines := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		lines[i] = p.String()
	}
	return strings.Join(lines, "\n")
}

// Fields groups messages by field name, across all batch entries
func (e *RejectionError) Fields() map[string][]string {
	fields := make(map[string][]string)
	for _, p := range e.Problems {
		fields[p.Field] = append(fields[p.Field], p.Message)
	}
	return fields
}

// FlattenErrorBody turns an error response body into field problems. It accepts
// an object of field -> message(s), an array of such objects (batch requests),
// a bare string, or plain text, without assuming which one the server sends.
func FlattenErrorBody(body []byte) []FieldProblem {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return nil
	}

	var decoded interface{}
	if err := json.Unmarshal([]byte(trimmed), &decoded); err != nil {
		return []FieldProblem{{Message: trimmed}}
	}

	var problems []FieldProblem
	switch v := decoded.(type) {
	case []interface{}:
		for i, item := range v {
			problems = append(problems, flattenValue(i+1, "", item)...)
		}
	default:
		problems = flattenValue(0, "", v)
	}
	return problems
}

func flattenValue(entry int, field string, value interface{}) []FieldProblem {
	switch v := value.(type) {
	case nil:
		return nil
	case string:
		return []FieldProblem{{Entry: entry, Field: field, Message: v}}
	case []interface{}:
		var problems []FieldProblem
		for _, item := range v {
			problems = append(problems, flattenValue(entry, field, item)...)
		}
		return problems
	case map[string]interface{}:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		var problems []FieldProblem
		for _, k := range keys {
			child := k
			if field != "" {
				child = field + "." + k
			}
			problems = append(problems, flattenValue(entry, child, v[k])...)
		}
		return problems
	default:
		return []FieldProblem{{Entry: entry, Field: field, Message: fmt.Sprint(v)}}
	}
}

func isGeneralField(field string) bool {
	return field == "detail" || field == "non_field_errors" || field == "error" || field == "message"
}

// Message is the user-facing text for a transport failure
func (e *TransportError) Message() string {
	return "Could not reach the server. Please check your connection and try again."
}
