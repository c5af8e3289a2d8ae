package corpus

import (
	"fmt"
	"strings"
)

// LoadError reports a directory or file that could not be read or parsed.
// Any LoadError aborts the whole load.
type LoadError struct {
	Path string
	Op   string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("corpus: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// FieldError is one schema violation inside a file
type FieldError struct {
	Field   string
	Message string
}

// SchemaError reports a file whose structure does not match the career
// file schema, such as a missing careers list or skill tier
type SchemaError struct {
	Path   string
	Errors []FieldError
}

func (e *SchemaError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "corpus: invalid career file %s:", e.Path)
	for i, fe := range e.Errors {
		if i > 0 {
			sb.WriteString(";")
		}
		fmt.Fprintf(&sb, " %s: %s", fe.Field, fe.Message)
	}
	return sb.String()
}
