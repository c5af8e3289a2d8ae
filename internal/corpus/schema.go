package corpus

import (
	_ "embed"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema/career_file.schema.json
var careerFileSchema string

// compileSchema parses the embedded career file schema
func compileSchema() (*gojsonschema.Schema, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(careerFileSchema))
	if err != nil {
		return nil, fmt.Errorf("compile career file schema: %w", err)
	}
	return schema, nil
}

// newValidator returns a validator that reports fields by their file keys.
// It adds the nonblank rule, which the schema cannot express: names and list
// entries must hold more than whitespace.
func newValidator() (*validator.Validate, error) {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("nonblank", nonBlank); err != nil {
		return nil, fmt.Errorf("register nonblank rule: %w", err)
	}
	return v, nil
}

func nonBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// checkDocument validates a decoded document against the schema
func checkDocument(schema *gojsonschema.Schema, path string, doc any) error {
	result, err := schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return &LoadError{Path: path, Op: "validate", Err: err}
	}
	if result.Valid() {
		return nil
	}

	schemaErr := &SchemaError{
		Path:   path,
		Errors: make([]FieldError, 0, len(result.Errors())),
	}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		schemaErr.Errors = append(schemaErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}
	return schemaErr
}

// checkStruct runs the struct tag rules on a decoded file
func checkStruct(v *validator.Validate, path string, file *File) error {
	err := v.Struct(file)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &LoadError{Path: path, Op: "validate", Err: err}
	}

	schemaErr := &SchemaError{Path: path}
	for _, fe := range verrs {
		field := strings.TrimPrefix(fe.Namespace(), "File.")
		msg := fmt.Sprintf("failed on the '%s' rule", fe.Tag())
		if fe.Tag() == "nonblank" {
			msg = "must not be blank"
		}
		schemaErr.Errors = append(schemaErr.Errors, FieldError{
			Field:   field,
			Message: msg,
		})
	}
	return schemaErr
}
