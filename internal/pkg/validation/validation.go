package validation

import (
	"errors"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Errors maps a form field name to the first message for that field
type Errors map[string]string

func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+e[field])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Validator checks structs against `validate` tags and turns failures into
// user-facing messages taken from `msg_<tag>` struct tags.
type Validator struct {
	v *validator.Validate
}

// New creates a validator that reports fields by their `form` tag name
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return &Validator{v: v}
}

// Struct validates s. It returns nil or an Errors value.
func (val *Validator) Struct(s interface{}) error {
	err := val.v.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	t := reflect.TypeOf(s)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	out := Errors{}
	for _, fe := range fieldErrs {
		if _, seen := out[fe.Field()]; seen {
			continue
		}
		out[fe.Field()] = message(t, fe)
	}
	return out
}

func message(t reflect.Type, fe validator.FieldError) string {
	if f, ok := t.FieldByName(fe.StructField()); ok {
		if msg := f.Tag.Get("msg_" + fe.Tag()); msg != "" {
			return msg
		}
	}
	return fe.Field() + " is invalid"
}
