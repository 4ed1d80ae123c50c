package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

const (
	// MinPasswordLength is enforced by the pwd alias.
	MinPasswordLength = 6

	DefaultPage  = 1
	DefaultLimit = 10
)

var initOnce sync.Once

// Init configures the global validator used by Gin's binding.
// - Uses json/form/uri tag names in errors.
// - Registers alias tags for common validations.
func Init() {
	initOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			for _, key := range []string{"json", "form", "uri"} {
				name := strings.SplitN(fld.Tag.Get(key), ",", 2)[0]
				if name == "-" {
					return ""
				}
				if name != "" {
					return name
				}
			}
			return ""
		})
		v.RegisterAlias("pwd", fmt.Sprintf("min=%d", MinPasswordLength))
	})
}

// Error is the first rule an input violated.
type Error struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + " " + e.Message
}

// FromBinding converts a gin binding error into the first violation it carries.
func FromBinding(err error) *Error {
	if err == nil {
		return nil
	}
	var ve *Error
	if errors.As(err, &ve) {
		return ve
	}

	var se *json.SyntaxError
	var ute *json.UnmarshalTypeError
	if errors.As(err, &ute) && ute.Field != "" {
		return &Error{Field: ute.Field, Message: "must be a " + ute.Type.String()}
	}
	if errors.As(err, &se) || errors.As(err, &ute) || errors.Is(err, io.ErrUnexpectedEOF) {
		return &Error{Field: "payload", Message: "must be valid json"}
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return &Error{Field: fe.Field(), Message: formatFieldError(fe)}
	}
	return &Error{Field: "payload", Message: "is invalid"}
}

// Pagination normalizes optional page/limit query strings.
// Absent, unparsable or non-positive values fall back to the defaults.
func Pagination(page, limit string) (int, int) {
	return positiveOr(page, DefaultPage), positiveOr(limit, DefaultLimit)
}

func positiveOr(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func formatFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "uuid":
		return "must be a valid UUID"
	case "min":
		if fe.Param() == "1" {
			return "must not be empty"
		}
		return "must be at least " + fe.Param() + " characters long"
	case "pwd":
		return fmt.Sprintf("must be at least %d characters long", MinPasswordLength)
	default:
		return "is invalid"
	}
}
