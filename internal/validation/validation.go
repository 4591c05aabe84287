package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	slugPattern = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
	once        sync.Once
)

// Register installs the custom rules on gin's validator and makes errors report
// fields by their JSON names. Safe to call more than once.
func Register() {
	once.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			_ = v.RegisterValidation("slug", isSlug)
			v.RegisterTagNameFunc(jsonName)
		}
	})
}

func jsonName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	return name
}

// Engine returns gin's validator with the custom rules installed.
func Engine() *validator.Validate {
	Register()
	v, _ := binding.Validator.Engine().(*validator.Validate)
	return v
}

func isSlug(fl validator.FieldLevel) bool {
	return slugPattern.MatchString(fl.Field().String())
}

// Message renders the first failed rule of a validator error in plain words.
func Message(err error) (field, message string) {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return "", err.Error()
	}
	fe := errs[0]
	switch fe.Tag() {
	case "required":
		return fe.Field(), fe.Field() + " is required"
	case "slug":
		return fe.Field(), fe.Field() + " may contain only letters, digits, hyphens and underscores"
	case "email":
		return fe.Field(), fe.Field() + " must be a valid email address"
	case "min":
		return fe.Field(), fe.Field() + " must be at least " + fe.Param() + " characters"
	case "max":
		return fe.Field(), fe.Field() + " must be at most " + fe.Param() + " characters"
	default:
		return fe.Field(), fe.Field() + " is invalid"
	}
}
