// Package validate runs struct-tag validation and reduces the result to the
// single apperr kind the client sees.
package validate

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/fp-foodie-finder/server/internal/shared/apperr"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

var emailPattern = regexp.MustCompile("^[a-zA-Z0-9.!#$%&'*+/=?^_`{|}~-]+@[a-zA-Z0-9-]+(?:.[a-zA-Z0-9-]+)*$")

// required-failure kind per JSON field name
var requiredKinds = map[string]apperr.Kind{
	"fullname":    apperr.FullNameRequired,
	"username":    apperr.UsernameRequired,
	"email":       apperr.EmailRequired,
	"password":    apperr.PassRequired,
	"preference":  apperr.PreferRequired,
	"imageUrl":    apperr.ImageUrlRequired,
	"description": apperr.DescriptionRequired,
	"textQuery":   apperr.TextQueryRequired,
	"input":       apperr.InputRequired,
}

var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New()
	val.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	_ = val.RegisterValidation("emailfmt", func(fl validator.FieldLevel) bool {
		return IsEmail(fl.Field().String())
	})
	return val
}

func IsEmail(s string) bool { return emailPattern.MatchString(s) }

// Struct validates s. Missing required fields are reported before any format
// failure, each group in field declaration order.
func Struct(s any) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) || len(ve) == 0 {
		return errors.Wrap(err, "validate")
	}
	for _, fe := range ve {
		if fe.Tag() == "required" {
			return apperr.New(kindFor(fe))
		}
	}
	return apperr.New(kindFor(ve[0]))
}

func kindFor(fe validator.FieldError) apperr.Kind {
	switch fe.Tag() {
	case "required":
		if k, ok := requiredKinds[fe.Field()]; ok {
			return k
		}
	case "emailfmt":
		return apperr.FormatEmail
	}
	return apperr.BadRequest
}
