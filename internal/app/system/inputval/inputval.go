// Package inputval validates form input structs with struct tags and turns
// failures into sentences fit for a flash message.
//
// Fields are labelled with a `label:"..."` tag; without one the Go field name
// is used. Besides the stock validator rules it knows:
//
//	monthkey   "2006-01"
//	datekey    "2006-01-02"
//	transport  one of models.TransportModes
//	categories every element in models.Categories
//	objectid   24 hex characters
//	notblank   not empty after trimming
package inputval

import (
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/gmgapp/gmg/internal/domain/models"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	validate   *validator.Validate
	translator ut.Translator
)

func init() {
	validate = validator.New()

	// stock English messages back the rules we don't phrase ourselves
	english := en.New()
	translator, _ = ut.New(english, english).GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if label := fld.Tag.Get("label"); label != "" {
			return label
		}
		return fld.Name
	})

	_ = validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = validate.RegisterValidation("monthkey", func(fl validator.FieldLevel) bool {
		_, _, err := models.ParseMonthKey(fl.Field().String())
		return err == nil
	})
	_ = validate.RegisterValidation("datekey", func(fl validator.FieldLevel) bool {
		_, err := models.ParseDateKey(fl.Field().String())
		return err == nil
	})
	_ = validate.RegisterValidation("transport", func(fl validator.FieldLevel) bool {
		return slices.Contains(models.TransportModes, fl.Field().String())
	})
	_ = validate.RegisterValidation("categories", func(fl validator.FieldLevel) bool {
		cats, ok := fl.Field().Interface().([]string)
		if !ok {
			return false
		}
		for _, c := range cats {
			if !slices.Contains(models.Categories, c) {
				return false
			}
		}
		return true
	})
	_ = validate.RegisterValidation("objectid", func(fl validator.FieldLevel) bool {
		return IsValidObjectID(fl.Field().String())
	})
}

// FieldError is one failed rule.
type FieldError struct {
	Field   string
	Message string
}

// Result collects the failures of one Validate call.
type Result struct {
	Errors []FieldError
}

func (r *Result) HasErrors() bool { return len(r.Errors) > 0 }

// First returns the first message, or "".
func (r *Result) First() string {
	if len(r.Errors) == 0 {
		return ""
	}
	return r.Errors[0].Message
}

// All joins every message with "; ".
func (r *Result) All() string {
	msgs := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		msgs[i] = e.Message
	}
	return strings.Join(msgs, "; ")
}

// Validate checks v (a struct or pointer to struct) against its tags.
func Validate(v any) *Result {
	res := &Result{}
	err := validate.Struct(v)
	if err == nil {
		return res
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		res.Errors = append(res.Errors, FieldError{Message: err.Error()})
		return res
	}
	for _, fe := range verrs {
		res.Errors = append(res.Errors, FieldError{Field: fe.StructField(), Message: message(fe)})
	}
	return res
}

func message(fe validator.FieldError) string {
	label := fe.Field()
	switch fe.Tag() {
	case "required", "notblank":
		return label + " is required."
	case "max":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("Choose at most %s for %s.", fe.Param(), label)
		}
		return fmt.Sprintf("%s must be at most %s characters.", label, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters.", label, fe.Param())
	case "monthkey":
		return label + " must be a month like 2025-10."
	case "datekey":
		return label + " must be a date like 2025-10-08."
	case "transport":
		return label + " must be one of " + strings.Join(models.TransportModes, ", ") + "."
	case "categories":
		return label + " contains an unknown category."
	case "objectid":
		return label + " is not a valid ID."
	}
	return fe.Translate(translator)
}

// IsValidObjectID reports whether s (trimmed) is a Mongo ObjectID in hex.
func IsValidObjectID(s string) bool {
	_, err := primitive.ObjectIDFromHex(strings.TrimSpace(s))
	return err == nil
}
