package gallery

import (
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/fatimaschool/website/core"
)

var (
	categoryTag  = "gallery_category"
	categoryText = "must be one of: " + strings.Join(Categories, ", ")
)

// InitValidators registers the gallery's custom validators.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(categoryTag, categoryValidation)
	core.RegisterCustomTranslation(validate, translator, categoryTag, categoryText)
}

// categoryValidation checks that the value is one of Categories
func categoryValidation(fl validator.FieldLevel) bool {
	if str, ok := fl.Field().Interface().(string); ok {
		return IsCategory(str)
	}
	return false
}
