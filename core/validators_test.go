package core

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitValidators(t *testing.T) {
	validate := validator.New()
	translator := NewTranslator()
	InitValidators(validate, translator)

	type form struct {
		Name  string `json:"name" validate:"notblank"`
		Email string `json:"email" validate:"required,email"`
		Note  string `json:"-" validate:"notblank"`
		Bio   string `json:"bio" validate:"nohtml"`
	}

	err := validate.Struct(form{Name: "   ", Note: "ok", Bio: "<b>hi</b>"})
	var vErrs validator.ValidationErrors
	require.ErrorAs(t, err, &vErrs)
	assert.Equal(t, map[string]string{
		"name":  "this field cannot be blank",
		"email": "this field is required",
		"bio":   "this field cannot contain HTML markup",
	}, TranslateErrors(vErrs, translator))

	err = validate.Struct(form{Name: "Jane", Email: "not-an-email", Note: "ok"})
	require.ErrorAs(t, err, &vErrs)
	assert.Contains(t, TranslateErrors(vErrs, translator), "email")

	assert.NoError(t, validate.Struct(form{Name: "Jane", Email: "jane@example.com", Note: "ok"}))
}
