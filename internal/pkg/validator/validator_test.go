package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sample struct {
	Email  string `json:"contact_email" validate:"required,email"`
	Adults int    `json:"adults" validate:"gte=1"`
}

func TestValidate_UsesJSONNames(t *testing.T) {
	errs := Validate(sample{Email: "nope", Adults: 0})

	assert.Equal(t, "email", errs["contact_email"])
	assert.Equal(t, "gte", errs["adults"])
}

func TestValidate_OK(t *testing.T) {
	assert.Nil(t, Validate(sample{Email: "a@b.co", Adults: 2}))
}
