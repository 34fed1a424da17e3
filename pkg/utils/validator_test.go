package utils

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateVar(t *testing.T) {
	assert.NoError(t, ValidateVar("héllo", "max=5"))
	assert.Error(t, ValidateVar("héllo!", "max=5"))
	assert.Error(t, ValidateVar("", "required"))
	assert.NoError(t, ValidateVar("high", "oneof=low medium high"))
	assert.Error(t, ValidateVar("urgent", "oneof=low medium high"))
}

func TestGetValidationErrors(t *testing.T) {
	type sample struct {
		Name string `validate:"required"`
		Port int    `validate:"min=1"`
	}

	errs := GetValidationErrors(ValidateStruct(sample{}))
	assert.Equal(t, map[string]string{"Name": "required", "Port": "min"}, errs)

	assert.Empty(t, GetValidationErrors(ValidateStruct(sample{Name: "x", Port: 80})))
	assert.Equal(t, map[string]string{"_": "boom"}, GetValidationErrors(errors.New("boom")))
}
