package validator

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

type sample struct {
	Reason string `validate:"max=5"`
	Limit  int    `validate:"min=1"`
	Name   string `validate:"required"`
}

func TestGetErrorMsg(t *testing.T) {
	err := validator.New().Struct(sample{Reason: "too long reason", Limit: 0})

	msg := GetErrorMsg(err)
	assert.Contains(t, msg, "Reason must be at most 5 characters")
	assert.Contains(t, msg, "Limit must be at least 1")
	assert.Contains(t, msg, "Name is required")

	assert.Equal(t, "invalid request body", GetErrorMsg(errors.New("EOF")))
}
