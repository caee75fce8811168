package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// GetErrorMsg 将 gin binding 的校验错误翻译成可读信息
func GetErrorMsg(err error) string {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		var errMsgs []string
		for _, e := range validationErrors {
			field := e.Field()
			switch e.Tag() {
			case "required":
				errMsgs = append(errMsgs, fmt.Sprintf("%s is required", field))
			case "max":
				errMsgs = append(errMsgs, fmt.Sprintf("%s must be at most %s characters", field, e.Param()))
			case "min":
				errMsgs = append(errMsgs, fmt.Sprintf("%s must be at least %s", field, e.Param()))
			default:
				errMsgs = append(errMsgs, fmt.Sprintf("%s failed validation (%s)", field, e.Tag()))
			}
		}
		return strings.Join(errMsgs, "; ")
	}
	return "invalid request body"
}
