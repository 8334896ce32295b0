package api

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

var fieldLabels = map[string]string{
	"UserID":      "User",
	"EquipmentID": "Equipment",
	"LoanID":      "Loan",
	"AlertType":   "Alert type",
}

// bind decodes a form or JSON body into obj and returns a readable message
// when it is invalid.
func bind(c *gin.Context, obj any) (string, bool) {
	if err := c.ShouldBind(obj); err != nil {
		return formError(err), false
	}
	return "", true
}

func formError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "The form could not be read."
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return strings.Join(msgs, " ")
}

func fieldMessage(fe validator.FieldError) string {
	field, ok := fieldLabels[fe.Field()]
	if !ok {
		field = fe.Field()
	}
	switch fe.Tag() {
	case "required":
		return field + " is required."
	case "email":
		return field + " must be a valid email address."
	case "min":
		return fmt.Sprintf("%s must be at least %s characters.", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters.", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s.", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "gt":
		return field + " must be selected."
	}
	return field + " is invalid."
}

// paramID parses a positive numeric path parameter.
func paramID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
