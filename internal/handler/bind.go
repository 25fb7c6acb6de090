package handler

import (
	"net/http"
	"reflect"
	"strings"

	"geoloc193/internal/service"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"
)

// NewValidator returns the validator shared by all handlers, with the phone rule registered.
func NewValidator() *validatorv10.Validate {
	v := validatorv10.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("phone", validatePhone)
	return v
}

// validatePhone accepts any formatting as long as the number has 8 to 15 digits.
func validatePhone(fl validatorv10.FieldLevel) bool {
	digits := service.NormalizePhone(fl.Field().String())
	return len(digits) >= 8 && len(digits) <= 15
}

// BindAndValidate binds the JSON body into out and runs validation.
// On failure it writes a 400 response and returns the error so the handler can stop.
func BindAndValidate(c *gin.Context, out interface{}, v *validatorv10.Validate) error {
	if err := c.ShouldBindJSON(out); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request_body",
			"message": err.Error(),
		})
		return err
	}

	if err := v.Struct(out); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "validation_failed",
			"fields": validationErrorsToMap(err),
		})
		return err
	}
	return nil
}

func validationErrorsToMap(err error) map[string]string {
	out := map[string]string{}
	if ve, ok := err.(validatorv10.ValidationErrors); ok {
		for _, fe := range ve {
			out[fe.Field()] = fe.Tag()
		}
	} else {
		out["error"] = err.Error()
	}
	return out
}
