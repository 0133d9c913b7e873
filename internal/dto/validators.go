package dto

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// phoneRe accepts local numbers like 0933123456 and international forms.
var phoneRe = regexp.MustCompile(`^\+?[0-9]{6,15}$`)

// RegisterCustomValidators installs the custom binding validators on gin's
// validator engine. Must be called once before the router starts serving.
func RegisterCustomValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
			return phoneRe.MatchString(fl.Field().String())
		})
	}
}
