package handlers

import (
	"sync"

	"github.com/SscSPs/pos_core/internal/core/domain"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// RegisterValidators adds the custom binding tags used by the request DTOs.
// It is safe to call more than once.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("barcode", validBarcode)
	})
}

func validBarcode(fl validator.FieldLevel) bool {
	_, err := domain.NormalizeBarcode(fl.Field().String())
	return err == nil
}
