package validators

import (
	"net/http"
	"slices"

	"github.com/Radhe743/full-stack-social-media-app/internal/models"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// CustomValidator plugs go-playground/validator into echo
type CustomValidator struct {
	validator *validator.Validate
}

func NewValidator() *CustomValidator {
	v := validator.New()
	_ = v.RegisterValidation("account_type", func(fl validator.FieldLevel) bool {
		return slices.Contains(models.AccountTypes, fl.Field().String())
	})
	return &CustomValidator{validator: v}
}

// Validate reports validation failures as 400 responses
func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.validator.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}
