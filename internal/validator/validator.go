// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"math"
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Six-digit hex colors only (#RRGGBB); the short #RGB form is not accepted.
var hexColorRegex = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Letters plus the characters that appear in real names.
var personNameRegex = regexp.MustCompile(`^[\p{L}][\p{L} '-]*$`)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("hex_color", validateHexColor)
		_ = v.RegisterValidation("money", validateMoney)
		_ = v.RegisterValidation("person_name", validatePersonName)
		_ = v.RegisterValidation("period_type", validatePeriodType)
		_ = v.RegisterValidation("export_format", validateExportFormat)
	}
}

func validateHexColor(fl validator.FieldLevel) bool {
	return hexColorRegex.MatchString(fl.Field().String())
}

// validateMoney rejects amounts with more than two decimal places.
func validateMoney(fl validator.FieldLevel) bool {
	cents := fl.Field().Float() * 100
	return math.Abs(cents-math.Round(cents)) < 1e-6
}

func validatePersonName(fl validator.FieldLevel) bool {
	return personNameRegex.MatchString(fl.Field().String())
}

func validatePeriodType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "week", "month", "quarter", "year", "custom":
		return true
	}
	return false
}

func validateExportFormat(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "csv", "pdf", "excel":
		return true
	}
	return false
}
