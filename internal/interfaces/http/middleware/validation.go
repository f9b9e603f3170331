package middleware

import (
	"net/http"
	"reflect"
	"strings"

	"github.com/erp/backoffice/internal/domain/audit"
	"github.com/erp/backoffice/internal/domain/numbering"
	"github.com/erp/backoffice/internal/domain/shared/valueobject"
	"github.com/erp/backoffice/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// domainValidators are the binding tags backed by domain rules
var domainValidators = map[string]func(string) bool{
	"gstin":   valueobject.IsValidGSTIN,
	"pincode": valueobject.IsValidPincode,
	"fiscal_year": func(v string) bool {
		_, err := numbering.ParseFiscalYear(v)
		return err == nil
	},
	"doc_type":    func(v string) bool { return numbering.DocumentType(v).IsValid() },
	"entity_type": func(v string) bool { return audit.EntityType(v).IsValid() },
}

// SetupValidator registers the domain tags on gin's validator and makes
// errors name fields by their json (or form) key.
func SetupValidator() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "form", "uri"} {
			name, _, _ := strings.Cut(fld.Tag.Get(tag), ",")
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})
	for tag, valid := range domainValidators {
		_ = v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return valid(fl.Field().String())
		})
	}
}

// messages by tag; %s is replaced with the tag parameter
var validationMessages = map[string]string{
	"required":    "This field is required",
	"email":       "Invalid email format",
	"uuid":        "Invalid UUID format",
	"oneof":       "Must be one of: %s",
	"gte":         "Must be greater than or equal to %s",
	"lte":         "Must be less than or equal to %s",
	"gt":          "Must be greater than %s",
	"numeric":     "Must contain digits only",
	"dive":        "Invalid item",
	"gstin":       "Invalid GSTIN",
	"pincode":     "Must be a six digit pincode",
	"fiscal_year": "Must be a fiscal year such as 2025-2026",
	"doc_type":    "Unknown document type",
	"entity_type": "Unknown entity type",
}

// FormatValidationErrors turns validator errors into the error envelope
func FormatValidationErrors(err error, requestID string) dto.Response {
	var details []dto.ValidationDetail
	if fieldErrs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range fieldErrs {
			details = append(details, dto.ValidationDetail{
				Field:   fe.Field(),
				Message: validationMessage(fe),
			})
		}
	}
	return dto.ValidationFailure("Request validation failed", requestID, details)
}

// HandleValidationError writes a 400 with per-field details
func HandleValidationError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, FormatValidationErrors(err, GetRequestID(c)))
}

func validationMessage(fe validator.FieldError) string {
	// length rules read differently for strings and numbers
	if bound, ok := map[string]string{"min": "at least", "max": "at most", "len": "exactly"}[fe.Tag()]; ok {
		if fe.Kind() == reflect.String {
			return "Must be " + bound + " " + fe.Param() + " characters"
		}
		if fe.Kind() == reflect.Slice {
			return "Must have " + bound + " " + fe.Param() + " items"
		}
		return "Must be " + bound + " " + fe.Param()
	}
	msg, ok := validationMessages[fe.Tag()]
	if !ok {
		return "Invalid value"
	}
	return strings.Replace(msg, "%s", fe.Param(), 1)
}
