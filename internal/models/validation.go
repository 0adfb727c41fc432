package models

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(jsonTagName)
	validate.RegisterValidation("date_iso8601", validateISO8601Date)
	validate.RegisterStructValidation(validateCalculationRequest, CalculationRequest{})
}

// jsonTagName makes validator report a field's json name (e.g.
// "offence_date") instead of its Go struct field name, so {loc} in the
// error envelope matches the wire payload the caller sent.
func jsonTagName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" || name == "" {
		return fld.Name
	}
	return name
}

// GetValidator returns the singleton validator instance.
func GetValidator() *validator.Validate {
	return validate
}

// ValidateStruct validates a struct using the configured validator.
func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// parseISO8601Date parses a date-only ISO-8601 string as UTC midnight (§4.A).
func parseISO8601Date(s string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", s, time.UTC)
}

func validateISO8601Date(fl validator.FieldLevel) bool {
	_, err := parseISO8601Date(fl.Field().String())
	return err == nil
}

// validateCalculationRequest enforces the cross-field rules in §4.A/§3 that
// a single struct tag cannot express: offence identification, date
// ordering, and age monotonicity.
func validateCalculationRequest(sl validator.StructLevel) {
	req := sl.Current().Interface().(CalculationRequest)

	if !req.HasOffenceReference() {
		sl.ReportError(req.OffenceQuery, "offence_query", "OffenceQuery", "value_error", "")
	}

	offenceDate, errOffence := parseISO8601Date(req.OffenceDate)
	convictionDate, errConviction := parseISO8601Date(req.ConvictionDate)
	sentenceDate, errSentence := parseISO8601Date(req.SentenceDate)

	if errOffence == nil && errConviction == nil && errSentence == nil {
		if offenceDate.After(convictionDate) || convictionDate.After(sentenceDate) {
			sl.ReportError(req.SentenceDate, "sentence_date", "SentenceDate", "value_error", "")
		}
	}

	if req.AgeAtOffence > req.AgeAtConviction || req.AgeAtConviction > req.AgeAtSentence {
		sl.ReportError(req.AgeAtSentence, "age_at_sentence", "AgeAtSentence", "value_error", "")
	}
}

// FormatValidationErrors converts validator errors into the wire-level
// {loc, msg, type, input} array format (§6/§7). A single call returns one
// item per violated rule; validators never short-circuit.
func FormatValidationErrors(err error) []ValidationErrorItem {
	validatorErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return []ValidationErrorItem{{
			Loc:  []string{"body"},
			Msg:  err.Error(),
			Type: "value_error",
		}}
	}

	items := make([]ValidationErrorItem, 0, len(validatorErrors))
	for _, fe := range validatorErrors {
		items = append(items, ValidationErrorItem{
			Loc:   []string{"body", fe.Field()},
			Msg:   errorMessage(fe),
			Type:  errorType(fe),
			Input: fe.Value(),
		})
	}
	return items
}

func errorType(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "missing"
	case "min", "max":
		return "range_error"
	case "oneof":
		return "literal_error"
	case "date_iso8601":
		return "date_error"
	case "value_error":
		return "value_error"
	default:
		return fmt.Sprintf("%s_type", fe.Tag())
	}
}

func errorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	case "date_iso8601":
		return fmt.Sprintf("%s must be an ISO-8601 date (YYYY-MM-DD)", fe.Field())
	case "value_error":
		return crossFieldMessage(fe.Field())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

func crossFieldMessage(field string) string {
	switch field {
	case "offence_query":
		return "at least one of offence_id or offence_query must be present"
	case "sentence_date":
		return "dates must satisfy offence_date <= conviction_date <= sentence_date"
	case "age_at_sentence":
		return "ages must be non-decreasing across offence, conviction, and sentence"
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
