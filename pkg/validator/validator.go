package validator

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

func FormatValidationError(err error) string {
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		var messages []string
		for _, fieldError := range validationErrors {
			message := getFieldErrorMessage(fieldError)
			messages = append(messages, message)
		}
		return strings.Join(messages, "; ")
	}
	return err.Error()
}

func getFieldErrorMessage(fe validator.FieldError) string {
	field := getFieldName(fe.Field())

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "min":
		if fe.Type().String() == "string" {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if fe.Type().String() == "string" {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be %s or more", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be %s or less", field, fe.Param())
	default:
		return fmt.Sprintf("%s is not valid", field)
	}
}

func getFieldName(field string) string {
	fieldNames := map[string]string{
		"Email":               "Email",
		"Password":            "Password",
		"FullName":            "Full name",
		"Gender":              "Gender",
		"MaritalStatus":       "Marital status",
		"BirthYear":           "Birth year",
		"HeightCM":            "Height",
		"PresentDistrict":     "Present district",
		"PermanentDistrict":   "Permanent district",
		"Department":          "Department",
		"BatchYear":           "Batch year",
		"EducationLevel":      "Education level",
		"Occupation":          "Occupation",
		"ContactInformation":  "Contact information",
		"PersonalContactInfo": "Personal contact information",
		"Reason":              "Reason",
		"Credits":             "Credits",
		"Price":               "Price",
		"ExternalTxnID":       "Transaction ID",
		"PhoneNumber":         "Phone number",
	}

	if name, ok := fieldNames[field]; ok {
		return name
	}
	return field
}
