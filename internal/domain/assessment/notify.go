package assessment

import (
	"errors"
	"fmt"
)

// Notification variants.
const (
	VariantDefault     = "default"
	VariantDestructive = "destructive"
)

// Notification is the user-facing message raised for a submission outcome.
type Notification struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Variant     string `json:"variant"`
}

var rangeNotices = map[string]struct {
	title string
	noun  string
	unit  string
}{
	FieldAge:             {title: "Invalid Age", noun: "age"},
	FieldBMI:             {title: "Invalid BMI", noun: "BMI"},
	FieldAvgGlucoseLevel: {title: "Invalid Glucose Level", noun: "glucose level", unit: " mg/dL"},
}

var fieldLabels = map[string]string{
	FieldGender:        "gender",
	FieldHypertension:  "hypertension",
	FieldHeartDisease:  "heart disease",
	FieldEverMarried:   "marital status",
	FieldWorkType:      "work type",
	FieldResidenceType: "residence type",
	FieldSmokingStatus: "smoking status",
}

// SuccessNotification is raised once a result is available.
func SuccessNotification() Notification {
	return Notification{
		Title:       "Prediction Complete",
		Description: "Your stroke risk assessment has been generated.",
		Variant:     VariantDefault,
	}
}

// NotificationFor describes a failed submission.
func NotificationFor(err error) Notification {
	var (
		missing     *MissingFieldError
		outOfRange  *RangeError
		badChoice   *ChoiceError
		unreachable *ConnectivityError
		status      *ServiceError
		malformed   *MalformedResponseError
	)
	switch {
	case errors.As(err, &missing):
		return failure("Incomplete Form", "Please fill in all required fields.")
	case errors.As(err, &outOfRange):
		notice, ok := rangeNotices[outOfRange.Field]
		if !ok {
			return failure("Invalid Value", outOfRange.Error())
		}
		return failure(notice.title, fmt.Sprintf("Please enter a valid %s between %g and %g%s.", notice.noun, outOfRange.Min, outOfRange.Max, notice.unit))
	case errors.As(err, &badChoice):
		label := fieldLabels[badChoice.Field]
		if label == "" {
			label = badChoice.Field
		}
		return failure("Invalid Selection", fmt.Sprintf("Please choose a valid %s.", label))
	case errors.Is(err, ErrSubmissionInFlight):
		return failure("Prediction In Progress", "Please wait for the current prediction to finish.")
	case errors.As(err, &unreachable):
		return failure("Prediction Failed", "Cannot connect to prediction service. Please check your backend is running.")
	case errors.As(err, &status):
		return failure("Prediction Failed", fmt.Sprintf("HTTP error! status: %d", status.Status))
	case errors.As(err, &malformed):
		return failure("Prediction Failed", "The prediction service returned an unexpected response.")
	default:
		return failure("Prediction Failed", "An error occurred while processing your request.")
	}
}

func failure(title, description string) Notification {
	return Notification{Title: title, Description: description, Variant: VariantDestructive}
}
