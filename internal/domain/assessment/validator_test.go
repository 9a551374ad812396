package assessment

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func validForm() FormInput {
	return FormInput{
		Gender:          "Male",
		Age:             "45",
		Hypertension:    "No",
		HeartDisease:    "No",
		EverMarried:     "Yes",
		WorkType:        "Private",
		ResidenceType:   "Urban",
		AvgGlucoseLevel: "100",
		BMI:             "24.5",
		SmokingStatus:   "Never",
	}
}

func TestValidateAcceptsSubmittableForm(t *testing.T) {
	require.NoError(t, Validate(validForm()))
}

func TestValidateReportsEveryMissingField(t *testing.T) {
	err := Validate(FormInput{})
	var missing *MissingFieldError
	require.True(t, errors.As(err, &missing))
	require.Equal(t, FieldOrder, missing.Fields)

	form := validForm()
	form.BMI = "   "
	form.Gender = ""
	err = Validate(form)
	require.True(t, errors.As(err, &missing))
	require.Equal(t, []string{FieldGender, FieldBMI}, missing.Fields)
}

func TestValidateMissingFieldsCheckedBeforeRanges(t *testing.T) {
	form := validForm()
	form.Age = "500"
	form.SmokingStatus = ""

	var missing *MissingFieldError
	require.True(t, errors.As(Validate(form), &missing))
	require.Equal(t, []string{FieldSmokingStatus}, missing.Fields)
}

func TestValidateRangePrecedence(t *testing.T) {
	tests := []struct {
		name  string
		age   string
		bmi   string
		sugar string
		field string
		min   float64
		max   float64
	}{
		{name: "age below zero", age: "-1", bmi: "5", sugar: "10", field: FieldAge, min: 0, max: 120},
		{name: "age above limit", age: "120.5", bmi: "24", sugar: "100", field: FieldAge, min: 0, max: 120},
		{name: "bmi before glucose", age: "40", bmi: "51", sugar: "600", field: FieldBMI, min: 10, max: 50},
		{name: "bmi below limit", age: "40", bmi: "9.9", sugar: "100", field: FieldBMI, min: 10, max: 50},
		{name: "glucose below limit", age: "40", bmi: "24", sugar: "49", field: FieldAvgGlucoseLevel, min: 50, max: 500},
		{name: "glucose above limit", age: "40", bmi: "24", sugar: "500.1", field: FieldAvgGlucoseLevel, min: 50, max: 500},
		{name: "non numeric age", age: "forty", bmi: "24", sugar: "100", field: FieldAge, min: 0, max: 120},
		{name: "infinite bmi", age: "40", bmi: "Inf", sugar: "100", field: FieldBMI, min: 10, max: 50},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			form := validForm()
			form.Age = tc.age
			form.BMI = tc.bmi
			form.AvgGlucoseLevel = tc.sugar

			var rangeErr *RangeError
			require.True(t, errors.As(Validate(form), &rangeErr))
			require.Equal(t, tc.field, rangeErr.Field)
			require.Equal(t, tc.min, rangeErr.Min)
			require.Equal(t, tc.max, rangeErr.Max)
		})
	}
}

func TestValidateBoundsAreInclusive(t *testing.T) {
	form := validForm()
	form.Age = "0"
	form.BMI = "50"
	form.AvgGlucoseLevel = "500"
	require.NoError(t, Validate(form))

	form.Age = "120"
	form.BMI = "10"
	form.AvgGlucoseLevel = "50"
	require.NoError(t, Validate(form))
}

func TestValidateRejectsUnknownSelection(t *testing.T) {
	form := validForm()
	form.WorkType = "Astronaut"

	var choice *ChoiceError
	require.True(t, errors.As(Validate(form), &choice))
	require.Equal(t, FieldWorkType, choice.Field)
	require.Equal(t, "Astronaut", choice.Value)
	require.Contains(t, choice.Allowed, "Self-employed")
}

func TestValidateAcceptsAliasesAndCodes(t *testing.T) {
	form := FormInput{
		Gender:          "1",
		Age:             " 67 ",
		Hypertension:    "yes",
		HeartDisease:    "NO",
		EverMarried:     "Yes (Married)",
		WorkType:        "self_employed",
		ResidenceType:   "rural",
		AvgGlucoseLevel: "228.69",
		BMI:             "36.6",
		SmokingStatus:   "formerly smoked",
	}
	require.NoError(t, Validate(form))
}
