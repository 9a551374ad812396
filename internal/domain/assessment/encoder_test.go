package assessment

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeRoundTripExample(t *testing.T) {
	encoded := Encode(validForm())
	require.Equal(t, EncodedRequest{
		Gender:          1,
		Age:             45,
		Hypertension:    0,
		HeartDisease:    0,
		EverMarried:     1,
		WorkType:        2,
		ResidenceType:   1,
		AvgGlucoseLevel: 100,
		BMI:             24.5,
		SmokingStatus:   0,
	}, encoded)

	payload, err := json.Marshal(encoded)
	require.NoError(t, err)
	require.JSONEq(t, `{
		"gender":1,"age":45,"hypertension":0,"heart_disease":0,"ever_married":1,
		"work_type":2,"Residence_type":1,"avg_glucose_level":100,"bmi":24.5,"smoking_status":0
	}`, string(payload))
}

func TestEncodeIsDeterministic(t *testing.T) {
	form := validForm()
	first := Encode(form)
	second := Encode(form)
	require.Equal(t, first, second)
	require.Equal(t, first.Fingerprint(), second.Fingerprint())

	form.BMI = "24.6"
	require.NotEqual(t, first.Fingerprint(), Encode(form).Fingerprint())
}

func TestEncodeLookupTables(t *testing.T) {
	tests := []struct {
		table choiceTable
		value string
		code  int
	}{
		{genderTable, "Female", 0},
		{genderTable, "Male", 1},
		{genderTable, "Other", 2},
		{workTypeTable, "Government", 0},
		{workTypeTable, "Government job", 0},
		{workTypeTable, "Never worked", 1},
		{workTypeTable, "Never_worked", 1},
		{workTypeTable, "Private", 2},
		{workTypeTable, "Self-employed", 3},
		{workTypeTable, "Children", 4},
		{residenceTypeTable, "Rural", 0},
		{residenceTypeTable, "Urban", 1},
		{smokingStatusTable, "Never", 0},
		{smokingStatusTable, "Formerly", 1},
		{smokingStatusTable, "Currently", 2},
		{smokingStatusTable, "Smokes", 2},
		{smokingStatusTable, "Unknown", 3},
		{hypertensionTable, "No", 0},
		{heartDiseaseTable, "Yes", 1},
		{everMarriedTable, "No (Never married)", 0},
	}
	for _, tc := range tests {
		code, ok := tc.table.code(tc.value)
		require.True(t, ok, "%s=%s", tc.table.field, tc.value)
		require.Equal(t, tc.code, code, "%s=%s", tc.table.field, tc.value)
	}
}

func TestOptionsPublishesCategoricalFields(t *testing.T) {
	options := Options()
	require.Len(t, options, 7)
	require.Equal(t, FieldGender, options[0].Field)
	require.Equal(t, []Option{{Label: "Female", Code: 0}, {Label: "Male", Code: 1}, {Label: "Other", Code: 2}}, options[0].Options)

	payload, err := json.Marshal(options[5])
	require.NoError(t, err)
	require.JSONEq(t, `{"field":"residenceType","options":[{"label":"Rural","code":0},{"label":"Urban","code":1}]}`, string(payload))

	options[0].Options[0].Label = "mutated"
	require.Equal(t, "Female", Options()[0].Options[0].Label)
}

func TestFormInputAcceptsNumbers(t *testing.T) {
	var form FormInput
	require.NoError(t, json.Unmarshal([]byte(`{"gender":"Male","age":45,"bmi":24.5,"avgGlucoseLevel":"100","unknown":"x"}`), &form))
	require.Equal(t, "Male", form.Gender)
	require.Equal(t, "45", form.Age)
	require.Equal(t, "24.5", form.BMI)
	require.Equal(t, "100", form.AvgGlucoseLevel)

	require.Error(t, json.Unmarshal([]byte(`{"age":true}`), &form))
}

func TestFormPatchApply(t *testing.T) {
	var patch FormPatch
	require.NoError(t, json.Unmarshal([]byte(`{"age":52,"smokingStatus":"Unknown"}`), &patch))

	form, err := patch.Apply(validForm())
	require.NoError(t, err)
	require.Equal(t, "52", form.Age)
	require.Equal(t, "Unknown", form.SmokingStatus)
	require.Equal(t, "Male", form.Gender)

	_, err = FormPatch{"height": "180"}.Apply(validForm())
	require.Error(t, err)
}
