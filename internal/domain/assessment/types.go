package assessment

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Field names as they appear on the intake form.
const (
	FieldGender          = "gender"
	FieldAge             = "age"
	FieldHypertension    = "hypertension"
	FieldHeartDisease    = "heartDisease"
	FieldEverMarried     = "everMarried"
	FieldWorkType        = "workType"
	FieldResidenceType   = "residenceType"
	FieldAvgGlucoseLevel = "avgGlucoseLevel"
	FieldBMI             = "bmi"
	FieldSmokingStatus   = "smokingStatus"
)

// FieldOrder is the order fields are reported in.
var FieldOrder = []string{
	FieldGender,
	FieldAge,
	FieldHypertension,
	FieldHeartDisease,
	FieldEverMarried,
	FieldWorkType,
	FieldResidenceType,
	FieldAvgGlucoseLevel,
	FieldBMI,
	FieldSmokingStatus,
}

// FormInput holds the user's answers as free text until validated.
type FormInput struct {
	Gender          string `json:"gender"`
	Age             string `json:"age"`
	Hypertension    string `json:"hypertension"`
	HeartDisease    string `json:"heartDisease"`
	EverMarried     string `json:"everMarried"`
	WorkType        string `json:"workType"`
	ResidenceType   string `json:"residenceType"`
	AvgGlucoseLevel string `json:"avgGlucoseLevel"`
	BMI             string `json:"bmi"`
	SmokingStatus   string `json:"smokingStatus"`
}

// Value returns the raw text of the named field.
func (f FormInput) Value(field string) string {
	switch field {
	case FieldGender:
		return f.Gender
	case FieldAge:
		return f.Age
	case FieldHypertension:
		return f.Hypertension
	case FieldHeartDisease:
		return f.HeartDisease
	case FieldEverMarried:
		return f.EverMarried
	case FieldWorkType:
		return f.WorkType
	case FieldResidenceType:
		return f.ResidenceType
	case FieldAvgGlucoseLevel:
		return f.AvgGlucoseLevel
	case FieldBMI:
		return f.BMI
	case FieldSmokingStatus:
		return f.SmokingStatus
	default:
		return ""
	}
}

func (f *FormInput) set(field, value string) bool {
	switch field {
	case FieldGender:
		f.Gender = value
	case FieldAge:
		f.Age = value
	case FieldHypertension:
		f.Hypertension = value
	case FieldHeartDisease:
		f.HeartDisease = value
	case FieldEverMarried:
		f.EverMarried = value
	case FieldWorkType:
		f.WorkType = value
	case FieldResidenceType:
		f.ResidenceType = value
	case FieldAvgGlucoseLevel:
		f.AvgGlucoseLevel = value
	case FieldBMI:
		f.BMI = value
	case FieldSmokingStatus:
		f.SmokingStatus = value
	default:
		return false
	}
	return true
}

// UnmarshalJSON accepts strings or numbers for every field; numbers keep their literal text.
func (f *FormInput) UnmarshalJSON(data []byte) error {
	patch, err := decodeFieldMap(data)
	if err != nil {
		return err
	}
	var out FormInput
	for field, value := range patch {
		out.set(field, value)
	}
	*f = out
	return nil
}

// FormPatch carries the subset of fields a client changed.
type FormPatch map[string]string

// UnmarshalJSON applies the same string-or-number coercion as FormInput.
func (p *FormPatch) UnmarshalJSON(data []byte) error {
	patch, err := decodeFieldMap(data)
	if err != nil {
		return err
	}
	*p = patch
	return nil
}

// Apply returns a copy of form with the patch written over it.
func (p FormPatch) Apply(form FormInput) (FormInput, error) {
	for field, value := range p {
		if !form.set(field, value) {
			return form, fmt.Errorf("unknown field %q", field)
		}
	}
	return form, nil
}

func decodeFieldMap(data []byte) (map[string]string, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	out := make(map[string]string, len(raw))
	for field, value := range raw {
		text, err := coerceText(value)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", field, err)
		}
		out[field] = text
	}
	return out, nil
}

func coerceText(raw json.RawMessage) (string, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return "", nil
	}
	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return "", err
		}
		return s, nil
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		var n json.Number
		if err := json.Unmarshal(trimmed, &n); err != nil {
			return "", err
		}
		return n.String(), nil
	default:
		return "", fmt.Errorf("expected string or number, got %s", strings.TrimSpace(string(trimmed)))
	}
}

// EncodedRequest is the wire payload expected by the prediction service.
// Residence_type is capitalized on the wire; the service requires it.
type EncodedRequest struct {
	Gender          int     `json:"gender"`
	Age             float64 `json:"age"`
	Hypertension    int     `json:"hypertension"`
	HeartDisease    int     `json:"heart_disease"`
	EverMarried     int     `json:"ever_married"`
	WorkType        int     `json:"work_type"`
	ResidenceType   int     `json:"Residence_type"`
	AvgGlucoseLevel float64 `json:"avg_glucose_level"`
	BMI             float64 `json:"bmi"`
	SmokingStatus   int     `json:"smoking_status"`
}

// RiskLevel labels a prediction for display.
type RiskLevel = string

const (
	RiskLow      RiskLevel = "Low"
	RiskModerate RiskLevel = "Moderate"
	RiskHigh     RiskLevel = "High"
)

// PredictionResult is the normalized answer of the prediction service.
type PredictionResult struct {
	Prediction int       `json:"prediction"`
	RiskLevel  RiskLevel `json:"riskLevel"`
	Confidence float64   `json:"confidence"`
}

// Result sources.
const (
	SourceService = "service"
	SourceCache   = "cache"
)

// Assessment records one completed submission.
type Assessment struct {
	ID        uuid.UUID        `json:"id"`
	Request   EncodedRequest   `json:"request"`
	Result    PredictionResult `json:"result"`
	Source    string           `json:"source"`
	Report    Report           `json:"report"`
	CreatedAt time.Time        `json:"createdAt"`
}

// Report is the human-facing summary shown with a result.
type Report struct {
	Headline        string           `json:"headline"`
	Disclaimer      string           `json:"disclaimer"`
	Recommendations []Recommendation `json:"recommendations"`
}

// Recommendation is a short piece of general guidance.
type Recommendation struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

// Config wires runtime knobs for the assessment domain.
type Config struct {
	CacheTTL      time.Duration
	RecentLimit   int
	SessionTTL    time.Duration
	ArchivePrefix string
}
