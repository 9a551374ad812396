package assessment

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Option is one selectable answer of a categorical field.
type Option struct {
	Label   string `json:"label"`
	Code    int    `json:"code"`
	aliases []string
}

// FieldOptions lists the answers of a categorical field.
type FieldOptions struct {
	Field   string   `json:"field"`
	Options []Option `json:"options"`
}

type choiceTable struct {
	field   string
	options []Option
	index   map[string]int
}

func newChoiceTable(field string, options ...Option) choiceTable {
	index := make(map[string]int)
	for _, opt := range options {
		index[normalizeLabel(opt.Label)] = opt.Code
		index[strconv.Itoa(opt.Code)] = opt.Code
		for _, alias := range opt.aliases {
			index[normalizeLabel(alias)] = opt.Code
		}
	}
	return choiceTable{field: field, options: options, index: index}
}

func (t choiceTable) code(value string) (int, bool) {
	code, ok := t.index[normalizeLabel(value)]
	return code, ok
}

func (t choiceTable) labels() []string {
	out := make([]string, 0, len(t.options))
	for _, opt := range t.options {
		out = append(out, opt.Label)
	}
	return out
}

// The codes below are the prediction service's label encoding. Change them only together with the
// model they were trained for.
var (
	yesNo = []Option{
		{Label: "No", Code: 0, aliases: []string{"No (Never married)"}},
		{Label: "Yes", Code: 1, aliases: []string{"Yes (Married)"}},
	}

	genderTable = newChoiceTable(FieldGender,
		Option{Label: "Female", Code: 0},
		Option{Label: "Male", Code: 1},
		Option{Label: "Other", Code: 2},
	)

	hypertensionTable = newChoiceTable(FieldHypertension, yesNo...)
	heartDiseaseTable = newChoiceTable(FieldHeartDisease, yesNo...)
	everMarriedTable  = newChoiceTable(FieldEverMarried, yesNo...)

	workTypeTable = newChoiceTable(FieldWorkType,
		Option{Label: "Government", Code: 0, aliases: []string{"Government job", "Govt job"}},
		Option{Label: "Never worked", Code: 1},
		Option{Label: "Private", Code: 2},
		Option{Label: "Self-employed", Code: 3},
		Option{Label: "Children", Code: 4},
	)

	residenceTypeTable = newChoiceTable(FieldResidenceType,
		Option{Label: "Rural", Code: 0},
		Option{Label: "Urban", Code: 1},
	)

	smokingStatusTable = newChoiceTable(FieldSmokingStatus,
		Option{Label: "Never", Code: 0, aliases: []string{"Never smoked"}},
		Option{Label: "Formerly", Code: 1, aliases: []string{"Formerly smoked"}},
		Option{Label: "Currently", Code: 2, aliases: []string{"Smokes", "Currently smokes"}},
		Option{Label: "Unknown", Code: 3},
	)

	choiceTables = []choiceTable{
		genderTable,
		hypertensionTable,
		heartDiseaseTable,
		everMarriedTable,
		workTypeTable,
		residenceTypeTable,
		smokingStatusTable,
	}
)

// Options publishes the categorical fields in form order.
func Options() []FieldOptions {
	out := make([]FieldOptions, 0, len(choiceTables))
	for _, table := range choiceTables {
		options := make([]Option, len(table.options))
		copy(options, table.options)
		out = append(out, FieldOptions{Field: table.field, Options: options})
	}
	return out
}

// Encode maps a validated form onto the prediction service's encoding.
// The form must have passed Validate; unknown selections encode as -1.
func Encode(form FormInput) EncodedRequest {
	return EncodedRequest{
		Gender:          lookup(genderTable, form.Gender),
		Age:             parseNumber(form.Age),
		Hypertension:    lookup(hypertensionTable, form.Hypertension),
		HeartDisease:    lookup(heartDiseaseTable, form.HeartDisease),
		EverMarried:     lookup(everMarriedTable, form.EverMarried),
		WorkType:        lookup(workTypeTable, form.WorkType),
		ResidenceType:   lookup(residenceTypeTable, form.ResidenceType),
		AvgGlucoseLevel: parseNumber(form.AvgGlucoseLevel),
		BMI:             parseNumber(form.BMI),
		SmokingStatus:   lookup(smokingStatusTable, form.SmokingStatus),
	}
}

// Fingerprint is a stable digest of the wire encoding.
func (r EncodedRequest) Fingerprint() string {
	payload, _ := json.Marshal(r)
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

func lookup(table choiceTable, value string) int {
	code, ok := table.code(value)
	if !ok {
		return -1
	}
	return code
}

func parseNumber(value string) float64 {
	parsed, _ := parseFinite(value)
	return parsed
}

func parseFinite(value string) (float64, bool) {
	parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
		return 0, false
	}
	return parsed, true
}

// normalizeLabel folds case and treats '-', '_' and runs of spaces alike.
func normalizeLabel(value string) string {
	folded := strings.ToLower(strings.TrimSpace(value))
	folded = strings.NewReplacer("-", " ", "_", " ").Replace(folded)
	return strings.Join(strings.Fields(folded), " ")
}
