package assessment

import "strings"

type rangeRule struct {
	field string
	min   float64
	max   float64
}

// Checked in this order; the first violation wins.
var rangeRules = []rangeRule{
	{field: FieldAge, min: 0, max: 120},
	{field: FieldBMI, min: 10, max: 50},
	{field: FieldAvgGlucoseLevel, min: 50, max: 500},
}

// Validate gates submission: missing fields first, then numeric ranges, then selections.
func Validate(form FormInput) error {
	var missing []string
	for _, field := range FieldOrder {
		if strings.TrimSpace(form.Value(field)) == "" {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return &MissingFieldError{Fields: missing}
	}

	for _, rule := range rangeRules {
		raw := form.Value(rule.field)
		value, ok := parseFinite(raw)
		if !ok || value < rule.min || value > rule.max {
			return &RangeError{Field: rule.field, Min: rule.min, Max: rule.max, Value: raw}
		}
	}

	for _, table := range choiceTables {
		raw := form.Value(table.field)
		if _, ok := table.code(raw); !ok {
			return &ChoiceError{Field: table.field, Value: raw, Allowed: table.labels()}
		}
	}
	return nil
}
