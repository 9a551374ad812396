package assessment

import "strings"

// Fallback confidences used when the service omits one. They are placeholders
// tied only to the binary prediction and carry no clinical calibration.
const (
	DefaultConfidenceHigh = 85.0
	DefaultConfidenceLow  = 75.0
)

// ServiceResponse is the body returned by the prediction service.
type ServiceResponse struct {
	Prediction *int     `json:"prediction"`
	RiskLevel  string   `json:"risk_level"`
	Confidence *float64 `json:"confidence"`
}

// NormalizeResponse fills the optional fields from the prediction when absent.
// An empty risk level or a zero confidence counts as absent.
func NormalizeResponse(resp ServiceResponse) (PredictionResult, error) {
	if resp.Prediction == nil {
		return PredictionResult{}, &MalformedResponseError{Reason: "prediction field missing"}
	}
	prediction := *resp.Prediction
	if prediction != 0 && prediction != 1 {
		return PredictionResult{}, &MalformedResponseError{Reason: "prediction must be 0 or 1"}
	}

	result := PredictionResult{
		Prediction: prediction,
		RiskLevel:  strings.TrimSpace(resp.RiskLevel),
	}
	if result.RiskLevel == "" {
		result.RiskLevel = RiskLow
		if prediction == 1 {
			result.RiskLevel = RiskHigh
		}
	}
	if resp.Confidence != nil && *resp.Confidence != 0 {
		result.Confidence = *resp.Confidence
	} else if prediction == 1 {
		result.Confidence = DefaultConfidenceHigh
	} else {
		result.Confidence = DefaultConfidenceLow
	}
	return result, nil
}

const disclaimer = "This prediction is for educational purposes only and should not replace professional medical advice. " +
	"Please consult with a healthcare provider for proper medical evaluation and personalized recommendations."

var recommendations = []Recommendation{
	{Title: "Prevention", Detail: "Regular exercise and healthy diet"},
	{Title: "Monitor", Detail: "Regular blood pressure and glucose checks"},
	{Title: "Consult", Detail: "Speak with your healthcare provider"},
}

func buildReport(result PredictionResult) Report {
	headline := "Lower stroke risk detected"
	if result.Prediction == 1 {
		headline = "Higher stroke risk detected"
	}
	recs := make([]Recommendation, len(recommendations))
	copy(recs, recommendations)
	return Report{
		Headline:        headline,
		Disclaimer:      disclaimer,
		Recommendations: recs,
	}
}
