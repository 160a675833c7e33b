package models

// NotProvided is substituted for optional idea fields missing from the request.
const NotProvided = "Not provided"

// EvaluationRequest is the normalized startup idea submitted to /evaluate
type EvaluationRequest struct {
	IdeaSummary    string `json:"ideaSummary"`
	TargetAudience string `json:"targetAudience"`
	ProblemSolved  string `json:"problemSolved"`
	RevenueModel   string `json:"revenueModel"`
	Competitors    string `json:"competitors"`
	Stage          string `json:"stage"`
	Challenges     string `json:"challenges"`
	Vision         string `json:"vision"`
	Team           string `json:"team"`
}

// Evaluation is the structured investor assessment returned to the caller
type Evaluation struct {
	Score           int      `json:"score"`
	Feedback        string   `json:"feedback"`
	Strengths       []string `json:"strengths"`
	Weaknesses      []string `json:"weaknesses"`
	Recommendations []string `json:"recommendations"`
}

// FallbackEvaluation returns the fixed evaluation used when the model's score cannot be trusted.
func FallbackEvaluation() Evaluation {
	return Evaluation{
		Score:           0,
		Feedback:        "AI returned invalid or unclear evaluation.",
		Strengths:       []string{},
		Weaknesses:      []string{"Invalid score", "Could not parse result"},
		Recommendations: []string{"Retry with a proper, detailed idea"},
	}
}
