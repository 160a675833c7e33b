package services

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	"validea/models"
)

// ResultKind tags which branch of normalization produced an EvaluationResult.
type ResultKind int

const (
	// ResultRawText means the model output was not JSON and is passed through as text.
	ResultRawText ResultKind = iota
	// ResultFallback means the output was JSON but its score failed validation.
	ResultFallback
	// ResultParsed means the output was JSON with a valid score and is returned as-is.
	ResultParsed
)

func (k ResultKind) String() string {
	switch k {
	case ResultRawText:
		return "raw_text"
	case ResultFallback:
		return "fallback"
	case ResultParsed:
		return "parsed"
	default:
		return "unknown"
	}
}

// EvaluationResult is the outcome of normalizing one model response.
type EvaluationResult struct {
	Kind     ResultKind
	Raw      string
	Parsed   json.RawMessage
	Fallback models.Evaluation
}

// Payload returns the value sent to the caller under the "evaluation" key.
func (r EvaluationResult) Payload() any {
	switch r.Kind {
	case ResultParsed:
		return r.Parsed
	case ResultFallback:
		return r.Fallback
	default:
		return r.Raw
	}
}

// Normalizer shapes raw model output into an EvaluationResult. The zero value is ready to use.
type Normalizer struct {
	// StripCodeFences removes a surrounding ```json fence before parsing.
	StripCodeFences bool
}

// NormalizeEvaluation normalizes raw model output with the default Normalizer.
func NormalizeEvaluation(raw string) EvaluationResult {
	return Normalizer{}.Normalize(raw)
}

// Normalize never fails: unparseable text is passed through, an untrustworthy
// score yields models.FallbackEvaluation, anything else is returned unmodified.
func (n Normalizer) Normalize(raw string) EvaluationResult {
	trimmed := strings.TrimSpace(raw)

	candidate := trimmed
	if n.StripCodeFences {
		candidate = cleanModelOutput(trimmed)
	}

	if !json.Valid([]byte(candidate)) {
		log.Printf("AI response was not valid JSON")
		return EvaluationResult{Kind: ResultRawText, Raw: trimmed}
	}

	if err := checkScore(candidate); err != nil {
		log.Printf("AI returned invalid score, forcing fallback structure: %v", err)
		return EvaluationResult{Kind: ResultFallback, Fallback: models.FallbackEvaluation()}
	}

	return EvaluationResult{Kind: ResultParsed, Parsed: json.RawMessage(candidate)}
}

// EvaluationService runs the request -> prompt -> upstream -> normalize pipeline.
// It keeps no per-request state and is safe for concurrent use.
type EvaluationService struct {
	completer  Completer
	normalizer Normalizer
	timeout    time.Duration
}

// Option configures an EvaluationService.
type Option func(*EvaluationService)

// WithStripCodeFences enables code-fence removal before parsing model output.
func WithStripCodeFences(strip bool) Option {
	return func(s *EvaluationService) { s.normalizer.StripCodeFences = strip }
}

// WithTimeout bounds each upstream call. Zero leaves the caller's context untouched.
func WithTimeout(d time.Duration) Option {
	return func(s *EvaluationService) { s.timeout = d }
}

func NewEvaluationService(c Completer, opts ...Option) *EvaluationService {
	s := &EvaluationService{completer: c}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Evaluate validates the raw request fields, queries the upstream model and
// normalizes its answer. Errors are either *ValidationError or *UpstreamError.
func (s *EvaluationService) Evaluate(ctx context.Context, raw map[string]any) (EvaluationResult, error) {
	req, err := NormalizeRequest(raw)
	if err != nil {
		return EvaluationResult{}, err
	}

	prompt := BuildEvaluationPrompt(req)

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	content, err := s.completer.Complete(ctx, prompt)
	if err != nil {
		return EvaluationResult{}, &UpstreamError{Provider: s.completer.Name(), Err: err}
	}

	result := s.normalizer.Normalize(content)
	if result.Kind != ResultRawText {
		log.Printf("Evaluation success (%s)", result.Kind)
	}
	return result, nil
}

func cleanModelOutput(text string) string {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.TrimPrefix(cleaned, "\uFEFF")
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```JSON")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	return strings.TrimSpace(cleaned)
}
