package services

import (
	"reflect"
	"strconv"
	"strings"

	"validea/models"

	"github.com/go-viper/mapstructure/v2"
)

var inputReplacer = strings.NewReplacer(
	"\n", " ",
	"\r", " ",
	`"`, "",
	"'", "",
)

// SanitizeInput flattens line breaks to spaces and strips quote characters.
// It does not trim.
func SanitizeInput(text string) string {
	if text == "" {
		return ""
	}
	return inputReplacer.Replace(text)
}

type ideaField struct {
	key      string
	required bool
	dst      func(*models.EvaluationRequest) *string
}

// ideaFields lists the request fields in prompt order.
var ideaFields = []ideaField{
	{"ideaSummary", true, func(r *models.EvaluationRequest) *string { return &r.IdeaSummary }},
	{"targetAudience", true, func(r *models.EvaluationRequest) *string { return &r.TargetAudience }},
	{"problemSolved", true, func(r *models.EvaluationRequest) *string { return &r.ProblemSolved }},
	{"revenueModel", true, func(r *models.EvaluationRequest) *string { return &r.RevenueModel }},
	{"competitors", true, func(r *models.EvaluationRequest) *string { return &r.Competitors }},
	{"stage", false, func(r *models.EvaluationRequest) *string { return &r.Stage }},
	{"challenges", false, func(r *models.EvaluationRequest) *string { return &r.Challenges }},
	{"vision", false, func(r *models.EvaluationRequest) *string { return &r.Vision }},
	{"team", false, func(r *models.EvaluationRequest) *string { return &r.Team }},
}

// NormalizeRequest turns a decoded JSON body into a sanitized EvaluationRequest.
// Absent optional fields become models.NotProvided; null, object and array values
// count as empty text. A *ValidationError is returned when any required field is
// blank, together with a zero request.
func NormalizeRequest(raw map[string]any) (models.EvaluationRequest, error) {
	var req models.EvaluationRequest
	var missing []string

	for _, f := range ideaFields {
		v, present := raw[f.key]
		var text string
		if !present && !f.required {
			text = models.NotProvided
		} else {
			text = fieldText(v)
		}
		text = SanitizeInput(text)
		if f.required && strings.TrimSpace(text) == "" {
			missing = append(missing, f.key)
		}
		*f.dst(&req) = text
	}

	if len(missing) > 0 {
		return models.EvaluationRequest{}, &ValidationError{Fields: missing}
	}
	return req, nil
}

// fieldText converts a decoded JSON value to text. Falsy values (false, 0)
// are empty like null; true and other numbers keep their literal form.
func fieldText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case map[string]any, []any:
		return ""
	case bool:
		if !t {
			return ""
		}
		return strconv.FormatBool(t)
	}
	if reflect.ValueOf(v).IsZero() {
		return ""
	}
	var s string
	if err := mapstructure.WeakDecode(v, &s); err != nil {
		return ""
	}
	return s
}
