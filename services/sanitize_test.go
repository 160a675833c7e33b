package services

import (
	"errors"
	"strings"
	"testing"

	"validea/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRaw() map[string]any {
	return map[string]any{
		"ideaSummary":    "Marketplace for used lab equipment",
		"targetAudience": "University labs",
		"problemSolved":  "New equipment is expensive",
		"revenueModel":   "10% commission",
		"competitors":    "eBay, LabX",
	}
}

func TestSanitizeInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: ""},
		{name: "plain text untouched", input: "hello world", want: "hello world"},
		{name: "newline becomes space", input: "line1\nline2", want: "line1 line2"},
		{name: "carriage return becomes space", input: "a\r\nb", want: "a  b"},
		{name: "quotes removed", input: `say "hi" it's`, want: "say hi its"},
		{name: "no trimming", input: "  padded \n", want: "  padded  "},
		{name: "only quotes", input: `"'"'`, want: ""},
		{name: "unicode preserved", input: "café — naïve\n“smart”", want: "café — naïve “smart”"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeInput(tt.input))
		})
	}
}

func TestSanitizeInput_RemovesForbiddenAndKeepsOrder(t *testing.T) {
	input := "a\"b'c\nd\re f"
	got := SanitizeInput(input)

	assert.False(t, strings.ContainsAny(got, "\n\r\"'"))

	var kept []rune
	for _, r := range input {
		switch r {
		case '"', '\'':
		case '\n', '\r':
			kept = append(kept, ' ')
		default:
			kept = append(kept, r)
		}
	}
	assert.Equal(t, string(kept), got)
}

func TestNormalizeRequest_DefaultsOptionalFields(t *testing.T) {
	req, err := NormalizeRequest(validRaw())
	require.NoError(t, err)

	assert.Equal(t, models.NotProvided, req.Stage)
	assert.Equal(t, models.NotProvided, req.Challenges)
	assert.Equal(t, models.NotProvided, req.Vision)
	assert.Equal(t, models.NotProvided, req.Team)
	assert.Equal(t, "eBay, LabX", req.Competitors)
}

func TestNormalizeRequest_SanitizesEveryField(t *testing.T) {
	raw := validRaw()
	raw["ideaSummary"] = "An \"AI\" tool\nfor labs"
	raw["team"] = "Two founders'\r"

	req, err := NormalizeRequest(raw)
	require.NoError(t, err)

	assert.Equal(t, "An AI tool for labs", req.IdeaSummary)
	assert.Equal(t, "Two founders ", req.Team)
}

func TestNormalizeRequest_NullOptionalIsEmpty(t *testing.T) {
	raw := validRaw()
	raw["vision"] = nil

	req, err := NormalizeRequest(raw)
	require.NoError(t, err)
	assert.Equal(t, "", req.Vision)
}

func TestNormalizeRequest_CoercesScalars(t *testing.T) {
	raw := validRaw()
	raw["competitors"] = float64(3)
	raw["revenueModel"] = 12.5
	raw["targetAudience"] = true
	raw["stage"] = []any{"seed"}
	raw["team"] = false
	raw["vision"] = float64(0)

	req, err := NormalizeRequest(raw)
	require.NoError(t, err)
	assert.Equal(t, "3", req.Competitors)
	assert.Equal(t, "12.5", req.RevenueModel)
	assert.Equal(t, "true", req.TargetAudience)
	assert.Equal(t, "", req.Stage)
	assert.Equal(t, "", req.Team, "false is falsy")
	assert.Equal(t, "", req.Vision, "zero is falsy")
}

func TestNormalizeRequest_MissingRequired(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(map[string]any)
		fields []string
	}{
		{name: "absent", mutate: func(m map[string]any) { delete(m, "ideaSummary") }, fields: []string{"ideaSummary"}},
		{name: "empty", mutate: func(m map[string]any) { m["targetAudience"] = "" }, fields: []string{"targetAudience"}},
		{name: "whitespace", mutate: func(m map[string]any) { m["problemSolved"] = "  \t " }, fields: []string{"problemSolved"}},
		{name: "newlines only", mutate: func(m map[string]any) { m["revenueModel"] = "\n\r\n" }, fields: []string{"revenueModel"}},
		{name: "quotes only", mutate: func(m map[string]any) { m["competitors"] = `"''"` }, fields: []string{"competitors"}},
		{name: "null", mutate: func(m map[string]any) { m["competitors"] = nil }, fields: []string{"competitors"}},
		{name: "false", mutate: func(m map[string]any) { m["ideaSummary"] = false }, fields: []string{"ideaSummary"}},
		{name: "zero", mutate: func(m map[string]any) { m["competitors"] = float64(0) }, fields: []string{"competitors"}},
		{name: "int zero", mutate: func(m map[string]any) { m["revenueModel"] = 0 }, fields: []string{"revenueModel"}},
		{name: "object", mutate: func(m map[string]any) { m["ideaSummary"] = map[string]any{"a": 1} }, fields: []string{"ideaSummary"}},
		{
			name: "several",
			mutate: func(m map[string]any) {
				delete(m, "ideaSummary")
				m["competitors"] = " "
			},
			fields: []string{"ideaSummary", "competitors"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := validRaw()
			tt.mutate(raw)

			req, err := NormalizeRequest(raw)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMissingRequiredFields))

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.fields, verr.Fields)
			assert.Equal(t, models.EvaluationRequest{}, req)
		})
	}
}

func TestNormalizeRequest_NilBody(t *testing.T) {
	_, err := NormalizeRequest(nil)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Fields, 5)
}
