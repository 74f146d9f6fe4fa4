package dream

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(s string) *string { return &s }

func TestValidatePrompt(t *testing.T) {
	tests := []struct {
		name    string
		raw     *string
		want    string
		wantMsg string
	}{
		{name: "absent", raw: nil, wantMsg: MsgMissingPrompt},
		{name: "empty", raw: ptr(""), wantMsg: MsgMissingPrompt},
		{name: "whitespace only", raw: ptr(" \t\n "), wantMsg: MsgMissingPrompt},
		{name: "trimmed", raw: ptr("  I was flying  "), want: "I was flying"},
		{name: "exactly at limit", raw: ptr(strings.Repeat("a", 5000)), want: strings.Repeat("a", 5000)},
		{name: "limit applies after trim", raw: ptr("  " + strings.Repeat("a", 5000) + "\n"), want: strings.Repeat("a", 5000)},
		{
			name:    "over limit",
			raw:     ptr(strings.Repeat("a", 5001)),
			wantMsg: "Dream prompt is too long. Maximum length is 5000 characters",
		},
		{name: "multibyte counted as characters", raw: ptr(strings.Repeat("夢", 5000)), want: strings.Repeat("夢", 5000)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidatePrompt(tt.raw, DefaultMaxPromptLength)
			if tt.wantMsg != "" {
				var verr *ValidationError
				require.ErrorAs(t, err, &verr)
				assert.Equal(t, tt.wantMsg, verr.Message)
				assert.Empty(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidatePromptCustomLimit(t *testing.T) {
	_, err := ValidatePrompt(ptr("twelve chars"), 10)
	assert.EqualError(t, err, "Dream prompt is too long. Maximum length is 10 characters")

	got, err := ValidatePrompt(ptr("short"), 0)
	require.NoError(t, err)
	assert.Equal(t, "short", got)
}
