package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanJSONBlock(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain JSON untouched",
			input: `{"skills": []}`,
			want:  `{"skills": []}`,
		},
		{
			name:  "json fence stripped",
			input: "```json\n{\"skills\": []}\n```",
			want:  `{"skills": []}`,
		},
		{
			name:  "bare fence stripped",
			input: "```\n{\"skills\": []}\n```",
			want:  `{"skills": []}`,
		},
		{
			name:  "surrounding whitespace trimmed",
			input: "  \n{\"a\": 1}\n  ",
			want:  `{"a": 1}`,
		},
		{
			name:  "empty input",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanJSONBlock(tt.input))
		})
	}
}
