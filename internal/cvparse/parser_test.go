package cvparse

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanJSONBlock(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain json", `{"skills":["SQL"]}`, `{"skills":["SQL"]}`},
		{"json fence", "```json\n{\"skills\":[\"SQL\"]}\n```", `{"skills":["SQL"]}`},
		{"bare fence", "```\n{\"skills\":[\"SQL\"]}\n```", `{"skills":["SQL"]}`},
		{"fence with language id", "```javascript\n{\"a\":1}\n```", `{"a":1}`},
		{"surrounding whitespace", "  \n{\"a\":1}\n  ", `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanJSONBlock(tt.input))
		})
	}
}

func TestDecodePatchValid(t *testing.T) {
	patch, err := DecodePatch(`{
		"targetRoles": ["Business Analyst"],
		"skills": ["SQL", "Tableau"],
		"experienceLevel": "senior",
		"summary": "Senior analyst with 8 years in fintech."
	}`)
	require.NoError(t, err)

	require.NotNil(t, patch.TargetRoles)
	assert.Equal(t, []string{"Business Analyst"}, *patch.TargetRoles)
	require.NotNil(t, patch.Skills)
	assert.Equal(t, []string{"SQL", "Tableau"}, *patch.Skills)
	require.NotNil(t, patch.ExperienceLevel)
	assert.Equal(t, "senior", *patch.ExperienceLevel)
	assert.Nil(t, patch.Domains)
	assert.Nil(t, patch.PreferredRegions)
}

func TestDecodePatchEmptyObject(t *testing.T) {
	patch, err := DecodePatch(`{}`)
	require.NoError(t, err)
	assert.Nil(t, patch.TargetRoles)
	assert.Nil(t, patch.Skills)
}

func TestDecodePatchRejectsBadLevel(t *testing.T) {
	_, err := DecodePatch(`{"experienceLevel": "principal"}`)
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Contains(t, parseErr.Error(), "profile schema")
}

func TestDecodePatchRejectsUnknownField(t *testing.T) {
	_, err := DecodePatch(`{"salaryExpectation": "£60k"}`)
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestDecodePatchRejectsNonJSON(t *testing.T) {
	_, err := DecodePatch(`I am a helpful assistant`)
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestParseResumeRejectsShortText(t *testing.T) {
	p := &GeminiParser{model: defaultModel}
	_, err := p.ParseResume(context.Background(), "too short")
	assert.ErrorIs(t, err, ErrTextTooShort)
}
