package schemas

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateExtraction_Valid(t *testing.T) {
	doc := []byte(`{
		"skills": [
			{"name": "go", "level": "senior", "mandatory": true},
			{"name": "postgresql"}
		],
		"requirements": ["5+ years experience"],
		"summary": "Backend role building Go services."
	}`)
	assert.NoError(t, ValidateExtraction(doc))
}

func TestValidateExtraction_MissingSkills(t *testing.T) {
	err := ValidateExtraction([]byte(`{"summary": "no skills key"}`))
	require.Error(t, err)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "extraction", verr.Schema)
	assert.NotEmpty(t, verr.Errors)
}

func TestValidateExtraction_BadSkillShape(t *testing.T) {
	err := ValidateExtraction([]byte(`{"skills": ["go"]}`))
	assert.Error(t, err)
}

func TestValidateDocuments_Valid(t *testing.T) {
	doc := []byte(`{"resume": "Resume text here.", "cover_letter": "Dear hiring manager."}`)
	assert.NoError(t, ValidateDocuments(doc))
}

func TestValidateDocuments_EmptyFields(t *testing.T) {
	err := ValidateDocuments([]byte(`{"resume": "", "cover_letter": ""}`))
	assert.Error(t, err)
}

func TestValidateDocuments_MissingCoverLetter(t *testing.T) {
	err := ValidateDocuments([]byte(`{"resume": "text"}`))
	assert.Error(t, err)
}
