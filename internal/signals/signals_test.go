package signals

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtract_HitsInVocabularyOrder(t *testing.T) {
	// "Python" precedes "SQL" in the text but "SQL" comes first in the vocabulary.
	got := Extract("Data Analyst", "Python and SQL required, Tableau a plus")

	assert.Equal(t, []string{"SQL", "Python", "Tableau", "Data"}, got.KeywordHits)
}

func TestExtract_ScoreFormula(t *testing.T) {
	got := Extract("Business Analyst", "SQL, Excel and Power BI. Agile environment.")

	want := int(math.Round(float64(len(got.KeywordHits)) / float64(len(Vocabulary)) * 100))
	assert.Equal(t, want, got.KeywordScore)
	assert.GreaterOrEqual(t, got.KeywordScore, 0)
	assert.LessOrEqual(t, got.KeywordScore, 100)
}

func TestExtract_NoHits(t *testing.T) {
	got := Extract("Barista", "")

	assert.Empty(t, got.KeywordHits)
	assert.Equal(t, 0, got.KeywordScore)
}

func TestExtract_SeniorityFromRoleOnly(t *testing.T) {
	assert.True(t, Extract("Senior Business Analyst", "").SeniorityHint)
	assert.False(t, Extract("Business Analyst", "").SeniorityHint)
	// Markers in the snippet do not count.
	assert.False(t, Extract("Business Analyst", "reporting to a senior director").SeniorityHint)
}

func TestExtract_SeniorityMarkers(t *testing.T) {
	for _, role := range []string{
		"Junior Product Analyst",
		"Graduate Trainee",
		"Head of Operations",
		"VP of Product",
		"Engineering Manager",
	} {
		assert.True(t, Extract(role, "").SeniorityHint, role)
	}
}

func TestExtract_CaseInsensitive(t *testing.T) {
	got := Extract("business analyst", "sql and python")

	assert.Contains(t, got.KeywordHits, "SQL")
	assert.Contains(t, got.KeywordHits, "Python")
}
