package services

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/bundle-evaluator/internal/models"
)

func bundleOf(files map[string]string) *models.ArtifactBundle {
	b := &models.ArtifactBundle{Files: map[string]models.FileRecord{}}
	for name, content := range files {
		b.Files[name] = textFile(content)
	}
	return b
}

func TestQualityCompleteBundle(t *testing.T) {
	got := NewQualityEvaluator(testCriteria()).Evaluate(completeBundle())

	assert.Equal(t, 7, got.FileHealthTotal)
	assert.Equal(t, 7, got.FileHealthHealthy)
	assert.Equal(t, 7, got.ContentQualityTotal)
	assert.Equal(t, 7, got.ContentQualityPassed)
	assert.False(t, got.ErrorsFound)
	assert.Empty(t, got.Issues)
	assert.InDelta(t, 1.0, got.Score, 1e-9)
}

func TestQualityNoExistingFiles(t *testing.T) {
	bundle := &models.ArtifactBundle{Files: map[string]models.FileRecord{
		"README.md": models.MissingFile(),
	}}

	got := NewQualityEvaluator(testCriteria()).Evaluate(bundle)

	assert.Zero(t, got.Score)
	assert.Zero(t, got.FileHealthTotal)
	assert.NotNil(t, got.Issues)
	assert.NotNil(t, got.ErrorDetails)
}

func TestQualityMalformedJSON(t *testing.T) {
	bundle := bundleOf(map[string]string{
		"session.json": `{"session_id": "abc123456789", "started": "2024-05-01", "steps": [1, 2`,
	})

	got := NewQualityEvaluator(testCriteria()).Evaluate(bundle)

	assert.Equal(t, 2, got.FileHealthTotal)
	assert.Equal(t, 1, got.FileHealthHealthy)
	require.Len(t, got.Issues, 1)
	assert.Equal(t, models.IssueMalformedStructured, got.Issues[0].Kind)
	assert.InDelta(t, 0.75, got.Score, 1e-9)
}

func TestQualitySkipsParsingTruncatedStructuredFile(t *testing.T) {
	rec := textFile(`{"session_id": "abc123456789", "started": "2024-05-01", "steps": [1, 2`)
	rec.Truncated = true
	bundle := &models.ArtifactBundle{Files: map[string]models.FileRecord{"session.json": rec}}

	got := NewQualityEvaluator(testCriteria()).Evaluate(bundle)

	assert.Equal(t, 1, got.FileHealthTotal)
	assert.Equal(t, 1, got.FileHealthHealthy)
	assert.Empty(t, got.Issues)
}

func TestQualityEmptyYAMLIsMalformed(t *testing.T) {
	bundle := bundleOf(map[string]string{"config.yaml": strings.Repeat(" ", 60)})

	got := NewQualityEvaluator(testCriteria()).Evaluate(bundle)

	require.Len(t, got.Issues, 1)
	assert.Equal(t, models.IssueMalformedStructured, got.Issues[0].Kind)
}

func TestQualitySmallAndShortFiles(t *testing.T) {
	bundle := bundleOf(map[string]string{"README.md": "# hi"})

	got := NewQualityEvaluator(testCriteria()).Evaluate(bundle)

	assert.Equal(t, 0, got.FileHealthHealthy)
	assert.Equal(t, 2, got.ContentQualityTotal)
	assert.Equal(t, 1, got.ContentQualityPassed)
	kinds := []models.QualityIssueKind{}
	for _, issue := range got.Issues {
		kinds = append(kinds, issue.Kind)
	}
	assert.Equal(t, []models.QualityIssueKind{models.IssueFileTooSmall, models.IssueContentTooShort}, kinds)
	assert.InDelta(t, 0.25, got.Score, 1e-9)
}

func TestQualityRequiredElementsAnyKeyword(t *testing.T) {
	page := "<HTML>" + strings.Repeat("<p>forecast</p>", 20) + "</HTML>"
	bundle := bundleOf(map[string]string{"index.html": page})

	got := NewQualityEvaluator(testCriteria()).Evaluate(bundle)

	assert.Equal(t, 2, got.ContentQualityPassed)
	assert.Empty(t, got.Issues)
}

func TestQualityErrorSignatures(t *testing.T) {
	bundle := bundleOf(map[string]string{
		"build.log": "step one ok\nTypeError: x is undefined\nTypeError again\npanic: runtime error\n",
	})

	got := NewQualityEvaluator(testCriteria()).Evaluate(bundle)

	assert.True(t, got.ErrorsFound)
	assert.Equal(t, 2, got.ErrorCount)
	require.Len(t, got.ErrorDetails, 2)
	assert.Equal(t, "TypeError", got.ErrorDetails[0].Signature)
	assert.Equal(t, "panic:", got.ErrorDetails[1].Signature)
	assert.Contains(t, got.ErrorDetails[0].Context, "TypeError: x is undefined")
	assert.InDelta(t, 0.7, got.Score, 1e-9)
}

func TestQualitySameSignatureInTwoFiles(t *testing.T) {
	line := "output line that is long enough to pass the size check\nSyntaxError: bad\n"
	bundle := bundleOf(map[string]string{"a.log": line, "b.log": line})

	got := NewQualityEvaluator(testCriteria()).Evaluate(bundle)

	assert.Equal(t, 2, got.ErrorCount)
	assert.Equal(t, "a.log", got.ErrorDetails[0].File)
	assert.Equal(t, "b.log", got.ErrorDetails[1].File)
}

func TestQualityErrorScanIsCaseSensitive(t *testing.T) {
	bundle := bundleOf(map[string]string{
		"notes.txt": "a typeerror in lower case is not an error signature match at all",
	})

	got := NewQualityEvaluator(testCriteria()).Evaluate(bundle)

	assert.False(t, got.ErrorsFound)
	assert.Zero(t, got.ErrorCount)
}

func TestExcerpt(t *testing.T) {
	content := strings.Repeat("a", 200) + "TypeError" + strings.Repeat("b", 200)
	got := excerpt(content, 200, len("TypeError"))
	assert.Equal(t, strings.Repeat("a", 50)+"TypeError"+strings.Repeat("b", 50), got)

	multi := strings.Repeat("é", 40) + "x" + "TypeError"
	got = excerpt(multi, strings.Index(multi, "TypeError"), len("TypeError"))
	assert.True(t, utf8.ValidString(got))
	assert.True(t, strings.HasSuffix(got, "xTypeError"))
}
