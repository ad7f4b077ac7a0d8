package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompletenessFullBundle(t *testing.T) {
	got := NewCompletenessEvaluator(testCriteria()).Evaluate(completeBundle(), []string{"html"})

	assert.Equal(t, 5, got.MandatoryFound)
	assert.Empty(t, got.MandatoryMissing)
	assert.Equal(t, 1, got.AppExpected)
	assert.Equal(t, 1, got.AppFound)
	assert.InDelta(t, 1.0, got.Score, 1e-9)
}

func TestCompletenessMissingMandatory(t *testing.T) {
	got := NewCompletenessEvaluator(testCriteria()).Evaluate(entryOnlyBundle(), []string{"html"})

	assert.Equal(t, 0, got.MandatoryFound)
	assert.Equal(t, []string{"README.md", "PLAN.md", "PROGRESS.md", "SUMMARY.md", "session.json"}, got.MandatoryMissing)
	assert.InDelta(t, 0.3, got.Score, 1e-9)
}

func TestCompletenessMandatoryNeedsExactName(t *testing.T) {
	bundle := completeBundle()
	bundle.Files["readme.md"] = bundle.Files["README.md"]
	delete(bundle.Files, "README.md")

	got := NewCompletenessEvaluator(testCriteria()).Evaluate(bundle, []string{"html"})

	assert.Equal(t, []string{"README.md"}, got.MandatoryMissing)
	assert.InDelta(t, 0.7*0.8+0.3, got.Score, 1e-9)
}

func TestCompletenessStackFiles(t *testing.T) {
	bundle := completeBundle()
	got := NewCompletenessEvaluator(testCriteria()).Evaluate(bundle, []string{"html", "node"})

	assert.Equal(t, 3, got.AppExpected)
	assert.Equal(t, 1, got.AppFound)
	assert.Equal(t, []string{"package.json", "server.js"}, got.AppMissing)
	assert.InDelta(t, 0.7+0.3/3, got.Score, 1e-9)
}

func TestAppFilePresent(t *testing.T) {
	tests := []struct {
		name     string
		expected string
		existing []string
		want     bool
	}{
		{"exact", "index.html", []string{"index.html"}, true},
		{"case insensitive base", "App.jsx", []string{"src/app.jsx"}, true},
		{"singular", "styles.css", []string{"css/style.css"}, true},
		{"plural", "script.js", []string{"scripts.js"}, true},
		{"canonical stem", "index.html", []string{"main.html"}, true},
		{"containment", "package.json", []string{"frontend/package.json.bak"}, true},
		{"different extension", "index.html", []string{"index.htm"}, false},
		{"unrelated", "server.js", []string{"client.js"}, false},
		{"no files", "index.html", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, appFilePresent(tt.expected, tt.existing))
		})
	}
}

func TestRatioOrOne(t *testing.T) {
	assert.Equal(t, 1.0, ratioOrOne(0, 0))
	assert.Equal(t, 0.5, ratioOrOne(1, 2))
}
