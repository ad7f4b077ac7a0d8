package models

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGradeOrder(t *testing.T) {
	assert.Less(t, GradeFailure, GradeInsufficient)
	assert.Less(t, GradeInsufficient, GradeGood)
	assert.Less(t, GradeGood, GradeComplete)
	assert.Equal(t, []Grade{GradeComplete, GradeGood, GradeInsufficient, GradeFailure}, AllGrades)
}

func TestGradeText(t *testing.T) {
	for _, g := range AllGrades {
		parsed, err := ParseGrade(g.String())
		require.NoError(t, err)
		assert.Equal(t, g, parsed)
	}
	_, err := ParseGrade("excellent")
	assert.Error(t, err)

	_, err = Grade(42).MarshalText()
	assert.Error(t, err)
	assert.Equal(t, "grade(42)", Grade(42).String())

	assert.True(t, GradeComplete.IsSuccess())
	assert.True(t, GradeGood.IsSuccess())
	assert.False(t, GradeInsufficient.IsSuccess())
	assert.False(t, GradeFailure.IsSuccess())
}

func TestGradeDistributionJSON(t *testing.T) {
	dist := NewGradeDistribution()
	dist[GradeGood] = 3

	data, err := json.Marshal(dist)
	require.NoError(t, err)
	assert.JSONEq(t, `{"complete":0,"good":3,"insufficient":0,"failure":0}`, string(data))

	var back GradeDistribution
	require.NoError(t, json.Unmarshal([]byte(`{"good":2}`), &back))
	assert.Len(t, back, 4)
	assert.Equal(t, 2, back[GradeGood])

	assert.Error(t, json.Unmarshal([]byte(`{"stellar":1}`), &back))
}

func TestBundleHelpers(t *testing.T) {
	b := &ArtifactBundle{Files: map[string]FileRecord{
		"b.md": NewTextFile("hello", time.Time{}),
		"a.md": NewTextFile("hi", time.Now()),
		"c.md": MissingFile(),
	}}

	assert.Equal(t, DefaultProducerID, b.Producer())
	assert.True(t, b.Has("a.md"))
	assert.False(t, b.Has("c.md"))
	assert.False(t, b.Has("d.md"))
	assert.Equal(t, []string{"a.md", "b.md"}, b.ExistingNames())
	assert.Nil(t, b.Files["b.md"].LastModified)
	assert.Equal(t, int64(5), b.Files["b.md"].ByteSize())
	assert.Equal(t, "", MissingFile().Text())

	var nilBundle *ArtifactBundle
	assert.False(t, nilBundle.Has("a.md"))
	assert.Equal(t, DefaultProducerID, nilBundle.Producer())
}

func validCriteria() *EvaluationCriteria {
	return &EvaluationCriteria{
		Version:            "test",
		MandatoryCoreFiles: []string{"README.md"},
		PrimaryEntryFile:   "index.html",
		TechStackExpectedFiles: map[string][]string{
			"react": {"App.jsx", "package.json"},
			"node":  {"package.json", "server.js"},
		},
		QualityRules: QualityRules{StructuredExtensions: map[string]string{".json": "json"}},
		GradeThresholds: []GradeThreshold{
			{Grade: GradeComplete, MinCompleteness: 0.9, MinQuality: 0.9},
			{Grade: GradeInsufficient, MinCompleteness: 0.5, MinQuality: 0.5, AllowErrors: true, MatchAny: true},
		},
	}
}

func TestCriteriaValidate(t *testing.T) {
	require.NoError(t, validCriteria().Validate())

	tests := map[string]func(c *EvaluationCriteria){
		"no mandatory":      func(c *EvaluationCriteria) { c.MandatoryCoreFiles = nil },
		"no entry":          func(c *EvaluationCriteria) { c.PrimaryEntryFile = " " },
		"negative size":     func(c *EvaluationCriteria) { c.QualityRules.MinFileSizeBytes = -1 },
		"failure threshold": func(c *EvaluationCriteria) { c.GradeThresholds[1].Grade = GradeFailure },
		"no thresholds":     func(c *EvaluationCriteria) { c.GradeThresholds = nil },
		"ascending":         func(c *EvaluationCriteria) { c.GradeThresholds[0].Grade = GradeInsufficient },
		"lower rung stricter completeness": func(c *EvaluationCriteria) {
			c.GradeThresholds[1].MinCompleteness = 0.95
		},
		"lower rung stricter quality": func(c *EvaluationCriteria) { c.GradeThresholds[1].MinQuality = 0.95 },
		"lower rung forbids errors": func(c *EvaluationCriteria) {
			c.GradeThresholds[0].AllowErrors = true
			c.GradeThresholds[1].AllowErrors = false
		},
		"lower rung needs both": func(c *EvaluationCriteria) {
			c.GradeThresholds[0].MatchAny = true
			c.GradeThresholds[1].MatchAny = false
		},
		"bad format": func(c *EvaluationCriteria) {
			c.QualityRules.StructuredExtensions[".toml"] = "toml"
		},
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			c := validCriteria()
			mutate(c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestExpectedFilesFor(t *testing.T) {
	c := validCriteria()

	assert.Equal(t, []string{"index.html"}, c.ExpectedFilesFor(nil))
	assert.Equal(t, []string{"App.jsx", "index.html", "package.json", "server.js"}, c.ExpectedFilesFor([]string{"node", "react", "unknown"}))
}

func TestThresholdMatches(t *testing.T) {
	both := GradeThreshold{Grade: GradeGood, MinCompleteness: 0.8, MinQuality: 0.7}
	assert.True(t, both.Matches(0.8, 0.7, false))
	assert.False(t, both.Matches(0.8, 0.69, false))
	assert.False(t, both.Matches(1, 1, true))

	either := GradeThreshold{Grade: GradeInsufficient, MinCompleteness: 0.5, MinQuality: 0.4, AllowErrors: true, MatchAny: true}
	assert.True(t, either.Matches(0.5, 0, true))
	assert.True(t, either.Matches(0, 0.4, false))
	assert.False(t, either.Matches(0.49, 0.39, false))
}

func TestFailureRecord(t *testing.T) {
	at := time.Date(2024, 1, 1, 9, 0, 0, 0, time.FixedZone("x", 3600))
	rec := NewFailureRecord("", "/x", "v1", at, errors.New("gone"))

	assert.Equal(t, GradeFailure, rec.Grade)
	assert.Equal(t, DefaultProducerID, rec.ProducerID)
	assert.Equal(t, "gone", rec.Error)
	assert.Equal(t, time.UTC, rec.EvaluatedAt.Location())
	assert.NotNil(t, rec.TechStack)
	assert.NotNil(t, rec.Recommendations)
	assert.NotNil(t, rec.Completeness.MandatoryMissing)
	assert.Zero(t, rec.OverallScore)
}
