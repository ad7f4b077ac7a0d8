package models

import (
	"fmt"
	"sort"
	"strings"
)

// GradeThreshold is one rung of the grade ladder. When MatchAny is set either
// dimension alone qualifies; otherwise both minimums must hold.
type GradeThreshold struct {
	Grade           Grade   `yaml:"grade" json:"grade"`
	MinCompleteness float64 `yaml:"min_completeness" json:"min_completeness"`
	MinQuality      float64 `yaml:"min_quality" json:"min_quality"`
	AllowErrors     bool    `yaml:"allow_errors" json:"allow_errors"`
	MatchAny        bool    `yaml:"match_any" json:"match_any"`
}

// QualityRules configures the QualityEvaluator.
type QualityRules struct {
	MinFileSizeBytes       int64               `yaml:"min_file_size_bytes" json:"min_file_size_bytes"`
	MinContentLengthByFile map[string]int      `yaml:"min_content_length_by_file" json:"min_content_length_by_file"`
	ErrorSignatures        []string            `yaml:"error_signatures" json:"error_signatures"`
	RequiredElementsByFile map[string][]string `yaml:"required_elements_by_file" json:"required_elements_by_file"`
	// StructuredExtensions maps a lower-case extension to its format ("json" or "yaml").
	StructuredExtensions map[string]string `yaml:"structured_extensions" json:"structured_extensions"`
}

// EvaluationCriteria is the versioned, deployment-time rule set.
type EvaluationCriteria struct {
	Version                string              `yaml:"version" json:"version"`
	MandatoryCoreFiles     []string            `yaml:"mandatory_core_files" json:"mandatory_core_files"`
	PrimaryEntryFile       string              `yaml:"primary_entry_file" json:"primary_entry_file"`
	TechStackExpectedFiles map[string][]string `yaml:"tech_stack_expected_files" json:"tech_stack_expected_files"`
	QualityRules           QualityRules        `yaml:"quality_rules" json:"quality_rules"`
	GradeThresholds        []GradeThreshold    `yaml:"grade_thresholds" json:"grade_thresholds"`
}

// Validate checks the criteria are usable by the engine.
func (c *EvaluationCriteria) Validate() error {
	if c == nil {
		return fmt.Errorf("criteria: nil")
	}
	if strings.TrimSpace(c.Version) == "" {
		return fmt.Errorf("criteria: version is required")
	}
	if len(c.MandatoryCoreFiles) == 0 {
		return fmt.Errorf("criteria: at least one mandatory core file is required")
	}
	if strings.TrimSpace(c.PrimaryEntryFile) == "" {
		return fmt.Errorf("criteria: primary entry file is required")
	}
	if c.QualityRules.MinFileSizeBytes < 0 {
		return fmt.Errorf("criteria: min file size must not be negative")
	}
	for name, n := range c.QualityRules.MinContentLengthByFile {
		if n < 0 {
			return fmt.Errorf("criteria: min content length for %s must not be negative", name)
		}
	}
	for ext, format := range c.QualityRules.StructuredExtensions {
		if format != "json" && format != "yaml" {
			return fmt.Errorf("criteria: unsupported structured format %q for %s", format, ext)
		}
	}
	if len(c.GradeThresholds) == 0 {
		return fmt.Errorf("criteria: grade thresholds are required")
	}
	for i, t := range c.GradeThresholds {
		if t.Grade == GradeFailure {
			return fmt.Errorf("criteria: threshold %d: failure is the fallback grade and takes no threshold", i)
		}
		if t.MinCompleteness < 0 || t.MinCompleteness > 1 || t.MinQuality < 0 || t.MinQuality > 1 {
			return fmt.Errorf("criteria: threshold %s: minimums must be within [0,1]", t.Grade)
		}
		if i == 0 {
			continue
		}
		prev := c.GradeThresholds[i-1]
		if prev.Grade <= t.Grade {
			return fmt.Errorf("criteria: thresholds must be ordered from best to worst grade")
		}
		if err := checkLooser(prev, t); err != nil {
			return err
		}
	}
	return nil
}

// checkLooser requires a lower rung to accept everything the rung above it
// accepts, so better scores never land on a worse grade.
func checkLooser(upper, lower GradeThreshold) error {
	if lower.MinCompleteness > upper.MinCompleteness || lower.MinQuality > upper.MinQuality {
		return fmt.Errorf("criteria: threshold %s: minimums must not exceed those of %s", lower.Grade, upper.Grade)
	}
	if upper.AllowErrors && !lower.AllowErrors {
		return fmt.Errorf("criteria: threshold %s: must allow errors because %s does", lower.Grade, upper.Grade)
	}
	if upper.MatchAny && !lower.MatchAny {
		return fmt.Errorf("criteria: threshold %s: must match either dimension because %s does", lower.Grade, upper.Grade)
	}
	return nil
}

// ExpectedFilesFor returns the sorted union of expected files for the tags.
// Unknown tags contribute nothing.
func (c *EvaluationCriteria) ExpectedFilesFor(tags []string) []string {
	seen := map[string]struct{}{}
	if c.PrimaryEntryFile != "" {
		seen[c.PrimaryEntryFile] = struct{}{}
	}
	for _, tag := range tags {
		for _, name := range c.TechStackExpectedFiles[tag] {
			seen[name] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Matches reports whether the scores satisfy this rung.
func (t GradeThreshold) Matches(completeness, quality float64, errorsFound bool) bool {
	if errorsFound && !t.AllowErrors {
		return false
	}
	if t.MatchAny {
		return completeness >= t.MinCompleteness || quality >= t.MinQuality
	}
	return completeness >= t.MinCompleteness && quality >= t.MinQuality
}
