package models

import (
	"encoding/json"
	"fmt"
)

// Grade is the ordinal classification of a bundle. Higher values rank better.
type Grade int

const (
	GradeFailure Grade = iota
	GradeInsufficient
	GradeGood
	GradeComplete
)

var gradeNames = map[Grade]string{
	GradeFailure:      "failure",
	GradeInsufficient: "insufficient",
	GradeGood:         "good",
	GradeComplete:     "complete",
}

// AllGrades lists grades from best to worst.
var AllGrades = []Grade{GradeComplete, GradeGood, GradeInsufficient, GradeFailure}

func (g Grade) String() string {
	if name, ok := gradeNames[g]; ok {
		return name
	}
	return fmt.Sprintf("grade(%d)", int(g))
}

// IsSuccess reports whether the grade counts toward a producer's success rate.
func (g Grade) IsSuccess() bool {
	return g == GradeComplete || g == GradeGood
}

// ParseGrade converts a grade name back into its ranked value.
func ParseGrade(name string) (Grade, error) {
	for g, n := range gradeNames {
		if n == name {
			return g, nil
		}
	}
	return GradeFailure, fmt.Errorf("unknown grade %q", name)
}

func (g Grade) MarshalText() ([]byte, error) {
	if _, ok := gradeNames[g]; !ok {
		return nil, fmt.Errorf("unknown grade %d", int(g))
	}
	return []byte(g.String()), nil
}

func (g *Grade) UnmarshalText(data []byte) error {
	parsed, err := ParseGrade(string(data))
	if err != nil {
		return err
	}
	*g = parsed
	return nil
}

// GradeDistribution counts records per grade. It always carries all four keys.
type GradeDistribution map[Grade]int

func NewGradeDistribution() GradeDistribution {
	dist := make(GradeDistribution, len(AllGrades))
	for _, g := range AllGrades {
		dist[g] = 0
	}
	return dist
}

func (d GradeDistribution) MarshalJSON() ([]byte, error) {
	out := make(map[string]int, len(d))
	for g, n := range d {
		out[g.String()] = n
	}
	return json.Marshal(out)
}

func (d *GradeDistribution) UnmarshalJSON(data []byte) error {
	var raw map[string]int
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	dist := NewGradeDistribution()
	for name, n := range raw {
		g, err := ParseGrade(name)
		if err != nil {
			return err
		}
		dist[g] = n
	}
	*d = dist
	return nil
}
