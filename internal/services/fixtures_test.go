package services

import (
	"time"

	"alfredoptarigan/bundle-evaluator/internal/config"
	"alfredoptarigan/bundle-evaluator/internal/models"
)

var fixedTime = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

const (
	readmeText   = "# Weather Dashboard\n\n## Overview\nA small single page app that shows a five day forecast for a chosen city.\n\n## Usage\nOpen index.html in a browser.\n"
	planText     = "1. Sketch the layout\n2. Build the forecast cards\n3. Wire the city search field\n"
	progressText = "Layout finished. Forecast cards finished. City search finished and checked by hand.\n"
	summaryText  = "The dashboard is finished and renders a forecast for any city the user enters.\n"
	sessionText  = `{"session_id": "abc123", "started": "2024-05-01T10:00:00Z", "steps": 3}`
	indexText    = `<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>Weather Dashboard</title></head>
<body>
<main id="app">
<h1>Weather Dashboard</h1>
<p>Search for a city to see its five day forecast.</p>
<form><input name="city" placeholder="City"><button>Search</button></form>
</main>
</body>
</html>
`
)

func testCriteria() *models.EvaluationCriteria {
	return config.DefaultCriteria()
}

func textFile(content string) models.FileRecord {
	return models.NewTextFile(content, fixedTime)
}

// completeBundle has every mandatory file, a valid entry file and no error text.
func completeBundle() *models.ArtifactBundle {
	return &models.ArtifactBundle{
		ProducerID: "worker-1",
		Location:   "/bundles/complete",
		Files: map[string]models.FileRecord{
			"README.md":    textFile(readmeText),
			"PLAN.md":      textFile(planText),
			"PROGRESS.md":  textFile(progressText),
			"SUMMARY.md":   textFile(summaryText),
			"session.json": textFile(sessionText),
			"index.html":   textFile(indexText),
		},
	}
}

func entryOnlyBundle() *models.ArtifactBundle {
	return &models.ArtifactBundle{
		ProducerID: "worker-2",
		Location:   "/bundles/entry-only",
		Files: map[string]models.FileRecord{
			"index.html": textFile(indexText),
		},
	}
}

func recordFor(producer string, grade models.Grade, overall float64, at time.Time) models.EvaluationRecord {
	return models.NewEvaluationRecord(
		producer, "/bundles/"+producer, "test", at, nil,
		models.CompletenessResult{Score: overall},
		models.QualityResult{Score: overall},
		models.Classification{Grade: grade, OverallScore: overall, Confidence: overall},
		nil,
	)
}
