package models

type UploadResponse struct {
	ID         string `json:"id"`
	ProducerID string `json:"producer_id"`
	Location   string `json:"location"`
	FileCount  int    `json:"file_count"`
	TotalBytes int64  `json:"total_bytes"`
}

type EvaluateRequest struct {
	BundleID   string `json:"bundle_id"`
	Location   string `json:"location"`
	ProducerID string `json:"producer_id"`
}

type EvaluateResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type ResultResponse struct {
	ID           string            `json:"id"`
	Status       string            `json:"status"`
	Result       *EvaluationRecord `json:"result,omitempty"`
	ErrorMessage *string           `json:"error_message,omitempty"`
}

type SummaryResponse struct {
	ID      string `json:"id"`
	Summary string `json:"summary"`
}

type SimilarEvaluation struct {
	ID         string  `json:"id"`
	ProducerID string  `json:"producer_id"`
	Grade      string  `json:"grade"`
	Score      float32 `json:"score"`
}

type SimilarResponse struct {
	ID      string              `json:"id"`
	Matches []SimilarEvaluation `json:"matches"`
}
