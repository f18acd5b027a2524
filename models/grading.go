package models

type GradeRequest struct {
	SelectedAnswers map[string]string `json:"selectedAnswers"`
}

type GradingResult struct {
	Total   int    `json:"total"`
	Correct int    `json:"correct"`
	Message string `json:"message"`
}

type CategoryQuiz struct {
	Category  Category   `json:"category"`
	Questions []Question `json:"questions"`
}
