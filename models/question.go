package models

import "encoding/json"

type Question struct {
	ID         int      `json:"id"`
	CategoryID int      `json:"category_id"`
	Question   string   `json:"question"`
	Answers    []Answer `json:"answers,omitempty"`
}

// Answer is one stored option of a question. DisplayIndex is filled when the
// answers of a question are resolved and is never persisted.
type Answer struct {
	ID           int    `json:"id"`
	QuestionID   int    `json:"question_id"`
	Answer       string `json:"answer"`
	IsCorrect    bool   `json:"-"`
	DisplayIndex int    `json:"display_index"`
}

type NewAnswer struct {
	Answer    string `json:"answer"`
	IsCorrect bool   `json:"is_correct"`
}

// NewQuestion is a validated question ready to be written together with its answers.
type NewQuestion struct {
	Question   string      `json:"question"`
	CategoryID int         `json:"category_id"`
	Answers    []NewAnswer `json:"answers"`
}

// CreateQuestionRequest mirrors the question form. Answers keeps blank entries so
// CorrectAnswer can refer to positions in the list exactly as submitted.
type CreateQuestionRequest struct {
	Question      string     `json:"question" form:"question"`
	Category      string     `json:"category" form:"category"`
	Answers       AnswerList `json:"answers" form:"answers"`
	CorrectAnswer string     `json:"correctAnswer" form:"correctAnswer"`
}

type CreateQuestionResponse struct {
	ID int `json:"id"`
}

// AnswerList accepts either a JSON array of strings or a single string, which
// becomes a one-element list.
type AnswerList []string

func (list *AnswerList) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*list = nil
		return nil
	}
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*list = AnswerList{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*list = many
	return nil
}
