package models

import (
	"time"

	"github.com/google/uuid"
)

// OutputType is the user-selected transformation category that parametrizes
// the generation prompt.
type OutputType string

const (
	OutputSummary     OutputType = "Summary"
	OutputQuiz        OutputType = "Quiz"
	OutputTest        OutputType = "Test"
	OutputVideo       OutputType = "Video"
	OutputAudio       OutputType = "Audio"
	OutputAnimation   OutputType = "Animation"
	OutputTranslation OutputType = "Translation"
)

// OutputTypes lists every selectable output type, in menu order.
var OutputTypes = []OutputType{
	OutputSummary,
	OutputQuiz,
	OutputTest,
	OutputVideo,
	OutputAudio,
	OutputAnimation,
	OutputTranslation,
}

// Valid reports whether t is one of the closed set of output types.
func (t OutputType) Valid() bool {
	for _, known := range OutputTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Session is the per-user-interaction state store. Actions take a Session
// value and return the updated value; the store never hands out aliases.
//
// Invariants:
//   - LastResult is non-empty only after a successful generation.
//   - SpeechRequested can be true only while LastResult is non-empty.
//   - A failed action leaves the previously stored Session untouched.
type Session struct {
	ID                uuid.UUID  `json:"id"`
	InputText         string     `json:"input_text"`
	ExtraInstructions string     `json:"extra_instructions,omitempty"`
	SelectedLanguage  string     `json:"selected_language"` // ISO code from the fixed table
	OutputType        OutputType `json:"output_type"`
	LastResult        string     `json:"last_result,omitempty"`
	SpeechRequested   bool       `json:"speech_requested"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// NewSession returns a session with empty defaults. English and Summary
// mirror the first entries of the language and output-type selectors.
func NewSession() Session {
	now := time.Now().UTC()
	return Session{
		ID:               uuid.New(),
		SelectedLanguage: "en",
		OutputType:       OutputSummary,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// DTOs for API requests and responses.

type PasteInputRequest struct {
	Text              string `json:"text"`
	ExtraInstructions string `json:"extra_instructions,omitempty"`
}

type GenerateRequest struct {
	OutputType        OutputType `json:"output_type"`
	Language          string     `json:"language"` // ISO code
	ExtraInstructions *string    `json:"extra_instructions,omitempty"`
}

type GenerateResponse struct {
	SessionID uuid.UUID `json:"session_id"`
	Result    string    `json:"result"`
}

type SpeechRequest struct {
	Language string `json:"language"` // ISO code, independent of the generation language
}

type VideoRequest struct {
	Language string `json:"language"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"` // "validation", "configuration", "service"
}
