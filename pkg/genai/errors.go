package genai

import "errors"

var (
	ErrEmptyPrompt      = errors.New("genai.errors.empty_prompt")
	ErrRequestFailed    = errors.New("genai.errors.request_failed")
	ErrInvalidResponse  = errors.New("genai.errors.invalid_response")
	ErrImageUnavailable = errors.New("genai.errors.image_unavailable")
)
