// Package genai wraps the hosted AI services LumiGen generates content with:
// an OpenAI-compatible chat-completions endpoint for text and a
// Pollinations-style URL endpoint for images.
//
// Both clients are thin transport wrappers. Prompt engineering lives with
// the feature modules; model behavior is an external concern and is not
// validated here beyond basic response-shape checks.
//
// Models are asked to reply with bare JSON for structured answers, but in
// practice still wrap it in markdown fences now and then; GenerateJSON
// strips those before decoding.
package genai
