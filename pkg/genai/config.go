package genai

import "time"

// TextConfig configures the chat-completions client.
type TextConfig struct {
	APIKey  string        `env:"OPENAI_API_KEY,required"`
	BaseURL string        `env:"OPENAI_BASE_URL" envDefault:"https://api.openai.com/v1"` // Any OpenAI-compatible endpoint.
	Model   string        `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	Timeout time.Duration `env:"OPENAI_TIMEOUT" envDefault:"60s"`
}

// ImageConfig configures the image generation client.
type ImageConfig struct {
	BaseURL string        `env:"IMAGE_API_URL" envDefault:"https://image.pollinations.ai"`
	Model   string        `env:"IMAGE_MODEL" envDefault:"flux"`
	Width   int           `env:"IMAGE_WIDTH" envDefault:"1280"` // YouTube thumbnail dimensions, 16:9.
	Height  int           `env:"IMAGE_HEIGHT" envDefault:"720"`
	Timeout time.Duration `env:"IMAGE_TIMEOUT" envDefault:"30s"`
}
