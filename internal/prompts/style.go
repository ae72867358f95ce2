package prompts

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Style tunes the generation prompts without a redeploy. Loaded once at
// startup from PROMPT_STYLE_PATH when set; zero fields fall back to the
// defaults below.
type Style struct {
	Language      string `yaml:"language"`
	Tone          string `yaml:"tone"`
	QuestionCount int    `yaml:"question_count"`
	CardCount     int    `yaml:"card_count"`
}

func DefaultStyle() Style {
	return Style{
		Language:      "português brasileiro",
		Tone:          "didático e encorajador",
		QuestionCount: 10,
		CardCount:     12,
	}
}

func LoadStyle(path string) (Style, error) {
	style := DefaultStyle()
	if path == "" {
		return style, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return style, fmt.Errorf("read prompt style: %w", err)
	}
	if err := yaml.Unmarshal(raw, &style); err != nil {
		return style, fmt.Errorf("parse prompt style: %w", err)
	}
	if style.QuestionCount <= 0 {
		style.QuestionCount = DefaultStyle().QuestionCount
	}
	if style.CardCount <= 0 {
		style.CardCount = DefaultStyle().CardCount
	}
	if style.Language == "" {
		style.Language = DefaultStyle().Language
	}
	return style, nil
}
