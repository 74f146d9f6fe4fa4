package dream

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"
)

// DefaultSystemPrompt is the persona used unless a persona file is configured
const DefaultSystemPrompt = `You are a knowledgeable and approachable sleep and dream expert.
Analyze dream descriptions and provide insights, but maintain a tone
that suggests you're offering possibilities rather than definitive answers.
Suggest a few potential reasons for why the dream might have occurred.

The response should read just like another human directly responding naturally.

This is a one-off response and must not prompt the user to continue the conversation.`

var ErrEmptyPersona = errors.New("persona system prompt is empty")

// Persona is the fixed system instruction sent with every request.
// It is built once at startup and never modified.
type Persona struct {
	systemPrompt string
}

// personaFile is the on-disk layout for YAML and TOML persona files
type personaFile struct {
	SystemPrompt string `yaml:"system_prompt" toml:"system_prompt"`
}

// DefaultPersona returns the built-in dream expert persona
func DefaultPersona() Persona {
	return Persona{systemPrompt: DefaultSystemPrompt}
}

// NewPersona creates a persona from a system prompt
func NewPersona(systemPrompt string) (Persona, error) {
	systemPrompt = strings.TrimSpace(systemPrompt)
	if systemPrompt == "" {
		return Persona{}, ErrEmptyPersona
	}
	return Persona{systemPrompt: systemPrompt}, nil
}

// LoadPersona reads a persona from a .yaml, .yml or .toml file
func LoadPersona(path string) (Persona, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Persona{}, fmt.Errorf("failed to read persona file: %w", err)
	}

	var file personaFile
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &file)
	case ".toml":
		err = toml.Unmarshal(data, &file)
	default:
		return Persona{}, fmt.Errorf("unsupported persona file type %q", ext)
	}
	if err != nil {
		return Persona{}, fmt.Errorf("failed to parse persona file %s: %w", path, err)
	}

	return NewPersona(file.SystemPrompt)
}

// SystemPrompt returns the persona text
func (p Persona) SystemPrompt() string {
	if p.systemPrompt == "" {
		return DefaultSystemPrompt
	}
	return p.systemPrompt
}
