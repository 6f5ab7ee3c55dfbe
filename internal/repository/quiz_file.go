package repository

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aliskhannn/wikiquiz-bot/internal/domain/entities"
)

var ErrUnsupportedFormat = errors.New("unsupported quiz file format")

// LoadQuizFile reads a quiz saved in the backend wire shape from a JSON or
// YAML file and validates it. Unknown fields are rejected.
func LoadQuizFile(path string) (*entities.Quiz, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read quiz file: %w", err)
	}

	quiz, err := parseQuiz(data, path)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(quiz.Title) == "" {
		quiz.Title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if err := quiz.Document().Validate(); err != nil {
		return nil, fmt.Errorf("invalid quiz %s: %w", path, err)
	}

	return quiz, nil
}

func parseQuiz(data []byte, path string) (*entities.Quiz, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return parseJSONQuiz(data)
	case ".yaml", ".yml":
		return parseYAMLQuiz(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

func parseJSONQuiz(data []byte) (*entities.Quiz, error) {
	var quiz entities.Quiz
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&quiz); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return nil, fmt.Errorf("parse json: multiple documents are not supported")
		}
		return nil, fmt.Errorf("parse json: %w", err)
	}
	return &quiz, nil
}

func parseYAMLQuiz(data []byte) (*entities.Quiz, error) {
	var quiz entities.Quiz
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&quiz); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return nil, fmt.Errorf("parse yaml: multiple documents are not supported")
		}
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	return &quiz, nil
}
