package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

type yamlScoreFile struct {
	Scores map[string]int `yaml:"scores"`
}

// YAMLScores keeps high scores in a single YAML file.
type YAMLScores struct {
	path string
	mu   sync.Mutex
}

// NewYAMLScores returns a YAML-backed score store at path. The file is
// created on first write.
func NewYAMLScores(path string) *YAMLScores {
	return &YAMLScores{path: path}
}

// Get returns the stored score for key; found is false when absent.
func (y *YAMLScores) Get(_ context.Context, key string) (int, bool, error) {
	y.mu.Lock()
	defer y.mu.Unlock()
	data, err := y.read()
	if err != nil {
		return 0, false, err
	}
	score, ok := data.Scores[key]
	return score, ok, nil
}

// Set stores score under key.
func (y *YAMLScores) Set(_ context.Context, key string, score int) error {
	y.mu.Lock()
	defer y.mu.Unlock()
	data, err := y.read()
	if err != nil {
		return err
	}
	data.Scores[key] = score
	return y.write(data)
}

// ResetScores removes the given keys, or every score when keys is empty.
func (y *YAMLScores) ResetScores(_ context.Context, keys ...string) error {
	y.mu.Lock()
	defer y.mu.Unlock()
	data, err := y.read()
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		data.Scores = map[string]int{}
	}
	for _, key := range keys {
		delete(data.Scores, key)
	}
	return y.write(data)
}

func (y *YAMLScores) read() (yamlScoreFile, error) {
	data := yamlScoreFile{Scores: map[string]int{}}
	raw, err := os.ReadFile(y.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return data, nil
		}
		return data, fmt.Errorf("read scores file: %w", err)
	}
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return data, fmt.Errorf("parse scores yaml: %w", err)
	}
	if data.Scores == nil {
		data.Scores = map[string]int{}
	}
	return data, nil
}

func (y *YAMLScores) write(data yamlScoreFile) error {
	dir := filepath.Dir(y.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create scores directory: %w", err)
	}
	serialized, err := yaml.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal scores yaml: %w", err)
	}
	tmpFile, err := os.CreateTemp(dir, "scores-*.yaml")
	if err != nil {
		return fmt.Errorf("create temp scores file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()
	if _, err := tmpFile.Write(serialized); err != nil {
		return fmt.Errorf("write scores file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close scores file: %w", err)
	}
	if err := os.Rename(tmpPath, y.path); err != nil {
		return fmt.Errorf("replace scores file: %w", err)
	}
	return nil
}
