// Package openaifiles stores exported artifacts with the OpenAI Files API.
package openaifiles

import (
	"context"
	"fmt"
	"path/filepath"

	"browsing-agent/internal/application/port/output"

	"github.com/sashabaranov/go-openai"
)

var _ output.ArtifactStore = (*Store)(nil)

type Config struct {
	APIKey string
	// BaseURL defaults to the public OpenAI endpoint.
	BaseURL string
	Logger  output.LoggerPort
}

type Store struct {
	client *openai.Client
	logger output.LoggerPort
}

func New(cfg Config) *Store {
	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}
	return &Store{client: openai.NewClientWithConfig(config), logger: cfg.Logger}
}

// Upload sends the file at path and returns the remote file id.
func (s *Store) Upload(ctx context.Context, path, purpose string) (string, error) {
	file, err := s.client.CreateFile(ctx, openai.FileRequest{
		FileName: filepath.Base(path),
		FilePath: path,
		Purpose:  purpose,
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", filepath.Base(path), err)
	}

	if s.logger != nil {
		s.logger.Info("File uploaded", "fileID", file.ID, "bytes", file.Bytes, "purpose", purpose)
	}
	return file.ID, nil
}
