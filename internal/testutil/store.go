package testutil

import (
	"context"
	"os"

	"browsing-agent/internal/application/port/output"
)

var _ output.ArtifactStore = (*FakeArtifactStore)(nil)

type FakeArtifactStore struct {
	ID  string
	Err error

	Paths         []string
	Purposes      []string
	Uploaded      [][]byte
	ExistedOnCall []bool
}

func (s *FakeArtifactStore) Upload(ctx context.Context, path, purpose string) (string, error) {
	s.Paths = append(s.Paths, path)
	s.Purposes = append(s.Purposes, purpose)

	data, err := os.ReadFile(path)
	s.ExistedOnCall = append(s.ExistedOnCall, err == nil)
	if err == nil {
		s.Uploaded = append(s.Uploaded, data)
	}

	if s.Err != nil {
		return "", s.Err
	}
	return s.ID, nil
}
