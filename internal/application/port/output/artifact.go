package output

import "context"

const PurposeAssistants = "assistants"

type ArtifactStore interface {
	Upload(ctx context.Context, path, purpose string) (string, error)
}
