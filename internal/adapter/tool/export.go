package tool

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"browsing-agent/internal/application/port/output"
	"browsing-agent/internal/domain/entity"

	"github.com/google/uuid"
)

var _ output.ToolPort = (*ExportPageTool)(nil)

// ExportPageTool prints the current page to PDF and hands it to the artifact
// store. The local file never outlives the call.
type ExportPageTool struct {
	base
	store output.ArtifactStore
	dir   string
}

// NewExportPageTool writes temporary files under dir, or os.TempDir when dir
// is empty.
func NewExportPageTool(d Deps, store output.ArtifactStore, dir string) *ExportPageTool {
	if dir == "" {
		dir = os.TempDir()
	}
	return &ExportPageTool{
		base:  newBase(d, entity.ToolExportPage.String()),
		store: store,
		dir:   dir,
	}
}

func (t *ExportPageTool) Name() entity.ToolName { return entity.ToolExportPage }
func (t *ExportPageTool) Description() string {
	return "Exports the current web page as a PDF file and returns the id of the uploaded file."
}
func (t *ExportPageTool) Parameters() map[string]interface{} { return emptySchema() }

func (t *ExportPageTool) Execute(ctx context.Context, _ string) (string, error) {
	s, err := t.sessions.Acquire(ctx)
	if err != nil {
		return "", err
	}

	pdf, err := s.Browser().PrintToPDF(ctx)
	if err != nil {
		return fmt.Sprintf("Could not export page: %v", err), nil
	}

	path := filepath.Join(t.dir, fmt.Sprintf("exported_file_%s.pdf", uuid.NewString()))
	defer func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			t.logger.Warn("Remove exported file failed", "path", path, "error", err)
		}
	}()

	if err := os.WriteFile(path, pdf, 0o600); err != nil {
		return "", fmt.Errorf("write exported file: %w", err)
	}

	id, err := t.store.Upload(ctx, path, output.PurposeAssistants)
	if err != nil {
		return "", fmt.Errorf("upload exported file: %w", err)
	}

	t.logger.Info("Page exported", "fileID", id, "bytes", len(pdf))
	return fmt.Sprintf("Success. File exported with id: `%s`. You can now send this file id back to the user.", id), nil
}
