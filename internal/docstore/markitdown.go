// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package docstore

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/pdiddy/research-agent/internal/container"
)

// MarkitdownImage is the container image used for PDF conversion.
const MarkitdownImage = "markitdown:latest"

// MarkitdownConverter converts PDFs by piping them through the markitdown
// container image.
type MarkitdownConverter struct {
	runtime container.Runtime
}

// NewMarkitdownConverter verifies the image exists in rt.
func NewMarkitdownConverter(ctx context.Context, rt container.Runtime) (*MarkitdownConverter, error) {
	if err := rt.ImageExists(ctx, MarkitdownImage); err != nil {
		return nil, fmt.Errorf("markitdown image not available in %s: %w", rt.Name(), err)
	}
	return &MarkitdownConverter{runtime: rt}, nil
}

// Convert returns the markdown text of the PDF at path.
func (m *MarkitdownConverter) Convert(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening PDF %s: %w", path, err)
	}
	defer f.Close()

	var out bytes.Buffer
	if err := m.runtime.Run(ctx, MarkitdownImage, f, &out); err != nil {
		return "", fmt.Errorf("converting %s with markitdown: %w", path, err)
	}
	if out.Len() == 0 {
		return "", fmt.Errorf("markitdown produced empty output for %s", path)
	}
	return out.String(), nil
}
