// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package docstore

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRuntime struct {
	images map[string]bool
	output string
	err    error
	input  string
}

func (f *fakeRuntime) Name() string { return "fake" }

func (f *fakeRuntime) ImageExists(_ context.Context, image string) error {
	if f.images[image] {
		return nil
	}
	return errors.New("no such image")
}

func (f *fakeRuntime) Run(_ context.Context, _ string, stdin io.Reader, stdout io.Writer) error {
	data, err := io.ReadAll(stdin)
	if err != nil {
		return err
	}
	f.input = string(data)
	if f.err != nil {
		return f.err
	}
	_, err = io.WriteString(stdout, f.output)
	return err
}

func TestMarkitdownConverter(t *testing.T) {
	ctx := context.Background()
	_, err := NewMarkitdownConverter(ctx, &fakeRuntime{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fake")

	rt := &fakeRuntime{images: map[string]bool{MarkitdownImage: true}, output: "# Converted"}
	conv, err := NewMarkitdownConverter(ctx, rt)
	require.NoError(t, err)

	path := writeDoc(t, t.TempDir(), "doc.pdf", "%PDF-1.7")
	text, err := conv.Convert(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, "# Converted", text)
	assert.Equal(t, "%PDF-1.7", rt.input)

	rt.output = ""
	_, err = conv.Convert(ctx, path)
	assert.ErrorContains(t, err, "empty output")

	rt.err = errors.New("exit 2")
	_, err = conv.Convert(ctx, path)
	assert.ErrorContains(t, err, "exit 2")

	_, err = conv.Convert(ctx, filepath.Join(t.TempDir(), "missing.pdf"))
	assert.ErrorContains(t, err, "opening PDF")
}
