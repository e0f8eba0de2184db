// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package container detects a local container engine (docker or podman) and
// runs one-shot containers that read stdin and write stdout. Document
// ingestion uses it to convert PDFs to text.
package container

import (
	"context"
	"fmt"
	"io"
	"os/exec"
)

// Runtime runs containers through one engine binary.
type Runtime interface {
	// Name returns the engine binary name ("docker" or "podman").
	Name() string

	// ImageExists returns nil when image is present locally.
	ImageExists(ctx context.Context, image string) error

	// Run starts image with stdin attached and copies its stdout to stdout.
	// The container is removed when it exits.
	Run(ctx context.Context, image string, stdin io.Reader, stdout io.Writer) error
}

// commander abstracts process execution so tests can script it.
type commander interface {
	LookPath(file string) (string, error)
	Quiet(ctx context.Context, name string, args ...string) error
	Pipe(ctx context.Context, name string, args []string, stdin io.Reader, stdout io.Writer) error
}

type osCommander struct{}

func (osCommander) LookPath(file string) (string, error) { return exec.LookPath(file) }

func (osCommander) Quiet(ctx context.Context, name string, args ...string) error {
	return exec.CommandContext(ctx, name, args...).Run()
}

func (osCommander) Pipe(ctx context.Context, name string, args []string, stdin io.Reader, stdout io.Writer) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	return cmd.Run()
}

// engine describes how one binary checks for images.
type engine struct {
	bin        string
	imageCheck []string
}

// engines lists supported binaries in preference order.
var engines = []engine{
	{bin: "docker", imageCheck: []string{"image", "inspect"}},
	{bin: "podman", imageCheck: []string{"image", "exists"}},
}

type runtime struct {
	engine
	cmd commander
}

func (r *runtime) Name() string { return r.bin }

func (r *runtime) available(ctx context.Context) bool {
	if _, err := r.cmd.LookPath(r.bin); err != nil {
		return false
	}
	return r.cmd.Quiet(ctx, r.bin, "info") == nil
}

func (r *runtime) ImageExists(ctx context.Context, image string) error {
	args := append(append([]string{}, r.imageCheck...), image)
	if err := r.cmd.Quiet(ctx, r.bin, args...); err != nil {
		return fmt.Errorf("image %s not found in %s: %w", image, r.bin, err)
	}
	return nil
}

func (r *runtime) Run(ctx context.Context, image string, stdin io.Reader, stdout io.Writer) error {
	args := []string{"run", "--rm", "-i", "--network", "none", image}
	if err := r.cmd.Pipe(ctx, r.bin, args, stdin, stdout); err != nil {
		return fmt.Errorf("running %s container %s: %w", r.bin, image, err)
	}
	return nil
}

// Detect returns the first operational engine, preferring docker.
func Detect(ctx context.Context) (Runtime, error) {
	return detect(ctx, osCommander{})
}

func detect(ctx context.Context, cmd commander) (Runtime, error) {
	for _, e := range engines {
		r := &runtime{engine: e, cmd: cmd}
		if r.available(ctx) {
			return r, nil
		}
	}
	return nil, fmt.Errorf("no container runtime available: neither docker nor podman found or operational")
}
