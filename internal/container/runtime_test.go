// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package container

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedCommander records calls and answers from configured tables.
type scriptedCommander struct {
	onPath map[string]bool
	ok     map[string]bool
	pipe   func(name string, args []string, stdin io.Reader, stdout io.Writer) error
	calls  []string
}

func (s *scriptedCommander) LookPath(file string) (string, error) {
	if s.onPath[file] {
		return "/usr/bin/" + file, nil
	}
	return "", errors.New("not found: " + file)
}

func (s *scriptedCommander) Quiet(_ context.Context, name string, args ...string) error {
	key := strings.Join(append([]string{name}, args...), " ")
	s.calls = append(s.calls, key)
	if s.ok[key] {
		return nil
	}
	return errors.New("failed: " + key)
}

func (s *scriptedCommander) Pipe(_ context.Context, name string, args []string, stdin io.Reader, stdout io.Writer) error {
	s.calls = append(s.calls, strings.Join(append([]string{name}, args...), " "))
	if s.pipe != nil {
		return s.pipe(name, args, stdin, stdout)
	}
	return nil
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name     string
		cmd      *scriptedCommander
		wantName string
		wantErr  bool
	}{
		{
			name:     "docker available",
			cmd:      &scriptedCommander{onPath: map[string]bool{"docker": true}, ok: map[string]bool{"docker info": true}},
			wantName: "docker",
		},
		{
			name:     "podman fallback",
			cmd:      &scriptedCommander{onPath: map[string]bool{"podman": true}, ok: map[string]bool{"podman info": true}},
			wantName: "podman",
		},
		{
			name:     "docker daemon down",
			cmd:      &scriptedCommander{onPath: map[string]bool{"docker": true, "podman": true}, ok: map[string]bool{"podman info": true}},
			wantName: "podman",
		},
		{
			name:    "neither",
			cmd:     &scriptedCommander{},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt, err := detect(context.Background(), tt.cmd)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "no container runtime available")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, rt.Name())
		})
	}
}

func TestImageExists(t *testing.T) {
	cmd := &scriptedCommander{ok: map[string]bool{
		"docker image inspect markitdown:latest": true,
		"podman image exists markitdown:latest":  true,
	}}
	for _, e := range engines {
		r := &runtime{engine: e, cmd: cmd}
		assert.NoError(t, r.ImageExists(context.Background(), "markitdown:latest"), e.bin)
		assert.Error(t, r.ImageExists(context.Background(), "missing:latest"), e.bin)
	}
}

func TestRun(t *testing.T) {
	cmd := &scriptedCommander{pipe: func(_ string, _ []string, stdin io.Reader, stdout io.Writer) error {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return err
		}
		_, err = stdout.Write(bytes.ToUpper(data))
		return err
	}}
	r := &runtime{engine: engines[0], cmd: cmd}

	var out bytes.Buffer
	require.NoError(t, r.Run(context.Background(), "img", strings.NewReader("pdf bytes"), &out))
	assert.Equal(t, "PDF BYTES", out.String())
	assert.Equal(t, []string{"docker run --rm -i --network none img"}, cmd.calls)

	failing := &runtime{engine: engines[1], cmd: &scriptedCommander{pipe: func(string, []string, io.Reader, io.Writer) error {
		return errors.New("exit 1")
	}}}
	err := failing.Run(context.Background(), "img", strings.NewReader(""), &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "podman")
}
