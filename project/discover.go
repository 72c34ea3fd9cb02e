// Package project locates per-project transcript files and reports their
// state. Each configured project owns one folder of newline-delimited
// transcript files; the live transcript is the most recently modified one
// that is not an agent sidechain file.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rollctx/rollctx/config"
)

// Sentinel errors for project discovery.
var (
	// ErrUnknownProject indicates a project name absent from the
	// configuration.
	ErrUnknownProject = errors.New("unknown project")

	// ErrNoTranscript indicates the project folder holds no transcript.
	ErrNoTranscript = errors.New("no transcript found")
)

// agentPrefix marks sidechain transcripts that are never trimmed.
const agentPrefix = "agent-"

// Dir resolves a configured project name to its transcript folder.
func Dir(cfg *config.Config, name string) (string, error) {
	folder, ok := cfg.Projects[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownProject, name)
	}
	return filepath.Join(cfg.ProjectsDir, folder), nil
}

// FindTranscript returns the live transcript in dir: the most recently
// modified .jsonl file that is not agent-prefixed.
func FindTranscript(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrNoTranscript, dir)
		}
		return "", fmt.Errorf("read project dir: %w", err)
	}

	var newest string
	var newestMod int64
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || filepath.Ext(name) != ".jsonl" || strings.HasPrefix(name, agentPrefix) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if mod := info.ModTime().UnixNano(); newest == "" || mod > newestMod {
			newest = name
			newestMod = mod
		}
	}
	if newest == "" {
		return "", fmt.Errorf("%w: %s", ErrNoTranscript, dir)
	}
	return filepath.Join(dir, newest), nil
}
