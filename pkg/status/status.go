// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package status

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// ErrFilesystem marks mkdir, read, write and walk failures
var ErrFilesystem = errors.Base("filesystem error")

// 📊 FileStatus represents what happened to a file
type FileStatus int

const (
	StatusUnknown   FileStatus = iota
	StatusNew                  // File didn't exist in its tree
	StatusModified             // File existed but content differed
	StatusUnchanged            // File existed and content matched
	StatusSkipped              // File was excluded and never written
)

// String returns a string representation of FileStatus
func (s FileStatus) String() string {
	switch s {
	case StatusNew:
		return "new"
	case StatusModified:
		return "modified"
	case StatusUnchanged:
		return "unchanged"
	case StatusSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// 📄 FileInfo contains metadata about a file
type FileInfo struct {
	Path     string     // Path relative to the tree
	Tree     string     // Tree name
	Status   FileStatus // What happened to it
	Size     int64      // Bytes written
	Checksum string     // Content hash
}

// 💾 FileManager handles file system operations below one tree root
type FileManager interface {
	// WriteFile creates missing parent directories and writes content
	WriteFile(ctx context.Context, path string, content []byte) (FileStatus, error)
	// ReadFile reads a file relative to the tree root
	ReadFile(ctx context.Context, path string) ([]byte, error)
	// FileExists reports whether path exists
	FileExists(ctx context.Context, path string) (bool, error)
	// CreateDir creates path and every missing parent
	CreateDir(ctx context.Context, path string) error
	// Walk visits every file below root, subdirectories before files
	Walk(ctx context.Context, root string, visit func(ctx context.Context, path string) error) error
}

// 🔧 Manager implements FileManager for a single directory tree
type Manager struct {
	name    string   // Tree name used for tracking
	baseDir string   // Base directory for all operations
	tracker *Tracker // Optional status tracker
}

var _ FileManager = (*Manager)(nil)

// 🏭 NewManager creates a file manager rooted at baseDir.
// tracker may be nil.
func NewManager(name, baseDir string, tracker *Tracker) *Manager {
	return &Manager{
		name:    name,
		baseDir: filepath.Clean(baseDir),
		tracker: tracker,
	}
}

// Name returns the tree name
func (m *Manager) Name() string {
	return m.name
}

// BaseDir returns the tree root
func (m *Manager) BaseDir() string {
	return m.baseDir
}

// 🔒 getAbsPath returns the on-disk path for a tree-relative path
func (m *Manager) getAbsPath(path string) string {
	return filepath.Join(m.baseDir, filepath.FromSlash(path))
}

// 🔍 calculateChecksum generates a SHA-256 hash of the content
func calculateChecksum(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}

func (m *Manager) WriteFile(ctx context.Context, path string, content []byte) (FileStatus, error) {
	absPath := m.getAbsPath(path)

	if err := os.MkdirAll(filepath.Dir(absPath), 0755); err != nil {
		return StatusUnknown, errors.Errorf("%w: creating parent directories for %s: %w", ErrFilesystem, absPath, err)
	}

	checksum := calculateChecksum(content)
	fileStatus := StatusNew
	existing, err := os.ReadFile(absPath)
	switch {
	case err == nil && calculateChecksum(existing) == checksum:
		fileStatus = StatusUnchanged
	case err == nil:
		fileStatus = StatusModified
	case !os.IsNotExist(err):
		return StatusUnknown, errors.Errorf("%w: reading existing file %s: %w", ErrFilesystem, absPath, err)
	}

	if fileStatus != StatusUnchanged {
		if err := m.writeFileAtomic(absPath, content); err != nil {
			return StatusUnknown, err
		}
	}

	zerolog.Ctx(ctx).Debug().
		Str("tree", m.name).
		Str("path", path).
		Str("status", fileStatus.String()).
		Msg("wrote file")

	m.track(FileInfo{
		Path:     path,
		Tree:     m.name,
		Status:   fileStatus,
		Size:     int64(len(content)),
		Checksum: checksum,
	})

	return fileStatus, nil
}

func (m *Manager) writeFileAtomic(absPath string, content []byte) error {
	tempPath := absPath + ".tmp"

	if err := os.WriteFile(tempPath, content, 0644); err != nil {
		return errors.Errorf("%w: writing temp file %s: %w", ErrFilesystem, tempPath, err)
	}

	if err := os.Rename(tempPath, absPath); err != nil {
		os.Remove(tempPath)
		return errors.Errorf("%w: renaming temp file %s: %w", ErrFilesystem, tempPath, err)
	}

	return nil
}

// Skip records that path was intentionally not written
func (m *Manager) Skip(ctx context.Context, path string) {
	m.track(FileInfo{Path: path, Tree: m.name, Status: StatusSkipped})
}

func (m *Manager) track(info FileInfo) {
	if m.tracker != nil {
		m.tracker.TrackFile(info)
	}
}

func (m *Manager) ReadFile(ctx context.Context, path string) ([]byte, error) {
	content, err := os.ReadFile(m.getAbsPath(path))
	if err != nil {
		return nil, errors.Errorf("%w: reading file %s: %w", ErrFilesystem, m.getAbsPath(path), err)
	}
	return content, nil
}

func (m *Manager) FileExists(ctx context.Context, path string) (bool, error) {
	_, err := os.Stat(m.getAbsPath(path))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, errors.Errorf("%w: checking file existence: %w", ErrFilesystem, err)
}

func (m *Manager) CreateDir(ctx context.Context, path string) error {
	if err := os.MkdirAll(m.getAbsPath(path), 0755); err != nil {
		return errors.Errorf("%w: creating directory %s: %w", ErrFilesystem, m.getAbsPath(path), err)
	}
	return nil
}

// 🚶 Walk visits files below root depth-first. In every directory the
// subdirectories are walked first, then the files, each in name order.
// Paths handed to visit are slash-separated and relative to the tree root.
func (m *Manager) Walk(ctx context.Context, root string, visit func(ctx context.Context, path string) error) error {
	root = filepath.ToSlash(filepath.Clean(root))
	if root == "." || root == "/" {
		root = ""
	}

	entries, err := os.ReadDir(m.getAbsPath(root))
	if err != nil {
		return errors.Errorf("%w: reading directory %s: %w", ErrFilesystem, m.getAbsPath(root), err)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var files []string
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return errors.Errorf("walking %s: %w", root, err)
		}
		rel := joinSlash(root, entry.Name())
		if entry.IsDir() {
			if err := m.Walk(ctx, rel, visit); err != nil {
				return err
			}
			continue
		}
		files = append(files, rel)
	}

	for _, rel := range files {
		if err := visit(ctx, rel); err != nil {
			return err
		}
	}

	return nil
}

func joinSlash(dir, name string) string {
	if dir == "" {
		return name
	}
	return dir + "/" + name
}
