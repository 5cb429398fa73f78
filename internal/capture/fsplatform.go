package capture

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/llamayondu/Non-Invasive-Anemia-Detection/pkg/types"
)

// FSPlatform is a filesystem-backed platform for headless deployments. An
// attached camera utility drops shots into the spool directory; capture picks
// the newest one. There are no OS permission dialogs; access to the spool
// directory stands in for the camera permission.
type FSPlatform struct {
	spoolDir  string
	exportDir string
}

// NewFSPlatform creates a platform over the given spool and export dirs
func NewFSPlatform(spoolDir, exportDir string) *FSPlatform {
	return &FSPlatform{spoolDir: spoolDir, exportDir: exportDir}
}

// RequestPermission reports whether the backing directory is usable
func (p *FSPlatform) RequestPermission(ctx context.Context, source types.CaptureSource) (bool, error) {
	info, err := os.Stat(p.spoolDir)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.IsDir(), nil
}

// LaunchCamera consumes the newest shot from the spool directory. The file
// is removed after a successful read so the next capture gets a fresh one.
// An empty spool counts as the operator backing out.
func (p *FSPlatform) LaunchCamera(ctx context.Context, opts Options) (*ShotResult, error) {
	path, err := p.newestImage()
	if err != nil {
		return nil, err
	}
	if path == "" {
		return &ShotResult{Cancelled: true}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := os.Remove(path); err != nil {
		return nil, err
	}

	return &ShotResult{
		URI:      "file://" + path,
		Data:     data,
		MIMEType: mimeForPath(path),
	}, nil
}

// LaunchPicker reads the newest shot without consuming it, so the same file
// can be picked again.
func (p *FSPlatform) LaunchPicker(ctx context.Context, opts Options) (*ShotResult, error) {
	path, err := p.newestImage()
	if err != nil {
		return nil, err
	}
	if path == "" {
		return &ShotResult{Cancelled: true}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return &ShotResult{
		URI:      "file://" + path,
		Data:     data,
		MIMEType: mimeForPath(path),
	}, nil
}

// SaveToLibrary copies image bytes into the export directory
func (p *FSPlatform) SaveToLibrary(ctx context.Context, img *types.CapturedImage) error {
	if err := os.MkdirAll(p.exportDir, 0o755); err != nil {
		return err
	}

	ext := ".jpg"
	if img.MIMEType == "image/png" {
		ext = ".png"
	}
	name := fmt.Sprintf("screening-%s%s", time.Now().Format("20060102-150405"), ext)
	return os.WriteFile(filepath.Join(p.exportDir, name), img.Data, 0o644)
}

// newestImage returns the most recently modified image file in the spool
// directory, or "" when none is waiting.
func (p *FSPlatform) newestImage() (string, error) {
	entries, err := os.ReadDir(p.spoolDir)
	if err != nil {
		return "", err
	}

	type candidate struct {
		path    string
		modTime time.Time
	}
	var candidates []candidate
	for _, entry := range entries {
		if entry.IsDir() || !isImageName(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		candidates = append(candidates, candidate{
			path:    filepath.Join(p.spoolDir, entry.Name()),
			modTime: info.ModTime(),
		})
	}
	if len(candidates) == 0 {
		return "", nil
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].modTime.After(candidates[j].modTime)
	})
	return candidates[0].path, nil
}

func isImageName(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg", ".png":
		return true
	default:
		return false
	}
}

func mimeForPath(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".png") {
		return "image/png"
	}
	return "image/jpeg"
}
