package processor

import (
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/ijuttt/cctview/internal/config"
)

// FileInfo holds file metadata for display.
type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

// HumanSize returns the size in IEC units, e.g. "1.5 MiB".
func (f FileInfo) HumanSize() string {
	return humanize.IBytes(uint64(max(f.Size, 0)))
}

// Age returns the modification time relative to now, e.g. "3 minutes ago".
func (f FileInfo) Age() string {
	return humanize.Time(f.ModTime)
}

func toFileInfo(files []config.ForestFile) []FileInfo {
	out := make([]FileInfo, len(files))
	for i, f := range files {
		out[i] = FileInfo{
			Path:    f.Path,
			Name:    filepath.Base(f.Path),
			Size:    f.Size,
			ModTime: f.ModTime,
		}
	}
	return out
}
