package config

import (
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/cockroachdb/errors"
)

// ErrNoForests is returned when no forest file exists in any data path.
var ErrNoForests = errors.New("no forest files found")

// -----------------------------------------------------------------------------
// Forest File Discovery
// -----------------------------------------------------------------------------

// ForestFile is a discovered forest file.
type ForestFile struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// DiscoverLatestForest searches the data paths for the most recent forest
// file.
func DiscoverLatestForest() (string, error) {
	files, err := ListAvailableForests()
	if err != nil {
		return "", err
	}
	return files[0].Path, nil
}

// ListAvailableForests returns every forest file across the data paths,
// newest first.
func ListAvailableForests() ([]ForestFile, error) {
	return ListForestsIn(GetDataPaths())
}

// ListForestsIn returns every forest file in dirs, newest first. Missing
// directories are skipped.
func ListForestsIn(dirs []string) ([]ForestFile, error) {
	var all []ForestFile
	for _, dir := range dirs {
		files, err := findForestFiles(dir)
		if err != nil {
			// Directory might not exist; continue searching
			continue
		}
		all = append(all, files...)
	}

	if len(all) == 0 {
		return nil, errors.Wrapf(ErrNoForests, "searched %v", dirs)
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].ModTime.After(all[j].ModTime)
	})
	return all, nil
}

// findForestFiles returns all forest files in the given directory.
func findForestFiles(dir string) ([]ForestFile, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, errors.Newf("%s is not a directory", dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []ForestFile
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ForestFileExtension {
			continue
		}

		fileInfo, err := entry.Info()
		if err != nil {
			continue
		}

		files = append(files, ForestFile{
			Path:    filepath.Join(dir, entry.Name()),
			Size:    fileInfo.Size(),
			ModTime: fileInfo.ModTime(),
		})
	}

	return files, nil
}
