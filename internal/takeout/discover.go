package takeout

import (
	"os"
	"path/filepath"

	"github.com/sells-group/watchstats/internal/model"
)

// Standard locations of the two history files inside an export bundle.
var bundlePaths = map[model.SourceTag]string{
	model.SourceWatchHistory: filepath.Join("YouTube and YouTube Music", "history", "watch-history.json"),
	model.SourceMyActivity:   filepath.Join("My Activity", "YouTube", "MyActivity.json"),
}

// Input is a history file to load.
type Input struct {
	Source model.SourceTag
	Path   string
}

// Discover looks for the history files under root. root may be the directory
// containing "Takeout" or the "Takeout" directory itself. Results follow
// source registration order.
func Discover(root string) []Input {
	var found []Input
	for _, tag := range model.SourceOrder {
		rel := bundlePaths[tag]
		for _, candidate := range []string{
			filepath.Join(root, "Takeout", rel),
			filepath.Join(root, rel),
		} {
			if isFile(candidate) {
				found = append(found, Input{Source: tag, Path: candidate})
				break
			}
		}
	}
	return found
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
