package grade

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Inputs locates the three pieces a grading run needs inside one directory.
type Inputs struct {
	// Roster is the path to the score CSV.
	Roster string
	// Rules is the path to the .aup rule file.
	Rules string
	// CodeDir is the directory of per-student submission folders.
	CodeDir string
}

// DiscoverInputs scans dir for a CSV roster, a .aup rule file, and a code
// subdirectory. Each must be present exactly where the course workflow
// drops them; a missing piece is a fatal setup error.
func DiscoverInputs(dir string) (Inputs, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return Inputs{}, fmt.Errorf("read grading directory: %w", err)
	}

	var in Inputs
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		switch {
		case entry.IsDir():
			in.CodeDir = path
		case strings.HasSuffix(entry.Name(), ".csv"):
			in.Roster = path
		case strings.HasSuffix(entry.Name(), ".aup"):
			in.Rules = path
		}
	}

	if in.Roster == "" {
		return Inputs{}, fmt.Errorf("missing csv file in %s", dir)
	}
	if in.Rules == "" {
		return Inputs{}, fmt.Errorf("missing aup file in %s", dir)
	}
	if in.CodeDir == "" {
		return Inputs{}, fmt.Errorf("missing code directory in %s", dir)
	}
	return in, nil
}
