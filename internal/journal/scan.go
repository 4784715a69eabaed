package journal

import (
	"bufio"
	"os"
	"sort"
	"strings"
)

// DirSummary is a one-shot analysis of a journal directory.
type DirSummary struct {
	Dir          string
	JournalCount int
	Latest       *FileRef
	Commanders   []string
}

var identityMarkers = []string{
	`"event":"Commander"`,
	`"event":"LoadGame"`,
}

// Summarize lists a directory's journals and the distinct commander names
// seen across them, newest file first.
func Summarize(dir string) DirSummary {
	sum := DirSummary{Dir: dir}

	refs := ListJournals(dir)
	sum.JournalCount = len(refs)
	if len(refs) == 0 {
		return sum
	}
	latest := refs[0]
	sum.Latest = &latest

	seen := make(map[string]bool)
	for _, ref := range refs {
		for _, name := range commandersIn(ref.Path) {
			if !seen[name] {
				seen[name] = true
				sum.Commanders = append(sum.Commanders, name)
			}
		}
	}
	sort.Strings(sum.Commanders)
	return sum
}

// ExtractCommander returns the first commander name found in the file, or
// Unresolved when the file carries no identity event.
func ExtractCommander(path string) string {
	names := commandersIn(path)
	if len(names) == 0 {
		return Unresolved
	}
	return names[0]
}

func commandersIn(path string) []string {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	var names []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for scanner.Scan() {
		line := scanner.Text()
		probe := false
		for _, marker := range identityMarkers {
			if strings.Contains(line, marker) {
				probe = true
				break
			}
		}
		if !probe {
			continue
		}
		rec, err := ParseLine(strings.TrimSuffix(line, "\r"))
		if err != nil || rec == nil || rec.Identity == nil {
			continue
		}
		names = append(names, rec.Identity.Name)
	}
	return names
}
