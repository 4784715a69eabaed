package journal

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"time"
)

// FileRef identifies one physical journal file. Stamp is the timestamp
// embedded in the filename, not the filesystem mtime; it is what defines
// which file is newest.
type FileRef struct {
	Path  string
	Stamp time.Time
}

// journalNamePattern matches the journal naming convention:
// Journal.2024-01-02T030405.01.log (modern) or Journal.240102030405.01.log
// (legacy). The trailing part counter is optional.
var journalNamePattern = regexp.MustCompile(`^Journal\.(.+)\.log$`)

const (
	stampLayoutModern = "2006-01-02T150405"
	stampLayoutLegacy = "060102150405"
)

// parseStamp extracts the embedded timestamp from the middle section of a
// journal filename. The part counter (".01") after the timestamp is ignored
// for parsing; filename order breaks same-second ties.
func parseStamp(section string) (time.Time, bool) {
	if len(section) >= len(stampLayoutModern) {
		if ts, err := time.Parse(stampLayoutModern, section[:len(stampLayoutModern)]); err == nil {
			return ts, true
		}
	}
	if len(section) >= len(stampLayoutLegacy) {
		if ts, err := time.Parse(stampLayoutLegacy, section[:len(stampLayoutLegacy)]); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// ListJournals returns journal files in dir ordered newest embedded
// timestamp first. A missing or unreadable directory yields an empty list;
// the caller retries on the next tick.
func ListJournals(dir string) []FileRef {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var refs []FileRef
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		m := journalNamePattern.FindStringSubmatch(entry.Name())
		if m == nil {
			continue
		}
		stamp, ok := parseStamp(m[1])
		if !ok {
			continue
		}
		refs = append(refs, FileRef{
			Path:  filepath.Join(dir, entry.Name()),
			Stamp: stamp,
		})
	}

	sort.Slice(refs, func(i, j int) bool {
		if !refs[i].Stamp.Equal(refs[j].Stamp) {
			return refs[i].Stamp.After(refs[j].Stamp)
		}
		return refs[i].Path > refs[j].Path
	})
	return refs
}

// Latest returns the journal file with the greatest embedded timestamp.
func Latest(dir string) (FileRef, bool) {
	refs := ListJournals(dir)
	if len(refs) == 0 {
		return FileRef{}, false
	}
	return refs[0], true
}
