package journal

import (
	"bufio"
	"os"
	"strings"
)

// locationMarkers are cheap substring probes for location-establishing
// events, used to pick a bootstrap file without decoding every line.
var locationMarkers = []string{
	`"event":"FSDJump"`,
	`"event":"Location"`,
	`"event":"CarrierJump"`,
}

// Bootstrap picks the startup journal and seeds the state from it: the
// newest file that contains a location-establishing event, else the newest
// file, else nothing. History is folded into the state only, never replayed
// to subscribers, so the caller pins the cursor to end-of-file.
func Bootstrap(dir string, st *State) (FileRef, bool) {
	refs := ListJournals(dir)
	if len(refs) == 0 {
		return FileRef{}, false
	}

	chosen := refs[0]
	for _, ref := range refs {
		if hasLocationEvent(ref.Path) {
			chosen = ref
			break
		}
	}

	seedState(chosen.Path, st)
	return chosen, true
}

// hasLocationEvent reports whether the file contains at least one
// location-establishing event. Read-only, bounded by file size.
func hasLocationEvent(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for scanner.Scan() {
		line := scanner.Text()
		for _, marker := range locationMarkers {
			if strings.Contains(line, marker) {
				return true
			}
		}
	}
	return false
}

// maxLineBytes bounds a single journal line; the format stays well under
// this in practice.
const maxLineBytes = 1024 * 1024

// seedState folds every identity and location record of the file into the
// state, newest record winning per field.
func seedState(path string, st *State) {
	f, err := os.Open(path)
	if err != nil {
		return
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for scanner.Scan() {
		rec, err := ParseLine(strings.TrimSuffix(scanner.Text(), "\r"))
		if err != nil || rec == nil {
			continue
		}
		if rec.Identity != nil || rec.Location != nil {
			st.Apply(rec)
		}
	}
}
