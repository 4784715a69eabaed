package journal

import (
	"bytes"
	"io"
	"os"
	"strings"
	"time"

	ejerrors "github.com/edrh-tools/edjournal/pkg/errors"
)

// Cursor tracks the incremental read position of the active journal file.
// It is owned by a single poll goroutine and is not safe for concurrent use.
type Cursor struct {
	active     FileRef
	hasFile    bool
	offset     int64
	lastSize   int64
	lastMod    time.Time
	statsKnown bool
}

// PollResult describes what one cursor poll observed.
type PollResult struct {
	// Lines holds the complete lines appended since the previous poll, in
	// file order. A trailing line without a terminator is held back.
	Lines []string
	// Rotated reports that the active file changed identity.
	Rotated bool
	// Truncated reports that the active file shrank below the read offset.
	Truncated bool
}

// Active returns the file currently being tailed.
func (c *Cursor) Active() (FileRef, bool) {
	return c.active, c.hasFile
}

// Offset returns the next unread byte position in the active file.
func (c *Cursor) Offset() int64 {
	return c.offset
}

// StartAt pins the cursor to ref with the read position at end-of-file, so
// only future appends are tailed. Used after bootstrap.
func (c *Cursor) StartAt(ref FileRef) error {
	fi, err := os.Stat(ref.Path)
	if err != nil {
		return ejerrors.NewJournalError(ref.Path, err)
	}
	c.active = ref
	c.hasFile = true
	c.offset = fi.Size()
	c.lastSize = fi.Size()
	c.lastMod = fi.ModTime()
	c.statsKnown = true
	return nil
}

// Poll advances the cursor against the current newest journal file and
// returns any newly completed lines. A stat or read failure leaves the
// cursor untouched apart from an already-recorded rotation; the caller
// skips the tick and retries.
func (c *Cursor) Poll(latest FileRef) (PollResult, error) {
	var res PollResult

	if !c.hasFile || latest.Path != c.active.Path {
		res.Rotated = c.hasFile
		c.active = latest
		c.hasFile = true
		c.offset = 0
		c.statsKnown = false
	}

	fi, err := os.Stat(c.active.Path)
	if err != nil {
		return res, ejerrors.NewJournalError(c.active.Path, err)
	}
	size, mod := fi.Size(), fi.ModTime()

	if c.statsKnown && size == c.lastSize && mod.Equal(c.lastMod) {
		return res, nil
	}

	if size < c.offset {
		res.Truncated = true
		c.offset = 0
	}

	lines, consumed, err := c.readLines(size)
	if err != nil {
		return res, err
	}
	c.offset += consumed
	c.lastSize = size
	c.lastMod = mod
	c.statsKnown = true

	res.Lines = lines
	return res, nil
}

// readLines reads the byte range [offset, size) from the active file and
// splits it into complete lines. The returned consumed count stops at the
// last line terminator so a partial tail is re-read next poll.
func (c *Cursor) readLines(size int64) ([]string, int64, error) {
	if size <= c.offset {
		return nil, 0, nil
	}

	f, err := os.Open(c.active.Path)
	if err != nil {
		return nil, 0, ejerrors.NewJournalError(c.active.Path, err)
	}
	defer f.Close()

	if _, err := f.Seek(c.offset, io.SeekStart); err != nil {
		return nil, 0, ejerrors.NewJournalError(c.active.Path, err)
	}

	buf := make([]byte, size-c.offset)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, 0, ejerrors.NewJournalError(c.active.Path, err)
	}
	buf = buf[:n]

	end := bytes.LastIndexByte(buf, '\n')
	if end < 0 {
		// No complete line yet; hold everything back.
		return nil, 0, nil
	}
	complete := string(buf[:end+1])

	var lines []string
	for _, line := range strings.Split(complete, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines, int64(end + 1), nil
}
