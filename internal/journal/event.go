package journal

import (
	"encoding/json"
	"time"

	ejerrors "github.com/edrh-tools/edjournal/pkg/errors"
)

// Journal event discriminators the reducer understands. Everything else is
// forwarded raw and leaves the derived state untouched.
const (
	EventCommander   = "Commander"
	EventLoadGame    = "LoadGame"
	EventFSDJump     = "FSDJump"
	EventLocation    = "Location"
	EventCarrierJump = "CarrierJump"
)

// Identity is the payload of an identity-establishing event.
type Identity struct {
	Name string
}

// Location is the payload of a location-changing event. Coords is nil when
// the event carried no star position.
type Location struct {
	System string
	Coords *[3]float64
}

// Record is one decoded journal line: the kind discriminator, at most one
// typed payload, and the raw line for subscribers that want the full stream.
type Record struct {
	Event     string
	Timestamp time.Time
	Identity  *Identity
	Location  *Location
	Raw       json.RawMessage
}

// rawEvent mirrors just the fields of the external log format the engine
// cares about. The schema is owned by the game client, not by this engine.
type rawEvent struct {
	Event      string    `json:"event"`
	Timestamp  string    `json:"timestamp"`
	Commander  string    `json:"Commander"`
	Name       string    `json:"Name"`
	StarSystem string    `json:"StarSystem"`
	StarPos    []float64 `json:"StarPos"`
}

// ParseLine decodes one complete journal line into a Record. Blank lines
// yield (nil, nil). Decode failures are reported to the caller for counting
// and never abort the stream.
func ParseLine(line string) (*Record, error) {
	if line == "" {
		return nil, nil
	}

	var ev rawEvent
	if err := json.Unmarshal([]byte(line), &ev); err != nil {
		return nil, ejerrors.ErrMalformedRecord
	}
	if ev.Event == "" {
		return nil, ejerrors.ErrMalformedRecord
	}

	rec := &Record{
		Event: ev.Event,
		Raw:   json.RawMessage(line),
	}
	if ts, err := time.Parse(time.RFC3339, ev.Timestamp); err == nil {
		rec.Timestamp = ts
	}

	switch ev.Event {
	case EventCommander:
		if ev.Name != "" {
			rec.Identity = &Identity{Name: ev.Name}
		}
	case EventLoadGame:
		if ev.Commander != "" {
			rec.Identity = &Identity{Name: ev.Commander}
		}
	case EventFSDJump, EventLocation, EventCarrierJump:
		loc := &Location{System: ev.StarSystem}
		if len(ev.StarPos) == 3 {
			loc.Coords = &[3]float64{ev.StarPos[0], ev.StarPos[1], ev.StarPos[2]}
		}
		if loc.System != "" || loc.Coords != nil {
			rec.Location = loc
		}
	}
	return rec, nil
}
