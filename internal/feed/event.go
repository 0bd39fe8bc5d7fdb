package feed

import (
	"errors"
	"io"

	"github.com/tmaxmax/go-sse"
)

// Event is one dispatched Server-Sent Event.
type Event struct {
	ID   string
	Type string
	Data []byte
}

const maxEventSize = 1 << 20

// ReadEvents parses an event stream from r and calls fn for every event that
// carries data. It returns fn's first error, the read error, or nil at EOF.
func ReadEvents(r io.Reader, fn func(Event) error) error {
	for ev, err := range sse.Read(r, &sse.ReadConfig{MaxEventSize: maxEventSize}) {
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if ev.Data == "" {
			continue
		}
		if err := fn(Event{ID: ev.LastEventID, Type: ev.Type, Data: []byte(ev.Data)}); err != nil {
			return err
		}
	}
	return nil
}
