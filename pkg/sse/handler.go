package sse

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrStreamingUnsupported is returned when the response writer cannot flush.
var ErrStreamingUnsupported = errors.New("sse: streaming unsupported")

// ErrHubStopped is returned when subscribing to a hub whose Run loop ended.
var ErrHubStopped = errors.New("sse: hub stopped")

// Stream writes messages published on topic to w until the request context
// ends or the hub stops. A comment line is sent on connect and every
// keepAlive interval (disabled when zero) so proxies keep the connection open.
func (h *Hub) Stream(w http.ResponseWriter, r *http.Request, topic string, keepAlive time.Duration) error {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return ErrStreamingUnsupported
	}

	msgCh := make(chan []byte, 16)
	if !h.Subscribe(msgCh, topic) {
		return ErrHubStopped
	}
	defer h.Unsubscribe(msgCh, topic)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	fmt.Fprint(w, ": connected\n\n")
	flusher.Flush()

	var tick <-chan time.Time
	if keepAlive > 0 {
		t := time.NewTicker(keepAlive)
		defer t.Stop()
		tick = t.C
	}

	for {
		select {
		case <-r.Context().Done():
			return nil
		case <-h.done:
			return nil
		case <-tick:
			fmt.Fprint(w, ": ping\n\n")
			flusher.Flush()
		case msg := <-msgCh:
			if _, err := fmt.Fprintf(w, "data: %s\n\n", msg); err != nil {
				return err
			}
			flusher.Flush()
		}
	}
}
