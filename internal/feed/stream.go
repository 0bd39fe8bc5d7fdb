package feed

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/rs/zerolog"
)

// DefaultRetryDelay is the fixed pause before reconnecting a dropped stream.
const DefaultRetryDelay = 5 * time.Second

// Opener opens an event stream by path.
type Opener interface {
	OpenStream(ctx context.Context, path string) (io.ReadCloser, error)
}

// Stream keeps one event stream connected and hands each event to Apply.
type Stream struct {
	Name       string
	Path       string
	Source     Opener
	Apply      func(ctx context.Context, ev Event) error
	RetryDelay time.Duration
	Logger     zerolog.Logger

	// OnState, when set, is told whether the stream is connected.
	OnState func(connected bool)
}

// Run connects, consumes and reconnects after RetryDelay until ctx ends.
// Events that fail to apply are logged and skipped.
func (s *Stream) Run(ctx context.Context) {
	delay := s.RetryDelay
	if delay <= 0 {
		delay = DefaultRetryDelay
	}
	log := s.Logger.With().Str("stream", s.Name).Logger()
	for {
		err := s.once(ctx, log)
		s.setState(false)
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			log.Warn().Err(err).Dur("retry_in", delay).Msg("stream disconnected")
		} else {
			log.Info().Dur("retry_in", delay).Msg("stream closed by server")
		}
		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return
		case <-t.C:
		}
	}
}

func (s *Stream) once(ctx context.Context, log zerolog.Logger) error {
	body, err := s.Source.OpenStream(ctx, s.Path)
	if err != nil {
		return err
	}
	defer body.Close()

	// Closing the body unblocks the reader when ctx ends mid-read.
	stop := context.AfterFunc(ctx, func() { _ = body.Close() })
	defer stop()

	s.setState(true)
	log.Info().Str("path", s.Path).Msg("stream connected")
	err = ReadEvents(body, func(ev Event) error {
		if err := s.Apply(ctx, ev); err != nil {
			log.Error().Err(err).Str("event_id", ev.ID).Msg("apply event")
		}
		return nil
	})
	if ctx.Err() != nil {
		return nil
	}
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (s *Stream) setState(connected bool) {
	if s.OnState != nil {
		s.OnState(connected)
	}
}
