// Package notify produces the operator-facing alert for incoming order
// events: a short three-tone ascending chime plus an optional desktop
// notification. Alerting is fire-and-forget; no failure here may reach the
// caller.
package notify

import (
	"fmt"
	"io"
	"log"
	"sync"
	"time"
)

// Tone is one note of the chime.
type Tone struct {
	Frequency float64
	Offset    time.Duration
	Duration  time.Duration
}

// chime is the fixed alert sequence: three ascending tones 200ms apart.
var chime = []Tone{
	{Frequency: 600, Offset: 0, Duration: 250 * time.Millisecond},
	{Frequency: 800, Offset: 200 * time.Millisecond, Duration: 250 * time.Millisecond},
	{Frequency: 1000, Offset: 400 * time.Millisecond, Duration: 250 * time.Millisecond},
}

// AudioSink plays a single tone.
type AudioSink interface {
	Play(tone Tone) error
}

// DesktopNotifier raises an OS-level notification. Granted reports whether
// the operator has previously allowed notifications; the emitter never asks
// for permission itself.
type DesktopNotifier interface {
	Granted() bool
	Send(title, body string) error
}

// Emitter is the notification emitter. The audio path starts locked, the
// platform-policy analog of an unactivated browser tab: Notify degrades
// silently until Prime is called from an explicit operator action.
type Emitter struct {
	mu      sync.Mutex
	sink    AudioSink
	desktop DesktopNotifier
	primed  bool
	sleep   func(time.Duration)
}

// NewEmitter creates an emitter over the given sink and desktop notifier.
// Either may be nil, in which case that path is skipped.
func NewEmitter(sink AudioSink, desktop DesktopNotifier) *Emitter {
	return &Emitter{sink: sink, desktop: desktop, sleep: time.Sleep}
}

// Prime unlocks audio playback. Safe to call repeatedly.
func (e *Emitter) Prime() {
	e.mu.Lock()
	e.primed = true
	e.mu.Unlock()
}

// Primed reports whether audio has been unlocked.
func (e *Emitter) Primed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.primed
}

// Notify plays the chime and raises a desktop notification. It returns
// immediately; both paths run in the background so a slow notifier never
// blocks the caller (the hub reader goroutine ends up here), and every
// failure is logged and swallowed.
func (e *Emitter) Notify(title, body string) {
	e.mu.Lock()
	sink := e.sink
	desktop := e.desktop
	primed := e.primed
	sleep := e.sleep
	e.mu.Unlock()

	if sink != nil && primed {
		go func() {
			start := time.Now()
			for _, tone := range chime {
				if wait := tone.Offset - time.Since(start); wait > 0 {
					sleep(wait)
				}
				if err := sink.Play(tone); err != nil {
					log.Printf("notify: audio: %v", err)
					return
				}
			}
		}()
	}

	if desktop != nil && desktop.Granted() {
		go func() {
			if err := desktop.Send(title, body); err != nil {
				log.Printf("notify: desktop: %v", err)
			}
		}()
	}
}

// BellSink is the fallback audio sink: it writes the terminal bell for every
// tone. Frequency is ignored; the terminal decides the sound.
type BellSink struct {
	W io.Writer
}

// Play writes one bell character.
func (s *BellSink) Play(Tone) error {
	_, err := fmt.Fprint(s.W, "\a")
	return err
}
