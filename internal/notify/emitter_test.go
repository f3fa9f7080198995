package notify

import (
	"bytes"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureSink struct {
	mu     sync.Mutex
	tones  []Tone
	failAt int // 1-based tone index that returns an error, 0 for never
	played chan struct{}
}

func newCaptureSink() *captureSink {
	return &captureSink{played: make(chan struct{}, 8)}
}

func (s *captureSink) Play(tone Tone) error {
	s.mu.Lock()
	s.tones = append(s.tones, tone)
	n := len(s.tones)
	s.mu.Unlock()
	s.played <- struct{}{}
	if s.failAt != 0 && n == s.failAt {
		return errors.New("device busy")
	}
	return nil
}

func (s *captureSink) snapshot() []Tone {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Tone(nil), s.tones...)
}

type captureDesktop struct {
	granted bool
	err     error
	block   chan struct{} // when set, Send waits on it before returning

	mu    sync.Mutex
	sent  int
	title string
	body  string
	done  chan struct{}
}

func newCaptureDesktop(granted bool) *captureDesktop {
	return &captureDesktop{granted: granted, done: make(chan struct{}, 8)}
}

func (d *captureDesktop) Granted() bool { return d.granted }

func (d *captureDesktop) Send(title, body string) error {
	if d.block != nil {
		<-d.block
	}
	d.mu.Lock()
	d.sent++
	d.title = title
	d.body = body
	d.mu.Unlock()
	d.done <- struct{}{}
	return d.err
}

func (d *captureDesktop) sentCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.sent
}

func (d *captureDesktop) waitForSend(t *testing.T) {
	t.Helper()
	select {
	case <-d.done:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for desktop notification")
	}
}

func waitForTones(t *testing.T, sink *captureSink, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-sink.played:
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for tone %d of %d", i+1, n)
		}
	}
}

func TestNotifyBeforePrimeIsSilent(t *testing.T) {
	sink := newCaptureSink()
	e := NewEmitter(sink, nil)
	e.sleep = func(time.Duration) {}

	e.Notify("New order!", "Table 4")

	select {
	case <-sink.played:
		t.Fatal("audio played before the operator unlocked it")
	case <-time.After(50 * time.Millisecond):
	}
	assert.False(t, e.Primed())
}

func TestNotifyAfterPrimePlaysAscendingChime(t *testing.T) {
	sink := newCaptureSink()
	e := NewEmitter(sink, nil)
	e.sleep = func(time.Duration) {}

	e.Prime()
	require.True(t, e.Primed())
	e.Notify("New order!", "Table 4")

	waitForTones(t, sink, 3)
	tones := sink.snapshot()
	require.Len(t, tones, 3)
	assert.Equal(t, []float64{600, 800, 1000}, []float64{tones[0].Frequency, tones[1].Frequency, tones[2].Frequency})
	assert.Equal(t, time.Duration(0), tones[0].Offset)
	assert.Equal(t, 200*time.Millisecond, tones[1].Offset)
	assert.Equal(t, 400*time.Millisecond, tones[2].Offset)
	for _, tone := range tones {
		assert.Equal(t, 250*time.Millisecond, tone.Duration)
	}
}

func TestNotifyStopsChimeOnSinkError(t *testing.T) {
	sink := newCaptureSink()
	sink.failAt = 2
	e := NewEmitter(sink, nil)
	e.sleep = func(time.Duration) {}

	e.Prime()
	e.Notify("New order!", "")

	waitForTones(t, sink, 2)
	select {
	case <-sink.played:
		t.Fatal("playback continued after a sink error")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestDesktopNotificationRespectsGrant(t *testing.T) {
	denied := newCaptureDesktop(false)
	e := NewEmitter(nil, denied)
	e.Notify("New order!", "Table 4")
	select {
	case <-denied.done:
		t.Fatal("notified without a prior grant")
	case <-time.After(50 * time.Millisecond):
	}

	granted := newCaptureDesktop(true)
	e = NewEmitter(nil, granted)
	e.Notify("New order!", "Table 4")
	granted.waitForSend(t)
	granted.mu.Lock()
	defer granted.mu.Unlock()
	assert.Equal(t, 1, granted.sent)
	assert.Equal(t, "New order!", granted.title)
	assert.Equal(t, "Table 4", granted.body)
}

func TestDesktopFailureIsSwallowed(t *testing.T) {
	desktop := newCaptureDesktop(true)
	desktop.err = errors.New("dbus unavailable")
	e := NewEmitter(nil, desktop)

	e.Notify("New order!", "")
	desktop.waitForSend(t)
	assert.Equal(t, 1, desktop.sentCount())
}

func TestSlowDesktopNotifierNeverBlocksCaller(t *testing.T) {
	desktop := newCaptureDesktop(true)
	desktop.block = make(chan struct{})
	e := NewEmitter(nil, desktop)

	returned := make(chan struct{})
	go func() {
		e.Notify("New order!", "Table 4")
		close(returned)
	}()

	select {
	case <-returned:
	case <-time.After(time.Second):
		t.Fatal("Notify blocked on a slow desktop notifier")
	}

	close(desktop.block)
	desktop.waitForSend(t)
	assert.Equal(t, 1, desktop.sentCount())
}

func TestPrimeIsIdempotent(t *testing.T) {
	e := NewEmitter(nil, nil)
	e.Prime()
	e.Prime()
	assert.True(t, e.Primed())
	assert.NotPanics(t, func() { e.Notify("x", "y") }, "nil sink and desktop are skipped")
}

func TestBellSinkWritesBell(t *testing.T) {
	var buf bytes.Buffer
	sink := &BellSink{W: &buf}
	require.NoError(t, sink.Play(Tone{Frequency: 600}))
	require.NoError(t, sink.Play(Tone{Frequency: 800}))
	assert.Equal(t, "\a\a", buf.String())
}
