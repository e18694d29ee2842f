package yearctx

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvider_Open(t *testing.T) {
	p := NewProvider(WithStoreClock(fixedClock(aug15)))

	s1 := p.Open("s1")
	assert.Same(t, s1, p.Open("s1"))
	assert.Equal(t, 2025, s1.MustSelectedYear())

	s2 := p.Open("s2")
	assert.NotSame(t, s1, s2)
	assert.Equal(t, 2, p.Len())

	// sessions do not share selections
	require.NoError(t, s1.SetSelectedYear(2020))
	assert.Equal(t, 2025, s2.MustSelectedYear())

	got, err := p.Store("s1")
	require.NoError(t, err)
	assert.Same(t, s1, got)
	assert.Equal(t, 2020, got.MustSelectedYear())
}

func TestProvider_Store_unknownSession(t *testing.T) {
	p := NewProvider()

	s, err := p.Store("nope")
	assert.Nil(t, s)
	assert.Equal(t, ErrOutsideProvider, err)
}

func TestProvider_Close(t *testing.T) {
	p := NewProvider(WithStoreClock(fixedClock(aug15)))

	s := p.Open("s1")
	require.NoError(t, s.SetSelectedYear(2019))
	p.Close("s1")
	p.Close("s1")

	_, err := p.Store("s1")
	assert.Equal(t, ErrOutsideProvider, err)
	assert.Equal(t, 0, s.Subscribers())

	// a fresh session re-derives the default year
	assert.Equal(t, 2025, p.Open("s1").MustSelectedYear())
}

func TestProvider_changeHook(t *testing.T) {
	type event struct {
		session string
		change  Change
	}
	var events []event
	p := NewProvider(
		WithStoreClock(fixedClock(aug15)),
		WithChangeHook(func(id string, c Change) { events = append(events, event{id, c}) }),
		WithChangeHook(nil),
	)

	require.NoError(t, p.Open("a").SetSelectedYear(2024))
	require.NoError(t, p.Open("b").SetSelectedYear(2026))
	require.NoError(t, p.Open("a").SetSelectedYear(2024))

	assert.Equal(t, []event{
		{"a", Change{Previous: 2025, Selected: 2024}},
		{"b", Change{Previous: 2025, Selected: 2026}},
	}, events)
}

func TestProvider_Sweep(t *testing.T) {
	now := aug15
	p := NewProvider(WithStoreClock(func() time.Time { return now }), WithIdleTTL(time.Hour))

	p.Open("idle")
	p.Open("busy")

	now = now.Add(45 * time.Minute)
	_, err := p.Store("busy")
	require.NoError(t, err)

	now = now.Add(30 * time.Minute)
	assert.Equal(t, 1, p.Sweep(now))

	_, err = p.Store("idle")
	assert.Equal(t, ErrOutsideProvider, err)
	_, err = p.Store("busy")
	assert.NoError(t, err)

	assert.Equal(t, 0, NewProvider().Sweep(now.Add(100*time.Hour)))
}

func TestProvider_Run(t *testing.T) {
	p := NewProvider(WithIdleTTL(time.Nanosecond))
	p.Open("s1")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx, time.Millisecond)
		close(done)
	}()

	assert.Eventually(t, func() bool { return p.Len() == 0 }, time.Second, time.Millisecond)
	cancel()
	<-done
}
