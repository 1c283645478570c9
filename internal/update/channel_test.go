package update

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-companion/internal/weather"
)

func pointFor(producer, seq int) weather.LocationPoint {
	return weather.LocationPoint{Latitude: float64(producer), Longitude: float64(seq)}
}

func TestReceivePreservesSendOrder(t *testing.T) {
	tx, rx := New()

	for i := 0; i < 100; i++ {
		require.NoError(t, tx.Send(LocationSearchRequested{Query: string(rune('a' + i%26))}))
	}
	tx.Close()

	var got []string
	for {
		ev, ok := rx.Receive()
		if !ok {
			break
		}
		got = append(got, ev.(LocationSearchRequested).Query)
	}

	require.Len(t, got, 100)
	for i, q := range got {
		require.Equal(t, string(rune('a'+i%26)), q, "event %d out of order", i)
	}
}

func TestConcurrentProducersKeepPerProducerOrder(t *testing.T) {
	tx, rx := New()

	const producers, perProducer = 8, 200
	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		clone, err := tx.Clone()
		require.NoError(t, err)

		wg.Add(1)
		go func(p int, s *Sender) {
			defer wg.Done()
			defer s.Close()
			for i := 0; i < perProducer; i++ {
				_ = s.Send(LocationSelected{Point: pointFor(p, i)})
			}
		}(p, clone)
	}
	tx.Close()

	last := make(map[int]int)
	count := 0
	for {
		ev, ok := rx.Receive()
		if !ok {
			break
		}
		sel := ev.(LocationSelected)
		p, i := int(sel.Point.Latitude), int(sel.Point.Longitude)
		if prev, seen := last[p]; seen {
			require.Equal(t, prev+1, i, "producer %d reordered", p)
		}
		last[p] = i
		count++
	}
	wg.Wait()

	require.Equal(t, producers*perProducer, count)
}

func TestReceiveBlocksUntilSend(t *testing.T) {
	tx, rx := New()
	defer tx.Close()

	got := make(chan Event, 1)
	go func() {
		ev, _ := rx.Receive()
		got <- ev
	}()

	select {
	case <-got:
		t.Fatal("receive returned before anything was sent")
	case <-time.After(20 * time.Millisecond):
	}

	require.NoError(t, tx.Send(RefreshRequested{}))
	select {
	case ev := <-got:
		require.Equal(t, "RefreshRequested", ev.Kind())
	case <-time.After(time.Second):
		t.Fatal("receive did not wake up")
	}
}

func TestChannelClosesWhenLastSenderCloses(t *testing.T) {
	tx, rx := New()
	clone, err := tx.Clone()
	require.NoError(t, err)

	tx.Close()
	tx.Close()
	require.ErrorIs(t, tx.Send(RefreshRequested{}), ErrClosed)

	_, err = tx.Clone()
	require.True(t, errors.Is(err, ErrClosed))

	require.NoError(t, clone.Send(RefreshRequested{}))
	clone.Close()

	ev, ok := rx.Receive()
	require.True(t, ok, "queued events are drained after closure")
	require.Equal(t, "RefreshRequested", ev.Kind())

	_, ok = rx.Receive()
	require.False(t, ok)
}

func TestWeakSenderDoesNotKeepChannelOpen(t *testing.T) {
	tx, rx := New()
	weak := tx.Downgrade()

	upgraded, ok := weak.Upgrade()
	require.True(t, ok)
	require.NoError(t, upgraded.Send(RefreshRequested{}))
	upgraded.Close()

	tx.Close()

	_, ok = weak.Upgrade()
	require.False(t, ok, "upgrade must fail once all producers are gone")

	_, ok = rx.Receive()
	require.True(t, ok)
	_, ok = rx.Receive()
	require.False(t, ok)

	var zero WeakSender
	_, ok = zero.Upgrade()
	require.False(t, ok)
}

func TestSendAfterReceiverClosed(t *testing.T) {
	tx, rx := New()
	require.NoError(t, tx.Send(RefreshRequested{}))

	rx.Close()
	require.Zero(t, rx.Len())
	require.ErrorIs(t, tx.Send(RefreshRequested{}), ErrClosed)
}

func TestReceiverCloseWakesBlockedReceive(t *testing.T) {
	tx, rx := New()
	defer tx.Close()

	done := make(chan bool)
	go func() {
		_, ok := rx.Receive()
		done <- ok
	}()

	time.Sleep(20 * time.Millisecond)
	rx.Close()

	select {
	case ok := <-done:
		require.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("Receive still blocked after the receiver was closed")
	}
	require.False(t, tx.Closed())
}

type recordingHandler struct {
	kinds []string
}

func (r *recordingHandler) WeatherReceived(WeatherReceived) { r.kinds = append(r.kinds, "weather") }
func (r *recordingHandler) LocationConfirmed(LocationConfirmed) {
	r.kinds = append(r.kinds, "confirmed")
}
func (r *recordingHandler) LocationSearchRequested(LocationSearchRequested) {
	r.kinds = append(r.kinds, "search")
}
func (r *recordingHandler) LocationResultsReceived(LocationResultsReceived) {
	r.kinds = append(r.kinds, "results")
}
func (r *recordingHandler) PreferencesShouldPersist(PreferencesShouldPersist) {
	r.kinds = append(r.kinds, "persist")
}
func (r *recordingHandler) LocationSelected(LocationSelected) { r.kinds = append(r.kinds, "selected") }
func (r *recordingHandler) RefreshRequested(RefreshRequested) { r.kinds = append(r.kinds, "refresh") }
func (r *recordingHandler) UnitsChangeRequested(UnitsChangeRequested) {
	r.kinds = append(r.kinds, "units")
}

func TestDispatchReachesMatchingHandler(t *testing.T) {
	events := []Event{
		WeatherReceived{}, LocationConfirmed{}, LocationSearchRequested{}, LocationResultsReceived{},
		PreferencesShouldPersist{}, LocationSelected{}, RefreshRequested{}, UnitsChangeRequested{},
	}

	h := &recordingHandler{}
	for _, ev := range events {
		ev.Dispatch(h)
	}

	require.Equal(t, []string{"weather", "confirmed", "search", "results", "persist", "selected", "refresh", "units"}, h.kinds)
}
