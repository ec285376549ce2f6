package proc

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"ukern/defs"
)

func TestReapReturnsStatus(t *testing.T) {
	var w Wait_t
	w.Wait_init()

	w.Start(3)
	w.Put(3, 7)
	st, err := w.Reap(3)
	require.Equal(t, defs.Err_t(0), err)
	require.Equal(t, 7, st)
}

func TestReapNonChildFails(t *testing.T) {
	var w Wait_t
	w.Wait_init()

	_, err := w.Reap(42)
	require.Equal(t, -defs.ECHILD, err)
}

func TestReapOnlyOnce(t *testing.T) {
	var w Wait_t
	w.Wait_init()

	w.Start(5)
	w.Put(5, 0)
	_, err := w.Reap(5)
	require.Equal(t, defs.Err_t(0), err)
	_, err = w.Reap(5)
	require.Equal(t, -defs.ECHILD, err)
}

func TestFirstStatusWins(t *testing.T) {
	var w Wait_t
	w.Wait_init()

	w.Start(9)
	w.Put(9, -1)
	w.Put(9, 0)
	st, err := w.Reap(9)
	require.Equal(t, defs.Err_t(0), err)
	require.Equal(t, -1, st)
}

func TestReapBlocksUntilPut(t *testing.T) {
	var w Wait_t
	w.Wait_init()
	w.Start(11)

	got := make(chan int)
	go func() {
		st, err := w.Reap(11)
		if err != 0 {
			t.Error("reap failed")
		}
		got <- st
	}()

	select {
	case <-got:
		t.Fatalf("reap returned before status was put")
	case <-time.After(10 * time.Millisecond):
	}

	w.Put(11, 13)
	require.Equal(t, 13, <-got)
}

func TestConcurrentReapsOneWinner(t *testing.T) {
	var w Wait_t
	w.Wait_init()
	w.Start(2)

	const racers = 8
	var wins, fails int
	var mu sync.Mutex
	var wg sync.WaitGroup
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			st, err := w.Reap(2)
			mu.Lock()
			defer mu.Unlock()
			if err == 0 {
				require.Equal(t, 4, st)
				wins++
			} else {
				fails++
			}
		}()
	}
	w.Put(2, 4)
	wg.Wait()
	require.Equal(t, 1, wins)
	require.Equal(t, racers-1, fails)
}
