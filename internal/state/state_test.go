package state

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	s := New(42, "")
	snap := s.Snapshot()
	require.Equal(t, int64(42), snap.Channel)
	require.Equal(t, "", snap.Cookie)
	require.Empty(t, snap.Cache)
	require.False(t, snap.LoopRunning)
	require.False(t, snap.QueriedThisWindow)
}

func TestListEqualIsOrderSensitive(t *testing.T) {
	require.True(t, List{"A", "B"}.Equal(List{"A", "B"}))
	require.False(t, List{"A", "B"}.Equal(List{"B", "A"}))
	require.False(t, List{"A"}.Equal(List{"A", "A"}))
	require.True(t, List{}.Equal(nil))
}

func TestReplaceIfChanged(t *testing.T) {
	s := New(1, "")

	require.True(t, s.ReplaceIfChanged(List{"A", "B"}))
	require.False(t, s.ReplaceIfChanged(List{"A", "B"}))
	require.True(t, s.ReplaceIfChanged(List{"B", "A"}))
	require.Equal(t, List{"B", "A"}, s.Cache())
}

func TestCacheIsCopied(t *testing.T) {
	s := New(1, "")
	in := List{"A", "B"}
	s.ReplaceCache(in)
	in[0] = "mutated"
	require.Equal(t, List{"A", "B"}, s.Cache())

	out := s.Cache()
	out[1] = "mutated"
	require.Equal(t, List{"A", "B"}, s.Snapshot().Cache)
}

func TestCookie(t *testing.T) {
	s := New(1, "initial=1")
	require.Equal(t, "initial=1", s.Cookie())
	s.SetCookie("a=b")
	require.Equal(t, "a=b", s.Cookie())
}

func TestTryStartLoopOnce(t *testing.T) {
	s := New(1, "")

	var wg sync.WaitGroup
	var mu sync.Mutex
	started := 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if s.TryStartLoop() {
				mu.Lock()
				started++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	require.Equal(t, 1, started)
	require.True(t, s.LoopRunning())
}

func TestRearmOutsideWindow(t *testing.T) {
	s := New(1, "")

	require.False(t, s.RearmOutsideWindow(false))

	s.SetQueriedThisWindow(true)
	require.False(t, s.RearmOutsideWindow(true))
	require.True(t, s.QueriedThisWindow())

	require.True(t, s.RearmOutsideWindow(false))
	require.False(t, s.QueriedThisWindow())
}

func TestConcurrentAccess(t *testing.T) {
	s := New(1, "")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			s.ReplaceCache(List{fmt.Sprint(i), fmt.Sprint(i)})
			s.SetCookie(fmt.Sprintf("k=%d", i))
		}(i)
		go func() {
			defer wg.Done()
			snap := s.Snapshot()
			if len(snap.Cache) == 2 {
				require.Equal(t, snap.Cache[0], snap.Cache[1])
			}
		}()
	}
	wg.Wait()
}
