package keylock

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTable_ReleasesEntries(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		keys   int
		perKey int
	}{
		{name: "single_key", keys: 1, perKey: 1},
		{name: "many_distinct_keys", keys: 1000, perKey: 1},
		{name: "contended_keys", keys: 10, perKey: 50},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var table Table
			var wg sync.WaitGroup
			for k := 0; k < tc.keys; k++ {
				for i := 0; i < tc.perKey; i++ {
					wg.Add(1)
					go func(key string) {
						defer wg.Done()
						unlock := table.Lock(key)
						unlock()
					}(fmt.Sprintf("key-%d", k))
				}
			}
			wg.Wait()

			require.Zero(t, table.Len())
		})
	}
}

func TestTable_SerialisesSameKey(t *testing.T) {
	t.Parallel()

	var table Table
	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := table.Lock("item")
			defer unlock()
			counter++
		}()
	}
	wg.Wait()

	require.Equal(t, 200, counter)
	require.Zero(t, table.Len())
}

func TestTable_HeldKeyIsTracked(t *testing.T) {
	t.Parallel()

	var table Table
	unlockA := table.Lock("a")
	unlockB := table.Lock("b")
	require.Equal(t, 2, table.Len())

	unlockA()
	unlockA()
	require.Equal(t, 1, table.Len())

	unlockB()
	require.Zero(t, table.Len())
}

func TestTable_DistinctKeysDoNotBlock(t *testing.T) {
	t.Parallel()

	var table Table
	unlockA := table.Lock("a")
	defer unlockA()

	done := make(chan struct{})
	go func() {
		unlock := table.Lock("b")
		unlock()
		close(done)
	}()
	<-done
}
