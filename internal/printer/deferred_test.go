package printer

import (
	"bytes"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/jtl/pkg/tuitest"
)

func TestDeferred_HoldsUntilFlush(t *testing.T) {
	p, d := NewDeferred()
	p.Warnf("config reload failed")

	var out bytes.Buffer
	require.NoError(t, d.Flush(&out))
	assert.Equal(t, "! config reload failed", tuitest.StripANSI(out.String()))

	out.Reset()
	require.NoError(t, d.Flush(&out))
	assert.Empty(t, out.String())
}

func TestDeferred_ConcurrentWrites(t *testing.T) {
	d := &Deferred{}

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = d.Write([]byte("x"))
		}()
	}
	wg.Wait()

	var out bytes.Buffer
	require.NoError(t, d.Flush(&out))
	assert.Len(t, out.String(), 50)
}
