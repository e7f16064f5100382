package journal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nazeru/carrier-marketplace-go/pkg/contracts"
)

func event(typ string) contracts.Event {
	return contracts.Event{EventID: typ + "-id", Type: typ, CreatedAt: time.Now().UTC()}
}

func TestAppendAssignsSequentialIDs(t *testing.T) {
	j := New()
	assert.Equal(t, int64(1), j.Append(event("a")))
	assert.Equal(t, int64(2), j.Append(event("b")))
	assert.Equal(t, int64(3), j.Append(event("c")))
}

func TestFetchPendingSkipsConsumed(t *testing.T) {
	j := New()
	j.Append(event("a"))
	second := j.Append(event("b"))
	j.Append(event("c"))

	j.MarkConsumed(second)

	pending := j.FetchPending(0)
	require.Len(t, pending, 2)
	assert.Equal(t, "a", pending[0].Event.Type)
	assert.Equal(t, "c", pending[1].Event.Type)
}

func TestFetchPendingHonorsLimit(t *testing.T) {
	j := New()
	for i := 0; i < 5; i++ {
		j.Append(event("e"))
	}
	assert.Len(t, j.FetchPending(2), 2)
	assert.Len(t, j.FetchPending(0), 5)
}

func TestAllIncludesConsumed(t *testing.T) {
	j := New()
	id := j.Append(event("a"))
	j.MarkConsumed(id)
	all := j.All()
	require.Len(t, all, 1)
	assert.NotNil(t, all[0].ConsumedAt)
}
