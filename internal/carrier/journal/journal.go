// Package journal keeps an append-only in-memory record of everything the
// registry did: session changes, accepted orders, wallet movements. The CLI
// drains it for its activity feed the way an outbox relay would drain a
// pending table.
package journal

import (
	"sync"
	"time"

	"github.com/nazeru/carrier-marketplace-go/pkg/contracts"
)

type Record struct {
	ID         int64
	Event      contracts.Event
	AppendedAt time.Time
	ConsumedAt *time.Time
}

type Journal struct {
	mu      sync.Mutex
	seq     int64
	records []Record
}

func New() *Journal {
	return &Journal{}
}

// Append stores the event and returns its journal id. Records are immutable
// once appended; only ConsumedAt is ever set afterwards.
func (j *Journal) Append(event contracts.Event) int64 {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.seq++
	j.records = append(j.records, Record{
		ID:         j.seq,
		Event:      event,
		AppendedAt: time.Now().UTC(),
	})
	return j.seq
}

// FetchPending returns up to limit unconsumed records in append order.
// limit <= 0 means no limit.
func (j *Journal) FetchPending(limit int) []Record {
	j.mu.Lock()
	defer j.mu.Unlock()
	var out []Record
	for _, rec := range j.records {
		if rec.ConsumedAt != nil {
			continue
		}
		out = append(out, rec)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

// MarkConsumed flags a record so FetchPending stops returning it.
func (j *Journal) MarkConsumed(id int64) {
	j.mu.Lock()
	defer j.mu.Unlock()
	for i := range j.records {
		if j.records[i].ID == id {
			now := time.Now().UTC()
			j.records[i].ConsumedAt = &now
			return
		}
	}
}

// All returns a copy of every record, consumed or not, in append order.
func (j *Journal) All() []Record {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]Record, len(j.records))
	copy(out, j.records)
	return out
}
