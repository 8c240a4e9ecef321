package kafka

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/DRSN-tech/catalog-backend/internal/usecase"
	"github.com/DRSN-tech/catalog-backend/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeOutboxRepo повторяет семантику захвата из pgdb.OutboxEventRepo:
// забираются pending и processing, захваченные дольше staleAfter назад.
type fakeOutboxRepo struct {
	mu        sync.Mutex
	events    []*usecase.OutboxEvent
	claimedAt map[int64]time.Time
	failMark  map[int64]bool
	processed []int64
	released  []int64
}

func newFakeOutboxRepo(evs []*usecase.OutboxEvent) *fakeOutboxRepo {
	return &fakeOutboxRepo{events: evs, claimedAt: map[int64]time.Time{}, failMark: map[int64]bool{}}
}

func (f *fakeOutboxRepo) Create(_ context.Context, ev *usecase.OutboxEvent) (*usecase.OutboxEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, ev)
	return ev, nil
}

func (f *fakeOutboxRepo) GetAndMarkAsProcessing(_ context.Context, limit int, staleAfter time.Duration) ([]*usecase.OutboxEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var batch []*usecase.OutboxEvent
	for _, ev := range f.events {
		if len(batch) == limit {
			break
		}
		stale := ev.Status == usecase.Processing && time.Since(f.claimedAt[ev.ID]) > staleAfter
		if ev.Status != usecase.Pending && !stale {
			continue
		}
		ev.Status = usecase.Processing
		f.claimedAt[ev.ID] = time.Now()
		batch = append(batch, ev)
	}
	return batch, nil
}

func (f *fakeOutboxRepo) MarkAsProcessed(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failMark[id] {
		delete(f.failMark, id)
		return errors.New("conn closed")
	}
	for _, ev := range f.events {
		if ev.ID == id && ev.Status == usecase.Processing {
			ev.Status = usecase.Processed
		}
	}
	f.processed = append(f.processed, id)
	return nil
}

func (f *fakeOutboxRepo) MarkAsPending(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ev := range f.events {
		if ev.ID == id && ev.Status == usecase.Processing {
			ev.Status = usecase.Pending
			delete(f.claimedAt, id)
		}
	}
	f.released = append(f.released, id)
	return nil
}

// age сдвигает время захвата события в прошлое.
func (f *fakeOutboxRepo) age(id int64, d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.claimedAt[id] = f.claimedAt[id].Add(-d)
}

type fakeProducer struct {
	mu     sync.Mutex
	keys   []string
	failOn string
}

func (f *fakeProducer) WriteRawMessage(_ context.Context, req *usecase.WriteRawMessageReq) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if req.Key == f.failOn {
		return errors.New("dial tcp: connection refused")
	}
	f.keys = append(f.keys, req.Key)
	return nil
}

func events(ids ...string) []*usecase.OutboxEvent {
	out := make([]*usecase.OutboxEvent, 0, len(ids))
	for i, id := range ids {
		out = append(out, &usecase.OutboxEvent{ID: int64(i + 1), EventID: id, Payload: []byte(`{}`), Status: usecase.Pending})
	}
	return out
}

func TestDrainPublishesAllBatches(t *testing.T) {
	repo := newFakeOutboxRepo(events("e1", "e2", "e3", "e4", "e5"))
	producer := &fakeProducer{}
	w := NewOutboxWorker(repo, logger.NewNopLogger(), producer, "", 2, 0, 0)

	w.Drain(context.Background())

	assert.Equal(t, []string{"e1", "e2", "e3", "e4", "e5"}, producer.keys)
	assert.Equal(t, []int64{1, 2, 3, 4, 5}, repo.processed)
	assert.Empty(t, repo.released)
}

func TestDrainReleasesUnpublishedEvents(t *testing.T) {
	repo := newFakeOutboxRepo(events("e1", "e2", "e3"))
	producer := &fakeProducer{failOn: "e2"}
	w := NewOutboxWorker(repo, logger.NewNopLogger(), producer, "", 10, 0, 0)

	w.Drain(context.Background())

	require.Equal(t, []string{"e1"}, producer.keys)
	assert.Equal(t, []int64{1}, repo.processed)
	assert.Equal(t, []int64{2, 3}, repo.released)
}

func TestDrainRepublishesStaleClaimedEvent(t *testing.T) {
	repo := newFakeOutboxRepo(events("e1", "e2"))
	producer := &fakeProducer{}
	w := NewOutboxWorker(repo, logger.NewNopLogger(), producer, "", 10, 0, time.Minute)

	// e1 захвачен упавшим воркером и так и не отмечен
	claimed, err := repo.GetAndMarkAsProcessing(context.Background(), 1, time.Minute)
	require.NoError(t, err)
	require.Len(t, claimed, 1)

	w.Drain(context.Background())
	assert.Equal(t, []string{"e2"}, producer.keys, "fresh claim must not be taken over")

	repo.age(1, 2*time.Minute)
	w.Drain(context.Background())

	assert.Equal(t, []string{"e2", "e1"}, producer.keys)
	assert.ElementsMatch(t, []int64{1, 2}, repo.processed)
}

func TestDrainRepublishesEventWhenMarkProcessedFails(t *testing.T) {
	repo := newFakeOutboxRepo(events("e1"))
	repo.failMark[1] = true
	producer := &fakeProducer{}
	w := NewOutboxWorker(repo, logger.NewNopLogger(), producer, "", 10, 0, time.Minute)

	w.Drain(context.Background())
	require.Equal(t, []string{"e1"}, producer.keys)
	assert.Empty(t, repo.processed)

	repo.age(1, 2*time.Minute)
	w.Drain(context.Background())

	assert.Equal(t, []string{"e1", "e1"}, producer.keys)
	assert.Equal(t, []int64{1}, repo.processed)
}

func TestIsRetryableError(t *testing.T) {
	assert.True(t, isRetryableError(errors.New("read: Connection Reset by peer")))
	assert.False(t, isRetryableError(errors.New("message too large")))
	assert.False(t, isRetryableError(nil))
}
