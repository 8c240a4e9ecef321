package kafka

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/DRSN-tech/catalog-backend/internal/usecase"
	"github.com/DRSN-tech/catalog-backend/pkg/e"
	"github.com/DRSN-tech/catalog-backend/pkg/jitter"
	"github.com/DRSN-tech/catalog-backend/pkg/logger"
	"github.com/jackc/pgx/v5"
)

const outboxChannel = "outbox_pending"

// OutboxWorker публикует события outbox в Kafka.
// Новые события приходят через LISTEN outbox_pending, периодический опрос подбирает пропущенные.
// События, зависшие в processing дольше claimTimeout (падение процесса между захватом и
// отметкой), забираются повторно, поэтому доставка — at-least-once.
type OutboxWorker struct {
	repo         usecase.OutboxRepository
	logger       logger.Logger
	producer     usecase.MessageProducer
	dbConnStr    string
	batchSize    int
	pollPeriod   time.Duration
	claimTimeout time.Duration

	cancel context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.Mutex // один проход по outbox за раз
}

func NewOutboxWorker(
	repo usecase.OutboxRepository,
	logger logger.Logger,
	producer usecase.MessageProducer,
	dbConnStr string,
	batchSize int,
	pollPeriod time.Duration,
	claimTimeout time.Duration,
) *OutboxWorker {
	if batchSize <= 0 {
		batchSize = 100
	}
	if pollPeriod <= 0 {
		pollPeriod = 5 * time.Second
	}
	if claimTimeout <= 0 {
		claimTimeout = time.Minute
	}

	return &OutboxWorker{
		repo:         repo,
		logger:       logger,
		producer:     producer,
		dbConnStr:    dbConnStr,
		batchSize:    batchSize,
		pollPeriod:   pollPeriod,
		claimTimeout: claimTimeout,
	}
}

func (w *OutboxWorker) Start(ctx context.Context) {
	ctx, w.cancel = context.WithCancel(ctx)

	w.wg.Add(2)
	go func() {
		defer w.wg.Done()
		w.run(ctx)
	}()

	go func() {
		defer w.wg.Done()
		w.listenOutboxNotifications(ctx)
	}()
}

// Stop останавливает воркер и ждёт завершения текущего прохода.
func (w *OutboxWorker) Stop(ctx context.Context) error {
	if w.cancel != nil {
		w.cancel()
	}

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return e.Wrap("OutboxWorker.Stop", ctx.Err())
	}
}

func (w *OutboxWorker) run(ctx context.Context) {
	w.logger.Infof("Draining pending outbox events on startup...")
	w.Drain(ctx)

	ticker := time.NewTicker(w.pollPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Infof("Outbox worker stopped")
			return
		case <-ticker.C:
			w.Drain(ctx)
		}
	}
}

func (w *OutboxWorker) listenOutboxNotifications(ctx context.Context) {
	var conn *pgx.Conn

	connect := func() error {
		c, err := pgx.Connect(ctx, w.dbConnStr)
		if err != nil {
			return e.Wrap("failed to connect for LISTEN", err)
		}

		if _, err := c.Exec(ctx, "LISTEN "+outboxChannel); err != nil {
			_ = c.Close(ctx)
			return e.Wrap("failed to LISTEN", err)
		}

		conn = c
		w.logger.Infof("Subscribed to '%s' channel", outboxChannel)
		return nil
	}

	defer func() {
		if conn != nil {
			_ = conn.Close(context.Background())
		}
	}()

	for attempt := 0; ; attempt++ {
		if conn == nil {
			if err := connect(); err != nil {
				delay := jitter.ExponentialBackoff(time.Second, 30*time.Second, attempt, jitter.DefaultJitter)
				w.logger.Warnf("LISTEN connect failed: %v, retrying in %s", err, delay)
				if !sleep(ctx, delay) {
					return
				}
				continue
			}
			attempt = 0
		}

		waitCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		notif, err := conn.WaitForNotification(waitCtx)
		cancel()

		if ctx.Err() != nil {
			return
		}

		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				continue
			}
			w.logger.Warnf("Connection lost: %v. Reconnecting...", err)
			_ = conn.Close(ctx)
			conn = nil
			continue
		}

		if notif != nil && notif.Channel == outboxChannel {
			w.logger.Debugf("Received outbox notification, draining outbox events")
			w.Drain(ctx)
		}
	}
}

// Drain публикует ожидающие события пачками, пока outbox не опустеет или публикация не начнёт падать.
func (w *OutboxWorker) Drain(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for ctx.Err() == nil {
		hasMore, err := w.processBatch(ctx)
		if err != nil {
			w.logger.Warnf("Batch processing failed: %v", err)
			return
		}
		if !hasMore {
			return
		}
	}
}

// processBatch публикует одну пачку. hasMore == false, если пачка была неполной или публикация упала.
func (w *OutboxWorker) processBatch(ctx context.Context) (bool, error) {
	events, err := w.repo.GetAndMarkAsProcessing(ctx, w.batchSize, w.claimTimeout)
	if err != nil {
		return false, err
	}

	if len(events) == 0 {
		return false, nil
	}

	for i, event := range events {
		if err := w.processEvent(ctx, event); err != nil {
			w.logger.Warnf("publish of event %s failed: %v", event.EventID, err)
			// Неопубликованные события возвращаются в очередь до следующего прохода
			w.release(events[i:])
			return false, nil
		}

		// Событие остаётся в processing и будет опубликовано повторно после claimTimeout
		if err := w.repo.MarkAsProcessed(ctx, event.ID); err != nil {
			w.logger.Warnf("mark processed failed for event %s, it will be re-published: %v", event.EventID, err)
		}
	}

	return len(events) == w.batchSize, nil
}

func (w *OutboxWorker) release(events []*usecase.OutboxEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for _, event := range events {
		if err := w.repo.MarkAsPending(ctx, event.ID); err != nil {
			w.logger.Errorf(err, "failed to return outbox event %d to pending", event.ID)
		}
	}
}

func (w *OutboxWorker) processEvent(ctx context.Context, event *usecase.OutboxEvent) error {
	err := w.producer.WriteRawMessage(ctx, usecase.NewWriteRawMessageReq(event.EventID, event.Payload))
	if err == nil {
		return nil
	}

	if isRetryableError(err) {
		return e.Wrap("temporary Kafka failure, will retry", err)
	}
	return e.Wrap("Kafka failure", err)
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func isRetryableError(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	retryablePhrases := []string{
		"connection refused",
		"i/o timeout",
		"network is unreachable",
		"broker not available",
		"connection reset",
		"broken pipe",
		"no such host",
	}
	for _, phrase := range retryablePhrases {
		if strings.Contains(errStr, phrase) {
			return true
		}
	}
	return false
}
