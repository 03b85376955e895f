package notification

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/notification"
	"github.com/google/uuid"
)

// Config holds dispatcher configuration
type Config struct {
	BatchSize     int           // default: 100
	FlushInterval time.Duration // default: 5 seconds
	WorkerCount   int           // default: 2
	QueueSize     int           // default: 1000
}

type service struct {
	repo   notification.Repository
	config Config
	logger *slog.Logger

	queue    chan notification.Event
	wg       sync.WaitGroup
	stopCh   chan struct{}
	stopOnce sync.Once

	// mu orders Notify against Stop: once stopped is set no send can
	// land in the queue after the workers have drained it.
	mu      sync.RWMutex
	stopped bool
}

// NewNotificationService starts the background workers that write queued
// events to the outbox.
func NewNotificationService(repo notification.Repository, cfg Config, logger *slog.Logger) notification.Notifier {
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 100
	}
	if cfg.FlushInterval == 0 {
		cfg.FlushInterval = 5 * time.Second
	}
	if cfg.WorkerCount == 0 {
		cfg.WorkerCount = 2
	}
	if cfg.QueueSize == 0 {
		cfg.QueueSize = 1000
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &service{
		repo:   repo,
		config: cfg,
		logger: logger.With(slog.String("component", "notification")),
		queue:  make(chan notification.Event, cfg.QueueSize),
		stopCh: make(chan struct{}),
	}

	for i := 0; i < cfg.WorkerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	s.logger.Info("dispatcher started",
		slog.Int("workers", cfg.WorkerCount),
		slog.Int("batch_size", cfg.BatchSize),
		slog.Duration("flush_interval", cfg.FlushInterval),
	)

	return s
}

// worker drains the queue in batches
func (s *service) worker(id int) {
	defer s.wg.Done()

	batch := make([]*notification.Event, 0, s.config.BatchSize)
	ticker := time.NewTicker(s.config.FlushInterval)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := s.repo.CreateBatch(ctx, batch); err != nil {
			s.logger.Error("batch insert failed",
				slog.Int("worker", id),
				slog.Int("events", len(batch)),
				slog.Any("error", err),
			)
		} else {
			s.logger.Debug("batch inserted", slog.Int("worker", id), slog.Int("events", len(batch)))
		}

		batch = make([]*notification.Event, 0, s.config.BatchSize)
	}

	for {
		select {
		case e := <-s.queue:
			batch = append(batch, &e)
			if len(batch) >= s.config.BatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-s.stopCh:
			// drain what is already queued
			for {
				select {
				case e := <-s.queue:
					batch = append(batch, &e)
					if len(batch) >= s.config.BatchSize {
						flush()
					}
				default:
					flush()
					return
				}
			}
		}
	}
}

// Notify queues an event. It never blocks and never fails the caller: a
// full queue or a stopped dispatcher drops the event with a warning.
func (s *service) Notify(ctx context.Context, event notification.Event) {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.stopped {
		s.logger.Warn("dispatcher stopped, event dropped",
			slog.String("type", string(event.Type)),
			slog.String("recipient_id", event.RecipientID),
		)
		return
	}

	select {
	case s.queue <- event:
	default:
		s.logger.Warn("queue full, event dropped",
			slog.String("type", string(event.Type)),
			slog.String("recipient_id", event.RecipientID),
		)
	}
}

// Stop drains queued events and waits for the workers to finish
func (s *service) Stop() {
	s.stopOnce.Do(func() {
		s.mu.Lock()
		s.stopped = true
		close(s.stopCh)
		s.mu.Unlock()

		s.wg.Wait()
		s.logger.Info("dispatcher stopped")
	})
}
