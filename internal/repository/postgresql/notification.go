package postgresql

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/notification"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/database"
	"github.com/google/uuid"
)

type notificationRepository struct {
	db *database.DB
}

func NewNotificationRepository(db *database.DB) notification.Repository {
	return &notificationRepository{db: db}
}

// Create inserts a single event into the outbox
func (r *notificationRepository) Create(ctx context.Context, e *notification.Event) error {
	return r.CreateBatch(ctx, []*notification.Event{e})
}

// CreateBatch inserts events with one multi-row INSERT
func (r *notificationRepository) CreateBatch(ctx context.Context, events []*notification.Event) error {
	if len(events) == 0 {
		return nil
	}

	q := GetQuerier(ctx, r.db)

	const cols = 8
	valueStrings := make([]string, 0, len(events))
	valueArgs := make([]interface{}, 0, len(events)*cols)

	for i, e := range events {
		if e.ID == "" {
			e.ID = uuid.New().String()
		}
		if e.CreatedAt.IsZero() {
			e.CreatedAt = time.Now()
		}

		dataJSON, err := json.Marshal(e.Data)
		if err != nil {
			return fmt.Errorf("failed to marshal event data: %w", err)
		}

		base := i * cols
		valueStrings = append(valueStrings, fmt.Sprintf(
			"($%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8,
		))
		valueArgs = append(valueArgs,
			e.ID,
			string(e.Type),
			e.RecipientID,
			e.ActorID,
			e.Title,
			e.Message,
			dataJSON,
			e.CreatedAt,
		)
	}

	query := fmt.Sprintf(`
		INSERT INTO notification_events (id, event_type, recipient_id, actor_id, title, message, data, created_at)
		VALUES %s
	`, strings.Join(valueStrings, ", "))

	if _, err := q.Exec(ctx, query, valueArgs...); err != nil {
		return fmt.Errorf("failed to batch create notification events: %w", err)
	}

	return nil
}
