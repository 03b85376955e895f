package schedule

import (
	"context"
	"time"
)

type ScheduleResolver interface {
	Resolve(ctx context.Context, employeeID string, date time.Time) (Expected, error)
	Location() *time.Location
}
