package jobs

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// BookingCompleter moves elapsed Confirmed bookings to Completed.
type BookingCompleter interface {
	CompleteElapsed(ctx context.Context) (int64, error)
}

type BookingCompletionService struct {
	bookings BookingCompleter
	logger   *zap.Logger
}

func NewBookingCompletionService(bookings BookingCompleter, logger *zap.Logger) *BookingCompletionService {
	return &BookingCompletionService{bookings: bookings, logger: logger}
}

// CompleteElapsed runs one completion pass.
func (b *BookingCompletionService) CompleteElapsed(ctx context.Context) (int64, error) {
	n, err := b.bookings.CompleteElapsed(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to complete elapsed bookings: %w", err)
	}
	if n > 0 {
		b.logger.Info("completed elapsed bookings", zap.Int64("count", n))
	}
	return n, nil
}
