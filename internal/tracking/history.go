package tracking

import "context"

// HistoryRepository stores and retrieves merged mobile-tag position fixes.
//
// Implementations must be thread-safe and use UTC timestamps.
type HistoryRepository interface {
	// RecordFix persists one merged position fix.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeout
	//   - fix: Fix to persist (quality is always > 0 for merged fixes)
	//
	// Returns:
	//   - error: nil on success, otherwise the underlying persistence error
	RecordFix(ctx context.Context, fix Fix) error

	// GetHistory returns recent fixes for a device, newest first.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeout
	//   - address: Device address
	//   - limit: Maximum entries to return (implementation may clamp bounds)
	//
	// Returns:
	//   - []Fix: Ordered newest-first fixes (may be empty)
	//   - error: nil on success, otherwise the underlying query error
	GetHistory(ctx context.Context, address uint8, limit int) ([]Fix, error)
}
