package device

import "context"

// Repository is the CRUD surface over device records. Implementations must
// be atomic at single-record granularity; no cross-record transactions are
// required. NotFound conditions are reported via errors.ErrNotFound.
type Repository interface {
	// FindByDeviceNo returns the device with the given business key.
	FindByDeviceNo(ctx context.Context, deviceNo string) (*Device, error)

	// Upsert creates the device with defaults for unset fields when absent,
	// otherwise applies only the supplied fields. Returns the resulting record.
	Upsert(ctx context.Context, deviceNo string, patch Patch) (*Device, error)

	// Update applies the patch to an existing device. Never creates.
	Update(ctx context.Context, deviceNo string, patch Patch) (*Device, error)

	// Delete removes the device.
	Delete(ctx context.Context, deviceNo string) error

	// List returns all devices in insertion order.
	List(ctx context.Context) ([]*Device, error)
}

// Provider hands out a Repository scoped to the reporting chat user.
// The SQLite backend returns a shared repository; the platform API backend
// signs the user in and returns a token-bound session.
type Provider interface {
	Session(ctx context.Context, userID string) (Repository, error)
}
