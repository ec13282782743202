package backend

import "context"

// Disconnected is the store used when no endpoint or access key is
// configured. Every call fails with ErrNotConnected.
type Disconnected struct {
	// Reason is shown to the user next to the "not connected" status.
	Reason string
}

// List always fails
func (d Disconnected) List(ctx context.Context) ([]Task, error) {
	return nil, ErrNotConnected
}

// Insert always fails
func (d Disconnected) Insert(ctx context.Context, task NewTask) (*Task, error) {
	return nil, ErrNotConnected
}

// Update always fails
func (d Disconnected) Update(ctx context.Context, id string, patch TaskPatch) error {
	return ErrNotConnected
}

// Delete always fails
func (d Disconnected) Delete(ctx context.Context, id string) error {
	return ErrNotConnected
}

// Connected returns false
func (d Disconnected) Connected() bool {
	return false
}

// Close is a no-op
func (d Disconnected) Close() error {
	return nil
}

var _ Store = Disconnected{}
