package ports

import "context"

// Port: durable storage for the serialized application state.
// Implementations keep a single blob under one namespaced key.
type StateRepository interface {
	// Return the stored blob; found is false when nothing was saved yet.
	Load(ctx context.Context) (data []byte, found bool, err error)
	// Replace the stored blob.
	Save(ctx context.Context, data []byte) error
}
