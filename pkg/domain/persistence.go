package domain

import "context"

// RecipientStore is the persistent table of recipients, addressed by a
// store-assigned identifier. Implementations return ErrNotFound for missing
// ids and StorageError for every other failure.
type RecipientStore interface {
	// Exists reports whether a record with exactly this name and address exists.
	Exists(ctx context.Context, name, address string) (bool, error)
	// Insert creates a record and returns its id. It does not enforce the
	// (name, address) uniqueness invariant; callers check Exists first.
	Insert(ctx context.Context, name, address string, familySize int) (int64, error)
	// FindByID returns the record with id.
	FindByID(ctx context.Context, id int64) (Recipient, error)
	// List returns every record ordered by id ascending.
	List(ctx context.Context) ([]Recipient, error)
	// Update overwrites name and family size only.
	Update(ctx context.Context, id int64, name string, familySize int) error
	// Delete removes the record and returns its name.
	Delete(ctx context.Context, id int64) (string, error)
	// Close releases the underlying connection.
	Close() error
}
