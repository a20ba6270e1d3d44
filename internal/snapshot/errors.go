package snapshot

import "errors"

var (
	// ErrFormat indicates a file extension with no known codec.
	ErrFormat = errors.New("snapshot: unsupported format")

	// ErrSchema indicates a JSON document that does not match the snapshot schema.
	ErrSchema = errors.New("snapshot: schema validation failed")

	// ErrCorrupt indicates malformed binary snapshot data.
	ErrCorrupt = errors.New("snapshot: malformed wire data")

	// ErrDuplicateID indicates two records with the same boid id.
	ErrDuplicateID = errors.New("snapshot: duplicate boid id")

	// ErrNonFinite indicates a velocity or speed that is NaN or infinite.
	ErrNonFinite = errors.New("snapshot: non-finite velocity or speed")
)
