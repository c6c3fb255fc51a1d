package allocator

import "errors"

var (
	// ErrInvalidCapacity is returned when the bin capacity is not a positive integer.
	ErrInvalidCapacity = errors.New("bin capacity must be a positive integer")
	// ErrItemTooLarge is returned when a single item's size exceeds the bin capacity.
	ErrItemTooLarge = errors.New("item size exceeds bin capacity")
)
