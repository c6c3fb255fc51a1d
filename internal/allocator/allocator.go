package allocator

import (
	"cmp"
	"slices"
)

// bin accumulates items and maintains their running total size. Capacity
// enforcement happens in Pack; the bin itself accepts anything.
type bin[T any] struct {
	items []T
	total int
}

func (b *bin[T]) add(item T, size int) {
	b.items = append(b.items, item)
	b.total += size
}

// Pack partitions items into bins using the first-fit-decreasing heuristic:
// items are sorted by descending size, then each is placed into the first bin
// whose running total still accommodates it, opening a new bin when none does.
//
// The sort is stable, so items of equal size keep their original relative
// order and the output is fully deterministic for a given input. Empty input
// yields zero bins. Sizes reported by sizeOf must be deterministic; results
// are undefined for negative sizes.
func Pack[T any](items []T, maxSize int, sizeOf func(T) int) ([][]T, error) {
	if maxSize <= 0 {
		return nil, ErrInvalidCapacity
	}

	sorted := make([]T, len(items))
	copy(sorted, items)
	slices.SortStableFunc(sorted, func(a, b T) int {
		return cmp.Compare(sizeOf(b), sizeOf(a))
	})

	bins := make([]*bin[T], 0)

	for _, item := range sorted {
		size := sizeOf(item)
		if size > maxSize {
			return nil, ErrItemTooLarge
		}

		placed := false
		for _, b := range bins {
			if b.total+size <= maxSize {
				b.add(item, size)
				placed = true
				break
			}
		}

		if !placed {
			b := &bin[T]{}
			b.add(item, size)
			bins = append(bins, b)
		}
	}

	out := make([][]T, len(bins))
	for i, b := range bins {
		out[i] = b.items
	}
	return out, nil
}
