package backoffice

import (
	"fmt"

	"github.com/jinzhu/copier"
)

// deepCopy returns an independent copy of item so edits on the copy never
// reach the list entry it came from.
func deepCopy[T any](item T) (T, error) {
	var out T
	if err := copier.CopyWithOption(&out, &item, copier.Option{DeepCopy: true}); err != nil {
		return out, fmt.Errorf("backoffice: copy item: %w", err)
	}
	return out, nil
}

func cloneItems[T any](items []T) []T {
	if items == nil {
		return nil
	}
	out := make([]T, len(items))
	copy(out, items)
	return out
}
