package lib

import "fmt"

// WrapError keeps both errors matchable with errors.Is, parent is usually a sentinel
func WrapError(parent error, child error) error {
	return fmt.Errorf("%w: %w", parent, child)
}
