package assets

import (
	"fmt"
	"strings"
)

// ValidateAssetName rejects names that could escape the asset directories:
// empty names, path separators, and dots (extension or traversal tricks).
func ValidateAssetName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	}
	if strings.ContainsAny(name, `/\.`) {
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return nil
}
