package folder

import (
	"errors"
	"fmt"
	"os"
)

var (
	ErrFolderNotFound   = errors.New("folder not found")
	ErrFolderPermission = errors.New("folder permission denied")
	ErrFolderAccess     = errors.New("folder access error")
	ErrNoFolder         = errors.New("no working folder set")
)

// classify maps an os error onto the folder error taxonomy, keeping the
// original error in the chain.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case os.IsNotExist(err):
		return fmt.Errorf("%w: %v", ErrFolderNotFound, err)
	case os.IsPermission(err):
		return fmt.Errorf("%w: %v", ErrFolderPermission, err)
	default:
		return fmt.Errorf("%w: %v", ErrFolderAccess, err)
	}
}
