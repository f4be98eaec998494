package compositor

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound matches errors about input files that do not exist
	ErrNotFound = errors.New("input file not found")
	// ErrDecode matches errors about input files that are not valid images
	ErrDecode = errors.New("cannot decode image")
)

// MissingFilesError lists every input path that failed the existence check
type MissingFilesError struct {
	Paths []string
}

func (e *MissingFilesError) Error() string {
	return fmt.Sprintf("%s: %s", ErrNotFound, strings.Join(e.Paths, ", "))
}

func (e *MissingFilesError) Is(target error) bool {
	return target == ErrNotFound
}

// decodeError keeps the codec error reachable while matching ErrDecode
type decodeError struct {
	err error
}

func (e *decodeError) Error() string {
	return fmt.Sprintf("%s: %v", ErrDecode, e.err)
}

func (e *decodeError) Unwrap() []error {
	return []error{ErrDecode, e.err}
}
