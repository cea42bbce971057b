package obbfile

import (
	"errors"
	"fmt"
	"os"

	"github.com/andeb/obbutil/pkg/obbinfo"
)

// ExistsError is returned by Add when the target already carries a footer.
type ExistsError struct {
	Info obbinfo.Info
}

func (e *ExistsError) Error() string {
	return "file already has OBB info: " + e.Info.String()
}

// Read opens path and returns its footer.
func Read(path string) (obbinfo.Info, error) {
	file, err := os.Open(path)
	if err != nil {
		return obbinfo.Info{}, err
	}
	defer file.Close()

	return Locate(file)
}

// Add appends info to the file at path. It fails with *ExistsError if the
// file already has a footer.
func Add(path string, info obbinfo.Info) (err error) {
	file, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = &obbinfo.IOError{Op: "close", Err: closeErr}
		}
	}()

	existing, err := Locate(file)
	if err == nil {
		return &ExistsError{Info: existing}
	}
	var notObb *obbinfo.NotObbError
	if !errors.As(err, &notObb) {
		return err
	}

	return Append(file, info)
}

// Strip removes the footer from the file at path and returns it.
func Strip(path string) (info obbinfo.Info, err error) {
	file, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return obbinfo.Info{}, err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = &obbinfo.IOError{Op: "close", Err: closeErr}
		}
	}()

	info, err = Locate(file)
	if err != nil {
		return obbinfo.Info{}, err
	}
	if err := Remove(file, info); err != nil {
		return obbinfo.Info{}, fmt.Errorf("failed to remove footer: %w", err)
	}
	return info, nil
}
