// SPDX-License-Identifier: MPL-2.0

package pipeline

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

type (
	// Condition gates a step. Met is evaluated right before the step runs, so
	// markers created by earlier steps of the same run are observed.
	Condition interface {
		Met() (bool, error)
		fmt.Stringer
	}

	existsCondition struct {
		path string
		stat func(string) (fs.FileInfo, error)
	}
)

// Exists returns a Condition met when path exists (file or directory).
func Exists(path string) Condition {
	return existsCondition{path: path, stat: os.Stat}
}

// Met reports whether the marker path exists. A missing path is not an error;
// any other stat failure is returned so the run fails instead of guessing.
func (c existsCondition) Met() (bool, error) {
	_, err := c.stat(c.path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("checking marker %s: %w", c.path, err)
}

// String returns the marker path.
func (c existsCondition) String() string { return c.path }
