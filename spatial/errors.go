package spatial

import (
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
)

const (
	// ErrTypeInvariant is the type of the errors spatial structures panic with
	// when their bookkeeping is found inconsistent. Such errors are programmer
	// errors and are not meant to be recovered.
	ErrTypeInvariant = "spatial_invariant"
)

// violation logs err and returns it to be used as a panic value.
func violation(err error) error {
	logs.WithTag("error_type", errors.Type(err)).Error(err)
	return err
}
