package tree

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidArgument = errors.New("[tree] invalid argument")
	ErrNotFound        = errors.New("[tree] not found")

	ErrNilValue    = fmt.Errorf("%w: nil value", ErrInvalidArgument)
	ErrNilNode     = fmt.Errorf("%w: nil node", ErrInvalidArgument)
	ErrStaleNode   = fmt.Errorf("%w: stale node reference", ErrInvalidArgument)
	ErrForeignNode = fmt.Errorf("%w: node belongs to another tree", ErrInvalidArgument)
	// ErrRotationForbidden is returned by balanced trees, their shape is
	// owned by the balancing policy.
	ErrRotationForbidden = fmt.Errorf("%w: rotation is owned by the balancing policy: %w",
		ErrInvalidArgument, errors.ErrUnsupported)

	ErrSizeViolation   = errors.New("[tree] size violation")
	ErrOrderViolation  = errors.New("[tree] order violation")
	ErrParentViolation = errors.New("[tree] parent violation")
	ErrHeightViolation = errors.New("[tree] height violation")
	ErrRedViolation    = errors.New("[tree] red violation")
	ErrBlackViolation  = errors.New("[tree] black violation")
)
