package cascade

import "errors"

var (
	ErrNothingDeleted = errors.New("nothing deleted")
	ErrUnknownTable   = errors.New("table has no ownership entry")
	ErrReferenced     = errors.New("row is still referenced")
)
