package rename

import "errors"

// Skip reasons. An [Outcome] with [StatusSkipped] carries one of these.
var (
	ErrSourceMissing     = errors.New("source file does not exist")
	ErrDestinationExists = errors.New("destination already exists")
	ErrNoCurrentName     = errors.New("record has no current name")
	ErrSameName          = errors.New("source and destination are the same")
	ErrNoLabel           = errors.New("no prefix label left for record")
	ErrEmptyStrippedName = errors.New("name is only a prefix")
)
