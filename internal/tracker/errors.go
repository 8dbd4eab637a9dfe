package tracker

import "errors"

// Error variables for tracker operations.
var (
	ErrTrackerMissing   = errors.New("tracker file not found")
	ErrTrackerCorrupt   = errors.New("tracker file is corrupt")
	ErrTemplateUnusable = errors.New("tracker template unusable")
	ErrEmptyTracker     = errors.New("tracker has no header")
	ErrBadHeader        = errors.New("unrecognized tracker header")
	ErrBadMode          = errors.New("unknown mode")
	ErrMixedModes       = errors.New("rows disagree on mode")
)
