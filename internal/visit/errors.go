package visit

import "errors"

var (
	ErrVisitNotFound   = errors.New("visit record not found")
	ErrBookingNotFound = errors.New("booking not found")
	ErrRowNotFound     = errors.New("row not found")
)
