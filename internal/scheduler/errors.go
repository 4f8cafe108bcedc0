package scheduler

import "errors"

var (
	errOutOfBounds = errors.New("move endpoint out of bounds")
	errNonAdjacent = errors.New("move destination is not adjacent to its source")
	errMountain    = errors.New("move touches a Mountain tile")
	errNotOwner    = errors.New("mover does not own the source tile")
)
