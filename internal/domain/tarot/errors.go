package tarot

import "errors"

// ErrEmptyDeck signals a pop from an exhausted partition. Fixed partition sizes make it unreachable.
var ErrEmptyDeck = errors.New("deck is empty, cannot draw")
