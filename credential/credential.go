package credential

import (
	"context"
	"errors"
)

// ErrNotFound is an exported constant or variable used by the client pipeline.
var ErrNotFound = errors.New("credentials not found")

// ErrUnavailable is an exported constant or variable used by the client pipeline.
var ErrUnavailable = errors.New("credential store unavailable")

// ErrIncompletePair is returned by Set when either slot of the pair is empty.
var ErrIncompletePair = errors.New("incomplete credential pair")

// Pair holds one access/refresh credential pair. Both slots are created together on
// login or successful renewal and destroyed together on logout or renewal failure.
type Pair struct {
	AccessToken  string
	RefreshToken string
}

// Empty reports whether both slots are unset.
func (p Pair) Empty() bool {
	return p.AccessToken == "" && p.RefreshToken == ""
}

// Store is the persistence contract consumed by the request pipeline.
//
// Implementations must be safe for concurrent use. Get returns [ErrNotFound] when no
// pair is stored and an [ErrUnavailable]-wrapped error on backend failure; it never
// returns an empty pair with a nil error.
type Store interface {
	Get(ctx context.Context) (Pair, error)
	Set(ctx context.Context, pair Pair) error
	Clear(ctx context.Context) error
}
