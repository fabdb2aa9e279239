package compare

import "errors"

// ErrFightNotFound signals the requested fight id is absent from the report
var ErrFightNotFound = errors.New("fight not found in report")

// ErrInvalidComparisonTarget signals a trash fight was requested; only boss
// encounters carry leaderboard rankings
var ErrInvalidComparisonTarget = errors.New("trash fights cannot be compared")

// ErrPlayerNotInFight signals the named player has no row in the fight's table
var ErrPlayerNotInFight = errors.New("player not found in fight")

// ErrActorNotFound signals the player's actor id could not be resolved
var ErrActorNotFound = errors.New("actor not found for player")

// ErrNoRankingsAvailable signals the encounter leaderboard is empty for the
// requested class, spec and metric
var ErrNoRankingsAvailable = errors.New("no rankings available")

// ErrTopActorNotFound signals the top-ranked player's actor id could not be
// resolved in their own report
var ErrTopActorNotFound = errors.New("actor not found for top ranked player")
