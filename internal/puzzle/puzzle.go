package puzzle

import (
	"crypto/rand"
	"errors"
	"math/big"
)

const (
	// DefaultCards is the classic five-card binary counting game (16 8 4 2 1)
	DefaultCards = 5
	// MaxCards keeps targets small enough to count on a classroom table
	MaxCards = 10
)

// ErrInvalidCardCount is returned when the card count is outside [1, MaxCards]
var ErrInvalidCardCount = errors.New("card count must be between 1 and 10")

// Puzzle is a binary counting challenge: flip the cards whose dots add up to Target
type Puzzle struct {
	Target int64
	Cards  []int64
}

// Generate draws a random target in [1, 2^cards-1] so that at least one card
// must be flipped and every target is reachable.
func Generate(cards int) (*Puzzle, error) {
	if cards < 1 || cards > MaxCards {
		return nil, ErrInvalidCardCount
	}

	max := int64(1)<<cards - 1
	n, err := rand.Int(rand.Reader, big.NewInt(max))
	if err != nil {
		return nil, err
	}

	return &Puzzle{
		Target: n.Int64() + 1,
		Cards:  CardFaces(cards),
	}, nil
}

// CardFaces returns the dot counts of the cards, largest first
func CardFaces(cards int) []int64 {
	faces := make([]int64, cards)
	for i := range faces {
		faces[i] = int64(1) << (cards - 1 - i)
	}
	return faces
}
