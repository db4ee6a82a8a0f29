package recommend

import (
	"context"
	"time"

	"github.com/theLastOfCats/ficbox/internal/model"
)

// DefaultRevealDelay is how long the blind box stays closed before the result shows.
const DefaultRevealDelay = 2500 * time.Millisecond

// Reveal runs pick to completion and then holds the result for delay. If ctx
// ends first, no result is surfaced.
func Reveal(ctx context.Context, delay time.Duration, pick func() *model.Fic) (*model.Fic, error) {
	fic := pick()

	if delay <= 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return fic, nil
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
		return fic, nil
	}
}
