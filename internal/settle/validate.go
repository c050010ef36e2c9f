package settle

import (
	"math"

	"github.com/rotisserie/eris"

	"github.com/sells-group/investor-cli/internal/model"
)

// splitTolerance is the accepted drift when checking the 100% split sum.
const splitTolerance = 0.01

// ErrInvalidSplit reports a party set whose participating split
// percentages do not sum to 100.
var ErrInvalidSplit = eris.New("settle: participating split percentages must sum to 100")

// ValidateSplits checks the split-sum invariant that the engine itself
// does not enforce. Zero-split "house" parties are excluded from the sum.
// Callers invoke this at the boundary before Compute; skipping it yields
// a settlement that does not net the pool to zero.
func ValidateSplits(parties []model.Party) error {
	var sum float64
	var participating int
	for _, p := range parties {
		if p.SplitPercent == 0 {
			continue
		}
		sum += p.SplitPercent
		participating++
	}

	if participating == 0 {
		return ErrInvalidSplit
	}
	if math.Abs(sum-100) > splitTolerance {
		return eris.Wrapf(ErrInvalidSplit, "got %.2f", sum)
	}
	return nil
}
