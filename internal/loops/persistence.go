package loops

import (
	"github.com/markusressel/pid2go/internal/persistence"
)

// SaveHistory hands all unsaved samples of the given loop to the persistence.
// On failure the samples are kept for the next attempt.
func SaveHistory(p persistence.Persistence, loop *Loop) error {
	samples := loop.TakeUnsaved()
	if len(samples) <= 0 {
		return nil
	}
	err := p.SaveSamples(loop.GetId(), samples)
	if err != nil {
		loop.restoreUnsaved(samples)
		return err
	}
	return nil
}
