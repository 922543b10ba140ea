package cli

import (
	"errors"
	"fmt"

	"github.com/nixopus/installer/internal/log"
	"github.com/nixopus/installer/internal/ui"
)

// Confirmer asks a yes/no question. *ui.UI implements it.
type Confirmer interface {
	PromptYesNo(prompt string, defaultYes bool) (bool, error)
}

// SaveAnswers writes the answers file when save_answers is set, or after the
// operator agrees to it. It runs after a completed install, so a failure is
// reported as a warning and never changes the outcome. It reports whether
// the file was written.
func SaveAnswers(sc *SetupContext, c Confirmer) bool {
	cfg := sc.Config
	if !cfg.SaveAnswers {
		if sc.UI.IsNonInteractive() {
			return false
		}
		save, err := c.PromptYesNo(fmt.Sprintf("Save these answers to %s?", cfg.FilePath()), false)
		if err != nil {
			if !errors.Is(err, ui.ErrNonInteractive) {
				sc.UI.Warningf("Could not read answer: %v", err)
			}
			return false
		}
		if !save {
			return false
		}
	}

	if err := cfg.Save(); err != nil {
		log.Warn("Saving answers failed", "run_id", sc.RunID, "path", cfg.FilePath(), "error", err)
		sc.UI.Warningf("Answers were not saved to %s: %v", cfg.FilePath(), err)
		return false
	}
	sc.UI.Successf("Answers saved to %s", cfg.FilePath())
	return true
}
