package outwriter

import (
	"os"

	"github.com/huangsam/gitpick/internal/contract"
	"golang.org/x/term"
)

// GetMaxTableTextWidth calculates the maximum width for candidate text in table output
// based on terminal width and table configuration.
func GetMaxTableTextWidth(cfg *contract.Config) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			// Fallback to conservative default if terminal size can't be detected
			termWidth = 80
		} else {
			termWidth = detectedWidth
		}
	}

	// Rank + Label + Key with borders/padding
	baseWidth := 45

	available := termWidth - baseWidth
	if available < 20 {
		return 20
	}
	if available > 100 {
		return 100
	}
	return available
}
