package cli

import (
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// NO_COLOR wins over FORCE_COLOR; without either, color tracks
// whether stdout is a terminal. color.NoColor stays authoritative for
// every helper below.
func init() {
	if os.Getenv("NO_COLOR") != "" {
		color.NoColor = true
		return
	}
	if os.Getenv("FORCE_COLOR") != "" {
		color.NoColor = false
		return
	}
	color.NoColor = !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd())
}

var (
	sectionHeader = color.New(color.Bold, color.FgWhite).SprintFunc()
	infoText      = color.New(color.FgCyan).SprintFunc()
	successText   = color.New(color.FgGreen).SprintFunc()
	errorText     = color.New(color.FgRed).SprintFunc()
	grayText      = color.New(color.FgHiBlack).SprintFunc()
)
