package display

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

// PrintBanner prints the ASCII art banner to stdout.
func PrintBanner() {
	magenta := color.New(color.FgHiMagenta, color.Bold)
	magenta.Fprint(os.Stdout, ` __        __   _          ____   ____ _  __
 \ \      / /__| |__  _ __|___ \ / ___(_)/ _|
  \ \ /\ / / _ \ '_ \| '_ __ __) | |  _| | |_
   \ V  V /  __/ |_) | | | | / __/| |_| | |  _|
    \_/\_/ \___|_.__/|_| |_||_____|\____|_|_|
`)
	fmt.Fprintln(os.Stdout)
}
