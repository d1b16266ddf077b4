package admin

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

// formatter colors text, or decorates it with prefix/suffix when color is off.
type formatter struct {
	color  *color.Color
	prefix string
	suffix string
}

func (f formatter) Sprintf(format string, a ...any) string {
	text := fmt.Sprintf(format, a...)
	if noColor() {
		return f.prefix + text + f.suffix
	}
	return f.color.Sprint(text)
}

func noColor() bool {
	if _, exists := os.LookupEnv("NO_COLOR"); exists {
		return true
	}
	return color.NoColor
}

var (
	success   = formatter{color.New(color.FgGreen), "", ""}
	failure   = formatter{color.New(color.FgRed), "", ""}
	warning   = formatter{color.New(color.FgYellow), "", ""}
	highlight = formatter{color.New(color.FgCyan), "'", "'"}
)
