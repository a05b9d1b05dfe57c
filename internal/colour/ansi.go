package colour

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

// ANSI escape codes for terminal colours.
const (
	ansiReset    = "\033[0m"
	ansiFgPrefix = "\033[38;2;"
	ansiBgPrefix = "\033[48;2;"
	ansiSuffix   = "m"
	defaultWidth = 8
)

// DisableColourOutput can be used to disable colour output.
var DisableColourOutput = false

// ColourPreview returns an ANSI-coloured block for a colour.
// Width specifies how many characters wide the colour block should be.
func ColourPreview(c RGB, width int) string {
	if width <= 0 {
		width = defaultWidth
	}

	block := strings.Repeat(" ", width)
	if !SupportsANSIColours() {
		return block
	}

	return bgEscape(c) + block + ansiReset
}

// Sample renders text in fg on top of bg, centred in a block of the given width.
// This is what a reader actually sees for a checked text element.
func Sample(fg, bg RGB, text string, width int) string {
	if width <= 0 {
		width = defaultWidth
	}

	// Pad or truncate text to fit width.
	runes := []rune(text)
	displayText := text
	if len(runes) > width {
		displayText = string(runes[:width])
	} else if len(runes) < width {
		padding := (width - len(runes)) / 2
		displayText = strings.Repeat(" ", padding) + text + strings.Repeat(" ", width-len(runes)-padding)
	}

	if !SupportsANSIColours() {
		return displayText
	}

	return bgEscape(bg) + fgEscape(fg) + displayText + ansiReset
}

// SupportsANSIColours reports whether stdout is a terminal and colour has not been disabled.
// The NO_COLOR convention (https://no-color.org) is honoured.
func SupportsANSIColours() bool {
	if DisableColourOutput {
		return false
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	return term.IsTerminal(int(os.Stdout.Fd())) // #nosec G115 - file descriptors fit in int
}

func bgEscape(c RGB) string {
	return fmt.Sprintf("%s%d;%d;%d%s", ansiBgPrefix, c.R, c.G, c.B, ansiSuffix)
}

func fgEscape(c RGB) string {
	return fmt.Sprintf("%s%d;%d;%d%s", ansiFgPrefix, c.R, c.G, c.B, ansiSuffix)
}
