package color

import (
	"fmt"
	"os"

	"github.com/muesli/termenv"
)

const (
	Red     = termenv.ANSIRed
	Green   = termenv.ANSIGreen
	Yellow  = termenv.ANSIYellow
	Blue    = termenv.ANSIBlue
	Magenta = termenv.ANSIMagenta
	Cyan    = termenv.ANSICyan
	White   = termenv.ANSIWhite
	Gray    = termenv.ANSIBrightBlack

	BrightRed    = termenv.ANSIBrightRed
	BrightGreen  = termenv.ANSIBrightGreen
	BrightYellow = termenv.ANSIBrightYellow
	BrightCyan   = termenv.ANSIBrightCyan
)

var (
	profile      = termenv.ANSI
	colorEnabled = true
)

func init() {
	// EnvColorProfile honours NO_COLOR and reports Ascii when stdout is not a terminal
	if p := termenv.EnvColorProfile(); p == termenv.Ascii || os.Getenv("NO_COLOR") != "" {
		colorEnabled = false
	}
}

func EnableColor(enable bool) {
	colorEnabled = enable
}

func IsColorEnabled() bool {
	return colorEnabled
}

// SetProfile selects the escape sequences used when colour is enabled
func SetProfile(p termenv.Profile) {
	profile = p
}

func style(text string) termenv.Style {
	return profile.String(text)
}

func Colorize(c termenv.Color, text string) string {
	if !colorEnabled {
		return text
	}
	return style(text).Foreground(profile.Convert(c)).String()
}

func RedText(text string) string {
	return Colorize(Red, text)
}

func BrightRedText(text string) string {
	return Colorize(BrightRed, text)
}

func GreenText(text string) string {
	return Colorize(Green, text)
}

func YellowText(text string) string {
	return Colorize(Yellow, text)
}

func CyanText(text string) string {
	return Colorize(Cyan, text)
}

func GrayText(text string) string {
	return Colorize(Gray, text)
}

func BoldText(text string) string {
	if !colorEnabled {
		return text
	}
	return style(text).Bold().String()
}

func Error(message string) string {
	if !colorEnabled {
		return "Error: " + message
	}
	return BrightRedText("Error: ") + message
}

func Warning(message string) string {
	if !colorEnabled {
		return "Warning: " + message
	}
	return YellowText("Warning: ") + message
}

func Line(line int) string {
	pos := fmt.Sprintf("line %d", line)
	if !colorEnabled {
		return pos
	}
	return CyanText(pos)
}

func Code(code string) string {
	if !colorEnabled {
		return code
	}
	return GrayText(code)
}

// ErrorWithLine renders a diagnostic followed by the offending source line
func ErrorWithLine(line int, message, source string) string {
	if source == "" {
		return fmt.Sprintf("%s at %s: %s", errorHeader(), Line(line), message)
	}

	return fmt.Sprintf("%s at %s: %s\n    %s",
		errorHeader(),
		Line(line),
		message,
		Code(source))
}

func errorHeader() string {
	if !colorEnabled {
		return "Error"
	}
	return BrightRedText(BoldText("Error"))
}
