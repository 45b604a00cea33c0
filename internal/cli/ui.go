package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	apperr "github.com/matzehuels/flowplan/pkg/errors"
	"github.com/matzehuels/flowplan/pkg/release"
)

// Palette (256-color codes).
var (
	colorTeal  = lipgloss.Color("36")
	colorGreen = lipgloss.Color("35")
	colorAmber = lipgloss.Color("220")
	colorRed   = lipgloss.Color("167")
	colorBlue  = lipgloss.Color("75")
	colorWhite = lipgloss.Color("255")
	colorGray  = lipgloss.Color("245")
	colorDim   = lipgloss.Color("240")
)

var (
	StyleDim     = lipgloss.NewStyle().Foreground(colorDim)
	StyleValue   = lipgloss.NewStyle().Foreground(colorWhite)
	StyleNumber  = lipgloss.NewStyle().Foreground(colorTeal).Bold(true)
	StyleWarning = lipgloss.NewStyle().Foreground(colorAmber)

	styleOK      = lipgloss.NewStyle().Foreground(colorGreen)
	styleError   = lipgloss.NewStyle().Foreground(colorRed)
	styleInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleSpinner = lipgloss.NewStyle().Foreground(colorTeal)
	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
	styleKey     = lipgloss.NewStyle().Foreground(colorGray).Width(12)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconOpen    = "◉"
	separator   = " · "
)

func printLine(icon lipgloss.Style, mark, msg string) {
	fmt.Println(icon.Render(mark) + " " + msg)
}

func printSuccess(format string, args ...any) {
	printLine(styleOK, iconSuccess, fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	printLine(StyleWarning, iconWarning, StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	printLine(styleInfo, iconInfo, fmt.Sprintf(format, args...))
}

// printDetail prints an indented, dimmed line.
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// PrintError prints a failed command's error to stderr, followed by its code
// when it has one.
func PrintError(err error) {
	line := styleError.Render(iconError) + " " + apperr.UserMessage(err)
	if code := apperr.GetCode(err); code != "" {
		line += " " + StyleDim.Render("("+string(code)+")")
	}
	fmt.Fprintln(os.Stderr, line)
}

// printFile prints a written artifact path.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Println(styleKey.Render(key) + " " + StyleValue.Render(value))
}

// printStats prints "N valves · M openable · fresh|cached".
func printStats(valves, openable int, cached bool) {
	status := styleInfo.Render("fresh")
	if cached {
		status = styleOK.Render("cached")
	}
	parts := []string{
		StyleDim.Render(fmt.Sprintf("%d valves", valves)),
		StyleDim.Render(fmt.Sprintf("%d openable", openable)),
		status,
	}
	fmt.Println("  " + strings.Join(parts, StyleDim.Render(separator)))
}

// printRoute prints one line per opened valve: minute, valve, release.
func printRoute(steps []release.Step) {
	if len(steps) == 0 {
		printDetail("no valve worth opening")
		return
	}
	for _, st := range steps {
		fmt.Printf("  %s %s %s %s\n",
			StyleDim.Render(fmt.Sprintf("min %2d", st.Minute)),
			styleOK.Render(iconOpen),
			StyleValue.Render(st.Valve),
			StyleDim.Render(fmt.Sprintf("+%d", st.Released)))
	}
}

// printNextStep suggests a follow-up command.
func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}
