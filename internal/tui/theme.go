package tui

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Palette. Every color is adaptive so the persisted light/dark preference only
// has to flip lipgloss's background flag.

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

var (
	colorSurfaceFg  = ac("235", "252")
	colorMuted      = ac("240", "243")
	colorAccent     = ac("27", "62")
	colorAccentFg   = ac("255", "235")
	colorSelectedBg = ac("#e9e9e9", "#262626")
	colorSelectedFg = ac("235", "255")
	colorDone       = ac("28", "71")
	colorNoticeBg   = ac("151", "22")
	colorNoticeFg   = ac("235", "255")
	colorErrorBg    = ac("196", "160")
	colorInputBg    = ac("254", "234")
)

// faintIfDark: faint text on light terminals is often illegible.
func faintIfDark(st lipgloss.Style) lipgloss.Style {
	if lipgloss.HasDarkBackground() {
		return st.Faint(true)
	}
	return st
}

func styleMuted() lipgloss.Style {
	return faintIfDark(lipgloss.NewStyle().Foreground(colorMuted))
}

func styleTitle() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(colorSurfaceFg)
}

func styleFilterTab(active bool) lipgloss.Style {
	if active {
		return lipgloss.NewStyle().Padding(0, 1).Bold(true).Foreground(colorAccentFg).Background(colorAccent)
	}
	return styleMuted().Padding(0, 1)
}

func styleNotice() lipgloss.Style {
	return lipgloss.NewStyle().Padding(0, 1).Foreground(colorNoticeFg).Background(colorNoticeBg)
}

func styleError() lipgloss.Style {
	return lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("255")).Background(colorErrorBg)
}

func styleInput() lipgloss.Style {
	return lipgloss.NewStyle().Background(colorInputBg)
}

// applyColorProfilePreference sets Lip Gloss's color profile for the TUI.
//
// termenv.EnvColorProfile also honors CLICOLOR/CLICOLOR_FORCE, which can switch
// colors off in a TUI; only NO_COLOR is honored here.
func applyColorProfilePreference() {
	if strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}

	profile := termenv.ColorProfile()

	// Trust TERM/COLORTERM when they claim more than the detector found.
	term := strings.ToLower(strings.TrimSpace(os.Getenv("TERM")))
	colorterm := strings.ToLower(strings.TrimSpace(os.Getenv("COLORTERM")))
	switch {
	case strings.Contains(colorterm, "truecolor") || strings.Contains(colorterm, "24bit"):
		if profile != termenv.Ascii {
			profile = termenv.TrueColor
		}
	case strings.Contains(term, "256color"):
		if profile == termenv.Ascii || profile == termenv.ANSI {
			profile = termenv.ANSI256
		}
	}

	lipgloss.SetColorProfile(profile)
}

// applyThemePreference points every adaptive color at the persisted theme
// instead of the terminal's reported background.
func applyThemePreference(dark bool) {
	lipgloss.SetHasDarkBackground(dark)
}
