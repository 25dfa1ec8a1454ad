package tui

import (
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
)

var (
	mdRendererMu sync.Mutex
	// Keyed by style + wrap width. WithAutoStyle queries the terminal and can
	// block, so the style always comes from the persisted theme.
	mdRenderers = map[string]*glamour.TermRenderer{}
)

func markdownStyle() string {
	if lipgloss.HasDarkBackground() {
		return styles.DarkStyle
	}
	return styles.LightStyle
}

func renderMarkdown(md string, width int) string {
	md = strings.TrimSpace(md)
	if md == "" {
		return ""
	}
	if width < 20 {
		width = 20
	}

	style := markdownStyle()
	key := style + ":" + strconv.Itoa(width)

	mdRendererMu.Lock()
	defer mdRendererMu.Unlock()
	r := mdRenderers[key]
	if r == nil {
		rr, err := glamour.NewTermRenderer(
			glamour.WithStyles(markdownStyleConfig(style)),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return md
		}
		mdRenderers[key] = rr
		r = rr
	}

	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}

func markdownStyleConfig(style string) ansi.StyleConfig {
	cfg := styles.DarkStyleConfig
	variant := "dark"
	if style == styles.LightStyle {
		cfg = styles.LightStyleConfig
		variant = "light"
	}
	heading := mdColor(colorSurfaceFg, variant)
	cfg.H1.Color = heading
	cfg.H1.BackgroundColor = nil
	cfg.Code.Color = mdColor(colorAccent, variant)
	cfg.Code.BackgroundColor = nil
	return cfg
}

func mdColor(c lipgloss.AdaptiveColor, variant string) *string {
	v := c.Dark
	if variant == "light" {
		v = c.Light
	}
	return &v
}
