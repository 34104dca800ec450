package keymap

import "github.com/charmbracelet/bubbles/key"

// Binding describes a single key binding.
type Binding struct {
	Action      Action
	Keys        []string
	Description string
	Context     string // "global", "playback", "lyrics"

	// Help is the key label shown in short help. Bindings without one
	// are only listed in full help.
	Help string
}

// All contains all key bindings.
var All = []Binding{
	// Global
	{ActionQuit, []string{"ctrl+c"}, "Quit", "global", ""},
	{ActionHelp, []string{"?"}, "help", "global", "?"},
	{ActionClose, []string{"esc", "q"}, "close", "global", "esc"},

	// Playback
	{ActionPlayPause, []string{" "}, "pause", "playback", "space"},
	{ActionSeekBack, []string{"left"}, "Seek -5s", "playback", ""},
	{ActionSeekForward, []string{"right"}, "seek", "playback", "←/→"},
	{ActionSeekBackLong, []string{"shift+left"}, "Seek -30s", "playback", ""},
	{ActionSeekForwardLong, []string{"shift+right"}, "Seek +30s", "playback", ""},
	{ActionRestart, []string{"home", "0"}, "Restart", "playback", ""},
	{ActionOffsetEarlier, []string{"-"}, "Show lyrics 100ms earlier", "playback", ""},
	{ActionOffsetLater, []string{"+", "="}, "offset", "playback", "+/-"},
	{ActionOffsetReset, []string{"backspace"}, "Reset offset", "playback", ""},

	// Lyrics view
	{ActionScrollDown, []string{"j", "down"}, "scroll", "lyrics", "j/k"},
	{ActionScrollUp, []string{"k", "up"}, "Scroll up", "lyrics", ""},
	{ActionScrollTop, []string{"g"}, "First line", "lyrics", ""},
	{ActionScrollBottom, []string{"G"}, "Last line", "lyrics", ""},
	{ActionFollow, []string{"c"}, "Follow current line", "lyrics", ""},
	{ActionTranslation, []string{"t"}, "Toggle translation", "lyrics", ""},
	{ActionRuby, []string{"r"}, "Toggle ruby", "lyrics", ""},
}

// ByContext returns key bindings filtered by context.
func ByContext(context string) []Binding {
	var result []Binding
	for _, kb := range All {
		if kb.Context == context {
			result = append(result, kb)
		}
	}
	return result
}

// Key converts b for use with the bubbles key and help packages.
func (b Binding) Key() key.Binding {
	helpKey := b.Help
	if helpKey == "" {
		helpKey = b.Keys[0]
	}
	return key.NewBinding(
		key.WithKeys(b.Keys...),
		key.WithHelp(helpKey, b.Description),
	)
}

// ShortHelp returns the bindings of the given contexts that carry a short
// help label, in declaration order.
func ShortHelp(contexts ...string) []key.Binding {
	var result []key.Binding
	for _, ctx := range contexts {
		for _, kb := range ByContext(ctx) {
			if kb.Help != "" {
				result = append(result, kb.Key())
			}
		}
	}
	return result
}

// FullHelp returns every binding of the given contexts, one column per
// context.
func FullHelp(contexts ...string) [][]key.Binding {
	result := make([][]key.Binding, 0, len(contexts))
	for _, ctx := range contexts {
		bindings := ByContext(ctx)
		column := make([]key.Binding, len(bindings))
		for i, kb := range bindings {
			column[i] = kb.Key()
		}
		result = append(result, column)
	}
	return result
}
