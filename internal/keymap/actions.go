// Package keymap defines key bindings and action dispatch for the lyrics views.
package keymap

// Action represents a user-triggerable action.
type Action string

const (
	// Global actions
	ActionQuit  Action = "quit"
	ActionClose Action = "close"
	ActionHelp  Action = "help"

	// Playback actions
	ActionPlayPause       Action = "play_pause"
	ActionSeekForward     Action = "seek_forward"
	ActionSeekBack        Action = "seek_back"
	ActionSeekForwardLong Action = "seek_forward_long"
	ActionSeekBackLong    Action = "seek_back_long"
	ActionRestart         Action = "restart"

	// Sync offset actions, persisted per track
	ActionOffsetLater   Action = "offset_later"   // lyrics show later
	ActionOffsetEarlier Action = "offset_earlier" // lyrics show earlier
	ActionOffsetReset   Action = "offset_reset"

	// Lyrics view actions
	ActionScrollUp     Action = "scroll_up"
	ActionScrollDown   Action = "scroll_down"
	ActionScrollTop    Action = "scroll_top"
	ActionScrollBottom Action = "scroll_bottom"
	ActionFollow       Action = "follow" // c - re-enable auto-scroll
	ActionTranslation  Action = "toggle_translation"
	ActionRuby         Action = "toggle_ruby"
)
