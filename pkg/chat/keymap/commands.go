package keymap

// Context names the part of the UI that has key focus
type Context string

const (
	ContextGlobal     Context = "global"
	ContextHome       Context = "home"
	ContextOnboarding Context = "onboarding"
	ContextSidebar    Context = "sidebar"  // Explorer tree has focus
	ContextInput      Context = "input"    // Chat input has focus (text entry)
	ContextFiles      Context = "files"    // File search modal (text entry)
	ContextPreview    Context = "preview"  // File preview card
	ContextSettings   Context = "settings" // Settings screen
	ContextHelp       Context = "help"     // Help modal
	ContextForm       Context = "form"     // A huh form has focus
)

// Command is the stable ID that bindings and keymap.json refer to
type Command string

const (
	// Global commands
	CmdQuit       Command = "quit"
	CmdToggleHelp Command = "toggle-help"
	CmdClose      Command = "close"

	// Screen commands
	CmdOpenHome     Command = "open-home"
	CmdOpenChat     Command = "open-chat"
	CmdOpenFiles    Command = "open-files"
	CmdOpenSettings Command = "open-settings"
	CmdLogout       Command = "logout"

	// Navigation commands
	CmdCursorDown   Command = "cursor-down"
	CmdCursorUp     Command = "cursor-up"
	CmdCursorTop    Command = "cursor-top"
	CmdCursorBottom Command = "cursor-bottom"
	CmdFocusNext    Command = "focus-next"
	CmdNextPage     Command = "next-page"
	CmdPrevPage     Command = "prev-page"

	// Explorer commands
	CmdToggleSelect   Command = "toggle-select"
	CmdToggleExpand   Command = "toggle-expand"
	CmdSelectAll      Command = "select-all"
	CmdClearSelection Command = "clear-selection"
	CmdToggleSidebar  Command = "toggle-sidebar"

	// Chat commands
	CmdSend      Command = "send"
	CmdClearChat Command = "clear-chat"

	// File commands
	CmdOpenPreview     Command = "open-preview"
	CmdToggleFavorite  Command = "toggle-favorite"
	CmdCycleTypeFacet  Command = "cycle-type"
	CmdCycleOwnerFacet Command = "cycle-owner"

	// Settings commands
	CmdToggleConnect Command = "toggle-connect"
	CmdAddKey        Command = "add-key"
	CmdDeleteKey     Command = "delete-key"
	CmdDisconnectAll Command = "disconnect-all"
	CmdToggleDark    Command = "toggle-dark"
	CmdFollowSystem  Command = "follow-system"

	// Onboarding commands
	CmdSkip Command = "skip"

	// Form commands
	CmdSwitchForm Command = "switch-form"
)
