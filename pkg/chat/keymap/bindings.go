package keymap

// DefaultBindings returns the default key bindings for the chat TUI.
func DefaultBindings() []Binding {
	return []Binding{
		// Global
		{Key: "ctrl+c", Command: CmdQuit, Context: ContextGlobal, Description: "종료"},
		{Key: "?", Command: CmdToggleHelp, Context: ContextGlobal, Description: "도움말"},
		{Key: "f1", Command: CmdToggleHelp, Context: ContextGlobal, Description: "도움말"},
		{Key: "ctrl+f", Command: CmdOpenFiles, Context: ContextGlobal, Description: "파일 검색"},
		{Key: "ctrl+s", Command: CmdOpenSettings, Context: ContextGlobal, Description: "설정"},
		{Key: "ctrl+g", Command: CmdOpenHome, Context: ContextGlobal, Description: "홈"},
		{Key: "ctrl+n", Command: CmdOpenChat, Context: ContextGlobal, Description: "채팅"},
		{Key: "ctrl+b", Command: CmdToggleSidebar, Context: ContextGlobal, Description: "탐색기 표시"},

		// Home
		{Key: "c", Command: CmdOpenChat, Context: ContextHome, Description: "채팅 시작"},
		{Key: "f", Command: CmdOpenFiles, Context: ContextHome, Description: "파일 검색"},
		{Key: "s", Command: CmdOpenSettings, Context: ContextHome, Description: "설정"},
		{Key: "L", Command: CmdLogout, Context: ContextHome, Description: "로그아웃"},
		{Key: "q", Command: CmdQuit, Context: ContextHome, Description: "종료"},

		// Onboarding
		{Key: "enter", Command: CmdNextPage, Context: ContextOnboarding, Description: "다음"},
		{Key: "right", Command: CmdNextPage, Context: ContextOnboarding, Description: "다음"},
		{Key: "l", Command: CmdNextPage, Context: ContextOnboarding, Description: "다음"},
		{Key: "left", Command: CmdPrevPage, Context: ContextOnboarding, Description: "이전"},
		{Key: "h", Command: CmdPrevPage, Context: ContextOnboarding, Description: "이전"},
		{Key: "esc", Command: CmdSkip, Context: ContextOnboarding, Description: "건너뛰기"},

		// Explorer sidebar
		{Key: "j", Command: CmdCursorDown, Context: ContextSidebar, Description: "아래로"},
		{Key: "down", Command: CmdCursorDown, Context: ContextSidebar, Description: "아래로"},
		{Key: "k", Command: CmdCursorUp, Context: ContextSidebar, Description: "위로"},
		{Key: "up", Command: CmdCursorUp, Context: ContextSidebar, Description: "위로"},
		{Key: "g g", Command: CmdCursorTop, Context: ContextSidebar, Description: "맨 위로"},
		{Key: "G", Command: CmdCursorBottom, Context: ContextSidebar, Description: "맨 아래로"},
		{Key: "space", Command: CmdToggleSelect, Context: ContextSidebar, Description: "폴더 선택 (하위 포함)"},
		{Key: "enter", Command: CmdToggleExpand, Context: ContextSidebar, Description: "펼치기/접기"},
		{Key: "right", Command: CmdToggleExpand, Context: ContextSidebar, Description: "펼치기/접기"},
		{Key: "a", Command: CmdSelectAll, Context: ContextSidebar, Description: "전체 선택"},
		{Key: "x", Command: CmdClearSelection, Context: ContextSidebar, Description: "선택 해제"},
		{Key: "tab", Command: CmdFocusNext, Context: ContextSidebar, Description: "입력창으로"},
		{Key: "esc", Command: CmdFocusNext, Context: ContextSidebar, Description: "입력창으로"},

		// Chat input
		{Key: "enter", Command: CmdSend, Context: ContextInput, Description: "보내기"},
		{Key: "tab", Command: CmdFocusNext, Context: ContextInput, Description: "탐색기로"},
		{Key: "ctrl+l", Command: CmdClearChat, Context: ContextInput, Description: "대화 지우기"},
		{Key: "esc", Command: CmdOpenHome, Context: ContextInput, Description: "홈으로"},

		// File search modal
		{Key: "down", Command: CmdCursorDown, Context: ContextFiles, Description: "아래로"},
		{Key: "up", Command: CmdCursorUp, Context: ContextFiles, Description: "위로"},
		{Key: "enter", Command: CmdOpenPreview, Context: ContextFiles, Description: "미리보기"},
		{Key: "ctrl+t", Command: CmdCycleTypeFacet, Context: ContextFiles, Description: "형식 필터"},
		{Key: "ctrl+o", Command: CmdCycleOwnerFacet, Context: ContextFiles, Description: "작성자 필터"},
		{Key: "ctrl+r", Command: CmdToggleFavorite, Context: ContextFiles, Description: "즐겨찾기"},
		{Key: "esc", Command: CmdClose, Context: ContextFiles, Description: "닫기"},

		// Preview card
		{Key: "f", Command: CmdToggleFavorite, Context: ContextPreview, Description: "즐겨찾기"},
		{Key: "esc", Command: CmdClose, Context: ContextPreview, Description: "닫기"},
		{Key: "q", Command: CmdClose, Context: ContextPreview, Description: "닫기"},

		// Settings
		{Key: "j", Command: CmdCursorDown, Context: ContextSettings, Description: "아래로"},
		{Key: "down", Command: CmdCursorDown, Context: ContextSettings, Description: "아래로"},
		{Key: "k", Command: CmdCursorUp, Context: ContextSettings, Description: "위로"},
		{Key: "up", Command: CmdCursorUp, Context: ContextSettings, Description: "위로"},
		{Key: "space", Command: CmdToggleConnect, Context: ContextSettings, Description: "연결/해제"},
		{Key: "enter", Command: CmdToggleConnect, Context: ContextSettings, Description: "연결/해제"},
		{Key: "a", Command: CmdAddKey, Context: ContextSettings, Description: "키 추가"},
		{Key: "d", Command: CmdDeleteKey, Context: ContextSettings, Description: "키 삭제"},
		{Key: "D", Command: CmdDisconnectAll, Context: ContextSettings, Description: "모두 해제"},
		{Key: "t", Command: CmdToggleDark, Context: ContextSettings, Description: "다크 모드"},
		{Key: "T", Command: CmdFollowSystem, Context: ContextSettings, Description: "시스템 테마"},
		{Key: "L", Command: CmdLogout, Context: ContextSettings, Description: "로그아웃"},
		{Key: "esc", Command: CmdClose, Context: ContextSettings, Description: "닫기"},

		// Help modal
		{Key: "right", Command: CmdNextPage, Context: ContextHelp, Description: "다음 항목"},
		{Key: "l", Command: CmdNextPage, Context: ContextHelp, Description: "다음 항목"},
		{Key: "tab", Command: CmdNextPage, Context: ContextHelp, Description: "다음 항목"},
		{Key: "left", Command: CmdPrevPage, Context: ContextHelp, Description: "이전 항목"},
		{Key: "h", Command: CmdPrevPage, Context: ContextHelp, Description: "이전 항목"},
		{Key: "j", Command: CmdCursorDown, Context: ContextHelp, Description: "스크롤"},
		{Key: "down", Command: CmdCursorDown, Context: ContextHelp, Description: "스크롤"},
		{Key: "k", Command: CmdCursorUp, Context: ContextHelp, Description: "스크롤"},
		{Key: "up", Command: CmdCursorUp, Context: ContextHelp, Description: "스크롤"},
		{Key: "esc", Command: CmdClose, Context: ContextHelp, Description: "닫기"},
		{Key: "q", Command: CmdClose, Context: ContextHelp, Description: "닫기"},

		// Forms
		{Key: "esc", Command: CmdClose, Context: ContextForm, Description: "취소"},
		{Key: "ctrl+t", Command: CmdSwitchForm, Context: ContextForm, Description: "로그인/회원가입 전환"},
	}
}

// RegisterDefaults registers all default bindings with the registry
func RegisterDefaults(r *Registry) {
	r.RegisterBindings(DefaultBindings())
}
