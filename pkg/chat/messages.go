package chat

import (
	"context"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/smhrd/smartsearch/internal/authclient"
	"github.com/smhrd/smartsearch/internal/catalog"
	"github.com/smhrd/smartsearch/internal/conversation"
)

// replyMsg fires when the simulated bot delay for query has elapsed
type replyMsg struct {
	query string
}

// catalogMsg carries a reloaded catalog from the watcher
type catalogMsg struct {
	catalog *catalog.Catalog
	ch      <-chan *catalog.Catalog
}

// catalogWatchMsg reports that the watcher goroutine started
type catalogWatchMsg struct {
	ch     <-chan *catalog.Catalog
	cancel context.CancelFunc
}

// authResultMsg is the outcome of a login or signup round trip
type authResultMsg struct {
	signup  bool
	email   string
	session *authclient.Session
	err     error
}

func scheduleReply(query string) tea.Cmd {
	return tea.Tick(conversation.ReplyDelay, func(time.Time) tea.Msg {
		return replyMsg{query: query}
	})
}

// watchCatalog starts catalog.Watch in the background. Reloads are handed to
// the program one at a time through a channel.
func (m Model) watchCatalog() tea.Cmd {
	path := m.opts.CatalogPath
	return func() tea.Msg {
		ctx, cancel := context.WithCancel(context.Background())
		ch := make(chan *catalog.Catalog, 1)
		go func() {
			defer close(ch)
			err := catalog.Watch(ctx, path, func(c *catalog.Catalog) {
				select {
				case ch <- c:
				case <-ctx.Done():
				}
			})
			if err != nil {
				slog.Warn("catalog watch stopped", "err", err)
			}
		}()
		return catalogWatchMsg{ch: ch, cancel: cancel}
	}
}

func waitCatalog(ch <-chan *catalog.Catalog) tea.Cmd {
	return func() tea.Msg {
		c, ok := <-ch
		if !ok {
			return nil
		}
		return catalogMsg{catalog: c, ch: ch}
	}
}

func (m Model) handleReply(msg replyMsg) (tea.Model, tea.Cmd) {
	m.Chat.Answer(msg.query)
	m.Pending = false
	return m, nil
}

// handleCatalog swaps in a reloaded catalog. Favorites, selection and API key
// connections are kept.
func (m Model) handleCatalog(msg catalogMsg) (tea.Model, tea.Cmd) {
	m.Files.Replace(msg.catalog.Files)
	m.Drive.SetDefinitions(msg.catalog.Folders, m.Files.Files())
	m.clampSidebarCursor()
	m.setStatus("카탈로그를 다시 불러왔습니다.", false)
	if msg.ch == nil {
		return m, nil
	}
	return m, waitCatalog(msg.ch)
}

// syncTree rebuilds the explorer when the connected key changed
func (m *Model) syncTree() {
	if tok := m.Keys.Token(); tok != m.Drive.Token() {
		m.Drive.Rebuild(tok, m.Files.Files())
		m.clampSidebarCursor()
	}
}
