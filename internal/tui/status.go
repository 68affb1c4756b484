package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Canonical short status messages used across the app.
const (
	MsgRefreshing     = "Refreshing…"
	MsgAddingSource   = "Adding source…"
	MsgRenaming       = "Renaming…"
	MsgDeleting       = "Deleting…"
	MsgLoadingArticle = "Loading article…"
	MsgLoadingMore    = "Loading more…"
	MsgSourceRenamed  = "Source renamed"
	MsgSourceDeleted  = "Source deleted"
	MsgSyncFinished   = "Background sync finished"
)

func MsgAddedSource(title string) string {
	return fmt.Sprintf("Added '%s'", strings.TrimSpace(title))
}

func MsgRefreshed(title string, count int) string {
	return fmt.Sprintf("Refreshed %s • %d articles", title, count)
}

func MsgResultsCount(n int) string {
	if n == 1 {
		return "1 result"
	}
	return fmt.Sprintf("%d results", n)
}

// statusTTL is how long a transient status message stays up before the help
// line takes the row back.
const statusTTL = 4 * time.Second

// statusState is the single advisory surface: one line, one message at a
// time, newest wins. The seq guards expiry ticks from clearing a newer
// message.
type statusState struct {
	text string
	kind StatusKind
	seq  int
}

// setStatus replaces the status line and schedules its expiry. Sync and load
// failures land here as advisory text; nothing in the cache or sync path
// ever blocks the UI on an error.
func (a *App) setStatus(text string, kind StatusKind) tea.Cmd {
	a.status.text = text
	a.status.kind = kind
	a.status.seq++
	if text == "" {
		return nil
	}
	seq := a.status.seq
	return tea.Tick(statusTTL, func(time.Time) tea.Msg {
		return statusExpireMsg{seq: seq}
	})
}

func (a *App) statusStyle(kind StatusKind) func(...string) string {
	switch kind {
	case StatusSuccess:
		return StatusSuccessStyle.Render
	case StatusWarn:
		return StatusWarnStyle.Render
	case StatusError:
		return StatusErrorStyle.Render
	default:
		return StatusInfoStyle.Render
	}
}
