package tui

import (
	"bytes"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
)

func TestPushProgressModel(t *testing.T) {
	DisableColor()
	var m tea.Model = newPushProgressModel("Pushing to owner/repo")

	m, _ = m.Update(pushReportMsg{percent: 40, message: "Processing batch 2 of 3"})
	view := m.View()
	require.Contains(t, view, "Pushing to owner/repo")
	require.Contains(t, view, "Processing batch 2 of 3")
	require.Contains(t, view, "40%")

	// percentages never move backwards
	m, _ = m.Update(pushReportMsg{percent: 30, message: "late report"})
	require.Equal(t, 40, m.(pushProgressModel).percent)

	m, cmd := m.Update(pushDoneMsg{})
	require.NotNil(t, cmd)
	require.True(t, m.(pushProgressModel).done)
	require.Contains(t, m.View(), "✓")
}

func TestPushProgressModelFailure(t *testing.T) {
	DisableColor()
	var m tea.Model = newPushProgressModel("Pushing")

	m, _ = m.Update(pushDoneMsg{err: errors.New("create tree failed")})
	view := m.View()
	require.Contains(t, view, "✗")
	require.Contains(t, view, "create tree failed")
}

func TestSimplePushProgress(t *testing.T) {
	t.Setenv("DEBUG", "")
	var buf bytes.Buffer
	splog, err := NewSplogWithConfig("", &buf)
	require.NoError(t, err)

	ui := NewSimplePushProgress(splog)
	ui.Start("Pushing 2 files to owner/repo")
	ui.Report(5, "Getting repository information...")
	ui.Report(5, "Getting repository information...")
	ui.Report(100, "Successfully pushed files to GitHub!")
	ui.Complete(nil)

	require.Equal(t, "Pushing 2 files to owner/repo\n"+
		"  [  5%] Getting repository information...\n"+
		"  [100%] Successfully pushed files to GitHub!\n", buf.String())
}
