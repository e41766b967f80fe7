package main

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/zhouzirui/chatbot-widget/backend/internal/model/chat"
)

var (
	userStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	botStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	typingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true)
)

// terminalView renders the conversation as lines on a terminal.
type terminalView struct {
	mu      sync.Mutex
	out     io.Writer
	botName string
}

func newTerminalView(out io.Writer, botName string) *terminalView {
	return &terminalView{out: out, botName: botName}
}

func (v *terminalView) Append(msg chat.Message) {
	v.mu.Lock()
	defer v.mu.Unlock()

	label := userStyle.Render("you")
	if msg.Sender == chat.SenderBot {
		label = botStyle.Render(v.botName)
	}
	fmt.Fprintf(v.out, "%s: %s\n", label, msg.Text)
}

func (v *terminalView) SetTyping(typing bool) {
	if !typing {
		return
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	fmt.Fprintln(v.out, typingStyle.Render(strings.ToLower(v.botName)+" is typing..."))
}

// ClearInput is a no-op: the line editor starts every prompt empty.
func (v *terminalView) ClearInput() {}
