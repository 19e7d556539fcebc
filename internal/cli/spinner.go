package cli

import (
	"context"
	"io"
	"os"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerInterval = 80 * time.Millisecond

type (
	spinnerTickMsg struct{}
	spinnerStopMsg struct{}
)

// spinnerModel is the bubbletea model behind Spinner.
type spinnerModel struct {
	message string
	frame   int
	done    bool
}

func spinnerTick() tea.Cmd {
	return tea.Tick(spinnerInterval, func(time.Time) tea.Msg { return spinnerTickMsg{} })
}

func (m spinnerModel) Init() tea.Cmd {
	return spinnerTick()
}

func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg.(type) {
	case spinnerTickMsg:
		if m.done {
			return m, nil
		}
		m.frame = (m.frame + 1) % len(spinnerFrames)
		return m, spinnerTick()
	case spinnerStopMsg:
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m spinnerModel) View() string {
	if m.done {
		return ""
	}
	return styleIconSpinner.Render(spinnerFrames[m.frame]) + " " + StyleDim.Render(m.message)
}

// Spinner animates a message on stderr while a long operation runs.
type Spinner struct {
	parent  context.Context
	cancel  context.CancelFunc
	program *tea.Program
	stopped chan struct{}

	mu      sync.Mutex
	started bool
	halted  bool
}

// newSpinner creates a new spinner with the given message.
func newSpinner(message string) *Spinner {
	return newSpinnerWithContext(context.Background(), message)
}

// newSpinnerWithContext creates a spinner that will stop when the context is cancelled.
func newSpinnerWithContext(ctx context.Context, message string) *Spinner {
	return newSpinnerTo(ctx, os.Stderr, message)
}

func newSpinnerTo(ctx context.Context, w io.Writer, message string) *Spinner {
	spinnerCtx, cancel := context.WithCancel(ctx)
	p := tea.NewProgram(spinnerModel{message: message},
		tea.WithContext(spinnerCtx),
		tea.WithOutput(w),
		tea.WithInput(nil),
		tea.WithoutSignalHandler(),
	)
	return &Spinner{
		parent:  ctx,
		cancel:  cancel,
		program: p,
		stopped: make(chan struct{}),
	}
}

// Start begins the spinner animation.
func (s *Spinner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	s.started = true
	go func() {
		defer close(s.stopped)
		_, _ = s.program.Run()
	}()
}

// Stop stops the spinner and clears the line.
func (s *Spinner) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.halted {
		return
	}
	s.halted = true
	if !s.started {
		s.cancel()
		return
	}
	// Send blocks until the program reads it or its context ends.
	go s.program.Send(spinnerStopMsg{})
	select {
	case <-s.stopped:
	case <-time.After(time.Second):
		s.cancel()
		<-s.stopped
	}
	s.cancel()
}

// StopWithSuccess stops the spinner and shows a success message.
func (s *Spinner) StopWithSuccess(message string) {
	s.Stop()
	printSuccess("%s", message)
}

// StopWithError stops the spinner and shows an error message.
func (s *Spinner) StopWithError(message string) {
	s.Stop()
	printError("%s", message)
}

// Cancelled returns true if the spinner's context was cancelled.
func (s *Spinner) Cancelled() bool {
	return s.parent.Err() != nil
}
