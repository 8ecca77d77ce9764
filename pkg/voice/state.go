package voice

import (
	"fmt"
	"sync"
)

// State is one phase of a voice interaction.
type State string

const (
	StateIdle       State = "idle"
	StateListening  State = "listening"
	StateProcessing State = "processing"
	StatePlaying    State = "playing"
)

// Session is the state machine for one voice interaction cycle:
// idle -> listening -> processing -> playing -> idle. A failure at any
// point returns the session to idle and clears transient text.
type Session struct {
	mu         sync.Mutex
	state      State
	transcript string
	reply      string
}

func NewSession() *Session {
	return &Session{state: StateIdle}
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) Transcript() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transcript
}

func (s *Session) Reply() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reply
}

// StartListening begins a new recording. Starting over is allowed from
// idle only; a session that is processing or playing rejects the attempt.
func (s *Session) StartListening() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateIdle {
		return fmt.Errorf("cannot start listening while %s", s.state)
	}
	s.state = StateListening
	s.transcript = ""
	s.reply = ""
	return nil
}

// StopListening ends the recording and moves to processing. An empty
// transcript is still a valid transition; callers resolve it to idle
// via Fail or Reset without treating it as fatal.
func (s *Session) StopListening(transcript string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateListening {
		return fmt.Errorf("cannot stop listening while %s", s.state)
	}
	s.state = StateProcessing
	s.transcript = transcript
	return nil
}

// BeginPlayback records that synthesized audio arrived and playback started.
func (s *Session) BeginPlayback(reply string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateProcessing {
		return fmt.Errorf("cannot begin playback while %s", s.state)
	}
	s.state = StatePlaying
	s.reply = reply
	return nil
}

// FinishPlayback returns the session to idle after audio ends.
func (s *Session) FinishPlayback() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StatePlaying {
		return fmt.Errorf("cannot finish playback while %s", s.state)
	}
	s.state = StateIdle
	return nil
}

// Fail aborts the cycle from any state, clearing transient text.
func (s *Session) Fail() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = StateIdle
	s.transcript = ""
	s.reply = ""
}
