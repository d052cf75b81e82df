// Package session holds the per-connection survey state and the controller
// that moves it between login, password reset, submission and results.
package session

import "github.com/google/uuid"

// ResetStep is the position in the password reset flow.
type ResetStep string

const (
	ResetNone    ResetStep = ""
	ResetEmail   ResetStep = "email"
	ResetCode    ResetStep = "code"
	ResetNewPass ResetStep = "newpass"
)

// State belongs to exactly one connection. It is created on first contact
// and replaced by a fresh value on logout. Login gives it a new ID, which the
// controller registers as a live login.
type State struct {
	ID         string    `json:"id"`
	Logged     bool      `json:"logged"`
	User       string    `json:"user,omitempty"`
	UserEmail  string    `json:"user_email,omitempty"`
	Voted      bool      `json:"voted"`
	ResetStep  ResetStep `json:"reset_step,omitempty"`
	ResetEmail string    `json:"reset_email,omitempty"`
}

func NewState() *State {
	return &State{ID: uuid.NewString()}
}

func (s *State) clearReset() {
	s.ResetStep = ResetNone
	s.ResetEmail = ""
}

// Screen names the page a state should see.
type Screen string

const (
	ScreenAuth   Screen = "auth"
	ScreenSurvey Screen = "survey"
	ScreenThanks Screen = "thanks"
)

// Level grades an Outcome for display.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Outcome is the message shown after an action. Code carries a freshly
// issued reset code, which is displayed to the user.
type Outcome struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

func (o Outcome) Failed() bool {
	return o.Level == LevelError
}

func success(msg string) Outcome { return Outcome{Level: LevelSuccess, Message: msg} }
func failure(msg string) Outcome { return Outcome{Level: LevelError, Message: msg} }
