package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// SessionStatus is the persisted name of a session state
type SessionStatus string

const (
	StatusAwaitingEmail           SessionStatus = "awaiting_email"
	StatusAwaitingUseConfirmation SessionStatus = "awaiting_use_confirmation"
	StatusAwaitingPersonSelection SessionStatus = "awaiting_person_selection"
	StatusAwaitingInputText       SessionStatus = "awaiting_input_text"
	StatusAwaitingGeneratedReply  SessionStatus = "awaiting_generated_reply"
	StatusAwaitingActualReplyText SessionStatus = "awaiting_actual_reply_text"
	StatusCompleted               SessionStatus = "completed"
	StatusCancelled               SessionStatus = "cancelled"
)

// TerminalStatuses are excluded from active session lookups
var TerminalStatuses = []SessionStatus{StatusCompleted, StatusCancelled}

// IsTerminal reports whether the flow has finished
func (s SessionStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// ErrSessionConflict is returned when a session was modified or created
// concurrently by another delivery for the same conversation.
var ErrSessionConflict = errors.New("session was modified concurrently")

// SessionState is one step of the conversation flow. Each implementation
// carries exactly the data that is valid in that step.
type SessionState interface {
	Status() SessionStatus
	encode(rec *SessionRecord)
}

// AwaitingEmail waits for an unlinked user to identify themselves
type AwaitingEmail struct{}

// AwaitingUseConfirmation asks whether the user wants a reply suggestion
type AwaitingUseConfirmation struct {
	AccountID string
}

// AwaitingPersonSelection waits for the user to pick a person
type AwaitingPersonSelection struct {
	AccountID string
}

// AwaitingInputText waits for what the reply should be about
type AwaitingInputText struct {
	AccountID string
	PersonID  uuid.UUID
}

// AwaitingGeneratedReply is recorded while a suggestion is being produced.
// The engine commits straight to AwaitingActualReplyText, so rows in this
// state only come from older writers.
type AwaitingGeneratedReply struct {
	AccountID string
	PersonID  uuid.UUID
	InputText string
}

// AwaitingActualReplyText holds the suggestion until the user sends the real reply
type AwaitingActualReplyText struct {
	AccountID      string
	PersonID       uuid.UUID
	InputText      string
	SuggestedReply string
}

// Completed is the terminal state of a finished or declined flow.
// From is the last active state.
type Completed struct {
	From SessionState
}

// Cancelled is the terminal state reached through a cancellation keyword.
// From is the state the session was in when it was cancelled.
type Cancelled struct {
	From SessionState
}

// UnknownState preserves a row whose status this build does not recognize
type UnknownState struct {
	Record SessionRecord
}

func (AwaitingEmail) Status() SessionStatus           { return StatusAwaitingEmail }
func (AwaitingUseConfirmation) Status() SessionStatus { return StatusAwaitingUseConfirmation }
func (AwaitingPersonSelection) Status() SessionStatus { return StatusAwaitingPersonSelection }
func (AwaitingInputText) Status() SessionStatus       { return StatusAwaitingInputText }
func (AwaitingGeneratedReply) Status() SessionStatus  { return StatusAwaitingGeneratedReply }
func (AwaitingActualReplyText) Status() SessionStatus { return StatusAwaitingActualReplyText }
func (Completed) Status() SessionStatus               { return StatusCompleted }
func (Cancelled) Status() SessionStatus               { return StatusCancelled }
func (u UnknownState) Status() SessionStatus          { return u.Record.Status }

func (AwaitingEmail) encode(rec *SessionRecord) {}

func (s AwaitingUseConfirmation) encode(rec *SessionRecord) {
	rec.AccountID = &s.AccountID
}

func (s AwaitingPersonSelection) encode(rec *SessionRecord) {
	rec.AccountID = &s.AccountID
}

func (s AwaitingInputText) encode(rec *SessionRecord) {
	rec.AccountID = &s.AccountID
	rec.PersonID = &s.PersonID
}

func (s AwaitingGeneratedReply) encode(rec *SessionRecord) {
	rec.AccountID = &s.AccountID
	rec.PersonID = &s.PersonID
	rec.InputText = &s.InputText
}

func (s AwaitingActualReplyText) encode(rec *SessionRecord) {
	rec.AccountID = &s.AccountID
	rec.PersonID = &s.PersonID
	rec.InputText = &s.InputText
	rec.SuggestedReply = &s.SuggestedReply
}

func (s Completed) encode(rec *SessionRecord) {
	if s.From != nil {
		s.From.encode(rec)
	}
}

func (s Cancelled) encode(rec *SessionRecord) {
	if s.From != nil {
		s.From.encode(rec)
	}
}

func (u UnknownState) encode(rec *SessionRecord) {
	rec.AccountID = u.Record.AccountID
	rec.PersonID = u.Record.PersonID
	rec.InputText = u.Record.InputText
	rec.SuggestedReply = u.Record.SuggestedReply
}

// Session is one in-progress or finished multi-turn flow for a conversation
type Session struct {
	ID             uuid.UUID
	ConversationID string
	TriggerText    string
	State          SessionState
	// Version is zero for a session that has not been stored yet
	Version   int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Status returns the persisted status of the current state
func (s *Session) Status() SessionStatus {
	if s.State == nil {
		return ""
	}
	return s.State.Status()
}

// SessionRecord is the flat row layout of the sessions table
type SessionRecord struct {
	ID             uuid.UUID     `json:"id"`
	ConversationID string        `json:"conversation_id"`
	Status         SessionStatus `json:"status"`
	AccountID      *string       `json:"account_id,omitempty"`
	PersonID       *uuid.UUID    `json:"person_id,omitempty"`
	TriggerText    string        `json:"trigger_text"`
	InputText      *string       `json:"input_text,omitempty"`
	SuggestedReply *string       `json:"suggested_reply,omitempty"`
	Version        int           `json:"version"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// EncodeSession flattens a session into its row representation
func EncodeSession(s *Session) SessionRecord {
	rec := SessionRecord{
		ID:             s.ID,
		ConversationID: s.ConversationID,
		Status:         s.Status(),
		TriggerText:    s.TriggerText,
		Version:        s.Version,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
	if s.State != nil {
		s.State.encode(&rec)
	}
	return rec
}

// DecodeSession rebuilds a session from its row. Rows whose fields do not
// satisfy their status decode to UnknownState so that nothing is lost.
func DecodeSession(rec SessionRecord) *Session {
	return &Session{
		ID:             rec.ID,
		ConversationID: rec.ConversationID,
		TriggerText:    rec.TriggerText,
		State:          decodeState(rec),
		Version:        rec.Version,
		CreatedAt:      rec.CreatedAt,
		UpdatedAt:      rec.UpdatedAt,
	}
}

func decodeState(rec SessionRecord) SessionState {
	switch rec.Status {
	case StatusCompleted:
		return Completed{From: inferActiveState(rec)}
	case StatusCancelled:
		return Cancelled{From: inferActiveState(rec)}
	}

	if st, ok := decodeActiveState(rec); ok {
		return st
	}
	return UnknownState{Record: rec}
}

func decodeActiveState(rec SessionRecord) (SessionState, bool) {
	account := deref(rec.AccountID)
	switch rec.Status {
	case StatusAwaitingEmail:
		return AwaitingEmail{}, true
	case StatusAwaitingUseConfirmation:
		if account == "" {
			return nil, false
		}
		return AwaitingUseConfirmation{AccountID: account}, true
	case StatusAwaitingPersonSelection:
		if account == "" {
			return nil, false
		}
		return AwaitingPersonSelection{AccountID: account}, true
	case StatusAwaitingInputText:
		if account == "" || rec.PersonID == nil {
			return nil, false
		}
		return AwaitingInputText{AccountID: account, PersonID: *rec.PersonID}, true
	case StatusAwaitingGeneratedReply:
		if account == "" || rec.PersonID == nil || rec.InputText == nil {
			return nil, false
		}
		return AwaitingGeneratedReply{
			AccountID: account,
			PersonID:  *rec.PersonID,
			InputText: *rec.InputText,
		}, true
	case StatusAwaitingActualReplyText:
		if account == "" || rec.PersonID == nil || rec.InputText == nil || rec.SuggestedReply == nil {
			return nil, false
		}
		return AwaitingActualReplyText{
			AccountID:      account,
			PersonID:       *rec.PersonID,
			InputText:      *rec.InputText,
			SuggestedReply: *rec.SuggestedReply,
		}, true
	}
	return nil, false
}

// inferActiveState picks the furthest active state the terminal row's
// fields can describe.
func inferActiveState(rec SessionRecord) SessionState {
	candidates := []SessionStatus{
		StatusAwaitingActualReplyText,
		StatusAwaitingGeneratedReply,
		StatusAwaitingInputText,
		StatusAwaitingUseConfirmation,
	}
	for _, status := range candidates {
		candidate := rec
		candidate.Status = status
		if st, ok := decodeActiveState(candidate); ok {
			return st
		}
	}
	return AwaitingEmail{}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// SessionRepository defines the interface for session storage.
// Callers serialize access per conversation; Save rejects stale writes with
// ErrSessionConflict.
type SessionRepository interface {
	// FindActive returns the most recently created non-terminal session,
	// or nil when there is none.
	FindActive(ctx context.Context, conversationID string) (*Session, error)

	// Save inserts a new session (Version == 0) or updates an existing one,
	// optionally inserting a reply example in the same transaction. On
	// success the session's Version is advanced.
	Save(ctx context.Context, session *Session, example *ReplyExample) error

	// ListByConversation returns recent sessions, newest first
	ListByConversation(ctx context.Context, conversationID string, limit int) ([]SessionRecord, error)
}
