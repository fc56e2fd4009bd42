// Package screen holds the state every console screen shares: the modal form
// and the redraw hook.
package screen

import (
	"errors"

	"github.com/google/uuid"

	"github.com/jwalitptl/care-console/internal/model"
	apperrors "github.com/jwalitptl/care-console/pkg/errors"
)

// ErrStaleForm rejects a submit whose form token is not the one currently issued.
var ErrStaleForm = errors.New("form was already submitted or has expired")

// Observer is told once after every mutation so the view can redraw.
type Observer func()

func (o Observer) Notify() {
	if o != nil {
		o()
	}
}

// Modal is a dialog with a draft under edit. At most one is open per screen.
type Modal[T any] struct {
	Open  bool
	Mode  model.Mode
	Draft T
	Error string
	// Token identifies the open form; each one can be submitted once.
	Token string
}

func (m *Modal[T]) Show(mode model.Mode, draft T) {
	m.Open = true
	m.Mode = mode
	m.Draft = draft
	m.Error = ""
	m.Token = uuid.NewString()
}

func (m *Modal[T]) Hide() {
	var zero T
	m.Open = false
	m.Mode = model.ModeCreate
	m.Draft = zero
	m.Error = ""
	m.Token = ""
}

// Claim consumes token. A fresh token is issued so a failed save can be retried
// from the redrawn form but not from the old one.
func (m *Modal[T]) Claim(token string) error {
	if !m.Open || token == "" || token != m.Token {
		return &apperrors.AppError{Code: apperrors.ErrConflict, Message: "stale form", Err: ErrStaleForm}
	}
	m.Token = uuid.NewString()
	return nil
}

// Editing reports whether the open form edits an existing entity.
func (m *Modal[T]) Editing() bool {
	return m.Open && m.Mode == model.ModeEdit
}
