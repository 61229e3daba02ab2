package console

import "zayro/models"

// FormState is exactly one of Idle, Creating, Editing or ConfirmingDelete.
type FormState interface {
	mode() FormMode
}

type FormMode string

const (
	ModeIdle             FormMode = "idle"
	ModeCreating         FormMode = "creating"
	ModeEditing          FormMode = "editing"
	ModeConfirmingDelete FormMode = "confirming-delete"
)

type Idle struct{}

type Creating struct {
	Fields models.JobFields
}

// Editing keeps the record id apart from the editable fields.
type Editing struct {
	JobID  string
	Fields models.JobFields
}

type ConfirmingDelete struct {
	Target DeleteTarget
}

func (Idle) mode() FormMode             { return ModeIdle }
func (Creating) mode() FormMode         { return ModeCreating }
func (Editing) mode() FormMode          { return ModeEditing }
func (ConfirmingDelete) mode() FormMode { return ModeConfirmingDelete }

type TargetKind string

const (
	KindJob         TargetKind = "job"
	KindApplication TargetKind = "application"
)

type DeleteTarget struct {
	Kind TargetKind `json:"kind"`
	ID   string     `json:"id"`
}

func (k TargetKind) valid() bool { return k == KindJob || k == KindApplication }

// fieldsOf returns the job form fields when f is an open job form.
func fieldsOf(f FormState) (models.JobFields, bool) {
	switch f := f.(type) {
	case Creating:
		return f.Fields, true
	case Editing:
		return f.Fields, true
	}
	return models.JobFields{}, false
}
