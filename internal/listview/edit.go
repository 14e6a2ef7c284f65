package listview

import (
	"github.com/Makepad-fr/recipes/internal/errors"
	"github.com/Makepad-fr/recipes/internal/model"
)

// BeginEdit puts the recipe with id in edit mode, seeding the draft with its
// current values. Any other unsaved draft is discarded.
func (v *View) BeginEdit(id int) error {
	r, ok := v.Find(id)
	if !ok {
		return errors.NewWithContext(errors.ErrCodeNotFound, "recipe not in list", map[string]any{"id": id})
	}
	if v.editing && v.editingID != id {
		v.logger.Debug("discarding unsaved edit", "id", v.editingID)
	}
	v.editing = true
	v.editingID = id
	v.draft = r
	v.savedSeq = 0
	return nil
}

// IsEditing reports whether a row is in edit mode.
func (v *View) IsEditing() bool { return v.editing }

// IsEditingRow reports whether the row with id is the one being edited.
func (v *View) IsEditingRow(id int) bool { return v.editing && v.editingID == id }

// Draft returns the in-progress values of the active edit.
func (v *View) Draft() (model.Recipe, bool) {
	if !v.editing {
		return model.Recipe{}, false
	}
	return v.draft, true
}

// SetDraft replaces the in-progress title and body. No-op outside edit mode.
func (v *View) SetDraft(title, body string) {
	if !v.editing {
		return
	}
	v.setDraft(title, body)
}

// SetDraftTitle replaces the in-progress title.
func (v *View) SetDraftTitle(title string) {
	if v.editing {
		v.setDraft(title, v.draft.Body)
	}
}

// SetDraftBody replaces the in-progress body.
func (v *View) SetDraftBody(body string) {
	if v.editing {
		v.setDraft(v.draft.Title, body)
	}
}

// setDraft forgets the pending save once the draft differs from what it sent.
func (v *View) setDraft(title, body string) {
	if title == v.draft.Title && body == v.draft.Body {
		return
	}
	v.draft.Title = title
	v.draft.Body = body
	v.savedSeq = 0
}

// CancelEdit leaves edit mode without saving.
func (v *View) CancelEdit() { v.endEdit() }

// Save is one submitted edit. Seq tells it apart from later saves of the
// same row.
type Save struct {
	Recipe model.Recipe
	Seq    uint64
}

// PrepareSave returns the save to send for the active edit. Under
// CloseOnFailure edit mode ends here, before the request is made. Under
// KeepOpenOnFailure it ends when this save succeeds, unless the draft was
// changed or the edit reopened in the meantime.
func (v *View) PrepareSave() (Save, error) {
	if !v.editing {
		return Save{}, errors.New(errors.ErrCodeNotEditing, "no recipe is being edited")
	}
	v.saveSeq++
	s := Save{
		Recipe: model.Recipe{ID: v.editingID, Title: v.draft.Title, Body: v.draft.Body},
		Seq:    v.saveSeq,
	}
	if v.savePolicy == CloseOnFailure {
		v.endEdit()
	} else {
		v.savedSeq = s.Seq
	}
	return s, nil
}

func (v *View) endEdit() {
	v.editing = false
	v.editingID = model.UnsavedID
	v.draft = model.Recipe{}
	v.savedSeq = 0
}
