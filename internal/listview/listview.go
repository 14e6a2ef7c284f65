// Package listview holds the recipe list state and the operations that keep
// it in sync with the remote collection.
//
// Every operation is split in two halves. The Request* methods only perform
// I/O and return a Result; they never touch view state and can run on any
// goroutine. Apply folds a Result into the state and must be called from the
// goroutine that owns the View (the Bubble Tea Update loop, or the caller of
// the synchronous methods). After a successful write Apply asks for a full
// reload instead of patching the list locally.
package listview

import (
	"context"
	"log/slog"

	"github.com/Makepad-fr/recipes/internal/errors"
	"github.com/Makepad-fr/recipes/internal/model"
)

// RefreshOnWrite reloads the whole collection after every successful write.
const RefreshOnWrite = true

// SavePolicy decides what happens to the edit form when saving fails.
type SavePolicy int

const (
	// CloseOnFailure leaves edit mode as soon as the save is issued.
	CloseOnFailure SavePolicy = iota
	// KeepOpenOnFailure leaves edit mode only once the save succeeded.
	KeepOpenOnFailure
)

// Collection is the remote recipe collection. *api.Client implements it.
type Collection interface {
	List(ctx context.Context) ([]model.Recipe, error)
	Create(ctx context.Context, r model.Recipe) error
	Update(ctx context.Context, r model.Recipe) error
	Delete(ctx context.Context, id int) error
}

// Option configures a View.
type Option func(*View)

// WithSavePolicy sets the edit form behavior on save failure.
func WithSavePolicy(p SavePolicy) Option {
	return func(v *View) { v.savePolicy = p }
}

// WithLogger sets the logger failures are reported to.
func WithLogger(l *slog.Logger) Option {
	return func(v *View) {
		if l != nil {
			v.logger = l
		}
	}
}

// View is the recipe list with at most one row in edit mode.
type View struct {
	coll       Collection
	logger     *slog.Logger
	savePolicy SavePolicy

	recipes []model.Recipe

	// editing mirrors whether editingID/draft describe an active edit.
	editing   bool
	editingID int
	draft     model.Recipe

	// saveSeq numbers saves; savedSeq is the save whose content still
	// matches the open draft, or 0.
	saveSeq  uint64
	savedSeq uint64

	lastErr error
}

// New creates an empty view backed by coll.
func New(coll Collection, opts ...Option) *View {
	v := &View{
		coll:    coll,
		logger:  slog.Default(),
		recipes: []model.Recipe{},
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Recipes returns a copy of the list in server order.
func (v *View) Recipes() []model.Recipe {
	return append([]model.Recipe{}, v.recipes...)
}

// Len returns the number of recipes in the list.
func (v *View) Len() int { return len(v.recipes) }

// Find returns the listed recipe with id.
func (v *View) Find(id int) (model.Recipe, bool) {
	for _, r := range v.recipes {
		if r.ID == id {
			return r, true
		}
	}
	return model.Recipe{}, false
}

// LastError returns the most recent failure, or nil after a success.
func (v *View) LastError() error { return v.lastErr }

// SavePolicy returns the configured save failure policy.
func (v *View) SavePolicy() SavePolicy { return v.savePolicy }

// FetchAll reloads the list. On failure the list is left unchanged.
func (v *View) FetchAll(ctx context.Context) error {
	return v.run(ctx, v.RequestList(ctx))
}

// Create asks the server to create a placeholder recipe.
func (v *View) Create(ctx context.Context) error {
	return v.CreateRecipe(ctx, model.NewPlaceholder())
}

// CreateRecipe asks the server to create r.
func (v *View) CreateRecipe(ctx context.Context, r model.Recipe) error {
	return v.run(ctx, v.RequestCreate(ctx, r))
}

// SaveEdit sends the active edit to the server. Edit mode ends according to
// the save policy.
func (v *View) SaveEdit(ctx context.Context) error {
	s, err := v.PrepareSave()
	if err != nil {
		return err
	}
	return v.run(ctx, v.RequestUpdate(ctx, s))
}

// DeleteOne removes the recipe with id on the server.
func (v *View) DeleteOne(ctx context.Context, id int) error {
	return v.run(ctx, v.RequestDelete(ctx, id))
}

func (v *View) run(ctx context.Context, res Result) error {
	if v.Apply(res) {
		v.refresh(ctx)
	}
	return res.Err
}

// refresh is the single reload path used after successful writes. Its own
// failure is recorded in LastError but does not fail the write.
func (v *View) refresh(ctx context.Context) {
	v.Apply(v.RequestList(ctx))
}

// Apply folds res into the view and reports whether the list must be
// reloaded.
func (v *View) Apply(res Result) bool {
	if res.Err != nil {
		v.lastErr = res.Err
		attrs := append([]any{"op", res.Op.String(), "id", res.ID}, errors.LogAttrs(res.Err)...)
		v.logger.Error(res.Op.failureMessage(), attrs...)
		return false
	}
	v.lastErr = nil

	switch res.Op {
	case OpList:
		v.recipes = res.Recipes
		if v.recipes == nil {
			v.recipes = []model.Recipe{}
		}
		if v.editing {
			if _, ok := v.Find(v.editingID); !ok {
				v.logger.Debug("edited recipe no longer listed, leaving edit mode", "id", v.editingID)
				v.endEdit()
			}
		}
		return false
	case OpUpdate:
		if v.savePolicy == KeepOpenOnFailure && v.editing && v.editingID == res.ID {
			if res.Seq != 0 && res.Seq == v.savedSeq {
				v.endEdit()
			} else {
				v.logger.Debug("draft changed after save, keeping edit open", "id", res.ID, "seq", res.Seq)
			}
		}
		return RefreshOnWrite
	case OpCreate, OpDelete:
		return RefreshOnWrite
	}
	return false
}
