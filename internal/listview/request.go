package listview

import (
	"context"

	"github.com/Makepad-fr/recipes/internal/model"
)

// Op identifies which request produced a Result.
type Op int

const (
	OpList Op = iota
	OpCreate
	OpUpdate
	OpDelete
)

func (o Op) String() string {
	switch o {
	case OpList:
		return "list"
	case OpCreate:
		return "create"
	case OpUpdate:
		return "update"
	case OpDelete:
		return "delete"
	}
	return "unknown"
}

func (o Op) failureMessage() string {
	switch o {
	case OpList:
		return "failed to fetch recipes"
	case OpCreate:
		return "failed to create recipe"
	case OpUpdate:
		return "failed to update recipe"
	case OpDelete:
		return "failed to delete recipe"
	}
	return "recipe request failed"
}

// Result is the outcome of one request, to be passed to Apply.
type Result struct {
	Op Op
	// ID is the target recipe for update and delete.
	ID int
	// Seq identifies the save for OpUpdate.
	Seq uint64
	// Recipes is the fetched list for OpList.
	Recipes []model.Recipe
	Err     error
}

// RequestList fetches the collection.
func (v *View) RequestList(ctx context.Context) Result {
	recipes, err := v.coll.List(ctx)
	return Result{Op: OpList, Recipes: recipes, Err: err}
}

// RequestCreate posts r.
func (v *View) RequestCreate(ctx context.Context, r model.Recipe) Result {
	return Result{Op: OpCreate, Err: v.coll.Create(ctx, r)}
}

// RequestUpdate puts s.Recipe at its ID.
func (v *View) RequestUpdate(ctx context.Context, s Save) Result {
	return Result{Op: OpUpdate, ID: s.Recipe.ID, Seq: s.Seq, Err: v.coll.Update(ctx, s.Recipe)}
}

// RequestDelete deletes the recipe with id.
func (v *View) RequestDelete(ctx context.Context, id int) Result {
	return Result{Op: OpDelete, ID: id, Err: v.coll.Delete(ctx, id)}
}
