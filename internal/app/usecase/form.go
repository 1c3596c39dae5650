package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/kawabatas/olympics-catalog/internal/domain/model"
	"github.com/kawabatas/olympics-catalog/internal/domain/repository"
)

// ユーザーに表示するメッセージ
const (
	msgRetrySave   = "There was an error storing the data. Please try again."
	msgRetryDelete = "There was an error deleting the %s. Please try again."
	msgReferenced  = "The %s is in use and cannot be deleted."
	msgGone        = "The %s no longer exists."
)

// Outcome is what a form reports back to the adapter after Save or Delete.
type Outcome struct {
	OK      bool            `json:"ok"`
	ID      int64           `json:"id,omitempty"`
	Kind    repository.Kind `json:"-"`
	Invalid bool            `json:"-"`
	Message string          `json:"message"`
}

// Selection is the state of the edit panel after the user picks an item.
// Deletable drives whether the delete action is offered at all.
type Selection[T model.Entity] struct {
	Item      T    `json:"item"`
	Deletable bool `json:"deletable"`
}

type formOptions struct {
	atomicDelete bool
}

type Option func(*formOptions)

// WithAtomicDelete makes Delete run the reference check and the delete in
// one transaction instead of two calls.
func WithAtomicDelete(on bool) Option {
	return func(o *formOptions) { o.atomicDelete = on }
}

// Form orchestrates one catalogue repository for an edit screen: it lists
// items, validates input, and turns repository results into messages.
type Form[T model.Entity] struct {
	noun string
	repo repository.CatalogRepository[T]
	opts formOptions
}

func NewForm[T model.Entity](noun string, repo repository.CatalogRepository[T], opts ...Option) *Form[T] {
	f := &Form[T]{noun: noun, repo: repo}
	for _, o := range opts {
		o(&f.opts)
	}
	return f
}

func (f *Form[T]) Noun() string { return f.noun }

// Load re-queries storage for the selection widget; the list is never nil.
func (f *Form[T]) Load(ctx context.Context) ([]T, error) {
	return f.repo.List(ctx)
}

func (f *Form[T]) Get(ctx context.Context, id int64) (T, error) {
	return f.repo.GetByID(ctx, id)
}

// Select computes whether item may be deleted. Errors count as not deletable.
func (f *Form[T]) Select(ctx context.Context, item T) Selection[T] {
	ok, err := f.repo.IsDeletable(ctx, item)
	if err != nil {
		slog.WarnContext(ctx, "form: deletable check failed", slog.String("form", f.noun), slog.Any("error", err))
	}
	return Selection[T]{Item: item, Deletable: ok && err == nil}
}

// Save inserts input when current is nil, otherwise replaces current's row
// with every field of input.
func (f *Form[T]) Save(ctx context.Context, current *T, input T) Outcome {
	if err := input.Validate(); err != nil {
		var ve *model.ValidationError
		if errors.As(err, &ve) {
			return Outcome{Invalid: true, Message: fmt.Sprintf("The %s field is not valid: %s.", ve.Field, ve.Message)}
		}
		return Outcome{Invalid: true, Message: err.Error()}
	}

	if current == nil {
		id, err := f.repo.Insert(ctx, input)
		if err != nil || id == model.InvalidID {
			return Outcome{Kind: repository.KindOf(err), Message: msgRetrySave}
		}
		return Outcome{OK: true, ID: id, Message: title(f.noun) + " added successfully."}
	}

	if err := f.repo.Update(ctx, *current, input); err != nil {
		kind := repository.KindOf(err)
		if kind == repository.KindNotFound {
			return Outcome{Kind: kind, Message: fmt.Sprintf(msgGone, f.noun)}
		}
		return Outcome{Kind: kind, Message: msgRetrySave}
	}
	return Outcome{OK: true, ID: (*current).Key(), Message: title(f.noun) + " updated successfully."}
}

// Delete asks IsDeletable first and only deletes when it answered true.
// Between the two calls another session may add a reference; atomic mode
// closes that window.
func (f *Form[T]) Delete(ctx context.Context, item T) Outcome {
	if f.opts.atomicDelete {
		return f.deleteOutcome(item, f.repo.DeleteIfUnreferenced(ctx, item))
	}

	ok, err := f.repo.IsDeletable(ctx, item)
	if err != nil {
		return f.deleteOutcome(item, err)
	}
	if !ok {
		return f.deleteOutcome(item, repository.ErrIntegrityViolation)
	}
	return f.deleteOutcome(item, f.repo.Delete(ctx, item))
}

func (f *Form[T]) deleteOutcome(item T, err error) Outcome {
	switch kind := repository.KindOf(err); kind {
	case repository.KindNone:
		return Outcome{OK: true, ID: item.Key(), Message: title(f.noun) + " deleted successfully."}
	case repository.KindIntegrityViolation:
		return Outcome{Kind: kind, Message: fmt.Sprintf(msgReferenced, f.noun)}
	case repository.KindNotFound:
		return Outcome{Kind: kind, Message: fmt.Sprintf(msgGone, f.noun)}
	default:
		return Outcome{Kind: kind, Message: fmt.Sprintf(msgRetryDelete, f.noun)}
	}
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
