package game

import (
	"errors"
	"fmt"
)

var (
	// ErrCatalog matches any *CatalogError with errors.Is.
	ErrCatalog = errors.New("catalog error")
	// ErrCombatPrecondition matches any *CombatPreconditionError with errors.Is.
	ErrCombatPrecondition = errors.New("combat precondition violated")
)

// CatalogError reports malformed or missing template data. It is fatal to
// game initialization.
type CatalogError struct {
	Template string
	Reason   string
}

func (e *CatalogError) Error() string {
	if e.Template == "" {
		return fmt.Sprintf("catalog: %s", e.Reason)
	}
	return fmt.Sprintf("catalog: template %q: %s", e.Template, e.Reason)
}

func (e *CatalogError) Is(target error) bool { return target == ErrCatalog }

// CombatPreconditionError reports a resolver call with an ineligible card.
// Correct phase gating never produces one.
type CombatPreconditionError struct {
	CardID string
	Reason string
}

func (e *CombatPreconditionError) Error() string {
	return fmt.Sprintf("combat precondition: card %q: %s", e.CardID, e.Reason)
}

func (e *CombatPreconditionError) Is(target error) bool { return target == ErrCombatPrecondition }
