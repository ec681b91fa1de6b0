package casework

import (
	"fmt"

	"github.com/rpggio/casedesk/internal/domain/definition"
)

// ValidateTransition checks that target is reachable from the persisted status
// under the case's definition version.
func ValidateTransition(def *definition.Version, persisted, target string) error {
	if def == nil {
		return ErrDefinitionNotLoaded
	}
	if !def.CanTransition(persisted, target) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, persisted, target)
	}
	return nil
}

// CanCancel checks that the case is open and has never been updated.
func CanCancel(c *Case) error {
	if c == nil {
		return ErrInvalidInput
	}
	if c.Status != definition.StatusOpen || !c.IsNew() {
		return ErrCannotCancel
	}
	return nil
}
