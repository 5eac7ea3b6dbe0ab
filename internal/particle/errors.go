package particle

import (
	"errors"
	"fmt"
)

// IntegrityCode categorizes catalogue data-integrity problems.
type IntegrityCode string

const (
	// ErrCodeInvalidIndex indicates a daughter index outside the catalogue.
	ErrCodeInvalidIndex IntegrityCode = "INVALID_INDEX"

	// ErrCodeDuplicatePDG indicates two species share an identifier.
	ErrCodeDuplicatePDG IntegrityCode = "DUPLICATE_PDG"

	// ErrCodeChargeNotConserved indicates B, Q, S or C differs across a channel.
	ErrCodeChargeNotConserved IntegrityCode = "CHARGE_NOT_CONSERVED"

	// ErrCodeMassOrder indicates a daughter not strictly lighter than its parent.
	ErrCodeMassOrder IntegrityCode = "MASS_ORDER"

	// ErrCodeUnresolvedDaughter indicates a daughter that had not been
	// resolved when its parent was reached (cycle or forward reference).
	ErrCodeUnresolvedDaughter IntegrityCode = "UNRESOLVED_DAUGHTER"

	// ErrCodeDecayCycle indicates a species that decays back into itself.
	ErrCodeDecayCycle IntegrityCode = "DECAY_CYCLE"
)

// IntegrityError reports a problem with catalogue data.
//
// Species, Channel and Daughter are -1 when not applicable.
type IntegrityError struct {
	Code     IntegrityCode
	Species  int
	Channel  int
	Daughter int
	Message  string
}

// Error implements the error interface.
func (e *IntegrityError) Error() string {
	if e.Channel >= 0 {
		return fmt.Sprintf("%s: %s (species=%d, channel=%d)", e.Code, e.Message, e.Species, e.Channel)
	}
	if e.Species >= 0 {
		return fmt.Sprintf("%s: %s (species=%d)", e.Code, e.Message, e.Species)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsIntegrityError returns true if err wraps an IntegrityError with the given
// code, or any IntegrityError when code is empty.
func IsIntegrityError(err error, code IntegrityCode) bool {
	var ie *IntegrityError
	if errors.As(err, &ie) {
		return code == "" || ie.Code == code
	}
	return false
}

// NewUnresolvedDaughterError creates an IntegrityError for a daughter that
// was not resolved before its parent.
func NewUnresolvedDaughterError(species, channel, daughter int) *IntegrityError {
	return &IntegrityError{
		Code:     ErrCodeUnresolvedDaughter,
		Species:  species,
		Channel:  channel,
		Daughter: daughter,
		Message:  fmt.Sprintf("daughter %d is not resolved before its parent", daughter),
	}
}
