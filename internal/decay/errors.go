package decay

import (
	"errors"
	"fmt"

	"github.com/hqding/Thermal-FIST/internal/particle"
)

// ErrUnknownSpecies is returned for species indices outside the catalogue.
var ErrUnknownSpecies = errors.New("unknown species")

// IsDataIntegrityError returns true if err reports bad catalogue data,
// including daughters that could not be resolved before their parent.
func IsDataIntegrityError(err error) bool {
	return particle.IsIntegrityError(err, "")
}

func checkIndex(cat *particle.Catalogue, i int) error {
	if i < 0 || i >= cat.Len() {
		return fmt.Errorf("%w: index %d not in [0,%d)", ErrUnknownSpecies, i, cat.Len())
	}
	return nil
}
