package particle

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
const (
	DomainCatalogue = "decaychain/catalogue/v1"
)

// hashWithDomain computes SHA256(domain + 0x00 + data).
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// catalogueObject is the canonical form hashed into the catalogue version.
// Only input fields take part; fields filled by the decay engine do not.
func catalogueObject(species []Species) []any {
	list := make([]any, len(species))
	for i, s := range species {
		channels := make([]any, len(s.Channels))
		for j, c := range s.Channels {
			daughters := make([]any, len(c.Daughters))
			for k, d := range c.Daughters {
				daughters[k] = d
			}
			channels[j] = map[string]any{
				"br":        c.BranchingRatio,
				"daughters": daughters,
			}
		}
		list[i] = map[string]any{
			"pdg":         s.PDG,
			"name":        s.Name,
			"mass":        s.Mass,
			"width":       s.Width,
			"degeneracy":  s.Degeneracy,
			"parity":      s.Parity,
			"baryon":      s.Baryon,
			"charge":      s.Charge,
			"strangeness": s.Strangeness,
			"charm":       s.Charm,
			"abs_strange": s.AbsStrange,
			"abs_charm":   s.AbsCharm,
			"stable":      s.Stable,
			"channels":    channels,
		}
	}
	return list
}

// CatalogueVersion returns the content hash of a species list.
func CatalogueVersion(species []Species) (string, error) {
	canonical, err := MarshalCanonical(catalogueObject(species))
	if err != nil {
		return "", fmt.Errorf("CatalogueVersion: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainCatalogue, canonical), nil
}
