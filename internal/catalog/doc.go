// Package catalog loads species catalogues from CUE and YAML files.
//
// Both formats share one schema: a top-level species list, in catalogue
// order, where each entry carries identity, mass, width, quantum numbers,
// the stability flag and a list of decays. Daughters refer to other species
// by name or by PDG identifier:
//
//	species: [
//		{name: "pi+", pdg: 211, mass: 0.13957, charge: 1, stable: true},
//		{name: "pi-", pdg: -211, mass: 0.13957, charge: -1, stable: true},
//		{name: "rho0", pdg: 113, mass: 0.775, width: 0.149, degeneracy: 3,
//			decays: [{br: 1, daughters: ["pi+", "pi-"]}]},
//	]
//
// CUE files are checked against a closed schema that also supplies
// defaults; YAML files are decoded strictly. Errors carry file positions
// where the format provides them.
package catalog
