package catalog

import (
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
)

// schema constrains CUE catalogues and supplies defaults. Definitions are
// closed, so misspelled fields are rejected.
const schema = `
#Decay: {
	br: number & >=0
	daughters: [...(string | int)]
}

#Species: {
	name:        string
	pdg:         int
	mass:        number & >=0
	width:       *0 | number & >=0
	degeneracy:  *1 | int & >=1
	parity:      *0 | -1 | 1
	baryon:      *0 | int
	charge:      *0 | int
	strangeness: *0 | int
	charm:       *0 | int
	abs_strange: *0 | number & >=0
	abs_charm:   *0 | number & >=0
	stable:      *false | bool
	decays:      *[] | [...#Decay]
}

#Catalogue: {
	antiparticles: *false | bool
	species: [...#Species]
}
`

// CompileCUE decodes catalogue source held in memory.
func CompileCUE(src []byte, filename string) (*File, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(src, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, formatCUEError(ErrCodeParse, err)
	}
	return DecodeCUE(v)
}

// LoadCUEFile reads and decodes one .cue file.
func LoadCUEFile(path string) (*File, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("reading %s: %v", path, err)}
	}
	return CompileCUE(src, path)
}

// LoadCUEDir loads the CUE package in dir and decodes it.
func LoadCUEDir(dir string) (*File, error) {
	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return nil, &LoadError{Code: ErrCodeParse, Message: "no CUE instances loaded"}
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, formatCUEError(ErrCodeParse, inst.Err)
	}

	v := cuecontext.New().BuildInstance(inst)
	if err := v.Err(); err != nil {
		return nil, formatCUEError(ErrCodeParse, err)
	}
	return DecodeCUE(v)
}

// DecodeCUE checks v against the catalogue schema and decodes it.
func DecodeCUE(v cue.Value) (*File, error) {
	def := v.Context().CompileString(schema, cue.Filename("schema.cue")).
		LookupPath(cue.ParsePath("#Catalogue"))
	if err := def.Err(); err != nil {
		return nil, formatCUEError(ErrCodeGeneric, err)
	}

	unified := def.Unify(v)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(ErrCodeSchema, err)
	}

	f := &File{}
	anti, err := field(unified, "antiparticles").Bool()
	if err != nil {
		return nil, formatCUEError(ErrCodeSchema, err)
	}
	f.Antiparticles = anti

	iter, err := field(unified, "species").List()
	if err != nil {
		return nil, formatCUEError(ErrCodeSchema, err)
	}
	for iter.Next() {
		e, err := compileEntry(iter.Value())
		if err != nil {
			return nil, err
		}
		f.Species = append(f.Species, e)
	}
	return f, nil
}

func compileEntry(v cue.Value) (Entry, error) {
	e := Entry{Pos: fromToken(v.Pos())}
	var err error

	str := func(name string, dst *string) {
		if err == nil {
			*dst, err = field(v, name).String()
		}
	}
	integer := func(name string, dst *int) {
		if err == nil {
			var n int64
			n, err = field(v, name).Int64()
			*dst = int(n)
		}
	}
	number := func(name string, dst *float64) {
		if err == nil {
			*dst, err = field(v, name).Float64()
		}
	}

	str("name", &e.Name)
	if err == nil {
		e.PDG, err = field(v, "pdg").Int64()
	}
	number("mass", &e.Mass)
	number("width", &e.Width)
	integer("degeneracy", &e.Degeneracy)
	integer("parity", &e.Parity)
	integer("baryon", &e.Baryon)
	integer("charge", &e.Charge)
	integer("strangeness", &e.Strangeness)
	integer("charm", &e.Charm)
	number("abs_strange", &e.AbsStrange)
	number("abs_charm", &e.AbsCharm)
	if err == nil {
		e.Stable, err = field(v, "stable").Bool()
	}
	if err != nil {
		return e, formatCUEError(ErrCodeSchema, err)
	}

	decays, err := field(v, "decays").List()
	if err != nil {
		return e, formatCUEError(ErrCodeSchema, err)
	}
	for decays.Next() {
		d, err := compileDecay(decays.Value())
		if err != nil {
			return e, err
		}
		e.Decays = append(e.Decays, d)
	}
	return e, nil
}

func compileDecay(v cue.Value) (DecayEntry, error) {
	d := DecayEntry{Pos: fromToken(v.Pos())}

	br, err := field(v, "br").Float64()
	if err != nil {
		return d, formatCUEError(ErrCodeSchema, err)
	}
	d.BR = br

	iter, err := field(v, "daughters").List()
	if err != nil {
		return d, formatCUEError(ErrCodeSchema, err)
	}
	for iter.Next() {
		el := iter.Value()
		ref := DaughterRef{Pos: fromToken(el.Pos())}
		switch el.Kind() {
		case cue.StringKind:
			ref.Name, err = el.String()
		case cue.IntKind:
			ref.PDG, err = el.Int64()
		default:
			return d, &LoadError{
				Code: ErrCodeSchema, Field: "daughters",
				Message: fmt.Sprintf("daughter must be a name or identifier, got %v", el.Kind()), Pos: ref.Pos,
			}
		}
		if err != nil {
			return d, formatCUEError(ErrCodeSchema, err)
		}
		d.Daughters = append(d.Daughters, ref)
	}
	return d, nil
}

// field looks up a direct child, resolving schema defaults.
func field(v cue.Value, name string) cue.Value {
	f := v.LookupPath(cue.ParsePath(name))
	if d, ok := f.Default(); ok {
		return d
	}
	return f
}
