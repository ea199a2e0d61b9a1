package expr

import (
	"math"
	"sort"
	"strings"

	"github.com/YuminosukeSato/curvefit/pkg/errors"
)

// DefaultAlias is the alias under which the numpy-style library is always
// available.
const DefaultAlias = "np"

// Func is a callable library function.
type Func struct {
	Name    string
	MinArgs int
	MaxArgs int
	Fn      func(args []float64) float64
}

func unary(name string, fn func(float64) float64) Func {
	return Func{Name: name, MinArgs: 1, MaxArgs: 1, Fn: func(a []float64) float64 { return fn(a[0]) }}
}

func binary(name string, fn func(float64, float64) float64) Func {
	return Func{Name: name, MinArgs: 2, MaxArgs: 2, Fn: func(a []float64) float64 { return fn(a[0], a[1]) }}
}

// Library is a named set of functions and constants.
type Library struct {
	Name   string
	Funcs  map[string]Func
	Consts map[string]float64
}

// NewLibrary creates an empty library.
func NewLibrary(name string) *Library {
	return &Library{Name: name, Funcs: map[string]Func{}, Consts: map[string]float64{}}
}

func (l *Library) add(fns ...Func) *Library {
	for _, f := range fns {
		l.Funcs[f.Name] = f
	}
	return l
}

// Environment maps aliases to libraries and holds top-level bindings.
// It is read-only once models have been compiled against it.
type Environment struct {
	libs   map[string]*Library
	funcs  map[string]Func
	consts map[string]float64
}

// NewEnvironment returns an environment with nothing bound.
func NewEnvironment() *Environment {
	return &Environment{
		libs:   map[string]*Library{},
		funcs:  map[string]Func{},
		consts: map[string]float64{},
	}
}

// DefaultEnvironment returns an environment with numpy bound to "np".
func DefaultEnvironment() *Environment {
	env := NewEnvironment()
	env.Import(DefaultAlias, Numpy())
	return env
}

// Import binds lib under alias, replacing any previous binding.
func (e *Environment) Import(alias string, lib *Library) *Environment {
	e.libs[alias] = lib
	return e
}

// Define binds a top-level constant.
func (e *Environment) Define(name string, v float64) *Environment {
	e.consts[name] = v
	return e
}

// DefineFunc binds a top-level function of fixed arity.
func (e *Environment) DefineFunc(name string, arity int, fn func(args []float64) float64) *Environment {
	e.funcs[name] = Func{Name: name, MinArgs: arity, MaxArgs: arity, Fn: fn}
	return e
}

// Clone returns a shallow copy that can be extended independently.
func (e *Environment) Clone() *Environment {
	c := NewEnvironment()
	for k, v := range e.libs {
		c.libs[k] = v
	}
	for k, v := range e.funcs {
		c.funcs[k] = v
	}
	for k, v := range e.consts {
		c.consts[k] = v
	}
	return c
}

// Aliases returns every name the normalizer should blank: library aliases
// and top-level bindings, longest first.
func (e *Environment) Aliases() []string {
	names := make([]string, 0, len(e.libs)+len(e.funcs)+len(e.consts))
	for k := range e.libs {
		names = append(names, k)
	}
	for k := range e.funcs {
		names = append(names, k)
	}
	for k := range e.consts {
		names = append(names, k)
	}
	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) > len(names[j])
		}
		return names[i] < names[j]
	})
	return names
}

// Libraries returns the bound aliases in sorted order.
func (e *Environment) Libraries() []string {
	out := make([]string, 0, len(e.libs))
	for k := range e.libs {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// lookupFunc resolves "alias.name" or a top-level function name.
func (e *Environment) lookupFunc(name string) (Func, bool) {
	if alias, member, ok := strings.Cut(name, "."); ok {
		lib, found := e.libs[alias]
		if !found {
			return Func{}, false
		}
		f, found := lib.Funcs[member]
		return f, found
	}
	f, ok := e.funcs[name]
	return f, ok
}

// lookupConst resolves "alias.name" or a top-level constant name.
func (e *Environment) lookupConst(name string) (float64, bool) {
	if alias, member, ok := strings.Cut(name, "."); ok {
		lib, found := e.libs[alias]
		if !found {
			return 0, false
		}
		v, found := lib.Consts[member]
		return v, found
	}
	v, ok := e.consts[name]
	return v, ok
}

// registry lists the libraries that can be imported by name.
var registry = map[string]func() *Library{
	"numpy": Numpy,
	"math":  Math,
}

// LookupLibrary returns a fresh copy of a registered library.
func LookupLibrary(name string) (*Library, error) {
	ctor, ok := registry[name]
	if !ok {
		return nil, errors.NewUnknownLibraryError(name)
	}
	return ctor(), nil
}

// ResolveLibraries builds an environment from import specs such as "math",
// "numpy as n" or "math as m". "np" is always bound.
func ResolveLibraries(specs ...string) (*Environment, error) {
	env := DefaultEnvironment()
	for _, spec := range specs {
		fields := strings.Fields(spec)
		var name, alias string
		switch {
		case len(fields) == 1:
			name, alias = fields[0], fields[0]
		case len(fields) == 3 && fields[1] == "as":
			name, alias = fields[0], fields[2]
		default:
			return nil, errors.NewUnknownLibraryError(strings.TrimSpace(spec))
		}
		lib, err := LookupLibrary(name)
		if err != nil {
			return nil, err
		}
		env.Import(alias, lib)
	}
	return env, nil
}

// Numpy returns the numpy-style library.
func Numpy() *Library {
	lib := NewLibrary("numpy").add(
		unary("sin", math.Sin), unary("cos", math.Cos), unary("tan", math.Tan),
		unary("arcsin", math.Asin), unary("arccos", math.Acos), unary("arctan", math.Atan),
		unary("sinh", math.Sinh), unary("cosh", math.Cosh), unary("tanh", math.Tanh),
		unary("arcsinh", math.Asinh), unary("arccosh", math.Acosh), unary("arctanh", math.Atanh),
		unary("exp", math.Exp), unary("expm1", math.Expm1), unary("exp2", math.Exp2),
		unary("log", math.Log), unary("log10", math.Log10), unary("log2", math.Log2), unary("log1p", math.Log1p),
		unary("sqrt", math.Sqrt), unary("cbrt", math.Cbrt), unary("square", func(v float64) float64 { return v * v }),
		unary("abs", math.Abs), unary("absolute", math.Abs), unary("fabs", math.Abs),
		unary("sign", sign), unary("floor", math.Floor), unary("ceil", math.Ceil),
		unary("deg2rad", func(v float64) float64 { return v * math.Pi / 180 }),
		unary("rad2deg", func(v float64) float64 { return v * 180 / math.Pi }),
		binary("arctan2", math.Atan2), binary("power", math.Pow), binary("hypot", math.Hypot),
		binary("maximum", math.Max), binary("minimum", math.Min),
	)
	lib.Consts["pi"] = math.Pi
	lib.Consts["e"] = math.E
	lib.Consts["inf"] = math.Inf(1)
	return lib
}

// Math returns the library modeled on Python's math module.
func Math() *Library {
	lib := NewLibrary("math").add(
		unary("sin", math.Sin), unary("cos", math.Cos), unary("tan", math.Tan),
		unary("asin", math.Asin), unary("acos", math.Acos), unary("atan", math.Atan),
		unary("sinh", math.Sinh), unary("cosh", math.Cosh), unary("tanh", math.Tanh),
		unary("asinh", math.Asinh), unary("acosh", math.Acosh), unary("atanh", math.Atanh),
		unary("exp", math.Exp), unary("expm1", math.Expm1),
		unary("log10", math.Log10), unary("log2", math.Log2), unary("log1p", math.Log1p),
		unary("sqrt", math.Sqrt), unary("fabs", math.Abs), unary("floor", math.Floor), unary("ceil", math.Ceil),
		unary("erf", math.Erf), unary("erfc", math.Erfc), unary("gamma", math.Gamma),
		unary("lgamma", func(v float64) float64 { r, _ := math.Lgamma(v); return r }),
		unary("degrees", func(v float64) float64 { return v * 180 / math.Pi }),
		unary("radians", func(v float64) float64 { return v * math.Pi / 180 }),
		binary("atan2", math.Atan2), binary("pow", math.Pow), binary("hypot", math.Hypot),
		binary("fmod", math.Mod), binary("copysign", math.Copysign),
	)
	// log(x) or log(x, base)
	lib.Funcs["log"] = Func{Name: "log", MinArgs: 1, MaxArgs: 2, Fn: func(a []float64) float64 {
		if len(a) == 2 {
			return math.Log(a[0]) / math.Log(a[1])
		}
		return math.Log(a[0])
	}}
	lib.Consts["pi"] = math.Pi
	lib.Consts["e"] = math.E
	lib.Consts["tau"] = 2 * math.Pi
	lib.Consts["inf"] = math.Inf(1)
	return lib
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	case v == 0:
		return 0
	}
	return v
}
