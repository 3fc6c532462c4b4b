package parser

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/toyz/measuregen/internal/annotations"
	"github.com/toyz/measuregen/internal/models"
)

const calculatorSource = `package calc

import (
	"context"
	"fmt"
	"io"
)

// Calculator adds numbers.
//
//di::component -Scope=singleton
type Calculator struct {
	seed int
}

// NewCalculator builds a Calculator.
func NewCalculator(seed int, /*cfg::optional*/ name string) *Calculator {
	return &Calculator{seed: seed}
}

// Add sums two numbers.
//
//measure::measured
//audit::log -Level=debug
func (c *Calculator) Add(a /*check::positive*/ int, /*check::nonzero*/ b int) (sum /*units::count*/ int) {
	return a + b + c.seed
}

func (c Calculator) Describe(w io.Writer, args ...interface{}) (int, error) {
	return fmt.Fprint(w, args...)
}

func (c *Calculator) Wait(context.Context, int) {}

func (c *Calculator) Skip(ctx context.Context, _ int) {}

func (c *Calculator) reset() {}

func helper() {}
`

var calcID = models.TypeIdentity{Namespace: "example.com/calc", Name: "Calculator"}

func qualifiedNames(list annotations.List) []string {
	var out []string
	for _, a := range list {
		out = append(out, a.QualifiedName())
	}
	return out
}

func TestCollect(t *testing.T) {
	p := NewParser()

	pkg, err := p.ParseFiles("calc", "example.com/calc", map[string]string{
		"calc/b.go": `package calc

type Timer struct{}

// Tick is measured.
//
// measure::measured
func (t *Timer) Tick() {}

//other::measured
func (t *Timer) Tock() {}

type cache struct{}

//measure::measured
func (c *cache) evict() {}
`,
		"calc/a.go": `package calc

type Calculator struct{}

//measure::measured
func (c *Calculator) Add(a, b int) int { return a + b }

func (c *Calculator) Sub(a, b int) int { return a - b }

//measure::measured
func (c Calculator) Mul(a, b int) int { return a * b }

//measure::measured
func (c *Calculator) round() {}
`,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"calc/a.go", "calc/b.go"}, pkg.Files)

	found := p.Collect(pkg)
	require.Len(t, found, 2)

	calc := found[calcID]
	require.Len(t, calc, 2)
	assert.Equal(t, "Add", calc[0].Name)
	assert.Equal(t, "Mul", calc[1].Name)
	assert.Equal(t, models.Position{File: "calc/a.go", Line: 6}, calc[0].Position)

	timer := found[models.TypeIdentity{Namespace: "example.com/calc", Name: "Timer"}]
	require.Len(t, timer, 1)
	assert.Equal(t, "Tick", timer[0].Name)

	// unexported methods are never forwarded, so their marker selects nothing
	assert.NotContains(t, found, models.TypeIdentity{Namespace: "example.com/calc", Name: "cache"})
}

func TestCollectKeepsMalformedMarker(t *testing.T) {
	p := NewParser()

	pkg, err := p.ParseSource("timer.go", `package timer

type Timer struct{}

//measure::measured -Unit=
func (t *Timer) Tick() {}
`, "example.com/timer")
	require.NoError(t, err)

	id := models.TypeIdentity{Namespace: "example.com/timer", Name: "Timer"}
	found := p.Collect(pkg)
	require.Contains(t, found, id)

	_, err = p.ReadPublicSurface(pkg, "Timer")
	require.Error(t, err)

	var genErr *models.GeneratorError
	require.True(t, errors.As(err, &genErr))
	assert.Equal(t, models.ErrorKindSyntax, genErr.Kind)
	assert.Equal(t, id, genErr.Type)
	assert.Equal(t, "timer.go", genErr.File)
	assert.Equal(t, 5, genErr.Line)
	assert.NotEmpty(t, genErr.Suggestions)
}

func TestReadPublicSurface(t *testing.T) {
	p := NewParser()

	pkg, err := p.ParseSource("calc/calc.go", calculatorSource, "example.com/calc")
	require.NoError(t, err)

	decl, err := p.ReadPublicSurface(pkg, "Calculator")
	require.NoError(t, err)

	assert.Equal(t, "Calculator", decl.Name)
	assert.Equal(t, "example.com/calc", decl.Namespace)
	assert.Equal(t, "calc", decl.PackageName)
	assert.Equal(t, "calc", decl.Dir)
	assert.Equal(t, models.Position{File: "calc/calc.go", Line: 12}, decl.Position)
	assert.Empty(t, decl.TypeParams)

	t.Run("type annotations", func(t *testing.T) {
		require.Len(t, decl.Annotations, 1)
		assert.Equal(t, "di::component", decl.Annotations[0].QualifiedName())
		scope, ok := decl.Annotations[0].Param("Scope")
		assert.True(t, ok)
		assert.Equal(t, "singleton", scope)
	})

	t.Run("constructor", func(t *testing.T) {
		require.Len(t, decl.Constructors, 1)
		ctor := decl.Constructors[0]
		assert.Equal(t, "NewCalculator", ctor.Name)
		assert.True(t, ctor.ReturnsPointer)
		require.Len(t, ctor.Parameters, 2)
		assert.Equal(t, "seed", ctor.Parameters[0].Name)
		assert.Equal(t, "int", ctor.Parameters[0].Type)
		assert.Equal(t, "name", ctor.Parameters[1].Name)
		assert.Equal(t, []string{"cfg::optional"}, qualifiedNames(ctor.Parameters[1].Annotations))
	})

	t.Run("methods in source order", func(t *testing.T) {
		var names []string
		for _, m := range decl.Methods {
			names = append(names, m.Name)
		}
		assert.Equal(t, []string{"Add", "Describe", "Wait", "Skip"}, names)
	})

	t.Run("measured method", func(t *testing.T) {
		add := decl.Methods[0]
		assert.True(t, add.IsMeasured())
		assert.Equal(t, []string{"measure::measured", "audit::log"}, qualifiedNames(add.Annotations))
		assert.True(t, add.Modifiers.Has(models.ModifierPointerReceiver))

		require.Len(t, add.Parameters, 2)
		assert.Equal(t, "a", add.Parameters[0].Name)
		assert.Empty(t, add.Parameters[0].Annotations)
		assert.Equal(t, []string{"check::positive"}, qualifiedNames(add.Parameters[0].TypeAnnotations))
		assert.Equal(t, "b", add.Parameters[1].Name)
		assert.Equal(t, []string{"check::nonzero"}, qualifiedNames(add.Parameters[1].Annotations))
		assert.Empty(t, add.Parameters[1].TypeAnnotations)

		require.NotNil(t, add.Returns)
		require.Len(t, add.Returns.Results, 1)
		assert.Equal(t, "sum", add.Returns.Results[0].Name)
		assert.Equal(t, "int", add.Returns.Results[0].Type)
		assert.Equal(t, []string{"units::count"}, qualifiedNames(add.Returns.Results[0].Annotations))
	})

	t.Run("variadic value receiver", func(t *testing.T) {
		describe := decl.Methods[1]
		assert.False(t, describe.IsMeasured())
		assert.Equal(t, models.Modifiers{models.ModifierExported}, describe.Modifiers)

		require.Len(t, describe.Parameters, 2)
		assert.Equal(t, "io.Writer", describe.Parameters[0].Type)
		assert.False(t, describe.Parameters[0].Variadic)
		assert.Equal(t, "args", describe.Parameters[1].Name)
		assert.Equal(t, "interface{}", describe.Parameters[1].Type)
		assert.True(t, describe.Parameters[1].Variadic)

		require.Len(t, describe.Returns.Results, 2)
		assert.Equal(t, "int", describe.Returns.Results[0].Type)
		assert.Equal(t, "error", describe.Returns.Results[1].Type)
	})

	t.Run("unnamed parameters and no results", func(t *testing.T) {
		wait := decl.Methods[2]
		require.Len(t, wait.Parameters, 2)
		assert.Equal(t, "", wait.Parameters[0].Name)
		assert.Equal(t, "context.Context", wait.Parameters[0].Type)
		assert.Equal(t, "", wait.Parameters[1].Name)
		assert.Equal(t, "int", wait.Parameters[1].Type)
		assert.True(t, wait.Returns.IsVoid())
	})

	t.Run("blank parameter", func(t *testing.T) {
		skip := decl.Methods[3]
		require.Len(t, skip.Parameters, 2)
		assert.Equal(t, "ctx", skip.Parameters[0].Name)
		assert.Equal(t, "_", skip.Parameters[1].Name)
		assert.Equal(t, "int", skip.Parameters[1].Type)
	})

	t.Run("imports", func(t *testing.T) {
		assert.Equal(t, []models.Import{
			{Path: "context"},
			{Path: "fmt"},
			{Path: "io"},
		}, decl.Imports)
	})
}

func TestReadPublicSurfaceWithoutConstructor(t *testing.T) {
	p := NewParser()

	pkg, err := p.ParseSource("greeter.go", `package greet

type Greeter struct{}

// NewGreeterName is not a constructor: it returns a string.
func NewGreeterName() string { return "greeter" }

//measure::measured
func (g Greeter) Hello() string { return "hello" }
`, "example.com/greet")
	require.NoError(t, err)

	decl, err := p.ReadPublicSurface(pkg, "Greeter")
	require.NoError(t, err)
	assert.Empty(t, decl.Constructors)
	require.Len(t, decl.Methods, 1)
	assert.Equal(t, "Hello", decl.Methods[0].Name)
}

func TestReadPublicSurfaceValueConstructors(t *testing.T) {
	p := NewParser()

	pkg, err := p.ParseSource("point.go", `package geo

type Point struct{ X, Y int }

func NewPoint(x, y int) Point { return Point{x, y} }

func NewPointOrigin() (p Point) { return }

func (p Point) Len() int { return p.X + p.Y }
`, "example.com/geo")
	require.NoError(t, err)

	decl, err := p.ReadPublicSurface(pkg, "Point")
	require.NoError(t, err)
	require.Len(t, decl.Constructors, 2)
	assert.False(t, decl.Constructors[0].ReturnsPointer)
	assert.Len(t, decl.Constructors[0].Parameters, 2)
	assert.Equal(t, "NewPointOrigin", decl.Constructors[1].Name)
}

func TestReadPublicSurfaceErrorReturningConstructor(t *testing.T) {
	p := NewParser()

	pkg, err := p.ParseSource("store.go", `package store

import "errors"

type Store struct{ dsn string }

func NewStore(dsn string) (*Store, error) {
	if dsn == "" {
		return nil, errors.New("empty dsn")
	}
	return &Store{dsn: dsn}, nil
}

//measure::measured
func (s *Store) DSN() string { return s.dsn }
`, "example.com/store")
	require.NoError(t, err)

	decl, err := p.ReadPublicSurface(pkg, "Store")
	require.NoError(t, err)
	require.Len(t, decl.Constructors, 1)

	ctor := decl.Constructors[0]
	assert.Equal(t, "NewStore", ctor.Name)
	assert.True(t, ctor.ReturnsPointer)
	assert.True(t, ctor.ReturnsError)
	require.Len(t, ctor.Parameters, 1)
	assert.Equal(t, "dsn", ctor.Parameters[0].Name)
}

func TestReadPublicSurfaceUnsupportedConstructor(t *testing.T) {
	p := NewParser()

	tests := []struct {
		name    string
		results string
	}{
		{"non-error second result", "(*Store, bool)"},
		{"three results", "(s *Store, n int, err error)"},
		{"two named stores", "(a, b *Store)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pkg, err := p.ParseSource("store.go", "package store\n\ntype Store struct{}\n\n"+
				"func NewStore() "+tt.results+" { return }\n\n"+
				"//measure::measured\nfunc (s *Store) Ping() {}\n", "example.com/store")
			require.NoError(t, err)

			_, err = p.ReadPublicSurface(pkg, "Store")
			require.Error(t, err)
			assert.True(t, errors.Is(err, models.ErrUnsupportedShape))

			var genErr *models.GeneratorError
			require.True(t, errors.As(err, &genErr))
			assert.Equal(t, "store.go", genErr.File)
			assert.Equal(t, 5, genErr.Line)
			assert.Contains(t, genErr.Message, "constructor NewStore")
			assert.NotEmpty(t, genErr.Suggestions)
		})
	}
}

func TestReadPublicSurfaceGeneric(t *testing.T) {
	p := NewParser()

	pkg, err := p.ParseSource("box.go", `package box

type Box[T any] struct{ v T }

//measure::measured
func (b *Box[T]) Get() T { return b.v }
`, "example.com/box")
	require.NoError(t, err)

	found := p.Collect(pkg)
	require.Contains(t, found, models.TypeIdentity{Namespace: "example.com/box", Name: "Box"})

	decl, err := p.ReadPublicSurface(pkg, "Box")
	require.NoError(t, err)
	assert.Equal(t, []string{"T"}, decl.TypeParams)
	require.Len(t, decl.Methods, 1)
	assert.Equal(t, "T", decl.Methods[0].Returns.Results[0].Type)
}

func TestReadPublicSurfaceErrors(t *testing.T) {
	p := NewParser()

	pkg, err := p.ParseSource("bad.go", `package bad

type Shape interface{ Area() float64 }

type Alias = Square

type Square struct{}

func (s *Square) Area(w /*check::min -Value=*/ float64, h /*check::min -Value=*/ float64) float64 {
	return w * h
}
`, "example.com/bad")
	require.NoError(t, err)

	t.Run("missing type", func(t *testing.T) {
		_, err := p.ReadPublicSurface(pkg, "Circle")
		var genErr *models.GeneratorError
		require.True(t, errors.As(err, &genErr))
		assert.Equal(t, models.ErrorKindValidation, genErr.Kind)
	})

	t.Run("interface", func(t *testing.T) {
		_, err := p.ReadPublicSurface(pkg, "Shape")
		assert.True(t, errors.Is(err, models.ErrUnsupportedShape))
	})

	t.Run("alias", func(t *testing.T) {
		_, err := p.ReadPublicSurface(pkg, "Alias")
		assert.True(t, errors.Is(err, models.ErrUnsupportedShape))
	})

	t.Run("every malformed annotation is reported", func(t *testing.T) {
		_, err := p.ReadPublicSurface(pkg, "Square")
		require.Error(t, err)

		errs := multierr.Errors(err)
		require.Len(t, errs, 2)
		for _, e := range errs {
			var genErr *models.GeneratorError
			require.True(t, errors.As(e, &genErr))
			assert.Equal(t, models.ErrorKindSyntax, genErr.Kind)
			assert.Equal(t, 9, genErr.Line)
		}
	})
}

func TestParseDirectory(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}

	write("calc.go", calculatorSource)
	write("calc_test.go", "package calc_test\n")
	write(".hidden.go", "package other\n")
	write("notes.txt", "not go")
	write("autogen_measured_calculator.go", `// Code generated by measuregen. DO NOT EDIT.

package calc

type MeasuredCalculator struct{ wrapper *Calculator }

//measure::measured
func (measured *MeasuredCalculator) Add(a, b int) int { return measured.wrapper.Add(a, b) }
`)

	p := NewParser()
	pkg, err := p.ParseDirectory(dir, "example.com/calc")
	require.NoError(t, err)

	assert.Equal(t, "calc", pkg.Name)
	assert.Equal(t, []string{filepath.Join(dir, "calc.go")}, pkg.Files)

	found := p.Collect(pkg)
	assert.Len(t, found, 1)
	assert.Contains(t, found, calcID)
}

func TestParseDirectoryErrors(t *testing.T) {
	p := NewParser()

	t.Run("no files", func(t *testing.T) {
		_, err := p.ParseDirectory(t.TempDir(), "example.com/empty")
		assert.True(t, errors.Is(err, ErrNoSourceFiles))
	})

	t.Run("missing directory", func(t *testing.T) {
		_, err := p.ParseDirectory(filepath.Join(t.TempDir(), "missing"), "example.com/missing")
		assert.Error(t, err)
	})

	t.Run("multiple packages", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "a.go"), []byte("package a\n"), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "b.go"), []byte("package b\n"), 0o644))

		_, err := p.ParseDirectory(dir, "example.com/mixed")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "multiple packages")
	})

	t.Run("syntax error", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "a.go"), []byte("package a\nfunc {"), 0o644))

		_, err := p.ParseDirectory(dir, "example.com/broken")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse")
	})
}
