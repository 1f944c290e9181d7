package classparser

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const vehiclesConfig = `
// Vehicle definitions.
class CfgVehicles {
	class Car {
		wheels = 4;
		model = "car.p3d";
	};
	class FastCar : Car {
		speed = 200;
	};
};
`

func TestParseConfigGroupScoping(t *testing.T) {
	p := New(nil)
	reg, err := p.Parse(vehiclesConfig, "config.cpp")
	require.NoError(t, err)
	require.Equal(t, 2, reg.Len())

	car, ok := reg.Get("CfgVehicles", "Car")
	require.True(t, ok)
	assert.Equal(t, "CfgVehicles", car.Group)
	assert.Equal(t, float64(4), car.Properties["wheels"].Num)
	assert.Equal(t, KindPath, car.Properties["model"].Kind)

	props, ok := p.Hierarchy().AllProperties("CfgVehicles", "FastCar")
	require.True(t, ok)
	assert.Equal(t, float64(4), props["wheels"].Num)
	assert.Equal(t, float64(200), props["speed"].Num)
}

func TestParseUnrecognizedContextFallsBackToDefaultGroup(t *testing.T) {
	p := New(nil)
	reg, err := p.Parse(`class MyMod { units[] = {}; };`, "config.cpp")
	require.NoError(t, err)

	c, ok := reg.Get(DefaultGroup, "MyMod")
	require.True(t, ok)
	assert.Equal(t, DefaultGroup, c.Group)
}

func TestParseNestedClassIsolation(t *testing.T) {
	p := New(nil)
	reg, err := p.Parse(`class Outer { class Inner { a = 1; }; b = 2; };`, "config.cpp")
	require.NoError(t, err)

	outer, ok := reg.Get(DefaultGroup, "Outer")
	require.True(t, ok)
	assert.Contains(t, outer.Properties, "b")
	assert.NotContains(t, outer.Properties, "a")

	inner, ok := reg.Get(DefaultGroup, "Outer.Inner")
	require.True(t, ok)
	assert.Equal(t, float64(1), inner.Properties["a"].Num)
}

func TestParseForwardDeclaration(t *testing.T) {
	p := New(nil)
	reg, err := p.Parse(`class Forward; class Real : Forward { x = 1; };`, "config.cpp")
	require.NoError(t, err)

	fwd, ok := reg.Get(DefaultGroup, "Forward")
	require.True(t, ok)
	assert.Empty(t, fwd.Properties)

	props, ok := p.Hierarchy().AllProperties(DefaultGroup, "Real")
	require.True(t, ok)
	assert.Len(t, props, 1)
}

func TestParseCycleQuarantine(t *testing.T) {
	p := New(nil)
	reg, err := p.Parse(`class A : B {}; class B : C {}; class C : A {};`, "config.cpp")
	require.NoError(t, err)

	assert.Equal(t, 0, reg.Len())
	assert.Len(t, p.Hierarchy().Invalid(), 3)
}

func TestParseEnumBlock(t *testing.T) {
	p := New(nil)
	reg, err := p.Parse(`enum DamageType { kinetic = 0; explosive = 1; };`, "config.cpp")
	require.NoError(t, err)

	c, ok := reg.Get(DefaultGroup, "DamageType")
	require.True(t, ok)
	assert.True(t, c.Enum)
	assert.Equal(t, float64(1), c.Properties["explosive"].Num)
}

func TestParseEmptyContent(t *testing.T) {
	p := New(nil)

	for _, content := range []string{"", "   \n\t", "// only a comment", "x = 1;"} {
		reg, err := p.Parse(content, "config.cpp")
		require.NoError(t, err, "content=%q", content)
		assert.Equal(t, 0, reg.Len())
	}
}

func TestParseMalformedBlockSkipped(t *testing.T) {
	p := New(nil)
	reg, err := p.Parse("class : Base {}; class Good { x = 1; };", "config.cpp")
	require.NoError(t, err)

	_, ok := reg.Get(DefaultGroup, "Good")
	assert.True(t, ok)
}

func TestParseRecordsProvenance(t *testing.T) {
	p := New(nil)
	reg, err := p.Parse("class First { x = 1; };\nclass Second { y = 2; };", "addons/weapons/config.cpp")
	require.NoError(t, err)

	second, ok := reg.Get(DefaultGroup, "Second")
	require.True(t, ok)
	assert.Equal(t, "addons/weapons/config.cpp", second.SourceFile)
	assert.Equal(t, 2, second.LineNumber)
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("utf8 content", func(t *testing.T) {
		path := filepath.Join(dir, "config.cpp")
		require.NoError(t, os.WriteFile(path, []byte(vehiclesConfig), 0o644))

		p := New(nil)
		reg, err := p.ParseFile(path, FileSource{PBOPath: "addons/cars.pbo", ModName: "@cars"})
		require.NoError(t, err)

		car, ok := reg.Get("CfgVehicles", "Car")
		require.True(t, ok)
		assert.Equal(t, "addons/cars.pbo", car.SourcePBO)
		assert.Equal(t, "@cars", car.SourceMod)
		assert.Equal(t, path, car.SourceFile)
	})

	t.Run("latin1 fallback", func(t *testing.T) {
		path := filepath.Join(dir, "latin1.cpp")
		content := append([]byte(`class Accent { name = "caf`), 0xE9)
		content = append(content, []byte(`"; };`)...)
		require.NoError(t, os.WriteFile(path, content, 0o644))

		p := New(nil)
		reg, err := p.ParseFile(path, FileSource{})
		require.NoError(t, err)

		c, ok := reg.Get(DefaultGroup, "Accent")
		require.True(t, ok)
		assert.Equal(t, "café", c.Properties["name"].Str)
	})

	t.Run("missing file", func(t *testing.T) {
		p := New(nil)
		_, err := p.ParseFile(filepath.Join(dir, "nope.cpp"), FileSource{})
		require.Error(t, err)

		var perr *ParsingError
		assert.True(t, errors.As(err, &perr))
	})
}
