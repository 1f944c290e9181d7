package classparser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProperties(t *testing.T) {
	p := New(nil)
	props := p.ParseProperties(`{ displayName = "Rifle"; count = 30; model = "gun.p3d"; }`)
	require.Len(t, props, 3)

	assert.Equal(t, KindString, props["displayName"].Kind)
	assert.Equal(t, "Rifle", props["displayName"].Str)
	assert.Equal(t, float64(30), props["count"].Num)
	assert.Equal(t, KindPath, props["model"].Kind)
}

func TestParsePropertiesArrayProperty(t *testing.T) {
	p := New(nil)
	props := p.ParseProperties(`{ magazines[] = {"mag30", "mag20"}; }`)
	require.Contains(t, props, "magazines")

	v := props["magazines"]
	require.Equal(t, KindArray, v.Kind)
	require.Len(t, v.Items, 2)
	assert.Equal(t, "mag30", v.Items[0].Str)
}

func TestParsePropertiesEmptyValueKept(t *testing.T) {
	p := New(nil)
	props := p.ParseProperties(`{ tag = ""; }`)
	require.Contains(t, props, "tag")
	assert.Equal(t, KindString, props["tag"].Kind)
	assert.Equal(t, "", props["tag"].Str)
}

func TestParsePropertiesSkipsNestedClassStatements(t *testing.T) {
	p := New(nil)
	props := p.ParseProperties(`{ class Inner { a = 1; }; b = 2; }`)
	assert.NotContains(t, props, "a")
	assert.NotContains(t, props, "Inner")
	require.Contains(t, props, "b")
	assert.Equal(t, float64(2), props["b"].Num)
}

func TestParsePropertiesSkipsStatementWithoutAssignment(t *testing.T) {
	p := New(nil)
	props := p.ParseProperties(`{ garbage statement; x = 1; }`)
	require.Len(t, props, 1)
	assert.Contains(t, props, "x")
}

func TestParsePropertiesSemicolonInString(t *testing.T) {
	p := New(nil)
	props := p.ParseProperties(`{ s = "a;b"; x = 1; }`)
	require.Len(t, props, 2)
	assert.Equal(t, "a;b", props["s"].Str)
}

func TestParsePropertiesDuplicateNameOverwrites(t *testing.T) {
	p := New(nil)
	props := p.ParseProperties(`{ x = 1; x = 2; }`)
	require.Len(t, props, 1)
	assert.Equal(t, float64(2), props["x"].Num)
}

func TestParsePropertiesEmptyBody(t *testing.T) {
	p := New(nil)
	assert.Empty(t, p.ParseProperties(""))
	assert.Empty(t, p.ParseProperties("{}"))
}
