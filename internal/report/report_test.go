package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/modscango/internal/classparser"
)

func buildFixture(t *testing.T) (*classparser.Registry, *classparser.Hierarchy) {
	t.Helper()
	p := classparser.New(nil)
	reg, err := p.Parse(`
class CfgVehicles {
	class Vehicle {
		scope = 0;
	};
	class Car : Vehicle {
		wheels = 4;
		model = "car.p3d";
	};
	class Tank : Vehicle {};
};
`, "config.cpp")
	require.NoError(t, err)
	return reg, p.Hierarchy()
}

func TestWriteTree(t *testing.T) {
	_, h := buildFixture(t)

	var buf bytes.Buffer
	require.NoError(t, WriteTree(&buf, h))

	want := `CfgVehicles/Vehicle
  Car
  Tank
`
	assert.Equal(t, want, buf.String())
}

func TestWriteTreeQuarantine(t *testing.T) {
	p := classparser.New(nil)
	_, err := p.Parse(`class A : B {}; class B : A {};`, "config.cpp")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteTree(&buf, p.Hierarchy()))

	assert.Contains(t, buf.String(), "quarantined (2):")
	assert.Contains(t, buf.String(), "CfgPatches/A")
}

func TestWriteTreeEmpty(t *testing.T) {
	_, h := classparser.BuildHierarchy(nil)

	var buf bytes.Buffer
	require.NoError(t, WriteTree(&buf, h))
	assert.Equal(t, "no classes found\n", buf.String())
}

func TestWriteJSON(t *testing.T) {
	reg, _ := buildFixture(t)

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, reg))

	var records []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &records))
	require.Len(t, records, 3)

	// Sorted by registry key, so Car comes first.
	car := records[0]
	assert.Equal(t, "Car", car["name"])
	assert.Equal(t, "Vehicle", car["parent"])

	props, ok := car["properties"].(map[string]any)
	require.True(t, ok)
	modelProp, ok := props["model"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "path", modelProp["kind"])

	inherited, ok := car["inherited"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, inherited, "scope")
}

func TestWriteSummary(t *testing.T) {
	_, h := buildFixture(t)

	var buf bytes.Buffer
	require.NoError(t, WriteSummary(&buf, h))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, "classes: 3", lines[0])
	assert.Contains(t, buf.String(), "CfgVehicles: 3")
	assert.NotContains(t, buf.String(), "quarantined")
}
