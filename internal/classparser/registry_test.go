package classparser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClass(group, parent, name string) *Class {
	return &Class{
		Name:       name,
		Group:      group,
		Parent:     parent,
		Properties: map[string]Value{},
	}
}

func TestRegistryAddAndGet(t *testing.T) {
	r := NewRegistry()
	r.Add(newTestClass("CfgVehicles", "", "Car"))

	c, ok := r.Get("CfgVehicles", "Car")
	require.True(t, ok)
	assert.Equal(t, "Car", c.Name)

	_, ok = r.Get("CfgWeapons", "Car")
	assert.False(t, ok)
}

func TestRegistryLastWriteWins(t *testing.T) {
	r := NewRegistry()
	first := newTestClass("CfgVehicles", "", "Car")
	first.LineNumber = 1
	second := newTestClass("CfgVehicles", "", "Car")
	second.LineNumber = 9

	r.Add(first)
	r.Add(second)
	assert.Equal(t, 1, r.Len())

	c, ok := r.Get("CfgVehicles", "Car")
	require.True(t, ok)
	assert.Equal(t, 9, c.LineNumber)
}

func TestRegistryNestedPathLookup(t *testing.T) {
	r := NewRegistry()
	r.Add(newTestClass("CfgWeapons", "Rifle", "ItemInfo"))

	c, ok := r.Get("CfgWeapons", "Rifle.ItemInfo")
	require.True(t, ok)
	assert.Equal(t, "ItemInfo", c.Name)
	assert.Equal(t, "Rifle", c.Parent)
}

func TestRegistryShorthandFallback(t *testing.T) {
	r := NewRegistry()
	r.Add(newTestClass("CfgWeapons", "Rifle", "ItemInfo"))

	// Bare nested name resolves through the suffix scan.
	c, ok := r.Get("CfgWeapons", "ItemInfo")
	require.True(t, ok)
	assert.Equal(t, "Rifle", c.Parent)
}

func TestRegistryAmbiguousShorthandIsDeterministic(t *testing.T) {
	// The same nested name under two parents: sorted key order decides, so
	// the winner is stable across runs.
	r := NewRegistry()
	a := newTestClass("CfgWeapons", "Alpha", "ItemInfo")
	z := newTestClass("CfgWeapons", "Zulu", "ItemInfo")
	r.Add(z)
	r.Add(a)

	for i := 0; i < 10; i++ {
		c, ok := r.Get("CfgWeapons", "ItemInfo")
		require.True(t, ok)
		assert.Equal(t, "Alpha", c.Parent)
	}
}

func TestRegistryGroupIndex(t *testing.T) {
	r := NewRegistry()
	r.Add(newTestClass("CfgVehicles", "", "Car"))
	r.Add(newTestClass("CfgVehicles", "", "Tank"))
	r.Add(newTestClass("CfgWeapons", "", "Rifle"))

	groups := r.Groups()
	assert.Equal(t, []string{"Car", "Tank"}, groups["CfgVehicles"])
	assert.Equal(t, []string{"Rifle"}, groups["CfgWeapons"])
}

func TestRegistryKeysSorted(t *testing.T) {
	r := NewRegistry()
	r.Add(newTestClass("CfgVehicles", "", "Zebra"))
	r.Add(newTestClass("CfgVehicles", "", "Apple"))

	assert.Equal(t, []string{"CfgVehicles/Apple", "CfgVehicles/Zebra"}, r.Keys())
}
