package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"
)

func TestServiceIsCompatible(t *testing.T) {
	wildcard := Service{ServiceName: "Tire Rotation"}
	carOnly := Service{ServiceName: "Oil Change", VehicleTypes: datatypes.JSONSlice[string]{"car"}}
	heavy := Service{ServiceName: "Brake Bleed", VehicleTypes: datatypes.JSONSlice[string]{"truck", "bus"}}

	for _, vt := range []string{"car", "truck", "motorcycle", ""} {
		assert.True(t, wildcard.IsCompatible(vt), "wildcard must accept %q", vt)
	}

	assert.True(t, carOnly.IsCompatible("car"))
	assert.False(t, carOnly.IsCompatible("truck"))
	assert.False(t, carOnly.IsCompatible("Car"), "matching is case-sensitive")

	assert.True(t, heavy.IsCompatible("bus"))
	assert.False(t, heavy.IsCompatible("car"))
}

func TestCompatibleServices(t *testing.T) {
	services := []Service{
		{ServiceName: "Oil Change", VehicleTypes: datatypes.JSONSlice[string]{"car"}},
		{ServiceName: "Tire Rotation"},
		{ServiceName: "Brake Bleed", VehicleTypes: datatypes.JSONSlice[string]{"truck"}},
	}

	got := CompatibleServices(services, "truck")
	names := make([]string, 0, len(got))
	for _, s := range got {
		names = append(names, s.ServiceName)
	}
	assert.Equal(t, []string{"Tire Rotation", "Brake Bleed"}, names)

	assert.NotNil(t, CompatibleServices(nil, "car"))
}
