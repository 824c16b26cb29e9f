package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sample struct {
	Name     string `json:"name" validate:"required"`
	Capacity *int   `json:"capacity" validate:"required,min=0"`
}

func TestStruct_UsesJSONNames(t *testing.T) {
	err := Struct(sample{})
	assert.ErrorContains(t, err, "field 'name' failed 'required'")
	assert.ErrorContains(t, err, "field 'capacity' failed 'required'")
}

func TestStruct_Valid(t *testing.T) {
	zero := 0
	assert.NoError(t, Struct(sample{Name: "Yoga", Capacity: &zero}))
}

func TestStruct_Min(t *testing.T) {
	neg := -1
	assert.ErrorContains(t, Struct(sample{Name: "Yoga", Capacity: &neg}), "field 'capacity' failed 'min'")
}
