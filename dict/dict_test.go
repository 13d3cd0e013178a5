package dict

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDictionaryHelpers(t *testing.T) {
	d := map[int]string{1: "key1", 2: "key2"}
	d = AddIfNew(AddIfNew(d, 2, "keyNew2"), 4, "key4")

	assert.Equal(t, "key1", Get(d, 1))

	assert.NotEqual(t, "keyNew2", Get(d, 2))
	assert.Equal(t, "key2", Get(d, 2))

	assert.NotEqual(t, "key3", Get(d, 3))
	assert.Equal(t, "", Get(d, 3))
	assert.Equal(t, "key3", GetOr(d, 3, "key3"))

	assert.Equal(t, "key4", Get(d, 4))
}

func TestGetOr_StoredZeroValueWins(t *testing.T) {
	d := map[string]int{"zero": 0}
	assert.Equal(t, 0, GetOr(d, "zero", 42))
	assert.Equal(t, 42, GetOr(d, "missing", 42))
}

func TestGet_NilMap(t *testing.T) {
	var d map[string]int
	assert.Equal(t, 0, Get(d, "x"))
	assert.Equal(t, 7, GetOr(d, "x", 7))
}

func TestAddIfNew_Idempotent(t *testing.T) {
	d := map[string]int{}
	AddIfNew(d, "a", 1)
	snapshot := map[string]int{"a": 1}
	assert.Equal(t, snapshot, d)

	AddIfNew(d, "a", 1)
	assert.Equal(t, snapshot, d)

	AddIfNew(d, "a", 2)
	assert.Equal(t, snapshot, d, "existing value must not be overwritten")
}

func TestAddIfNew_ReturnsSameInstance(t *testing.T) {
	d := map[string]int{}
	out := AddIfNew(d, "a", 1)
	out["b"] = 2
	assert.Equal(t, 2, d["b"], "returned map must alias the input")
}

func TestAddIfNew_NilMap(t *testing.T) {
	var d map[string]int
	d = AddIfNew(d, "a", 1)
	assert.Equal(t, map[string]int{"a": 1}, d)
}

type index map[string][]int

func TestNamedMapType(t *testing.T) {
	idx := index{"x": {1}}
	idx = AddIfNew(idx, "y", []int{2})
	assert.Equal(t, []int{1}, Get(idx, "x"))
	assert.Equal(t, []int{2}, GetOr(idx, "y", []int(nil)))
}
