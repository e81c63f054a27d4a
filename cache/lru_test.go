// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cache

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestLRUEviction(t *testing.T) {
	var evicted []uint64
	c := NewLRU(3, func(k uint64, _ string) { evicted = append(evicted, k) })

	c.Add(1, "a")
	c.Add(2, "b")
	c.Add(3, "c")

	// promote 1, so 2 becomes the oldest
	v, ok := c.Get(1)
	assert.True(t, ok)
	assert.Equal(t, "a", v)

	c.Add(4, "d")
	assert.Equal(t, []uint64{2}, evicted)
	assert.False(t, c.Contains(2))
	assert.Equal(t, []uint64{3, 1, 4}, c.Keys())

	// peek does not promote
	_, ok = c.Peek(3)
	assert.True(t, ok)
	c.Add(5, "e")
	assert.Equal(t, []uint64{2, 3}, evicted)
	assert.Equal(t, 3, c.Len())

	c.Remove(5)
	assert.Equal(t, 2, c.Len())
	_, ok = c.Get(5)
	assert.False(t, ok)
}

func TestLRUGetOrAdd(t *testing.T) {
	c := NewLRU[int, *[]int](2, nil)
	created := 0
	create := func() *[]int {
		created++
		return &[]int{}
	}

	s := c.GetOrAdd(1, create)
	*s = append(*s, 7)
	assert.Equal(t, []int{7}, *c.GetOrAdd(1, create))
	assert.Equal(t, 1, created)
}

func TestLRUGetOrLoad(t *testing.T) {
	c := NewLRU[string, int](2, nil)

	v, err := c.GetOrLoad("x", func(string) (int, error) { return 42, nil })
	assert.NoError(t, err)
	assert.Equal(t, 42, v)

	v, err = c.GetOrLoad("x", func(string) (int, error) { return 0, errors.New("should not load") })
	assert.NoError(t, err)
	assert.Equal(t, 42, v)

	_, err = c.GetOrLoad("y", func(string) (int, error) { return 0, errors.New("not found") })
	assert.EqualError(t, err, "not found")
	assert.False(t, c.Contains("y"))
}

func TestNewLRUPanics(t *testing.T) {
	assert.Panics(t, func() { NewLRU[int, int](0, nil) })
}
