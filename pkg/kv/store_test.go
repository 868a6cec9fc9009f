package kv

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStore_GetSet(t *testing.T) {
	s := New[string, int]()

	s.Set("foo", 42)
	val, ok := s.Get("foo")
	assert.True(t, ok)
	assert.Equal(t, 42, val)

	_, ok = s.Get("bar")
	assert.False(t, ok)
}

func TestStore_HasDelete(t *testing.T) {
	s := New[string, string]()
	s.Set("key", "value")
	assert.True(t, s.Has("key"))

	s.Delete("key")

	_, ok := s.Get("key")
	assert.False(t, ok)
	assert.False(t, s.Has("key"))
}

func TestStore_Clear(t *testing.T) {
	s := New[string, int]()
	s.Set("a", 1)
	s.Set("b", 2)

	s.Clear()

	assert.Equal(t, 0, s.Len())
}

func TestStore_KeysSorted(t *testing.T) {
	s := New[string, int]()
	s.Set("c", 3)
	s.Set("a", 1)
	s.Set("b", 2)

	assert.Equal(t, []string{"a", "b", "c"}, s.Keys())
}

func TestStore_Clone(t *testing.T) {
	s := NewWithClone[string, []byte](func(b []byte) []byte {
		return append([]byte(nil), b...)
	})

	in := []byte("hello")
	s.Set("k", in)
	in[0] = 'j'

	out, ok := s.Get("k")
	assert.True(t, ok)
	assert.Equal(t, "hello", string(out))

	out[0] = 'y'
	again, _ := s.Get("k")
	assert.Equal(t, "hello", string(again))
}

func TestStore_Concurrent(t *testing.T) {
	s := New[int, int]()
	var wg sync.WaitGroup

	for i := range 100 {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			s.Set(n, n*2)
			_, _ = s.Get(n)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 100, s.Len())
}
