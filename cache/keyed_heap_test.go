package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyedHeapPopOrder(t *testing.T) {
	kh := newKeyedHeap(4)
	base := time.Unix(1700000000, 0)

	kh.push("b", base.Add(2*time.Second))
	kh.push("a", base.Add(1*time.Second))
	kh.push("c", base.Add(3*time.Second))

	key, at, ok := kh.pop()
	require.True(t, ok)
	assert.Equal(t, "a", key)
	assert.True(t, at.Equal(base.Add(1*time.Second)))

	key, _, _ = kh.pop()
	assert.Equal(t, "b", key)
	key, _, _ = kh.pop()
	assert.Equal(t, "c", key)

	_, _, ok = kh.pop()
	assert.False(t, ok)
}

func TestKeyedHeapUpdateReorders(t *testing.T) {
	kh := newKeyedHeap(4)
	base := time.Unix(1700000000, 0)

	kh.push("a", base.Add(1*time.Second))
	kh.push("b", base.Add(2*time.Second))

	// a 的时刻推后，b 应当先弹出
	kh.update("a", base.Add(10*time.Second))

	key, _, ok := kh.pop()
	require.True(t, ok)
	assert.Equal(t, "b", key)

	// 不存在的键 update 是空操作
	kh.update("missing", base)
	assert.Equal(t, 1, kh.len())
}

func TestKeyedHeapPushExistingKey(t *testing.T) {
	kh := newKeyedHeap(4)
	base := time.Unix(1700000000, 0)

	kh.push("a", base.Add(5*time.Second))
	kh.push("a", base.Add(1*time.Second))
	assert.Equal(t, 1, kh.len())

	_, at, ok := kh.pop()
	require.True(t, ok)
	assert.True(t, at.Equal(base.Add(1*time.Second)))
}

func TestKeyedHeapRemove(t *testing.T) {
	kh := newKeyedHeap(4)
	base := time.Unix(1700000000, 0)

	kh.push("a", base.Add(1*time.Second))
	kh.push("b", base.Add(2*time.Second))
	kh.push("c", base.Add(3*time.Second))

	kh.remove("a")
	assert.False(t, kh.contains("a"))
	assert.Equal(t, 2, kh.len())

	key, _, ok := kh.pop()
	require.True(t, ok)
	assert.Equal(t, "b", key)

	// 重复删除无副作用
	kh.remove("a")
	assert.Equal(t, 1, kh.len())
}
