// Package keylock 提供按 key 粒度的互斥锁，用于串行化同一用户的多步读改写。
package keylock

import (
	"sync"

	cmap "github.com/orcaman/concurrent-map/v2"
)

type entry struct {
	mu   sync.Mutex
	refs int // 只在分片锁内修改
}

type Locker struct {
	locks cmap.ConcurrentMap[string, *entry]
}

func New() *Locker {
	return &Locker{locks: cmap.New[*entry]()}
}

// Lock 获取 key 对应的锁，返回解锁函数。没有持有者的 key 会被回收。
func (l *Locker) Lock(key string) (unlock func()) {
	e := l.locks.Upsert(key, nil, func(exist bool, old *entry, _ *entry) *entry {
		if !exist {
			old = &entry{}
		}
		old.refs++
		return old
	})
	e.mu.Lock()

	var once sync.Once
	return func() {
		once.Do(func() {
			e.mu.Unlock()
			l.locks.RemoveCb(key, func(_ string, v *entry, exists bool) bool {
				if !exists {
					return false
				}
				v.refs--
				return v.refs == 0
			})
		})
	}
}

// Len 当前仍被引用的 key 数量
func (l *Locker) Len() int {
	return l.locks.Count()
}
