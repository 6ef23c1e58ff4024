package model

import "sync"

// BufferPool recycles cell buffers between universes of the same size
type BufferPool struct {
	pool sync.Pool
}

func NewBufferPool() *BufferPool {
	return &BufferPool{
		pool: sync.Pool{
			New: func() interface{} {
				return new([]Cell)
			},
		},
	}
}

// Get retrieves a zeroed buffer of length n from the pool
func (p *BufferPool) Get(n int) []Cell {
	bp := p.pool.Get().(*[]Cell)
	buf := *bp
	if cap(buf) < n {
		return make([]Cell, n)
	}
	buf = buf[:n]
	clear(buf)
	return buf
}

// Put returns a buffer to the pool
func (p *BufferPool) Put(buf []Cell) {
	if buf == nil {
		return
	}
	p.pool.Put(&buf)
}

func getBuffer(pool *BufferPool, n int) []Cell {
	if pool == nil {
		return make([]Cell, n)
	}
	return pool.Get(n)
}
