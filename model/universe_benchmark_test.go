package model

import (
	"fmt"
	"math/rand"
	"testing"
)

const (
	benchWidth  = 200
	benchHeight = 200
)

func BenchmarkTick(b *testing.B) {
	for _, workers := range []int{1, 4, 0} {
		b.Run(fmt.Sprintf("workers=%d", workers), func(b *testing.B) {
			u, err := NewUniverse(benchWidth, benchHeight,
				WithRand(rand.New(rand.NewSource(1))), WithWorkers(workers))
			if err != nil {
				b.Fatal(err)
			}
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				u.Tick()
			}
		})
	}
}

func BenchmarkRender(b *testing.B) {
	u := New()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = u.Render()
	}
}
