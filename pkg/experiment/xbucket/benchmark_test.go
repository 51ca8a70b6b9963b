package xbucket

import "testing"

var benchBucket int

func BenchmarkVariationBucket(b *testing.B) {
	b.ReportAllocs()
	var v int
	for i := 0; i < b.N; i++ {
		v = VariationBucket("campaign", "user-123456")
	}
	benchBucket = v
}

func BenchmarkAllocator_Resolve(b *testing.B) {
	a, err := NewAllocator([]Weighted{{"A", 25}, {"B", 25}, {"C", 25}, {"D", 25}})
	if err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = a.Resolve(i%MaxBucket + 1)
	}
}
