package barewire

import "testing"

type benchRecord struct {
	Names    []string
	Mod      []int8
	Integers []int16
	Float3   []float32
	Float6   []float64
}

var benchValue = benchRecord{
	Names:    []string{"azerty", "hello", "world", "random"},
	Mod:      []int8{12, 10, 13, 0},
	Integers: []int16{100, 250, 300},
	Float3:   []float32{12.13, 16.23, 75.1},
	Float6:   []float64{100.5, 165.63, 153.5},
}

func BenchmarkMarshal(b *testing.B) {
	var c Codec
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, _ = c.Marshal(benchValue)
	}
}

func BenchmarkUnmarshal(b *testing.B) {
	var c Codec
	data, _ := c.Marshal(benchValue)
	out := &benchRecord{}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = c.Unmarshal(data, out)
	}
}

func BenchmarkUnmarshalUnsafeStrings(b *testing.B) {
	c := Codec{Opts: Options{UnsafeStrings: true}}
	data, _ := c.Marshal(benchValue)
	out := &benchRecord{}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = c.Unmarshal(data, out)
	}
}
