package util

//*******************************************
// flags
//*******************************************

// Flags is a per-node scratch array for repeated searches. Reset only
// restores the entries touched since the last reset.
type Flags[T any] struct {
	flags   []T
	touched []int32
	seen    []bool
	def     T
}

func NewFlags[T any](size int32, def T) *Flags[T] {
	flags := make([]T, size)
	for i := range flags {
		flags[i] = def
	}
	return &Flags[T]{
		flags:   flags,
		touched: make([]int32, 0, 64),
		seen:    make([]bool, size),
		def:     def,
	}
}

func (f *Flags[T]) Get(id int32) *T {
	if !f.seen[id] {
		f.seen[id] = true
		f.touched = append(f.touched, id)
	}
	return &f.flags[id]
}

func (f *Flags[T]) Reset() {
	for _, id := range f.touched {
		f.flags[id] = f.def
		f.seen[id] = false
	}
	f.touched = f.touched[:0]
}
