package pinyin

import (
	"gorgonia.org/tensor"
)

// ToTensor packs code rows into a dense [len(rows), maxLen] int tensor,
// filling the tail of shorter rows with pad. It returns nil when there is
// nothing to pack.
func ToTensor(rows [][]int, pad int) *tensor.Dense {
	width := 0
	for _, row := range rows {
		width = max(width, len(row))
	}
	if width == 0 {
		return nil
	}

	backing := make([]int, len(rows)*width)
	for i, row := range rows {
		off := i * width
		n := copy(backing[off:off+width], row)
		for j := off + n; j < off+width; j++ {
			backing[j] = pad
		}
	}

	return tensor.New(tensor.WithShape(len(rows), width), tensor.WithBacking(backing))
}

// Lengths returns the unpadded length of each row, the usual companion of a
// padded batch.
func Lengths(rows [][]int) []int {
	out := make([]int, len(rows))
	for i, row := range rows {
		out[i] = len(row)
	}
	return out
}
