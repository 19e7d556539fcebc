package kernel

import "strconv"

// Tilde returns the label of the opposite orientation of l.
func Tilde(l int) int { return -l - 1 }

// Norm returns the edge index of label l, which is the non-negative label
// among l and ~l.
func Norm(l int) int {
	if l < 0 {
		return -l - 1
	}
	return l
}

// Sign returns +1 if l is the positive orientation of its edge, else -1.
func Sign(l int) int {
	if l < 0 {
		return -1
	}
	return 1
}

// FormatLabel renders l as "i" or "~i".
func FormatLabel(l int) string {
	if l < 0 {
		return "~" + strconv.Itoa(Tilde(l))
	}
	return strconv.Itoa(l)
}

func pos(x int) int {
	if x < 0 {
		return 0
	}
	return x
}

// overlap returns the length of the intersection of [a0,a1) and [b0,b1).
func overlap(a0, a1, b0, b1 int) int {
	return pos(min(a1, b1) - max(a0, b0))
}
