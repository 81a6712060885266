// This code is available on the terms of the project LICENSE.md file,
// also available online at https://blueoakcouncil.org/license/1.0.0.

package utils

import "golang.org/x/exp/constraints"

func Min[I constraints.Ordered](m I, ns ...I) I {
	min := m
	for _, n := range ns {
		if n < min {
			min = n
		}
	}
	return min
}

func Max[I constraints.Ordered](m I, ns ...I) I {
	max := m
	for _, n := range ns {
		if n > max {
			max = n
		}
	}
	return max
}

func Clamp[I constraints.Ordered](v I, min I, max I) I {
	if v < min {
		v = min
	} else if v > max {
		v = max
	}
	return v
}
