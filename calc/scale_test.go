// This code is available on the terms of the project LICENSE.md file,
// also available online at https://blueoakcouncil.org/license/1.0.0.

package calc

import (
	"math/big"
	"testing"
)

func TestMulThousandths(t *testing.T) {
	checkMul := func(v string, thousandths int64, exp string) {
		t.Helper()
		in, ok := new(big.Int).SetString(v, 10)
		if !ok {
			t.Fatalf("bad test value %q", v)
		}
		if res := MulThousandths(in, thousandths); res.String() != exp {
			t.Fatalf("MulThousandths(%s, %d) = %s, expected %s", v, thousandths, res, exp)
		}
		if in.String() != v {
			t.Fatalf("input %s was mutated to %s", v, in)
		}
	}

	checkMul("20", 1000, "20")
	checkMul("20", 1500, "30")
	checkMul("20", 900, "18")
	checkMul("0", 1500, "0")
	// Floor, not round.
	checkMul("15", 900, "13") // 13.5
	checkMul("1", 900, "0")
	// Values past float64's exact-integer range stay exact.
	checkMul("9007199254740993", 1000, "9007199254740993")
	checkMul("900719925474099331", 1200, "1080863910568919197") // *1200/1000 floor
}

func TestAvgFloor(t *testing.T) {
	avg := func(vs ...int64) string {
		bigs := make([]*big.Int, len(vs))
		for i, v := range vs {
			bigs[i] = big.NewInt(v)
		}
		return AvgFloor(bigs...).String()
	}
	if res := avg(); res != "0" {
		t.Fatalf("empty average = %s, expected 0", res)
	}
	if res := avg(10, 20, 20); res != "16" { // 50/3 floored
		t.Fatalf("avg(10,20,20) = %s, expected 16", res)
	}
	if res := avg(7); res != "7" {
		t.Fatalf("avg(7) = %s, expected 7", res)
	}
}
