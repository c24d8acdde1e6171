// Package cylinder decomposes the suspension of an integral interval
// exchange into horizontal cylinders.
//
// # Algorithm
//
// Rauzy induction is applied to integer lengths. Each label carries a
// height, the return time of its subinterval to the current base, and the
// set of original labels folded into it. A step adds the winner's height to
// the loser's. A tie between distinct last labels α and β merges α into β:
// α leaves both rows, the bottom occurrence of α is renamed β and heights
// and label sets add up. When both rows end with the same label a cylinder
// closes: its circumference is that label's length, its height the label's
// height. The loop ends with both rows empty.
//
// The total area Σ λ·h is the same before and after every event, so the
// cylinder areas add up to the area of the input.
//
// # Usage
//
//	p := perm.MustParse("a b c / c b a")
//	d, err := cylinder.Compute(p, induction.Ints(map[string]int64{"a": 2, "b": 3, "c": 5}))
//	if err != nil {
//		return err
//	}
//	for _, c := range d.Cylinders {
//		fmt.Println(c)
//	}
package cylinder
