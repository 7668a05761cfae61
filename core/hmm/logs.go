// core/hmm/logs.go
package hmm

import "math"

// AddLogs returns log(exp(a) + exp(b)) without leaving log space.
// -Inf is a valid operand: AddLogs(-Inf, -Inf) == -Inf.
func AddLogs(a, b float64) float64 {
	if math.IsInf(a, -1) && math.IsInf(b, -1) {
		return math.Inf(-1)
	}
	if a > b {
		return a + math.Log1p(math.Exp(b-a))
	}
	return b + math.Log1p(math.Exp(a-b))
}
