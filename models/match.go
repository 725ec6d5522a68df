package models

// Match is an unordered pair of two distinct items awaiting a vote.
type Match struct {
	A string `json:"a"`
	B string `json:"b"`
}

// Key returns the order-independent identity of the pairing. Used for
// rematch detection in the rating mode.
func (m Match) Key() string {
	return PairKey(m.A, m.B)
}

// PairKey normalizes a pair of item IDs so that (a, b) and (b, a) map to
// the same key.
func PairKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "\x00" + b
}
