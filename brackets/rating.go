package brackets

import "math"

// KFactor bounds how far a single result can move a rating.
const KFactor = 32

// Match results as seen from player A.
const (
	ResultWinA = 1.0
	ResultWinB = 0.0
	ResultTie  = 0.5
)

// UpdateRatings applies the logistic rating update to both players and
// returns the new ratings rounded to the nearest integer. Pure function,
// never fails for finite inputs.
func UpdateRatings(ratingA, ratingB, result float64) (int, int) {
	expectedA := 1 / (1 + math.Pow(10, (ratingB-ratingA)/400))
	expectedB := 1 - expectedA
	newA := ratingA + KFactor*(result-expectedA)
	newB := ratingB + KFactor*((1-result)-expectedB)
	return int(math.Round(newA)), int(math.Round(newB))
}
