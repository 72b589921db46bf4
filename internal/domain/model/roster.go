package model

// SwimmerSwims is one block of the swim list: a swimmer and every swim
// recorded for them, in input order.
type SwimmerSwims struct {
	Swimmer Swimmer
	Swims   []Swim
}

// Roster is the whole swim list in input order.
type Roster []SwimmerSwims
