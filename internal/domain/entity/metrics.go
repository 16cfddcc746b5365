package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// CalculateBMI returns weight / (height in metres)^2 rounded to one decimal place.
// The second result is false when either input is not positive.
func CalculateBMI(weightKg, heightCm float64) (float64, bool) {
	if weightKg <= 0 || heightCm <= 0 {
		return 0, false
	}
	metres := decimal.NewFromFloat(heightCm).Div(decimal.NewFromInt(100))
	bmi := decimal.NewFromFloat(weightKg).Div(metres.Mul(metres)).Round(1)
	value, _ := bmi.Float64()
	return value, true
}

// AgeAt returns the age in whole years on the given date, never negative.
func AgeAt(dateOfBirth, at time.Time) int {
	age := at.Year() - dateOfBirth.Year()
	if at.Month() < dateOfBirth.Month() || (at.Month() == dateOfBirth.Month() && at.Day() < dateOfBirth.Day()) {
		age--
	}
	if age < 0 {
		return 0
	}
	return age
}
