// Package nutrition models detected food items and their portion-scaled macros.
// All values are stored per 100 g and scale linearly with the portion size.
package nutrition

import "math"

// FoodItem is one detected food with per-100 g nutrition and a portion in grams.
type FoodItem struct {
	Name            string  `json:"name"`
	CaloriesPer100g float64 `json:"calories_per_100g"`
	ProteinPer100g  float64 `json:"protein_per_100g"`
	CarbsPer100g    float64 `json:"carbs_per_100g"`
	FatPer100g      float64 `json:"fat_per_100g"`
	Grams           float64 `json:"estimated_grams"`
	Confidence      float64 `json:"confidence"`
}

// Scale converts a per-100 g value to the value for grams.
func Scale(per100g, grams float64) float64 {
	return per100g * grams / 100.0
}

// SetGrams changes the portion. Negative portions become zero.
func (f *FoodItem) SetGrams(grams float64) {
	f.Grams = math.Max(0, grams)
}

func (f FoodItem) Calories() float64 { return Scale(f.CaloriesPer100g, f.Grams) }
func (f FoodItem) Protein() float64  { return Scale(f.ProteinPer100g, f.Grams) }
func (f FoodItem) Carbs() float64    { return Scale(f.CarbsPer100g, f.Grams) }
func (f FoodItem) Fat() float64      { return Scale(f.FatPer100g, f.Grams) }

// Totals is the sum of portion macros over a meal.
type Totals struct {
	Calories float64
	Protein  float64
	Carbs    float64
	Fat      float64
}

// Sum adds up the portion macros of items.
func Sum(items []FoodItem) Totals {
	var t Totals
	for _, it := range items {
		t.Calories += it.Calories()
		t.Protein += it.Protein()
		t.Carbs += it.Carbs()
		t.Fat += it.Fat()
	}
	return t
}
