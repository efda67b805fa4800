package nutrition

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Defaults applied to fields the model leaves out.
const (
	DefaultName       = "Unknown food"
	DefaultGrams      = 100.0
	DefaultConfidence = 0.5
)

const noContext = "No additional context provided. Estimate everything from the image."

const promptTemplate = `You are a professional nutritionist AI. Analyze this food image carefully.

INSTRUCTIONS:
1. Identify ALL food items visible in the image.
2. Estimate the portion size in grams for each item based on visual cues.
3. Calculate nutrition per 100g AND for the estimated portion.
4. If the user provides additional context below, use it to improve your estimates.

USER CONTEXT: %s

Return ONLY a JSON object with this EXACT structure (no markdown, no explanation):
{
  "foods": [
    {
      "name": "Food name",
      "estimated_grams": 150,
      "calories_per_100g": 200,
      "protein_per_100g": 10.5,
      "carbs_per_100g": 25.0,
      "fat_per_100g": 8.0,
      "confidence": 0.92
    }
  ]
}

RULES:
- confidence is 0.0 to 1.0 (how sure you are about the identification)
- estimated_grams should reflect what you SEE in the image
- All nutrition values are per 100 grams of the food
- If you cannot identify a food, still include it with your best guess
- Return valid JSON only, no extra text`

// Prompt builds the meal analysis prompt around the user's optional context.
func Prompt(userContext string) string {
	userContext = strings.TrimSpace(userContext)
	if userContext == "" {
		userContext = noContext
	}
	return fmt.Sprintf(promptTemplate, userContext)
}

// ParseFoods reads {"foods": [...]} from a model reply. Missing or
// mistyped fields take their defaults and numeric strings are accepted.
// A reply without a foods key is an empty meal.
func ParseFoods(text string) ([]FoodItem, error) {
	text = stripFence(text)

	var root struct {
		Foods []map[string]interface{} `json:"foods"`
	}
	if err := json.Unmarshal([]byte(text), &root); err != nil {
		return nil, fmt.Errorf("parse foods: %w", err)
	}

	items := make([]FoodItem, 0, len(root.Foods))
	for _, f := range root.Foods {
		items = append(items, FoodItem{
			Name:            stringVal(f, "name", DefaultName),
			Grams:           floatVal(f, "estimated_grams", DefaultGrams),
			CaloriesPer100g: floatVal(f, "calories_per_100g", 0),
			ProteinPer100g:  floatVal(f, "protein_per_100g", 0),
			CarbsPer100g:    floatVal(f, "carbs_per_100g", 0),
			FatPer100g:      floatVal(f, "fat_per_100g", 0),
			Confidence:      floatVal(f, "confidence", DefaultConfidence),
		})
	}
	return items, nil
}

// stripFence removes a ```json ... ``` wrapper some models add despite instructions.
func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func stringVal(m map[string]interface{}, key, def string) string {
	v, ok := m[key]
	if !ok || v == nil {
		return def
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

func floatVal(m map[string]interface{}, key string, def float64) float64 {
	switch v := m[key].(type) {
	case float64:
		return v
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return f
		}
	}
	return def
}
