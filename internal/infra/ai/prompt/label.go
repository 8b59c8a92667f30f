package prompt

// LabelAnalysis is the fixed instruction sent alongside every label image.
// The fenced-JSON requirement is what the extraction layer depends on.
func LabelAnalysis() string {
	return labelAnalysisPrompt
}

const labelAnalysisPrompt = `Analyze this image of a food product's nutrition label and ingredients list. Provide the following information:
1. The product name.
2. The expiry date (if visible).
3. A health score from 0 (very unhealthy) to 10 (very healthy).
4. List any concerning ingredients or nutritional aspects.
5. Recommend a portion size for consumption in appropriate units (g, ml, others).
6. Provide calories, protein, and carbs for the recommended portion size. Ensure units are accurate (e.g., kcal, g).
7. If the nutrition information is given per 100g, calculate it for the recommended portion.
Format the response as a JSON object inside a fenced code block tagged json, with keys 'productName', 'expiryDate', 'healthScore', 'concerns', 'recommendedPortion', and 'nutritionPerPortion'.`
