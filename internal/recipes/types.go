package recipes

// Recipe — краткое описание рецепта из каталога.
type Recipe struct {
	ID                    int     `json:"id"`
	Title                 string  `json:"title"`
	Image                 string  `json:"image,omitempty"`
	ReadyInMinutes        int     `json:"readyInMinutes,omitempty"`
	Servings              int     `json:"servings,omitempty"`
	HealthScore           float64 `json:"healthScore,omitempty"`
	SourceURL             string  `json:"sourceUrl,omitempty"`
	Summary               string  `json:"summary,omitempty"`
	UsedIngredientCount   int     `json:"usedIngredientCount,omitempty"`
	MissedIngredientCount int     `json:"missedIngredientCount,omitempty"`
}

// Ingredient — ингредиент рецепта.
type Ingredient struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Original string  `json:"original,omitempty"`
	Amount   float64 `json:"amount,omitempty"`
	Unit     string  `json:"unit,omitempty"`
}

// Step — шаг приготовления.
type Step struct {
	Number int    `json:"number"`
	Step   string `json:"step"`
}

// Instruction — группа шагов приготовления.
type Instruction struct {
	Name  string `json:"name,omitempty"`
	Steps []Step `json:"steps"`
}

// Nutrient — пищевая ценность.
type Nutrient struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
	Unit   string  `json:"unit"`
}

// Nutrition — пищевая ценность порции.
type Nutrition struct {
	Nutrients []Nutrient `json:"nutrients"`
}

// Details — полное описание рецепта.
type Details struct {
	Recipe
	Instructions         string        `json:"instructions,omitempty"`
	ExtendedIngredients  []Ingredient  `json:"extendedIngredients,omitempty"`
	AnalyzedInstructions []Instruction `json:"analyzedInstructions,omitempty"`
	Nutrition            *Nutrition    `json:"nutrition,omitempty"`
}

type searchResponse struct {
	Results []Recipe `json:"results"`
}

type randomResponse struct {
	Recipes []Recipe `json:"recipes"`
}
