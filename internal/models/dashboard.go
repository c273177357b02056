package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultNutritionGoal — дневная цель по калориям для нового пользователя.
	DefaultNutritionGoal = 2200
	// DefaultPantryQuantity — количество продукта, если клиент его не указал.
	DefaultPantryQuantity = "1"
	// DefaultMealCalories — калорийность блюда, если клиент её не указал.
	DefaultMealCalories = 500
)

// PantryItem — продукт в кладовой пользователя.
type PantryItem struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId,omitempty"`
	Name      string    `json:"name"`
	Quantity  string    `json:"quantity"`
	CreatedAt time.Time `json:"createdAt"`
}

// MealPlanEntry — запланированное блюдо на конкретный день.
type MealPlanEntry struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId,omitempty"`
	Day       string    `json:"day"`
	MealType  string    `json:"mealType"`
	Title     string    `json:"title"`
	Calories  int       `json:"calories"`
	CreatedAt time.Time `json:"createdAt"`
}

// Nutrition — цель и фактическое потребление калорий.
type Nutrition struct {
	Goal     float64 `json:"goal"`
	Consumed float64 `json:"consumed"`
}

// DashboardState — полное сохранённое состояние дашборда одного пользователя.
type DashboardState struct {
	PantryItems []PantryItem    `json:"pantryItems"`
	MealPlan    []MealPlanEntry `json:"mealPlan"`
	Nutrition   Nutrition       `json:"nutrition"`
}

// DashboardPatch — частичное обновление дашборда.
//
// Поле, равное nil, не меняет сохранённое значение. Заданное поле заменяет
// сохранённое значение целиком, коллекции не объединяются.
type DashboardPatch struct {
	PantryItems *[]PantryItem    `json:"pantryItems,omitempty"`
	MealPlan    *[]MealPlanEntry `json:"mealPlan,omitempty"`
	Nutrition   *Nutrition       `json:"nutrition,omitempty"`
}

// DefaultDashboard возвращает состояние, которое видит пользователь без сохранённых данных.
func DefaultDashboard() DashboardState {
	return DashboardState{
		PantryItems: []PantryItem{},
		MealPlan:    []MealPlanEntry{},
		Nutrition:   Nutrition{Goal: DefaultNutritionGoal, Consumed: 0},
	}
}

// Empty сообщает, что патч не содержит ни одного поля.
func (p DashboardPatch) Empty() bool {
	return p.PantryItems == nil && p.MealPlan == nil && p.Nutrition == nil
}

// Validate проверяет обязательные поля записей патча.
func (p DashboardPatch) Validate() error {
	if p.PantryItems != nil {
		seen := make(map[string]struct{}, len(*p.PantryItems))
		for i, item := range *p.PantryItems {
			if strings.TrimSpace(item.Name) == "" {
				return fmt.Errorf("%w: pantryItems[%d].name is required", ErrValidation, i)
			}
			if err := checkUniqueID(seen, item.ID, "pantryItems", i); err != nil {
				return err
			}
		}
	}
	if p.MealPlan != nil {
		seen := make(map[string]struct{}, len(*p.MealPlan))
		for i, entry := range *p.MealPlan {
			switch {
			case strings.TrimSpace(entry.Day) == "":
				return fmt.Errorf("%w: mealPlan[%d].day is required", ErrValidation, i)
			case strings.TrimSpace(entry.MealType) == "":
				return fmt.Errorf("%w: mealPlan[%d].mealType is required", ErrValidation, i)
			case strings.TrimSpace(entry.Title) == "":
				return fmt.Errorf("%w: mealPlan[%d].title is required", ErrValidation, i)
			case entry.Calories < 0:
				return fmt.Errorf("%w: mealPlan[%d].calories must not be negative", ErrValidation, i)
			}
			if err := checkUniqueID(seen, entry.ID, "mealPlan", i); err != nil {
				return err
			}
		}
	}
	if p.Nutrition != nil {
		if p.Nutrition.Goal < 0 || p.Nutrition.Consumed < 0 {
			return fmt.Errorf("%w: nutrition values must not be negative", ErrValidation)
		}
	}
	return nil
}

func checkUniqueID(seen map[string]struct{}, id, field string, i int) error {
	if id == "" {
		return nil
	}
	if _, ok := seen[id]; ok {
		return fmt.Errorf("%w: %s[%d].id %q is duplicated", ErrValidation, field, i, id)
	}
	seen[id] = struct{}{}
	return nil
}

// ApplyPatch выполняет поверхностное слияние патча с текущим состоянием.
//
// Записи без id получают детерминированный идентификатор, поэтому повторное
// применение того же патча даёт то же состояние. Для записей, уже
// существующих под этим id, сохраняется исходная дата создания.
func ApplyPatch(current DashboardState, patch DashboardPatch, userID string, now time.Time) (DashboardState, error) {
	if err := patch.Validate(); err != nil {
		return DashboardState{}, err
	}
	now = now.UTC().Truncate(time.Microsecond)

	next := DashboardState{
		PantryItems: append([]PantryItem{}, current.PantryItems...),
		MealPlan:    append([]MealPlanEntry{}, current.MealPlan...),
		Nutrition:   current.Nutrition,
	}

	if patch.PantryItems != nil {
		created := make(map[string]time.Time, len(current.PantryItems))
		for _, item := range current.PantryItems {
			created[item.ID] = item.CreatedAt
		}
		items := make([]PantryItem, 0, len(*patch.PantryItems))
		for i, item := range *patch.PantryItems {
			item.UserID = userID
			item.Name = strings.TrimSpace(item.Name)
			if item.Quantity == "" {
				item.Quantity = DefaultPantryQuantity
			}
			if item.ID == "" {
				item.ID = derivedID(userID, "pantry", i, item.Name+"|"+item.Quantity)
			}
			item.CreatedAt = createdAt(created, item.ID, item.CreatedAt, now)
			items = append(items, item)
		}
		next.PantryItems = items
	}

	if patch.MealPlan != nil {
		created := make(map[string]time.Time, len(current.MealPlan))
		for _, entry := range current.MealPlan {
			created[entry.ID] = entry.CreatedAt
		}
		entries := make([]MealPlanEntry, 0, len(*patch.MealPlan))
		for i, entry := range *patch.MealPlan {
			entry.UserID = userID
			if entry.ID == "" {
				content := fmt.Sprintf("%s|%s|%s|%d", entry.Day, entry.MealType, entry.Title, entry.Calories)
				entry.ID = derivedID(userID, "meal", i, content)
			}
			entry.CreatedAt = createdAt(created, entry.ID, entry.CreatedAt, now)
			entries = append(entries, entry)
		}
		next.MealPlan = entries
	}

	if patch.Nutrition != nil {
		next.Nutrition = *patch.Nutrition
	}
	return next, nil
}

func derivedID(userID, kind string, pos int, content string) string {
	name := fmt.Sprintf("%s/%s/%d/%s", userID, kind, pos, content)
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(name)).String()
}

func createdAt(existing map[string]time.Time, id string, given, now time.Time) time.Time {
	if t, ok := existing[id]; ok && !t.IsZero() {
		return t
	}
	if !given.IsZero() {
		return given.UTC().Truncate(time.Microsecond)
	}
	return now
}
