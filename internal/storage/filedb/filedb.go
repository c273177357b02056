// Package filedb реализует хранилище на одном JSON-файле.
//
// Используется, когда удалённое хранилище не настроено. Документ целиком
// держится в памяти и полностью перезаписывается на диск при каждом
// изменении (временный файл + rename). Все операции сериализуются мьютексом.
package filedb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/magabrotheeeer/surchef/internal/models"
)

type profile struct {
	UserID    string           `json:"userId"`
	Nutrition models.Nutrition `json:"nutrition"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

type document struct {
	Users       []models.User          `json:"users"`
	MealPlans   []models.MealPlanEntry `json:"mealPlans"`
	PantryItems []models.PantryItem    `json:"pantryItems"`
	Profiles    []profile              `json:"profiles"`
}

func (d document) clone() document {
	return document{
		Users:       append([]models.User{}, d.Users...),
		MealPlans:   append([]models.MealPlanEntry{}, d.MealPlans...),
		PantryItems: append([]models.PantryItem{}, d.PantryItems...),
		Profiles:    append([]profile{}, d.Profiles...),
	}
}

// Storage — файловое хранилище.
type Storage struct {
	mu   sync.Mutex
	path string
	doc  document
}

// New открывает файл по пути path. Отсутствующий файл считается пустым
// документом и будет создан при первой записи.
func New(path string) (*Storage, error) {
	const op = "storage.filedb.New"

	s := &Storage{path: path, doc: document{}.clone()}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(data, &s.doc); err != nil {
		return nil, fmt.Errorf("%s: decode %s: %w", op, path, err)
	}
	s.doc = s.doc.clone()
	return s, nil
}

// Path возвращает путь к файлу базы.
func (s *Storage) Path() string {
	return s.path
}

// commit записывает next на диск и делает его текущим документом.
// При ошибке записи текущий документ не меняется.
func (s *Storage) commit(next document) error {
	data, err := json.MarshalIndent(next, "", "  ")
	if err != nil {
		return err
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return err
	}
	defer func() {
		_ = os.Remove(tmp.Name())
	}()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return err
	}
	s.doc = next
	return nil
}

func checkCtx(ctx context.Context, op string) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
		return nil
	}
}

// CreateUser сохраняет нового пользователя. Email сравнивается без учёта регистра.
func (s *Storage) CreateUser(ctx context.Context, user models.User) error {
	const op = "storage.filedb.CreateUser"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.doc.Users {
		if strings.EqualFold(u.Email, user.Email) {
			return fmt.Errorf("%s: %w", op, models.ErrDuplicateAccount)
		}
	}
	next := s.doc.clone()
	next.Users = append(next.Users, user)
	if err := s.commit(next); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetUserByEmail ищет пользователя по email без учёта регистра.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.filedb.GetUserByEmail"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.doc.Users {
		if strings.EqualFold(u.Email, email) {
			found := u
			return &found, nil
		}
	}
	return nil, fmt.Errorf("%s: %w", op, models.ErrNotFound)
}

// GetUserByID ищет пользователя по идентификатору.
func (s *Storage) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	const op = "storage.filedb.GetUserByID"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.doc.Users {
		if u.ID == userID {
			found := u
			return &found, nil
		}
	}
	return nil, fmt.Errorf("%s: %w", op, models.ErrNotFound)
}

func (s *Storage) dashboardLocked(userID string) models.DashboardState {
	state := models.DefaultDashboard()
	for _, item := range s.doc.PantryItems {
		if item.UserID == userID {
			state.PantryItems = append(state.PantryItems, item)
		}
	}
	for _, entry := range s.doc.MealPlans {
		if entry.UserID == userID {
			state.MealPlan = append(state.MealPlan, entry)
		}
	}
	for _, p := range s.doc.Profiles {
		if p.UserID == userID {
			state.Nutrition = p.Nutrition
			break
		}
	}
	return state
}

// ReadDashboard собирает состояние дашборда пользователя.
func (s *Storage) ReadDashboard(ctx context.Context, userID string) (models.DashboardState, error) {
	const op = "storage.filedb.ReadDashboard"
	if err := checkCtx(ctx, op); err != nil {
		return models.DashboardState{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.dashboardLocked(userID), nil
}

// WriteDashboardPatch применяет патч к сохранённому состоянию и записывает
// результат одной перезаписью файла.
func (s *Storage) WriteDashboardPatch(ctx context.Context, userID string, patch models.DashboardPatch, now time.Time) (models.DashboardState, error) {
	const op = "storage.filedb.WriteDashboardPatch"
	if err := checkCtx(ctx, op); err != nil {
		return models.DashboardState{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := models.ApplyPatch(s.dashboardLocked(userID), patch, userID, now)
	if err != nil {
		return models.DashboardState{}, fmt.Errorf("%s: %w", op, err)
	}

	doc := s.doc.clone()
	if patch.PantryItems != nil {
		doc.PantryItems = append(withoutUser(doc.PantryItems, func(i models.PantryItem) string { return i.UserID }, userID), next.PantryItems...)
	}
	if patch.MealPlan != nil {
		doc.MealPlans = append(withoutUser(doc.MealPlans, func(e models.MealPlanEntry) string { return e.UserID }, userID), next.MealPlan...)
	}
	if patch.Nutrition != nil {
		updated := profile{UserID: userID, Nutrition: next.Nutrition, UpdatedAt: now.UTC()}
		replaced := false
		for i, p := range doc.Profiles {
			if p.UserID == userID {
				doc.Profiles[i] = updated
				replaced = true
				break
			}
		}
		if !replaced {
			doc.Profiles = append(doc.Profiles, updated)
		}
	}

	if err := s.commit(doc); err != nil {
		return models.DashboardState{}, fmt.Errorf("%s: %w", op, err)
	}
	return s.dashboardLocked(userID), nil
}

func withoutUser[T any](records []T, owner func(T) string, userID string) []T {
	kept := records[:0:0]
	for _, r := range records {
		if owner(r) != userID {
			kept = append(kept, r)
		}
	}
	return kept
}

// ListPantryItems возвращает продукты пользователя в порядке добавления.
func (s *Storage) ListPantryItems(ctx context.Context, userID string) ([]models.PantryItem, error) {
	const op = "storage.filedb.ListPantryItems"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.dashboardLocked(userID).PantryItems, nil
}

// CreatePantryItem добавляет продукт в конец кладовой пользователя.
func (s *Storage) CreatePantryItem(ctx context.Context, item models.PantryItem) error {
	const op = "storage.filedb.CreatePantryItem"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.doc.clone()
	next.PantryItems = append(next.PantryItems, item)
	if err := s.commit(next); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// DeletePantryItem удаляет продукт пользователя. Чужие записи не видны.
func (s *Storage) DeletePantryItem(ctx context.Context, userID, id string) error {
	const op = "storage.filedb.DeletePantryItem"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.doc.clone()
	for i, item := range next.PantryItems {
		if item.ID == id && item.UserID == userID {
			next.PantryItems = append(next.PantryItems[:i], next.PantryItems[i+1:]...)
			if err := s.commit(next); err != nil {
				return fmt.Errorf("%s: %w", op, err)
			}
			return nil
		}
	}
	return fmt.Errorf("%s: %w", op, models.ErrNotFound)
}

// ListMealPlans возвращает блюда пользователя в порядке добавления.
func (s *Storage) ListMealPlans(ctx context.Context, userID string) ([]models.MealPlanEntry, error) {
	const op = "storage.filedb.ListMealPlans"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.dashboardLocked(userID).MealPlan, nil
}

// CreateMealPlan добавляет блюдо в план пользователя.
func (s *Storage) CreateMealPlan(ctx context.Context, entry models.MealPlanEntry) error {
	const op = "storage.filedb.CreateMealPlan"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.doc.clone()
	next.MealPlans = append(next.MealPlans, entry)
	if err := s.commit(next); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// DeleteMealPlan удаляет блюдо пользователя.
func (s *Storage) DeleteMealPlan(ctx context.Context, userID, id string) error {
	const op = "storage.filedb.DeleteMealPlan"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.doc.clone()
	for i, entry := range next.MealPlans {
		if entry.ID == id && entry.UserID == userID {
			next.MealPlans = append(next.MealPlans[:i], next.MealPlans[i+1:]...)
			if err := s.commit(next); err != nil {
				return fmt.Errorf("%s: %w", op, err)
			}
			return nil
		}
	}
	return fmt.Errorf("%s: %w", op, models.ErrNotFound)
}

// Ping всегда успешен: файл открывается при каждой записи.
func (s *Storage) Ping(ctx context.Context) error {
	return checkCtx(ctx, "storage.filedb.Ping")
}

// Close ничего не освобождает, все данные уже на диске.
func (s *Storage) Close() error {
	return nil
}
