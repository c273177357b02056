// Package autosave реализует клиентский координатор автосохранения дашборда.
//
// Каждое изменение состояния перезапускает таймер тишины. Когда таймер
// срабатывает, выполняется ровно одна запись со всеми тремя полями
// дашборда. Записи выполняются строго по одной. Повторов при ошибке нет:
// ошибка передаётся в обработчик, локальное состояние не меняется.
package autosave

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/magabrotheeeer/surchef/internal/lib/metrics"
	"github.com/magabrotheeeer/surchef/internal/lib/sl"
	"github.com/magabrotheeeer/surchef/internal/models"
)

const (
	// DefaultDelay — период тишины перед сохранением.
	DefaultDelay = 350 * time.Millisecond
	// DefaultWriteTimeout — ограничение на одну запись.
	DefaultWriteTimeout = 15 * time.Second
)

// Saver сохраняет патч дашборда текущего пользователя.
type Saver interface {
	WritePatch(ctx context.Context, patch models.DashboardPatch) (models.DashboardState, error)
}

// Option настраивает Coordinator.
type Option func(*Coordinator)

// WithDelay задаёт период тишины.
func WithDelay(d time.Duration) Option {
	return func(c *Coordinator) {
		if d > 0 {
			c.delay = d
		}
	}
}

// WithWriteTimeout задаёт таймаут одной записи.
func WithWriteTimeout(d time.Duration) Option {
	return func(c *Coordinator) {
		if d > 0 {
			c.writeTimeout = d
		}
	}
}

// WithErrorSink задаёт обработчик ошибок записи.
func WithErrorSink(sink func(error)) Option {
	return func(c *Coordinator) {
		if sink != nil {
			c.onError = sink
		}
	}
}

// WithLogger задаёт логгер.
func WithLogger(log *slog.Logger) Option {
	return func(c *Coordinator) {
		if log != nil {
			c.log = log
		}
	}
}

// Coordinator откладывает и объединяет сохранения дашборда.
type Coordinator struct {
	mu         sync.Mutex
	state      models.DashboardState
	saver      Saver
	session    uint64
	generation uint64
	timer      *time.Timer
	closed     bool

	writeMu sync.Mutex

	delay        time.Duration
	writeTimeout time.Duration
	onError      func(error)
	log          *slog.Logger
}

// New создаёт координатор. До вызова Login сохранение выключено.
func New(opts ...Option) *Coordinator {
	c := &Coordinator{
		state:        models.DefaultDashboard(),
		delay:        DefaultDelay,
		writeTimeout: DefaultWriteTimeout,
		log:          slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.onError == nil {
		c.onError = func(err error) {
			c.log.Error("autosave failed", sl.Err(err))
		}
	}
	return c
}

// Login включает автосохранение через saver. Если initial не nil, он
// становится текущим состоянием без запуска сохранения, иначе состояние
// сбрасывается к значениям по умолчанию.
func (c *Coordinator) Login(saver Saver, initial *models.DashboardState) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cancelLocked()
	c.session++
	c.saver = saver
	if initial != nil {
		c.state = cloneState(*initial)
	} else {
		c.state = models.DefaultDashboard()
	}
}

// Logout выключает автосохранение и отменяет отложенную запись.
func (c *Coordinator) Logout() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cancelLocked()
	c.session++
	c.saver = nil
	c.state = models.DefaultDashboard()
}

// SetPantry заменяет список продуктов.
func (c *Coordinator) SetPantry(items []models.PantryItem) {
	c.update(func(s *models.DashboardState) {
		s.PantryItems = append([]models.PantryItem{}, items...)
	})
}

// SetMealPlan заменяет план питания.
func (c *Coordinator) SetMealPlan(entries []models.MealPlanEntry) {
	c.update(func(s *models.DashboardState) {
		s.MealPlan = append([]models.MealPlanEntry{}, entries...)
	})
}

// SetNutrition заменяет цели по калориям.
func (c *Coordinator) SetNutrition(n models.Nutrition) {
	c.update(func(s *models.DashboardState) {
		s.Nutrition = n
	})
}

// Snapshot возвращает копию текущего состояния.
func (c *Coordinator) Snapshot() models.DashboardState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return cloneState(c.state)
}

// Pending сообщает, ожидает ли запись срабатывания таймера.
func (c *Coordinator) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.timer != nil
}

// Flush немедленно выполняет отложенную запись, если она есть.
func (c *Coordinator) Flush(ctx context.Context) error {
	c.mu.Lock()
	if c.timer == nil || c.saver == nil || c.closed {
		c.mu.Unlock()
		return nil
	}
	c.cancelLocked()
	saver, session, patch := c.saver, c.session, patchOf(c.state)
	c.mu.Unlock()

	return c.save(ctx, saver, session, patch)
}

// Close отменяет отложенную запись и дожидается завершения текущей.
func (c *Coordinator) Close() {
	c.mu.Lock()
	c.cancelLocked()
	c.closed = true
	c.session++
	c.saver = nil
	c.mu.Unlock()

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
}

// update игнорирует изменения вне сессии.
func (c *Coordinator) update(mutate func(*models.DashboardState)) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.saver == nil || c.closed {
		return
	}
	mutate(&c.state)
	c.cancelLocked()
	gen := c.generation
	c.timer = time.AfterFunc(c.delay, func() {
		c.fire(gen)
	})
}

// cancelLocked останавливает таймер и делает недействительными уже
// запущенные обработчики срабатывания.
func (c *Coordinator) cancelLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.generation++
}

func (c *Coordinator) fire(gen uint64) {
	c.mu.Lock()
	if gen != c.generation || c.saver == nil || c.closed {
		c.mu.Unlock()
		return
	}
	c.timer = nil
	saver, session, patch := c.saver, c.session, patchOf(c.state)
	c.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), c.writeTimeout)
	defer cancel()
	if err := c.save(ctx, saver, session, patch); err != nil {
		c.onError(err)
	}
}

func (c *Coordinator) save(ctx context.Context, saver Saver, session uint64, patch models.DashboardPatch) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	c.mu.Lock()
	stale := session != c.session
	c.mu.Unlock()
	if stale {
		return nil
	}

	_, err := saver.WritePatch(ctx, patch)
	metrics.AutosaveWrites.WithLabelValues(metrics.Result(err)).Inc()
	return err
}

func patchOf(s models.DashboardState) models.DashboardPatch {
	s = cloneState(s)
	return models.DashboardPatch{
		PantryItems: &s.PantryItems,
		MealPlan:    &s.MealPlan,
		Nutrition:   &s.Nutrition,
	}
}

func cloneState(s models.DashboardState) models.DashboardState {
	return models.DashboardState{
		PantryItems: append([]models.PantryItem{}, s.PantryItems...),
		MealPlan:    append([]models.MealPlanEntry{}, s.MealPlan...),
		Nutrition:   s.Nutrition,
	}
}
