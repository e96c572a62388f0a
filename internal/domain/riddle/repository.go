package riddle

import (
	"context"
	"time"

	"github.com/guessnica/guessnica-server/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACES
// Эти интерфейсы определяют контракт для работы с хранилищем данных.
// Реализации находятся в infrastructure/persistence.
// ══════════════════════════════════════════════════════════════════════════════

// LocationRepository определяет операции над локациями.
type LocationRepository interface {
	// Create создаёт новую локацию.
	Create(ctx context.Context, loc *Location) error

	// GetByID возвращает локацию по ID.
	// Возвращает shared.ErrLocationNotFound, если локация не найдена.
	GetByID(ctx context.Context, id shared.LocationID) (*Location, error)

	// Update обновляет описание/картинку локации.
	// Координаты локации, на которую уже ссылаются ответы, не меняются.
	Update(ctx context.Context, loc *Location) error

	// Delete удаляет локацию.
	// Возвращает shared.ErrLocationInUse, если на локацию ссылаются ответы.
	Delete(ctx context.Context, id shared.LocationID) error

	// List возвращает все локации в порядке создания.
	List(ctx context.Context) ([]*Location, error)
}

// Repository определяет операции над загадками.
type Repository interface {
	// Create создаёт новую загадку.
	Create(ctx context.Context, r *Riddle) error

	// GetByID возвращает загадку по ID.
	// Возвращает shared.ErrRiddleNotFound, если загадка не найдена.
	GetByID(ctx context.Context, id shared.RiddleID) (*Riddle, error)

	// GetActiveAt возвращает загадку, активную в указанный момент
	// ("загадка дня"). Возвращает shared.ErrRiddleNotFound, если на этот
	// день загадка не назначена.
	GetActiveAt(ctx context.Context, t time.Time) (*Riddle, error)

	// Update обновляет параметры загадки (сложность, лимиты, дату).
	Update(ctx context.Context, r *Riddle) error

	// Delete удаляет загадку.
	Delete(ctx context.Context, id shared.RiddleID) error

	// List возвращает все загадки, новые первыми.
	List(ctx context.Context) ([]*Riddle, error)
}
