package leaderboard

import (
	"context"
	"time"
)

// Snapshot - материализованный рейтинг одной пары (категория, окно).
// Снапшоты пересобираются воркером и по событиям новых ответов;
// читатели всегда видят целостный снапшот, а не промежуточное состояние.
type Snapshot struct {
	Category  Category  `json:"category"`
	Window    string    `json:"window"`
	Entries   []Entry   `json:"entries"`
	RebuiltAt time.Time `json:"rebuiltAt"`
}

// Cache определяет контракт кеша снапшотов лидерборда.
// Кеш - оптимизация: при его недоступности рейтинг считается
// напрямую из журнала ответов.
type Cache interface {
	// Store сохраняет снапшот, целиком заменяя предыдущий.
	Store(ctx context.Context, snap Snapshot) error

	// Load возвращает снапшот пары (категория, окно).
	// Второй результат false, если снапшота нет или кеш недоступен.
	Load(ctx context.Context, category Category, window string) (Snapshot, bool, error)

	// InvalidateAll сбрасывает все снапшоты.
	InvalidateAll(ctx context.Context) error
}
