// Package leaderboard содержит доменную модель лидерборда Guessnica.
// Лидерборд - это чистая проекция журнала ответов: одна и та же
// последовательность ответов всегда даёт один и тот же рейтинг,
// независимо от того, сколько раз его пересчитывают.
package leaderboard

import (
	"sort"
	"strings"
	"time"

	"github.com/guessnica/guessnica-server/internal/domain/shared"
	"github.com/guessnica/guessnica-server/internal/domain/submission"
	"github.com/guessnica/guessnica-server/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// Category определяет метрику, по которой строится рейтинг.
type Category string

const (
	// CategoryScore - суммарные очки за окно (по убыванию).
	CategoryScore Category = "score"

	// CategoryAccuracy - доля правильных ответов в процентах (по убыванию).
	CategoryAccuracy Category = "accuracy"

	// CategoryGamesPlayed - количество сыгранных загадок (по убыванию).
	CategoryGamesPlayed Category = "gamesPlayed"

	// CategoryAverageTime - среднее время ответа в секундах (по возрастанию).
	CategoryAverageTime Category = "averageTime"
)

// AllCategories возвращает все категории в порядке отображения.
func AllCategories() []Category {
	return []Category{CategoryScore, CategoryAccuracy, CategoryGamesPlayed, CategoryAverageTime}
}

// ParseCategory разбирает категорию из строки query-параметра.
// Пустая строка означает категорию по умолчанию (score).
func ParseCategory(s string) (Category, error) {
	switch strings.TrimSpace(s) {
	case "", "score":
		return CategoryScore, nil
	case "accuracy":
		return CategoryAccuracy, nil
	case "gamesPlayed", "games_played", "games":
		return CategoryGamesPlayed, nil
	case "averageTime", "average_time", "time":
		return CategoryAverageTime, nil
	default:
		return "", shared.WrapError("leaderboard", "ParseCategory", shared.ErrUnknownCategory, "unknown category: "+s, nil)
	}
}

// Ascending возвращает true, если меньшее значение метрики лучше.
func (c Category) Ascending() bool {
	return c == CategoryAverageTime
}

// IsValid проверяет, что категория известна.
func (c Category) IsValid() bool {
	switch c {
	case CategoryScore, CategoryAccuracy, CategoryGamesPlayed, CategoryAverageTime:
		return true
	}
	return false
}

// ══════════════════════════════════════════════════════════════════════════════
// ENTRY
// ══════════════════════════════════════════════════════════════════════════════

// Entry - одна строка лидерборда.
type Entry struct {
	// Rank - плотный ранг, начиная с 1. Истинные ничьи делят ранг.
	Rank shared.Rank `json:"rank"`

	// PlayerID - идентификатор игрока.
	PlayerID shared.PlayerID `json:"playerId"`

	// DisplayName - отображаемое имя, подставляется из профиля игрока.
	DisplayName string `json:"displayName"`

	// Score - суммарные очки за окно.
	Score int `json:"score"`

	// GamesPlayed - количество ответов за окно.
	GamesPlayed int `json:"gamesPlayed"`

	// Accuracy - процент правильных ответов, 0-100.
	Accuracy float64 `json:"accuracy"`

	// AverageTime - среднее время ответа в секундах.
	AverageTime float64 `json:"averageTime"`

	// metric - значение метрики выбранной категории, по которому сортируем.
	metric float64

	// firstAt - время самого раннего ответа игрока, попавшего в окно.
	// Используется как tie-break: кто раньше набрал, тот выше.
	firstAt time.Time
}

// Metric возвращает значение метрики категории для этой строки.
func (e Entry) Metric(c Category) float64 {
	switch c {
	case CategoryAccuracy:
		return e.Accuracy
	case CategoryGamesPlayed:
		return float64(e.GamesPlayed)
	case CategoryAverageTime:
		return e.AverageTime
	default:
		return float64(e.Score)
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// RANKING
// ══════════════════════════════════════════════════════════════════════════════

// Rank строит рейтинг по журналу ответов.
//
// Алгоритм:
//  1. отфильтровать ответы по окну (CreatedAt >= cutoff, allTime без фильтра);
//  2. сагрегировать по игрокам; игрок без ответов в окне в рейтинг не попадает;
//  3. отсортировать по метрике категории, при равенстве - по времени самого
//     раннего ответа в окне (раньше = выше), затем по PlayerID для детерминизма;
//  4. назначить плотные ранги с 1: полная ничья (метрика и время) делит ранг,
//     следующая отличная строка получает ранг предыдущей + 1, без пропусков.
//
// names подставляет отображаемые имена; отсутствующий игрок получает пустое имя.
func Rank(subs []*submission.Submission, category Category, window timeutil.Window, now time.Time, names map[shared.PlayerID]string) []Entry {
	cutoff := window.CutoffAt(now)

	type acc struct {
		score   int
		games   int
		correct int
		seconds float64
		firstAt time.Time
	}
	byPlayer := make(map[shared.PlayerID]*acc)

	for _, s := range subs {
		if s == nil {
			continue
		}
		if !cutoff.IsZero() && s.CreatedAt.Before(cutoff) {
			continue
		}
		a := byPlayer[s.PlayerID]
		if a == nil {
			a = &acc{firstAt: s.CreatedAt}
			byPlayer[s.PlayerID] = a
		}
		a.score += s.Score
		a.games++
		if s.Correct {
			a.correct++
		}
		a.seconds += s.ElapsedSeconds
		if s.CreatedAt.Before(a.firstAt) {
			a.firstAt = s.CreatedAt
		}
	}

	entries := make([]Entry, 0, len(byPlayer))
	for id, a := range byPlayer {
		e := Entry{
			PlayerID:    id,
			DisplayName: names[id],
			Score:       a.score,
			GamesPlayed: a.games,
			Accuracy:    float64(a.correct) / float64(a.games) * 100,
			AverageTime: a.seconds / float64(a.games),
			firstAt:     a.firstAt,
		}
		e.metric = e.Metric(category)
		entries = append(entries, e)
	}

	asc := category.Ascending()
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.metric != b.metric {
			if asc {
				return a.metric < b.metric
			}
			return a.metric > b.metric
		}
		if !a.firstAt.Equal(b.firstAt) {
			return a.firstAt.Before(b.firstAt)
		}
		return a.PlayerID < b.PlayerID
	})

	rank := shared.Rank(0)
	for i := range entries {
		if i == 0 || entries[i].metric != entries[i-1].metric || !entries[i].firstAt.Equal(entries[i-1].firstAt) {
			rank++
		}
		entries[i].Rank = rank
	}
	return entries
}

// PositionOf возвращает строку игрока в готовом рейтинге.
// Если игрока нет в рейтинге, возвращает false.
func PositionOf(entries []Entry, id shared.PlayerID) (Entry, bool) {
	for _, e := range entries {
		if e.PlayerID == id {
			return e, true
		}
	}
	return Entry{}, false
}

// Top возвращает первые n строк рейтинга (или весь рейтинг, если он короче).
func Top(entries []Entry, n int) []Entry {
	if n <= 0 || n >= len(entries) {
		return entries
	}
	return entries[:n]
}
