package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/fantasy-cards/internal/domain/stats"
	"github.com/riskibarqy/fantasy-cards/internal/domain/week"
)

// StatsRepository stores game lines keyed by (player, week). Season reads
// order lines most recent first by week number.
type StatsRepository struct {
	mu    sync.RWMutex
	items map[string]stats.PlayerGameStats
	weeks map[string]week.Week
}

func NewStatsRepository(weeks []week.Week, lines []stats.PlayerGameStats) *StatsRepository {
	weekIndex := make(map[string]week.Week, len(weeks))
	for _, w := range weeks {
		weekIndex[w.ID] = w
	}
	r := &StatsRepository{
		items: make(map[string]stats.PlayerGameStats, len(lines)),
		weeks: weekIndex,
	}
	for _, line := range lines {
		r.items[statsKey(line.PlayerID, line.WeekID)] = cloneStats(line)
	}
	return r
}

func (r *StatsRepository) GetByPlayerAndWeek(_ context.Context, playerID, weekID string) (stats.PlayerGameStats, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[statsKey(playerID, weekID)]
	if !ok {
		return stats.PlayerGameStats{}, false, nil
	}
	return cloneStats(item), true, nil
}

func (r *StatsRepository) ListByPlayerSeason(_ context.Context, playerID string, season int) ([]stats.PlayerGameStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []stats.PlayerGameStats
	for _, item := range r.items {
		if item.PlayerID != playerID {
			continue
		}
		if w, ok := r.weeks[item.WeekID]; !ok || w.Season != season {
			continue
		}
		out = append(out, cloneStats(item))
	}
	sort.Slice(out, func(i, j int) bool {
		return r.weeks[out[i].WeekID].Number > r.weeks[out[j].WeekID].Number
	})
	return out, nil
}

func (r *StatsRepository) ListPlayerIDsBySeason(_ context.Context, season int) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]struct{})
	var out []string
	for _, item := range r.items {
		if w, ok := r.weeks[item.WeekID]; !ok || w.Season != season {
			continue
		}
		if _, ok := seen[item.PlayerID]; ok {
			continue
		}
		seen[item.PlayerID] = struct{}{}
		out = append(out, item.PlayerID)
	}
	sort.Strings(out)
	return out, nil
}

// Put stores or replaces one game line, for simulator jobs and tests.
func (r *StatsRepository) Put(_ context.Context, line stats.PlayerGameStats) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[statsKey(line.PlayerID, line.WeekID)] = cloneStats(line)
	return nil
}

func statsKey(playerID, weekID string) string {
	return playerID + "::" + weekID
}

func cloneStats(item stats.PlayerGameStats) stats.PlayerGameStats {
	copied := item
	copied.Metrics = make(map[string]float64, len(item.Metrics))
	for metric, value := range item.Metrics {
		copied.Metrics[metric] = value
	}
	if item.TeamResult != nil {
		result := *item.TeamResult
		copied.TeamResult = &result
	}
	return copied
}
