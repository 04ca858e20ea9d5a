package stats

import (
	"testing"

	"github.com/riskibarqy/fantasy-cards/internal/domain/player"
)

func TestTranslate_PassingLine(t *testing.T) {
	metrics := map[string]float64{
		MetricPassingYards:         300,
		MetricPassingTouchdowns:    3,
		MetricPassingInterceptions: 1,
	}

	got := FantasyPoints(player.PositionQuarterback, metrics, ProfileWeekly)
	if got != 22.0 {
		t.Fatalf("expected 22.0 fantasy points, got %v", got)
	}
}

func TestTranslate_ReceptionProfiles(t *testing.T) {
	metrics := map[string]float64{
		MetricReceivingYards: 80,
		MetricReceptions:     6,
	}

	weekly := FantasyPoints(player.PositionWideReceiver, metrics, ProfileWeekly)
	if weekly != 11.0 {
		t.Fatalf("expected 11.0 half-ppr points, got %v", weekly)
	}

	season := FantasyPoints(player.PositionWideReceiver, metrics, ProfileSeason)
	if season != 14.0 {
		t.Fatalf("expected 14.0 full-ppr points, got %v", season)
	}
}

func TestTranslate_MissingMetricsReadAsZero(t *testing.T) {
	got := FantasyPoints(player.PositionRunningBack, map[string]float64{}, ProfileWeekly)
	if got != 0 {
		t.Fatalf("expected 0 points for empty line, got %v", got)
	}

	got = FantasyPoints(player.PositionRunningBack, nil, ProfileWeekly)
	if got != 0 {
		t.Fatalf("expected 0 points for nil line, got %v", got)
	}
}

func TestTranslate_NegativeLineFlooredAtZero(t *testing.T) {
	metrics := map[string]float64{
		MetricPassingInterceptions: 3,
		MetricFumblesLost:          2,
		MetricPassingYards:         10,
	}

	got := FantasyPoints(player.PositionQuarterback, metrics, ProfileWeekly)
	if got != 0 {
		t.Fatalf("expected floor at 0, got %v", got)
	}
}

func TestTranslate_RoundsToOneDecimal(t *testing.T) {
	metrics := map[string]float64{
		MetricRushingYards: 77,
		MetricReceptions:   3,
	}

	line := Translate(player.PositionRunningBack, metrics, ProfileWeekly)
	if line.FantasyPoints != 9.2 {
		t.Fatalf("expected 9.2 points, got %v", line.FantasyPoints)
	}
	if line.RushingPoints != 7.7 {
		t.Fatalf("expected 7.7 rushing points, got %v", line.RushingPoints)
	}
}
