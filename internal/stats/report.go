// Package stats contains history calculations and reporting.
package stats

import (
	"context"

	"github.com/verte-zerg/pirecall/internal/model"
	"github.com/verte-zerg/pirecall/internal/store"
)

// Report contains precomputed data for history rendering.
type Report struct {
	Sessions []model.SessionRecord
	Summary  Summary
	Curve    []float64
	ByMode   map[string]Summary
}

// BuildReport loads and prepares data for history rendering.
func BuildReport(ctx context.Context, st *store.Store, cfg model.HistoryConfig) (Report, error) {
	sessions, err := st.ListSessions(ctx, cfg)
	if err != nil {
		return Report{}, err
	}
	if cfg.Last > 0 && len(sessions) > cfg.Last {
		sessions = sessions[len(sessions)-cfg.Last:]
	}

	byMode := map[string][]model.SessionRecord{}
	for _, s := range sessions {
		byMode[s.Mode] = append(byMode[s.Mode], s)
	}
	summaries := make(map[string]Summary, len(byMode))
	for mode, list := range byMode {
		summaries[mode] = Summarize(list)
	}

	return Report{
		Sessions: sessions,
		Summary:  Summarize(sessions),
		Curve:    ScoreCurve(sessions, cfg.CurveWindow),
		ByMode:   summaries,
	}, nil
}
