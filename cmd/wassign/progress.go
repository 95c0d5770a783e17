package main

import (
	"go.uber.org/zap"

	"github.com/MaximilianAzendorf/wassign-sub000/shotgun"
)

// fieldsFromProgress renders a shotgun progress snapshot as structured log
// fields for the status sink.
func fieldsFromProgress(p shotgun.ThreadedProgressSnapshot) []zap.Field {
	return []zap.Field{
		zap.Int("iterations", p.Iterations),
		zap.Int("assignments", p.Assignments),
		zap.Int("lp_solves", p.LPCount),
		zap.Float64("best_major", p.BestScore.Major),
		zap.Float64("best_minor", p.BestScore.Minor),
		zap.Duration("time_remaining", p.TimeRemaining),
	}
}
