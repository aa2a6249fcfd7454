package jobs

import (
	"go.uber.org/zap"
)

// SessionSweepJobName is the name of the expired-session sweep job
const SessionSweepJobName = "session_sweep"

// SessionSweeper removes expired sessions and reports how many were dropped.
// The interface keeps the job decoupled from the session package.
type SessionSweeper interface {
	Sweep() int
}

// SessionSweepJob periodically evicts idle sessions from the in-memory store.
// Without it, abandoned browser sessions would accumulate until restart.
type SessionSweepJob struct {
	store  SessionSweeper
	logger *zap.Logger
}

// NewSessionSweepJob creates the sweep job
func NewSessionSweepJob(store SessionSweeper, logger *zap.Logger) *SessionSweepJob {
	return &SessionSweepJob{
		store:  store,
		logger: logger,
	}
}

// Run executes one sweep
func (j *SessionSweepJob) Run() {
	removed := j.store.Sweep()
	if removed > 0 {
		j.logger.Info("Session sweep completed", zap.Int("removed", removed))
	}
}
