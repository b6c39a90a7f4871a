// Package job holds the periodic tasks scheduled by the web server.
package job

import (
	"context"
	"time"

	"github.com/ortosupport/course-assistant/logger"
	"github.com/ortosupport/course-assistant/util/common"
)

// SessionPurger deletes sessions that expired before now.
type SessionPurger interface {
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}

// PurgeSessionsJob removes expired rows from the session table.
type PurgeSessionsJob struct {
	purger  SessionPurger
	timeout time.Duration
	now     func() time.Time
}

func NewPurgeSessionsJob(purger SessionPurger) *PurgeSessionsJob {
	return &PurgeSessionsJob{
		purger:  purger,
		timeout: 30 * time.Second,
		now:     time.Now,
	}
}

// Here Run is an interface method of the Job interface
func (j *PurgeSessionsJob) Run() {
	defer common.Recover("purge sessions job")
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	n, err := j.purger.PurgeExpired(ctx, j.now())
	if err != nil {
		logger.Warning("purge sessions job err:", err)
		return
	}
	if n > 0 {
		logger.Debugf("purged %d expired sessions", n)
	}
}
