package job

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakePurger struct {
	calls []time.Time
	err   error
}

func (f *fakePurger) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	if _, ok := ctx.Deadline(); !ok {
		return 0, errors.New("missing deadline")
	}
	f.calls = append(f.calls, now)
	return 3, f.err
}

func TestPurgeSessionsJobRun(t *testing.T) {
	purger := &fakePurger{}
	j := NewPurgeSessionsJob(purger)
	fixed := time.Date(2024, 1, 15, 0, 5, 0, 0, time.UTC)
	j.now = func() time.Time { return fixed }

	j.Run()
	purger.err = errors.New("database is locked")
	j.Run()

	assert.Equal(t, []time.Time{fixed, fixed}, purger.calls)
}
