package timer_test

import (
	"testing"
	"time"

	"github.com/konstantinfoerster/scryfall-go/internal/stats"
	"github.com/konstantinfoerster/scryfall-go/internal/timer"
	"github.com/stretchr/testify/assert"
)

func TestTimeTrack(t *testing.T) {
	elapsed := timer.TimeTrack(time.Now().Add(-time.Second), "test")

	assert.GreaterOrEqual(t, elapsed, time.Second)
}

func TestLogMemUsage(t *testing.T) {
	u := stats.LogMemUsage()

	assert.Positive(t, u.SysMiB)
}
