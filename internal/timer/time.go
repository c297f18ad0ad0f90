package timer

import (
	"time"

	"github.com/rs/zerolog/log"
)

// TimeTrack logs the time passed since start, use it with defer at the beginning of a command.
func TimeTrack(start time.Time, name string) time.Duration {
	elapsed := time.Since(start)
	log.Info().Dur("elapsed", elapsed).Msgf("%s took %s", name, elapsed.Round(time.Millisecond))

	return elapsed
}
