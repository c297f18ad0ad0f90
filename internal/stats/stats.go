package stats

import (
	"runtime"

	"github.com/rs/zerolog/log"
)

type MemUsage struct {
	AllocMiB      uint64
	TotalAllocMiB uint64
	SysMiB        uint64
	NumGC         uint32
}

// LogMemUsage logs the current, total and OS memory being used as well as the number
// of completed garbage collection cycles.
func LogMemUsage() MemUsage {
	bToMB := func(b uint64) uint64 {
		return b / 1024 / 1024
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	u := MemUsage{
		AllocMiB:      bToMB(m.Alloc),
		TotalAllocMiB: bToMB(m.TotalAlloc),
		SysMiB:        bToMB(m.Sys),
		NumGC:         m.NumGC,
	}
	log.Info().
		Uint64("allocMiB", u.AllocMiB).
		Uint64("totalAllocMiB", u.TotalAllocMiB).
		Uint64("sysMiB", u.SysMiB).
		Uint32("numGC", u.NumGC).
		Msg("memory usage")

	return u
}
