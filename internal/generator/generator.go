// Package generator produces mock storage metrics for the device templates.
package generator

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/vesaa/storagepulse/internal/models"
)

// Inclusive ranges of the generated values.
const (
	ReadSpeedMin, ReadSpeedMax             = 2000, 11999
	WriteSpeedMin, WriteSpeedMax           = 1500, 9499
	IOPSMin, IOPSMax                       = 400000, 2399999
	PriceMin, PriceMax                     = 4000, 123999
	ScoreMin, ScoreMax                     = 79, 99
	DataReductionMin, DataReductionMax     = 3, 10
	PowerEfficiencyMin, PowerEfficiencyMax = 75, 99
	CarbonReductionMin, CarbonReductionMax = 25, 50
	LatencyMax                             = 0.3
)

// Generator draws metrics from a single random source. It is safe for
// concurrent use.
type Generator struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// New returns a Generator seeded with seed; 0 seeds from the clock.
func New(seed uint64) *Generator {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &Generator{rnd: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Generate merges every template with a fresh set of metrics.
func (g *Generator) Generate(templates []models.DeviceTemplate) []models.Device {
	g.mu.Lock()
	defer g.mu.Unlock()

	out := make([]models.Device, 0, len(templates))
	for _, t := range templates {
		out = append(out, models.Device{
			DeviceTemplate: t,
			Metrics:        g.metrics(),
		})
	}
	return out
}

// metrics must be called with g.mu held.
func (g *Generator) metrics() models.Metrics {
	return models.Metrics{
		ReadSpeed:     g.between(ReadSpeedMin, ReadSpeedMax),
		WriteSpeed:    g.between(WriteSpeedMin, WriteSpeedMax),
		IOPS:          g.between(IOPSMin, IOPSMax),
		Latency:       math.Round(g.rnd.Float64()*LatencyMax*100) / 100,
		Price:         g.between(PriceMin, PriceMax),
		Score:         g.between(ScoreMin, ScoreMax),
		GreenScore:    g.between(ScoreMin, ScoreMax),
		FeatureScore:  g.between(ScoreMin, ScoreMax),
		DataReduction: fmt.Sprintf("%d:1", g.between(DataReductionMin, DataReductionMax)),
		Snapshots:     "Yes",
		Replication:   "Yes",
		Sustainability: models.Sustainability{
			PowerEfficiency: g.between(PowerEfficiencyMin, PowerEfficiencyMax),
			CarbonReduction: g.between(CarbonReductionMin, CarbonReductionMax),
		},
	}
}

func (g *Generator) between(lo, hi int) int {
	return lo + g.rnd.IntN(hi-lo+1)
}
