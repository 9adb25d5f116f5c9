// Package dashboard turns a fetched device list into what the dashboard
// shows: device scores, column averages, comparison levels and sort order.
// All functions are pure and operate on small in-memory slices.
package dashboard

import (
	"errors"
	"math"

	"github.com/vesaa/storagepulse/internal/models"
)

// ErrNoDevices is returned when an aggregate is requested over an empty list.
var ErrNoDevices = errors.New("no devices")

// ComparisonThreshold is the relative band around an average that still
// counts as "average".
const ComparisonThreshold = 0.05

// FallbackAverages are used for comparisons while no real average exists.
var FallbackAverages = models.Averages{
	DeviceScore:        85,
	Score:              82,
	GreenScore:         78,
	FeatureScore:       80,
	DataReductionRatio: 3.5,
	ProtocolCount:      3.2,
}

// DeviceScore is the rounded mean of the performance, green and feature scores.
func DeviceScore(d models.Device) int {
	return roundInt(float64(d.Score+d.GreenScore+d.FeatureScore) / 3)
}

// Enrich returns a copy of devices with DeviceScore filled in.
func Enrich(devices []models.Device) []models.Device {
	out := make([]models.Device, len(devices))
	for i, d := range devices {
		d.DeviceScore = DeviceScore(d)
		out[i] = d
	}
	return out
}

// ComputeAverages returns the mean of every numeric column.
func ComputeAverages(devices []models.Device) (models.Averages, error) {
	if len(devices) == 0 {
		return models.Averages{}, ErrNoDevices
	}

	var sum struct {
		deviceScore, score, green, feature float64
		read, write, iops, latency         float64
		power, carbon                      float64
		reduction, protocols               float64
	}
	for _, d := range devices {
		sum.deviceScore += float64(d.DeviceScore)
		sum.score += float64(d.Score)
		sum.green += float64(d.GreenScore)
		sum.feature += float64(d.FeatureScore)
		sum.read += float64(d.ReadSpeed)
		sum.write += float64(d.WriteSpeed)
		sum.iops += float64(d.IOPS)
		sum.latency += d.Latency
		sum.power += float64(d.Sustainability.PowerEfficiency)
		sum.carbon += float64(d.Sustainability.CarbonReduction)
		sum.reduction += DataReductionRatio(d)
		sum.protocols += float64(len(d.Protocols))
	}

	n := float64(len(devices))
	return models.Averages{
		DeviceScore:        roundInt(sum.deviceScore / n),
		Score:              roundInt(sum.score / n),
		GreenScore:         roundInt(sum.green / n),
		FeatureScore:       roundInt(sum.feature / n),
		ReadSpeed:          roundInt(sum.read / n),
		WriteSpeed:         roundInt(sum.write / n),
		IOPS:               roundInt(sum.iops / n),
		Latency:            round2(sum.latency / n),
		DataReductionRatio: round2(sum.reduction / n),
		ProtocolCount:      round2(sum.protocols / n),
		Sustainability: models.SustainabilityAverages{
			PowerEfficiency: roundInt(sum.power / n),
			CarbonReduction: roundInt(sum.carbon / n),
		},
	}, nil
}

// Compare classifies value against average. For inverted metrics (latency)
// lower is better.
func Compare(value, average float64, inverted bool) models.ComparisonLevel {
	threshold := average * ComparisonThreshold

	better, worse := value >= average+threshold, value <= average-threshold
	if inverted {
		better, worse = value <= average-threshold, value >= average+threshold
	}
	switch {
	case better:
		return models.AboveAverage
	case worse:
		return models.BelowAverage
	default:
		return models.NearAverage
	}
}

// CompareKey classifies a device column against the averages, substituting
// FallbackAverages when the computed average is zero.
func CompareKey(d models.Device, avg models.Averages, key string) models.ComparisonLevel {
	f, ok := fields[key]
	if !ok || !f.numeric {
		return models.NearAverage
	}
	a, ok := AverageOf(avg, key)
	if !ok {
		return models.NearAverage
	}
	if a == 0 {
		a, _ = AverageOf(FallbackAverages, key)
	}
	return Compare(f.num(d), a, f.inverted)
}

// AverageOf reads one column from avg by sort key.
func AverageOf(avg models.Averages, key string) (float64, bool) {
	switch key {
	case "deviceScore":
		return float64(avg.DeviceScore), true
	case "score":
		return float64(avg.Score), true
	case "greenScore":
		return float64(avg.GreenScore), true
	case "featureScore":
		return float64(avg.FeatureScore), true
	case "readSpeed":
		return float64(avg.ReadSpeed), true
	case "writeSpeed":
		return float64(avg.WriteSpeed), true
	case "iops":
		return float64(avg.IOPS), true
	case "latency":
		return avg.Latency, true
	case "dataReductionRatio":
		return avg.DataReductionRatio, true
	case "protocolCount":
		return avg.ProtocolCount, true
	case "sustainability.powerEfficiency":
		return float64(avg.Sustainability.PowerEfficiency), true
	case "sustainability.carbonReduction":
		return float64(avg.Sustainability.CarbonReduction), true
	}
	return 0, false
}

// PerformanceLevelOf buckets a 0-100 score.
func PerformanceLevelOf(score int) models.PerformanceLevel {
	switch {
	case score >= 90:
		return models.LevelExcellent
	case score >= 75:
		return models.LevelGood
	case score >= 60:
		return models.LevelAverage
	default:
		return models.LevelPoor
	}
}

// roundInt rounds half up, the way the dashboard always has.
func roundInt(x float64) int {
	return int(math.Floor(x + 0.5))
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
