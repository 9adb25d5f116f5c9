package models

// SortDirection is either ascending or descending.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// SortConfig is the dashboard's current ordering. Key may be a dotted path
// into nested fields, e.g. "sustainability.powerEfficiency".
type SortConfig struct {
	Key       string        `json:"key"`
	Direction SortDirection `json:"direction"`
}

// ComparisonLevel classifies a value against its column average.
type ComparisonLevel string

const (
	AboveAverage ComparisonLevel = "above-average"
	NearAverage  ComparisonLevel = "average"
	BelowAverage ComparisonLevel = "below-average"
)

// PerformanceLevel buckets a 0-100 score.
type PerformanceLevel string

const (
	LevelExcellent PerformanceLevel = "excellent"
	LevelGood      PerformanceLevel = "good"
	LevelAverage   PerformanceLevel = "average"
	LevelPoor      PerformanceLevel = "poor"
)

// SustainabilityAverages mirrors Sustainability for column means.
type SustainabilityAverages struct {
	PowerEfficiency int `json:"powerEfficiency"`
	CarbonReduction int `json:"carbonReduction"`
}

// Averages holds the arithmetic mean of every numeric dashboard column.
// Integer columns are rounded; latency, data reduction ratio and protocol
// count keep two decimals.
type Averages struct {
	DeviceScore        int                    `json:"deviceScore"`
	Score              int                    `json:"score"`
	GreenScore         int                    `json:"greenScore"`
	FeatureScore       int                    `json:"featureScore"`
	ReadSpeed          int                    `json:"readSpeed"`
	WriteSpeed         int                    `json:"writeSpeed"`
	IOPS               int                    `json:"iops"`
	Latency            float64                `json:"latency"`
	DataReductionRatio float64                `json:"dataReductionRatio"`
	ProtocolCount      float64                `json:"protocolCount"`
	Sustainability     SustainabilityAverages `json:"sustainability"`
}
