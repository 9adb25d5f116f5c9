// Package models defines the storage device records served and aggregated by StoragePulse.
package models

// DeviceTemplate is the static, descriptive half of a device record.
// Templates live in the catalog and never change while the server runs.
type DeviceTemplate struct {
	ID          uint     `gorm:"primaryKey" json:"id" mapstructure:"id"`
	Name        string   `gorm:"not null" json:"name" mapstructure:"name"`
	ProductLine string   `gorm:"index" json:"productLine" mapstructure:"productLine"`
	Type        string   `json:"type" mapstructure:"type"`
	Tier        string   `json:"tier" mapstructure:"tier"`
	Capacity    string   `json:"capacity" mapstructure:"capacity"`
	Protocols   []string `gorm:"serializer:json" json:"protocols" mapstructure:"protocols"`
	Deployment  string   `json:"deployment" mapstructure:"deployment"`
}

// TableName keeps the catalog table name stable regardless of the struct name.
func (DeviceTemplate) TableName() string { return "device_templates" }

// Sustainability holds the two green sub-scores.
type Sustainability struct {
	PowerEfficiency int `json:"powerEfficiency"` // 75-99
	CarbonReduction int `json:"carbonReduction"` // percent, 25-50
}

// Metrics is one freshly generated set of numbers for a device.
type Metrics struct {
	// ── Performance ──────────────────────────────────────────────────────────
	ReadSpeed  int     `json:"readSpeed"`  // MB/s
	WriteSpeed int     `json:"writeSpeed"` // MB/s
	IOPS       int     `json:"iops"`
	Latency    float64 `json:"latency"` // ms, two decimals
	Price      int     `json:"price"`

	// ── Scores (0-100) ───────────────────────────────────────────────────────
	Score        int `json:"score"` // performance score
	GreenScore   int `json:"greenScore"`
	FeatureScore int `json:"featureScore"`

	// ── Features ─────────────────────────────────────────────────────────────
	DataReduction string `json:"dataReduction"` // e.g. "5:1"
	Snapshots     string `json:"snapshots"`
	Replication   string `json:"replication"`

	Sustainability Sustainability `json:"sustainability"`
}

// Device is a template merged with a metrics snapshot. This is the wire
// format of GET /api/devices. DeviceScore is derived by the dashboard
// layer and is zero (omitted) on the generator side.
type Device struct {
	DeviceTemplate
	Metrics
	DeviceScore int `json:"deviceScore,omitempty"`
}
