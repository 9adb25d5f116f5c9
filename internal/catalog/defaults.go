package catalog

import "github.com/vesaa/storagepulse/internal/models"

// DefaultTemplates is the built-in product line-up served by the stub endpoint.
func DefaultTemplates() []models.DeviceTemplate {
	return []models.DeviceTemplate{
		{
			ID:          1,
			Name:        "HPE GreenLake for File Storage - Enterprise",
			ProductLine: "HPE GreenLake",
			Type:        "File Storage",
			Tier:        "Enterprise",
			Capacity:    "100TB",
			Protocols:   []string{"NFS", "SMB", "S3"},
			Deployment:  "Cloud-managed",
		},
		{
			ID:          2,
			Name:        "HPE GreenLake for Block Storage - Performance",
			ProductLine: "HPE GreenLake",
			Type:        "Block Storage",
			Tier:        "Performance",
			Capacity:    "50TB",
			Protocols:   []string{"iSCSI", "FC"},
			Deployment:  "Cloud-managed",
		},
		{
			ID:          3,
			Name:        "HPE Alletra 6000",
			ProductLine: "Alletra",
			Type:        "NVMe SSD",
			Tier:        "Enterprise",
			Capacity:    "24TB",
			Protocols:   []string{"NVMe", "SAS"},
			Deployment:  "On-premises",
		},
		{
			ID:          4,
			Name:        "HPE Nimble Storage Adaptive Flash",
			ProductLine: "Nimble",
			Type:        "Hybrid SSD/HDD",
			Tier:        "Midrange",
			Capacity:    "48TB",
			Protocols:   []string{"iSCSI", "FC"},
			Deployment:  "On-premises",
		},
		{
			ID:          5,
			Name:        "HPE StoreEasy 1660",
			ProductLine: "StoreEasy",
			Type:        "File Storage",
			Tier:        "Entry",
			Capacity:    "16TB",
			Protocols:   []string{"NFS", "SMB"},
			Deployment:  "On-premises",
		},
		{
			ID:          6,
			Name:        "HPE MSA 2062",
			ProductLine: "MSA",
			Type:        "SATA SSD",
			Tier:        "Entry",
			Capacity:    "8TB",
			Protocols:   []string{"SAS", "iSCSI"},
			Deployment:  "On-premises",
		},
	}
}
