package watch

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/matryer/is"

	"github.com/vesaa/storagepulse/internal/dashboard"
	"github.com/vesaa/storagepulse/internal/models"
)

func TestRenderMarksComparisonLevels(t *testing.T) {
	is := is.New(t)

	strong := models.Device{}
	strong.ID, strong.Name, strong.Type = 1, "Alletra", "NVMe SSD"
	strong.Score, strong.GreenScore, strong.FeatureScore = 99, 99, 99
	strong.IOPS, strong.Latency = 2_000_000, 0.05

	weak := models.Device{}
	weak.ID, weak.Name, weak.Type = 2, "MSA", "SATA SSD"
	weak.Score, weak.GreenScore, weak.FeatureScore = 79, 79, 79
	weak.IOPS, weak.Latency = 400_000, 0.25

	view, err := dashboard.BuildView(dashboard.Enrich([]models.Device{weak, strong}), dashboard.DefaultSort, time.Now())
	is.NoErr(err)

	var buf bytes.Buffer
	is.NoErr(Render(&buf, view))
	out := buf.String()

	lines := strings.Split(strings.TrimSpace(out), "\n")
	is.Equal(len(lines), 5) // title, header, two devices, average
	is.True(strings.HasPrefix(lines[2], "1 "))  // highest device score first
	is.True(strings.Contains(lines[2], "99+"))
	is.True(strings.Contains(lines[3], "79-"))
	is.True(strings.Contains(lines[2], "2.0M"))
	is.True(strings.Contains(lines[4], "AVERAGE"))
}
