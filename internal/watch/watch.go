// Package watch renders the dashboard overview in a terminal.
package watch

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/vesaa/storagepulse/internal/dashboard"
	"github.com/vesaa/storagepulse/internal/models"
)

var levelMark = map[models.ComparisonLevel]string{
	models.AboveAverage: "+",
	models.NearAverage:  "=",
	models.BelowAverage: "-",
}

var overviewKeys = []string{"deviceScore", "score", "greenScore", "featureScore"}

// Render writes the overview table of view to w. Each score carries a
// marker: + above average, = near average, - below average.
func Render(w io.Writer, view dashboard.View) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "Storage overview  (%s, sorted by %s %s)\n",
		view.FetchedAt.Format("15:04:05"), view.Sort.Key, view.Sort.Direction)
	fmt.Fprintln(tw, "ID\tPRODUCT\tTYPE\tDEVICE\tPERF\tGREEN\tFEATURE\tIOPS\tLATENCY")
	for _, d := range view.Devices {
		fmt.Fprintf(tw, "%d\t%s\t%s", d.ID, d.Name, d.Type)
		for _, k := range overviewKeys {
			v, _ := dashboard.NumericValue(d, k)
			fmt.Fprintf(tw, "\t%.0f%s", v, levelMark[dashboard.CompareKey(d, view.Averages, k)])
		}
		fmt.Fprintf(tw, "\t%s\t%.2f ms\n", dashboard.FormatNumber(float64(d.IOPS)), d.Latency)
	}
	fmt.Fprintf(tw, "\tAVERAGE\t\t%d\t%d\t%d\t%d\t%s\t%.2f ms\n",
		view.Averages.DeviceScore, view.Averages.Score, view.Averages.GreenScore,
		view.Averages.FeatureScore, dashboard.FormatNumber(float64(view.Averages.IOPS)), view.Averages.Latency)

	return tw.Flush()
}
