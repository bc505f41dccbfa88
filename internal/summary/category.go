package summary

import "github.com/ppiankov/sbomdiff/internal/models"

// Summary labels for classified comparisons, in report order
const (
	LabelTotalImages          = "Total Images"
	LabelUBIImages            = "UBI Migrated Images"
	LabelUBIOKImages          = `UBI "Lineup OK" Images`
	LabelJavaFrameworkOK      = `Java images with Tomcat/SpringBoot "lineup OK"`
	LabelJavaFrameworkTotal   = "Total Java images with Tomcat/SpringBoot"
	LabelJavaNoFrameworkOK    = `Java images without Tomcat/SpringBoot "lineup OK"`
	LabelNonJavaOK            = `Non-Java images "lineup OK"`
	LabelAnomalies            = "Images with MISMATCH and missing Spring Boot/Tomcat"
	LabelUBIPercent           = "UBI %"
	LabelUBIOKPercent         = `UBI "lineup OK" %`
	LabelJavaFrameworkPercent = `Java with Tomcat/SpringBoot "lineup OK" %`
	LabelJavaNoFrameworkPct   = `Java without Tomcat/SpringBoot "lineup OK" %`
)

// categoryPrecisions are the decimals of the four percentages when no
// precision is configured. The Java-without-framework share keeps two.
var categoryPrecisions = [4]int{0, 0, 0, 2}

// CategoryAggregator produces the image category summary.
// A negative Precision selects categoryPrecisions.
type CategoryAggregator struct {
	Precision int
}

func (c *CategoryAggregator) precision(i int) int {
	if c.Precision < 0 {
		return categoryPrecisions[i]
	}
	return c.Precision
}

type categoryTally struct {
	total             int
	ubi               int
	ubiOK             int
	javaFramework     int
	javaFrameworkOK   int
	javaNoFramework   int
	javaNoFrameworkOK int
	nonJavaOK         int
	anomalies         int
}

// Summarize implements Aggregator
func (c *CategoryAggregator) Summarize(rows []models.EnrichedRow) []models.SummaryMetric {
	var t categoryTally
	for _, row := range rows {
		t.total++
		f := row.Flags
		if f.IsUBI {
			t.ubi++
			if row.Verdict == models.VerdictMatch {
				t.ubiOK++
			}
		}
		if f.JavaWithFramework {
			t.javaFramework++
		}
		if f.JavaWithFrameworkOK {
			t.javaFrameworkOK++
		}
		if f.JavaWithoutFramework {
			t.javaNoFramework++
		}
		if f.JavaWithoutFrameworkOK {
			t.javaNoFrameworkOK++
		}
		if f.NonJavaOK {
			t.nonJavaOK++
		}
		if row.AnomalyReason == models.AnomalyMissingFramework {
			t.anomalies++
		}
	}

	return []models.SummaryMetric{
		count(LabelTotalImages, t.total),
		count(LabelUBIImages, t.ubi),
		count(LabelUBIOKImages, t.ubiOK),
		count(LabelJavaFrameworkOK, t.javaFrameworkOK),
		count(LabelJavaFrameworkTotal, t.javaFramework),
		count(LabelJavaNoFrameworkOK, t.javaNoFrameworkOK),
		count(LabelNonJavaOK, t.nonJavaOK),
		count(LabelAnomalies, t.anomalies),
		percent(LabelUBIPercent, t.ubi, t.total, c.precision(0)),
		percent(LabelUBIOKPercent, t.ubiOK, t.ubi, c.precision(1)),
		percent(LabelJavaFrameworkPercent, t.javaFrameworkOK, t.javaFramework, c.precision(2)),
		percent(LabelJavaNoFrameworkPct, t.javaNoFrameworkOK, t.javaNoFramework, c.precision(3)),
	}
}
