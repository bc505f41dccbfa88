package analyzer

import (
	"strings"

	"github.com/ppiankov/sbomdiff/internal/models"
)

// Classify derives category flags and anomaly reasons. When classified is
// false rows pass through with zero flags and no anomaly reason.
func Classify(rows []models.AnnotatedRow, classified bool, ubiMarker string) []models.EnrichedRow {
	enriched := make([]models.EnrichedRow, 0, len(rows))
	for _, row := range rows {
		er := models.EnrichedRow{AnnotatedRow: row, Classified: classified}
		if classified {
			er.Flags = DeriveFlags(row, ubiMarker)
			er.AnomalyReason = anomalyReason(row.Verdict, er.Flags)
		}
		enriched = append(enriched, er)
	}
	return enriched
}

// DeriveFlags computes the category flags of a row from its actual values
func DeriveFlags(row models.AnnotatedRow, ubiMarker string) models.Flags {
	ok := row.Verdict == models.VerdictMatch

	var f models.Flags
	f.IsUBI = containsFold(row.Roles[models.RoleBaseImage], ubiMarker)
	f.IsJava = hasValue(row.Roles[models.RoleJava])
	f.HasTomcat = hasValue(row.Roles[models.RoleTomcat])
	f.HasSpringBoot = hasValue(row.Roles[models.RoleSpringBoot])

	framework := f.HasTomcat || f.HasSpringBoot
	f.JavaWithFramework = f.IsJava && framework
	f.JavaWithoutFramework = f.IsJava && !framework
	f.NonJava = !f.IsJava

	f.JavaWithFrameworkOK = f.JavaWithFramework && ok
	f.JavaWithoutFrameworkOK = f.JavaWithoutFramework && ok
	f.NonJavaOK = f.NonJava && ok
	return f
}

func hasValue(value string) bool {
	return models.NormalizeValue(value) != ""
}

func containsFold(value, marker string) bool {
	if marker == "" {
		return false
	}
	return strings.Contains(strings.ToLower(value), strings.ToLower(marker))
}
