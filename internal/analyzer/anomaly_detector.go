package analyzer

import "github.com/ppiankov/sbomdiff/internal/models"

// anomalyReason flags mismatched rows without evidence of either
// tracked runtime framework.
func anomalyReason(verdict models.Verdict, flags models.Flags) string {
	if verdict == models.VerdictMismatch && !flags.HasTomcat && !flags.HasSpringBoot {
		return models.AnomalyMissingFramework
	}
	return ""
}
