package analyzer

import (
	"fmt"
	"io"

	"github.com/velosafe/safety-cli/internal/criteria"
	"github.com/velosafe/safety-cli/internal/model"
)

// WriteSummary renders the user-visible analysis summary. It is printed on
// every run regardless of export destinations.
func WriteSummary(w io.Writer, r *Result, crit *criteria.Criteria) {
	fmt.Fprintf(w, "\nRoute: %s (%.1f km)\n", r.Route.Name, r.Route.LengthKm())
	fmt.Fprintf(w, "Road segments processed: %d\n", r.Extraction.Processed)
	fmt.Fprintf(w, "Segments in corridor: %d (%d unique)\n", r.RawCount, r.UniqueCount)

	if len(r.Segments) == 0 {
		fmt.Fprintf(w, "\nNo unsafe roads found at risk >= %.1f. This route looks safe.\n", r.MinRiskScore)
		return
	}

	fmt.Fprintf(w, "\nUnsafe roads found: %d\n", len(r.Segments))
	fmt.Fprintf(w, "Total length: %.1f km\n", r.UnsafeLengthKm())
	fmt.Fprintf(w, "Average risk score: %.1f/10\n", r.AverageRisk())

	breakdown := r.TierBreakdown(crit.LevelFor)
	fmt.Fprintf(w, "\nRisk level breakdown:\n")
	for _, level := range []model.RiskLevel{
		model.RiskCritical, model.RiskHigh, model.RiskMedium, model.RiskLow, model.RiskMinimal,
	} {
		if n := breakdown[level]; n > 0 {
			fmt.Fprintf(w, "  %-8s %d segments\n", level, n)
		}
	}
}
