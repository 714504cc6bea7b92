package pipeline

import (
	"fmt"
	"strings"

	"github.com/sells-group/trustlens/internal/model"
)

// FormatReport generates a human-readable trust report for one run.
func FormatReport(result *model.PipelineResult) string {
	var b strings.Builder

	title := result.URL
	if result.Stats != nil && result.Stats.Name != "" {
		title = result.Stats.Name
	}
	fmt.Fprintf(&b, "# Trust Report: %s\n", title)
	fmt.Fprintf(&b, "URL: %s\n", result.URL)
	if result.ProductID != "" {
		fmt.Fprintf(&b, "Product ID: %s\n", result.ProductID)
	}
	if result.Resumed {
		b.WriteString("Resumed from cached scrape.\n")
	}
	b.WriteString("\n")

	// Stage results.
	b.WriteString("## Stages\n")
	for _, s := range result.Stages {
		fmt.Fprintf(&b, "- %s: %s (%dms)\n", s.Name, string(s.Status), s.Duration)
		if s.Error != "" {
			fmt.Fprintf(&b, "  Error: %s\n", s.Error)
		}
	}
	b.WriteString("\n")

	// Evaluation.
	b.WriteString("## Evaluation\n")
	if result.Evaluation == nil {
		b.WriteString("No evaluation produced.\n\n")
	} else {
		e := result.Evaluation
		fmt.Fprintf(&b, "- Weighted score: %.1f\n", e.WeightedScore)
		fmt.Fprintf(&b, "- Contradiction penalty: %.0f\n", e.ContradictionPenalty)
		fmt.Fprintf(&b, "- Final score: %.1f\n", e.FinalScore)
		fmt.Fprintf(&b, "- Grade: %s\n", e.Grade)
		if len(e.Contradictions) > 0 {
			b.WriteString("- Contradictions:\n")
			for _, c := range e.Contradictions {
				fmt.Fprintf(&b, "  - [%s] %s / %s\n", string(c.Severity), c.Claim, c.Reality)
			}
		}
		b.WriteString("\n")
	}

	// Claims cross-check.
	if result.Claims != nil {
		c := result.Claims
		b.WriteString("## Claims Check\n")
		fmt.Fprintf(&b, "- Trust level: %s\n", c.TrustLevel)
		if c.OverallAssessment != "" {
			fmt.Fprintf(&b, "- Assessment: %s\n", c.OverallAssessment)
		}
		for _, p := range c.Contradictions {
			fmt.Fprintf(&b, "- Contradiction: %s\n", p)
		}
		for _, p := range c.ConsistencyPoints {
			fmt.Fprintf(&b, "- Consistent: %s\n", p)
		}
		b.WriteString("\n")
	}

	// Statistics.
	if result.Stats != nil {
		s := result.Stats
		b.WriteString("## Statistics\n")
		fmt.Fprintf(&b, "- Reviews: %d\n", s.ReviewCount)
		fmt.Fprintf(&b, "- Images: %d (%d with text)\n", s.ImageCount, s.ImageTexts)
		fmt.Fprintf(&b, "- Review groups analyzed: %d\n", s.GroupsAnalyzed)
		if len(s.RatingCounts) > 0 {
			b.WriteString("- Rating distribution:\n")
			for _, star := range []string{"5", "4", "3", "2", "1"} {
				if n, ok := s.RatingCounts[star]; ok {
					fmt.Fprintf(&b, "  - %s stars: %d\n", star, n)
				}
			}
		}
	}

	return b.String()
}
