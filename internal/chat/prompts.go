package chat

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dvloznov/reward-tracker/internal/domain"
)

// buildAdvisorPrompt assembles the full prompt: role instructions, a
// plain-text summary of the spending analysis, and the user's question.
func buildAdvisorPrompt(question string, analysis *domain.Analysis) string {
	basePrompt :=
		"You are a personal finance assistant.\n\n" +
			"Task:\n" +
			"- Answer the user's question using ONLY the spending summary below.\n" +
			"- Be concise and concrete; quote numbers from the summary.\n" +
			"- If the summary does not contain the answer, say so instead of guessing.\n" +
			"- Do not invent transactions, merchants, or amounts.\n"

	return basePrompt + "\n" + buildAnalysisSummary(analysis) + "\nQuestion: " + question + "\n"
}

// buildAnalysisSummary renders the analysis as plain text for the model.
func buildAnalysisSummary(analysis *domain.Analysis) string {
	var b strings.Builder
	b.WriteString("Spending summary:\n")

	if analysis == nil || analysis.TotalTransactions == 0 {
		b.WriteString("- No transactions on record.\n")
		return b.String()
	}

	fmt.Fprintf(&b, "- Total spending: $%.2f across %d transactions\n", analysis.TotalSpending, analysis.TotalTransactions)
	fmt.Fprintf(&b, "- Average transaction: $%.2f\n", analysis.AverageTransaction)

	if len(analysis.CategoryBreakdown) > 0 {
		b.WriteString("- By category:\n")
		categories := make([]string, 0, len(analysis.CategoryBreakdown))
		for category := range analysis.CategoryBreakdown {
			categories = append(categories, category)
		}
		sort.Strings(categories)
		for _, category := range categories {
			stat := analysis.CategoryBreakdown[category]
			fmt.Fprintf(&b, "  - %s: $%.2f (%d transactions)\n", category, stat.Total, stat.Count)
		}
	}

	if len(analysis.MonthlySpending) > 0 {
		b.WriteString("- By month:\n")
		months := make([]string, 0, len(analysis.MonthlySpending))
		for month := range analysis.MonthlySpending {
			months = append(months, month)
		}
		sort.Strings(months)
		for _, month := range months {
			fmt.Fprintf(&b, "  - %s: $%.2f\n", month, analysis.MonthlySpending[month])
		}
	}

	if len(analysis.TopMerchants) > 0 {
		b.WriteString("- Top merchants:\n")
		for _, merchant := range analysis.TopMerchants {
			fmt.Fprintf(&b, "  - %s: $%.2f (%d transactions)\n", merchant.Name, merchant.Total, merchant.Count)
		}
	}

	return b.String()
}
