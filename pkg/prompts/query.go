package prompts

import (
	"fmt"
	"strings"

	"github.com/ekaya-inc/ekaya-eventbot/pkg/schema"
)

// QuerySystemMessage is sent with every query-generation request.
const QuerySystemMessage = "You translate natural language questions into a single read-only SQL SELECT statement. Respond with the statement only."

// BuildQueryPrompt creates the query-generation prompt for one utterance.
// Output depends only on the contract and the utterance, so identical
// inputs always produce byte-identical prompts.
func BuildQueryPrompt(contract *schema.Contract, utterance string) string {
	var prompt strings.Builder

	prompt.WriteString(fmt.Sprintf("You are an AI that converts natural language questions into %s SELECT queries.\n\n", contract.DialectName()))

	prompt.WriteString(fmt.Sprintf("The database has a table named `%s` with these columns:\n", contract.Entity()))
	prompt.WriteString(strings.Join(contract.ColumnNames(), ", "))
	prompt.WriteString(".\n\n")

	expr := contract.TemporalExpression()
	prompt.WriteString("Rules:\n")
	if sample := contract.TemporalSample(); sample != "" {
		prompt.WriteString(fmt.Sprintf("- `%s` is a string like '%s'\n", contract.TemporalColumn(), sample))
	}
	prompt.WriteString(fmt.Sprintf("- Use %s for comparisons\n", expr))
	prompt.WriteString("- Use:\n")
	prompt.WriteString(fmt.Sprintf("    %s >= ...\n", expr))
	prompt.WriteString(fmt.Sprintf("    AND %s < ...\n", expr))

	if cats := contract.Categories(); len(cats) > 0 {
		prompt.WriteString(fmt.Sprintf("- `%s` mappings:\n", contract.CategoryColumn()))
		for _, cat := range cats {
			prompt.WriteString(fmt.Sprintf("    • %s → %d\n", cat.Label, cat.ID))
		}
	}

	prompt.WriteString("\nReturn only a valid SELECT query. No markdown, no comments.\n")
	prompt.WriteString(fmt.Sprintf("Always use %s.\n\n", contract.RowCapClause()))

	prompt.WriteString(fmt.Sprintf("User query: %q\n", utterance))

	return prompt.String()
}
