package agent

import (
	"fmt"
	"sort"
	"strings"

	"github.com/askbq/askbq/internal/schema"
)

// unanswerableSentinel is the exact string the model is instructed to
// return when no query can satisfy the question from the given schema.
// It is compared against the trimmed model output exactly once, in
// Answer; past that point the outcome is carried as a tagged result.
const unanswerableSentinel = "UNANSWERABLE"

const guidanceMessage = "That question can't be answered from the connected dataset. " +
	"Try asking about the tables it contains, or run a connection test to see what's available."

const promptHeader = `You are an expert BigQuery data analyst. Translate the user's question into a single GoogleSQL query against the schema below.`

const promptRules = `RULES:
1. Reply with the SQL text only - no markdown fences, no commentary, no explanation.
2. Always reference tables by their fully qualified name: ` + "`project.dataset.table`" + `.
3. Add LIMIT 200 unless the question explicitly asks for all data.
4. Use GoogleSQL date and time functions (CURRENT_DATE, CURRENT_TIMESTAMP, DATE_SUB, TIMESTAMP_TRUNC) for any date arithmetic.
5. If the question cannot be answered from this schema, reply with exactly ` + unanswerableSentinel + ` and nothing else.`

// buildPrompt renders the fixed-structure prompt: dialect instruction,
// one block per table with fully qualified name and column list, the
// rule set, then the verbatim question. Tables are sorted so identical
// schemas always produce identical prompts.
func buildPrompt(projectID, datasetID string, set schema.Set, question string) string {
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	sb.WriteString(promptHeader)
	fmt.Fprintf(&sb, "\n\nSchema for `%s.%s`:\n\n", projectID, datasetID)
	for _, name := range names {
		fmt.Fprintf(&sb, "Table `%s.%s.%s`:\n", projectID, datasetID, name)
		for _, col := range set[name] {
			fmt.Fprintf(&sb, "  %s %s\n", col.Name, col.Type)
		}
		sb.WriteString("\n")
	}
	sb.WriteString(promptRules)
	sb.WriteString("\n\nQuestion: ")
	sb.WriteString(question)
	return sb.String()
}
