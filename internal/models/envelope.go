package models

// ResultEnvelope is the single response shape for an agent turn.
// Exactly one of three states holds: error is set (ok=false), message
// is set with empty rows, or rows/columns are populated.
type ResultEnvelope struct {
	OK      bool             `json:"ok"`
	SQL     *string          `json:"sql"`
	Columns []string         `json:"columns"`
	Rows    []map[string]any `json:"rows"`
	Message *string          `json:"message"`
	Error   *string          `json:"error"`
}

// ResultFailure reports a failed turn. The message carries the upstream
// failure text unchanged.
func ResultFailure(err error) *ResultEnvelope {
	msg := err.Error()
	return &ResultEnvelope{
		OK:      false,
		Columns: []string{},
		Rows:    []map[string]any{},
		Error:   &msg,
	}
}

// ResultFailureWithSQL reports a failed execution along with the query
// text that was attempted, for display next to the error.
func ResultFailureWithSQL(err error, sql string) *ResultEnvelope {
	env := ResultFailure(err)
	env.SQL = &sql
	return env
}

// ResultUnanswerable reports the normal, non-error outcome where the
// model declared the question unanswerable from the schema.
func ResultUnanswerable(message string) *ResultEnvelope {
	return &ResultEnvelope{
		OK:      true,
		Columns: []string{},
		Rows:    []map[string]any{},
		Message: &message,
	}
}

// ResultRows reports a successful execution.
func ResultRows(sql string, columns []string, rows []map[string]any) *ResultEnvelope {
	if columns == nil {
		columns = []string{}
	}
	if rows == nil {
		rows = []map[string]any{}
	}
	return &ResultEnvelope{
		OK:      true,
		SQL:     &sql,
		Columns: columns,
		Rows:    rows,
	}
}
