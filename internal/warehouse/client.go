package warehouse

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
	"github.com/askbq/askbq/internal/schema"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/iterator"
)

// Hard cap on rows read from a single execution, independent of any
// LIMIT the generated query carries.
const defaultMaxRows = 10000

// Client wraps one BigQuery connection bound to a single project and
// credential tuple. Instances are built by the auth resolver and
// discarded whenever credentials change.
type Client struct {
	bq        *bigquery.Client
	projectID string
	maxRows   int
}

func NewClient(bq *bigquery.Client, projectID string) *Client {
	return &Client{bq: bq, projectID: projectID, maxRows: defaultMaxRows}
}

func (c *Client) ProjectID() string {
	return c.projectID
}

// Close is a no-op for a client with no live connection.
func (c *Client) Close() error {
	if c.bq == nil {
		return nil
	}
	return c.bq.Close()
}

// ListTableSchemas walks every table in the dataset and returns column
// names and declared types. Only table metadata is read, never rows.
// Any listing or metadata failure aborts the whole walk so callers never
// observe a half-built mapping.
func (c *Client) ListTableSchemas(ctx context.Context, datasetID string) (schema.Set, error) {
	set := make(schema.Set)
	it := c.bq.Dataset(datasetID).Tables(ctx)
	for {
		tbl, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list tables: %w", err)
		}
		meta, err := tbl.Metadata(ctx)
		if err != nil {
			return nil, fmt.Errorf("table %q metadata: %w", tbl.TableID, err)
		}
		cols := make([]schema.Column, 0, len(meta.Schema))
		for _, f := range meta.Schema {
			cols = append(cols, schema.Column{Name: f.Name, Type: string(f.Type)})
		}
		set[tbl.TableID] = cols
	}
	log.Debug().Str("dataset", datasetID).Int("tables", len(set)).Msg("dataset walk complete")
	return set, nil
}

// Result holds one executed query's rows ready for transport.
type Result struct {
	Columns []string
	Rows    []map[string]any
}

// Execute runs sql against the warehouse exactly as given. The query
// text is never parsed or rewritten here; execution is the only
// validation gate. Column order follows the result schema.
func (c *Client) Execute(ctx context.Context, sql string) (*Result, error) {
	q := c.bq.Query(sql)

	job, err := q.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("query run: %w", err)
	}
	status, err := job.Wait(ctx)
	if err != nil {
		return nil, fmt.Errorf("job wait: %w", err)
	}
	if err := status.Err(); err != nil {
		return nil, err
	}

	it, err := job.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("job read: %w", err)
	}

	res := &Result{Columns: []string{}, Rows: []map[string]any{}}
	first := true
	for {
		var row map[string]bigquery.Value
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}

		if first && it.Schema != nil {
			for _, f := range it.Schema {
				res.Columns = append(res.Columns, f.Name)
			}
			first = false
		}

		m := make(map[string]any, len(row))
		for k, v := range row {
			m[k] = Normalize(v)
		}
		res.Rows = append(res.Rows, m)

		if len(res.Rows) >= c.maxRows {
			log.Warn().Int("max_rows", c.maxRows).Str("job", job.ID()).Msg("row cap reached, truncating result")
			break
		}
	}

	log.Info().Str("job", job.ID()).Int("rows", len(res.Rows)).Msg("query executed")
	return res, nil
}
