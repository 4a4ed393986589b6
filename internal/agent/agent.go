package agent

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/askbq/askbq/internal/auth"
	"github.com/askbq/askbq/internal/llm"
	"github.com/askbq/askbq/internal/models"
	"github.com/askbq/askbq/internal/schema"
	"github.com/askbq/askbq/internal/settings"
	"github.com/askbq/askbq/internal/warehouse"
	"github.com/rs/zerolog/log"
)

// Warehouse is the slice of the warehouse client the agent needs for a
// turn: schema discovery and query execution.
type Warehouse interface {
	ListTableSchemas(ctx context.Context, datasetID string) (schema.Set, error)
	Execute(ctx context.Context, sql string) (*warehouse.Result, error)
}

// Agent runs the question pipeline: resolve client, ensure schema,
// prompt the model, execute the generated query, package the result.
// A single mutex serializes turns so concurrent questions never race on
// the shared client handle and schema cache.
type Agent struct {
	mu    sync.Mutex
	store *settings.Store
	cache *schema.Cache

	// Remote seams, replaceable in tests.
	client     func(ctx context.Context) (Warehouse, error)
	invalidate func()
	generator  func(ctx context.Context, cfg settings.Config) (llm.Generator, error)
}

func New(store *settings.Store, resolver *auth.Resolver, cache *schema.Cache) *Agent {
	return &Agent{
		store: store,
		cache: cache,
		client: func(ctx context.Context) (Warehouse, error) {
			c, err := resolver.Client(ctx)
			if err != nil {
				return nil, err
			}
			return c, nil
		},
		invalidate: resolver.Invalidate,
		generator:  llm.New,
	}
}

// Answer runs one agent turn for a natural-language question. Every
// failure is converted into the envelope's error field; nothing escapes
// as a raw fault. The question is passed to the model verbatim; the
// model output is executed verbatim, with whitespace trimming and the
// sentinel comparison as the only inspection in between.
func (a *Agent) Answer(ctx context.Context, question string) *models.ResultEnvelope {
	a.mu.Lock()
	defer a.mu.Unlock()

	start := time.Now()

	cfg, err := a.store.Load()
	if err != nil {
		return models.ResultFailure(err)
	}

	client, err := a.client(ctx)
	if err != nil {
		return models.ResultFailure(err)
	}

	set, err := a.cache.Ensure(ctx, client, cfg.DatasetID)
	if err != nil {
		return models.ResultFailure(err)
	}

	gen, err := a.generator(ctx, cfg)
	if err != nil {
		return models.ResultFailure(err)
	}

	out, err := gen.Generate(ctx, buildPrompt(cfg.ProjectID, cfg.DatasetID, set, question))
	if err != nil {
		return models.ResultFailure(err)
	}

	sql := strings.TrimSpace(out)
	if sql == unanswerableSentinel {
		log.Info().Str("question", truncate(question, 120)).Msg("model declared question unanswerable")
		return models.ResultUnanswerable(guidanceMessage)
	}

	result, err := client.Execute(ctx, sql)
	if err != nil {
		log.Warn().Err(err).Str("sql", truncate(sql, 200)).Msg("query execution failed")
		return models.ResultFailureWithSQL(err, sql)
	}

	log.Info().
		Str("question", truncate(question, 120)).
		Int("rows", len(result.Rows)).
		Dur("took", time.Since(start)).
		Msg("question answered")

	return models.ResultRows(sql, result.Columns, result.Rows)
}

// TestConnection walks the dataset unconditionally, replacing the
// cached schema, and returns the sorted table names for display.
func (a *Agent) TestConnection(ctx context.Context) ([]string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	cfg, err := a.store.Load()
	if err != nil {
		return nil, err
	}

	client, err := a.client(ctx)
	if err != nil {
		return nil, err
	}

	_, names, err := a.cache.Refresh(ctx, client, cfg.DatasetID)
	return names, err
}

// Invalidate discards the warehouse client and the schema cache as one
// transition. Callers invoke it after any credential-relevant write;
// leaving either half behind would let a stale session outlive the
// credentials it was built from.
func (a *Agent) Invalidate() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.invalidate()
	a.cache.Invalidate()
	log.Info().Msg("warehouse session reset")
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
