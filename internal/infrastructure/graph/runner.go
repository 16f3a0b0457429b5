package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Runner executes one Cypher statement and buffers its result. Each statement
// runs in its own managed transaction.
type Runner interface {
	Run(ctx context.Context, query string, params map[string]any) (*neo4j.EagerResult, error)
}

// Neo4jRunner is the driver-backed Runner
type Neo4jRunner struct {
	driver   neo4j.DriverWithContext
	database string
}

// NewNeo4jRunner creates a driver for uri. Connectivity is not checked until Verify.
func NewNeo4jRunner(uri, username, password, database string) (*Neo4jRunner, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, fmt.Errorf("could not create neo4j driver: %w", err)
	}
	return &Neo4jRunner{driver: driver, database: database}, nil
}

// Verify checks connectivity
func (r *Neo4jRunner) Verify(ctx context.Context) error {
	return r.driver.VerifyConnectivity(ctx)
}

// Close releases the driver
func (r *Neo4jRunner) Close(ctx context.Context) error {
	return r.driver.Close(ctx)
}

// Run executes query with params
func (r *Neo4jRunner) Run(ctx context.Context, query string, params map[string]any) (*neo4j.EagerResult, error) {
	result, err := neo4j.ExecuteQuery(
		ctx,
		r.driver,
		query,
		params,
		neo4j.EagerResultTransformer,
		neo4j.ExecuteQueryWithDatabase(r.database),
	)
	if err != nil {
		return nil, fmt.Errorf("error executing neo4j query: %w", err)
	}
	return result, nil
}

var schemaStatements = []string{
	"CREATE CONSTRAINT profile_id IF NOT EXISTS FOR (p:Profile) REQUIRE p.id IS UNIQUE",
	"CREATE CONSTRAINT content_id IF NOT EXISTS FOR (c:Content) REQUIRE c.id IS UNIQUE",
	"CREATE INDEX content_author IF NOT EXISTS FOR (c:Content) ON (c.author_id)",
	"CREATE INDEX content_created IF NOT EXISTS FOR (c:Content) ON (c.created_at)",
}

// EnsureSchema creates the uniqueness constraints and indexes the repositories rely on
func EnsureSchema(ctx context.Context, runner Runner) error {
	for _, stmt := range schemaStatements {
		if _, err := runner.Run(ctx, stmt, nil); err != nil {
			return err
		}
	}
	return nil
}
