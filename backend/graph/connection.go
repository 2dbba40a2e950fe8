package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/laralove143/sparkle-cache/logger/dlog"
)

// Connection wraps a Neo4j driver. Every statement runs through Query in its
// own transaction.
type Connection struct {
	driver   neo4j.DriverWithContext
	database string
}

// NewConnection dials Neo4j and verifies connectivity before returning.
func NewConnection(ctx context.Context, uri, user, password string) (*Connection, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(user, password, ""))
	if err != nil {
		return nil, fmt.Errorf("create neo4j driver: %w", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		return nil, fmt.Errorf("connect to neo4j: %w", err)
	}
	dlog.Log.Info("connection established", "uri", uri)
	return &Connection{driver: driver, database: "neo4j"}, nil
}

// Query runs one statement and returns its records eagerly.
func (conn *Connection) Query(ctx context.Context, stmts ...string) (*neo4j.EagerResult, error) {
	stmt := join(stmts...)
	dlog.Log.Debug("querying", "stmt", stmt)
	result, err := neo4j.ExecuteQuery(ctx, conn.driver, stmt, make(map[string]any),
		neo4j.EagerResultTransformer, neo4j.ExecuteQueryWithDatabase(conn.database))
	if err != nil {
		return nil, fmt.Errorf("run statement: %w", err)
	}
	return result, nil
}

// Close shuts down the underlying driver.
func (conn *Connection) Close(ctx context.Context) error {
	dlog.Log.Info("closing neo4j connection")
	return conn.driver.Close(ctx)
}
