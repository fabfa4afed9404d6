// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package fakedb holds types to fake an in-memory DB.
//
// Queries return the rows provided to Run.
// Statements executed during Run are recorded and returned by Run.
package fakedb // import "github.com/go-lpc/inkwave/internal/fakedb"

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"io"
	"sync"
)

// Stmt is a recorded statement.
type Stmt struct {
	Query string
	Args  []driver.Value
}

var state struct {
	mu    sync.Mutex
	rows  Rows
	stmts []Stmt
}

// Run runs f with the provided rows as the result of any query,
// and returns the statements executed or queried by f.
func Run(ctx context.Context, rows Rows, f func(ctx context.Context) error) ([]Stmt, error) {
	state.mu.Lock()
	defer state.mu.Unlock()
	state.rows = rows
	state.stmts = nil

	err := f(ctx)
	return state.stmts, err
}

func record(query string, args []driver.Value) {
	state.stmts = append(state.stmts, Stmt{
		Query: query,
		Args:  append([]driver.Value(nil), args...),
	})
}

func init() {
	sql.Register("fakedb", &Driver{})
}

type Driver struct{}

// Open returns a new connection to the database.
func (drv *Driver) Open(name string) (driver.Conn, error) {
	return &Conn{}, nil
}

type Conn struct{}

// Prepare returns a prepared statement, bound to this connection.
func (c *Conn) Prepare(query string) (driver.Stmt, error) {
	return &stmt{query: query}, nil
}

// Close invalidates and potentially stops any current
// prepared statements and transactions, marking this
// connection as no longer in use.
func (c *Conn) Close() error {
	return nil
}

// Begin starts and returns a new transaction.
func (c *Conn) Begin() (driver.Tx, error) {
	return tx{}, nil
}

type tx struct{}

func (tx) Commit() error   { return nil }
func (tx) Rollback() error { return nil }

type stmt struct {
	query string
}

func (stmt *stmt) Close() error {
	return nil
}

// NumInput returns -1: the number of placeholders is not checked.
func (stmt *stmt) NumInput() int {
	return -1
}

// Exec records the statement and its arguments.
func (stmt *stmt) Exec(args []driver.Value) (driver.Result, error) {
	record(stmt.query, args)
	return driver.RowsAffected(1), nil
}

// Query records the statement and returns the rows provided to Run.
func (stmt *stmt) Query(args []driver.Value) (driver.Rows, error) {
	record(stmt.query, args)
	return &state.rows, nil
}

type Rows struct {
	Names  []string
	Values [][]driver.Value
}

// Columns returns the names of the columns.
func (rows *Rows) Columns() []string {
	return rows.Names
}

// Close closes the rows iterator.
func (rows *Rows) Close() error {
	return nil
}

// Next is called to populate the next row of data into
// the provided slice.
// Next returns io.EOF when there are no more rows.
func (rows *Rows) Next(dest []driver.Value) error {
	if len(rows.Values) == 0 {
		return io.EOF
	}
	copy(dest, rows.Values[0])
	rows.Values = rows.Values[1:]
	return nil
}

var (
	_ driver.Driver = (*Driver)(nil)
	_ driver.Conn   = (*Conn)(nil)
	_ driver.Stmt   = (*stmt)(nil)
	_ driver.Tx     = tx{}
	_ driver.Rows   = (*Rows)(nil)
)
