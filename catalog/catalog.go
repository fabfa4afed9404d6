// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package catalog holds types to record inspected E Ink waveform files
// into a MySQL database.
package catalog // import "github.com/go-lpc/inkwave/catalog"

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/go-lpc/inkwave/internal/xcnv"
	_ "github.com/go-sql-driver/mysql"
)

const (
	host = "localhost"
)

var (
	usr = "username"
	pwd = "s3cr3t"

	drvName = "mysql"
)

// Entry describes a waveform file.
type Entry struct {
	Name            string
	Serial          uint32
	MfgCode         uint8
	FPLLot          uint16
	WaveformType    uint8
	Xwia            string
	Modes           int
	Ranges          int
	UniqueWaveforms int
	CRC32           uint32
	BitsPerPixel    int
}

// EntryFrom creates a catalog entry from the report of the named file.
func EntryFrom(name string, rep *xcnv.Report) Entry {
	hdr := rep.Header
	return Entry{
		Name:            name,
		Serial:          hdr.Serial,
		MfgCode:         hdr.MfgCode,
		FPLLot:          hdr.FPLLot,
		WaveformType:    hdr.WaveformType,
		Xwia:            rep.Xwia.String(),
		Modes:           hdr.NumModes(),
		Ranges:          hdr.NumRanges(),
		UniqueWaveforms: rep.UniqueWaveforms,
		CRC32:           hdr.CRC32,
		BitsPerPixel:    hdr.BitsPerPixel(),
	}
}

// DB exposes convenience methods to record and retrieve waveform files
// from the catalog database.
type DB struct {
	db   *sql.DB
	name string // name of the catalog database
}

// Open opens a connection to the catalog database dbname.
func Open(dbname string) (*DB, error) {
	db, err := sql.Open(drvName, dsn(dbname))
	if err != nil {
		return nil, fmt.Errorf("catalog: could not open %q db: %w", dbname, err)
	}

	err = ping(db, dbname)
	if err != nil {
		return nil, fmt.Errorf("catalog: could not ping %q db: %w", dbname, err)
	}

	return &DB{db: db, name: dbname}, nil
}

// New returns a catalog backed by an already opened database.
func New(db *sql.DB, dbname string) *DB {
	return &DB{db: db, name: dbname}
}

func dsn(db string) string {
	return fmt.Sprintf("%s:%s@tcp(%s)/%s", usr, pwd, host, db)
}

func ping(db *sql.DB, dbname string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := db.PingContext(ctx)
	if err != nil {
		return fmt.Errorf("catalog: could not ping %q db: %w", dbname, err)
	}

	return nil
}

// Close closes the connection to the catalog database.
func (db *DB) Close() error {
	return db.db.Close()
}

const columns = "name, serial, mfg_code, fpl_lot, waveform_type, xwia, modes, ranges, unique_waveforms, crc32, bpp"

// Insert records a waveform file.
func (db *DB) Insert(ctx context.Context, e Entry) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := db.db.ExecContext(
		ctx,
		"INSERT INTO waveforms ("+columns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		e.Name, e.Serial, e.MfgCode, e.FPLLot, e.WaveformType, e.Xwia,
		e.Modes, e.Ranges, e.UniqueWaveforms, e.CRC32, e.BitsPerPixel,
	)
	if err != nil {
		return fmt.Errorf("catalog: could not insert %q: %w", e.Name, err)
	}

	return nil
}

// List returns all the recorded waveform files.
func (db *DB) List(ctx context.Context) ([]Entry, error) {
	return db.query(ctx, "list", "SELECT "+columns+" FROM waveforms ORDER BY name")
}

// BySerial returns the recorded waveform files with the provided serial.
func (db *DB) BySerial(ctx context.Context, serial uint32) ([]Entry, error) {
	return db.query(
		ctx, fmt.Sprintf("serial=%d", serial),
		"SELECT "+columns+" FROM waveforms WHERE serial=? ORDER BY name",
		serial,
	)
}

func (db *DB) query(ctx context.Context, what, query string, args ...interface{}) ([]Entry, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var entries []Entry
	rows, err := db.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("catalog: could not query waveforms (%s): %w", what, err)
	}
	defer rows.Close()

	i := 0
	for rows.Next() {
		var e Entry
		err = rows.Scan(
			&e.Name, &e.Serial, &e.MfgCode, &e.FPLLot, &e.WaveformType, &e.Xwia,
			&e.Modes, &e.Ranges, &e.UniqueWaveforms, &e.CRC32, &e.BitsPerPixel,
		)
		if err != nil {
			return entries, fmt.Errorf("catalog: could not scan row %d (%s): %w", i, what, err)
		}
		i++

		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return entries, fmt.Errorf("catalog: could not scan db for waveforms (%s): %w", what, err)
	}

	if err := ctx.Err(); err != nil {
		return entries, fmt.Errorf("catalog: context error while retrieving waveforms (%s): %w", what, err)
	}

	return entries, nil
}
