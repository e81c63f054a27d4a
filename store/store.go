// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package store is an append-only sqlite log of every message exchanged with
// the nodes under test. Rows are tagged with a run id and the node index.
package store

import (
	"database/sql"
	"encoding/json"
	"sync"
	"time"

	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/pborman/uuid"
	"github.com/pkg/errors"
	"github.com/vechain/bftharness/message"
)

// Store is the message log. It is safe for concurrent use.
type Store struct {
	path          string
	run           string
	db            *sql.DB
	stmts         *statements
	driverVersion string

	mu   sync.Mutex
	refs int
}

// New create or open the message log at given path.
func New(path string) (s *Store, err error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrap(err, "open message log")
	}
	defer func() {
		if s == nil {
			db.Close()
		}
	}()
	// a single connection serialises writers, and keeps ":memory:" one database
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(proposalTableSchema + voteTableSchema + commitTableSchema + feedTableSchema + statusTableSchema); err != nil {
		return nil, errors.Wrap(err, "create message log schema")
	}

	driverVer, _, _ := sqlite3.Version()
	return &Store{
		path:          path,
		run:           uuid.New(),
		db:            db,
		stmts:         newStatements(db),
		driverVersion: driverVer,
	}, nil
}

// NewMem create a message log in ram.
func NewMem() (*Store, error) {
	return New(":memory:")
}

// Path returns the database path.
func (s *Store) Path() string { return s.path }

// RunID returns the id tagging the rows of this run.
func (s *Store) RunID() string { return s.run }

// DriverVersion returns the sqlite library version.
func (s *Store) DriverVersion() string { return s.driverVersion }

// Close closes the database.
func (s *Store) Close() error {
	if err := s.stmts.Close(); err != nil {
		s.db.Close()
		return errors.Wrap(err, "close statements")
	}
	return s.db.Close()
}

// Write appends the message as node 0.
func (s *Store) Write(msg message.Message) error {
	return s.write(0, msg)
}

// Node returns a sink writing rows for the given node. Closing it leaves the store open.
func (s *Store) Node(node int) *NodeSink {
	s.mu.Lock()
	s.refs++
	s.mu.Unlock()
	return &NodeSink{s, node}
}

func (s *Store) write(node int, msg message.Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return errors.Wrapf(err, "encode %v", msg.Kind())
	}
	now := time.Now().UnixNano()

	var (
		query string
		args  []any
	)
	switch m := msg.(type) {
	case *message.Proposal:
		query = "INSERT INTO proposal(run, node, timestamp, height, round, proposal) VALUES(?,?,?,?,?,?)"
		args = []any{s.run, node, now, m.Height, m.Round, string(payload)}
	case *message.Vote:
		query = "INSERT INTO vote(run, node, timestamp, height, round, voter, vote) VALUES(?,?,?,?,?,?,?)"
		args = []any{s.run, node, now, m.Height, m.Round, m.Voter.Bytes(), string(payload)}
	case *message.Commit:
		query = "INSERT INTO cmt(run, node, timestamp, height, cmt) VALUES(?,?,?,?,?)"
		args = []any{s.run, node, now, m.Height, string(payload)}
	case *message.Feed:
		query = "INSERT INTO feed(run, node, timestamp, height, feed) VALUES(?,?,?,?,?)"
		args = []any{s.run, node, now, m.Height, string(payload)}
	case *message.Status:
		query = "INSERT INTO status(run, node, timestamp, height, status) VALUES(?,?,?,?,?)"
		args = []any{s.run, node, now, m.Height, string(payload)}
	default:
		return errors.Errorf("unsupported message %T", msg)
	}

	stmt, err := s.stmts.Prepare(query)
	if err != nil {
		return errors.Wrap(err, "prepare insert")
	}
	if _, err := stmt.Exec(args...); err != nil {
		return errors.Wrapf(err, "insert %v", msg.Kind())
	}
	return nil
}

var tables = map[message.Kind]string{
	message.KindProposal: "proposal",
	message.KindVote:     "vote",
	message.KindCommit:   "cmt",
	message.KindFeed:     "feed",
	message.KindStatus:   "status",
}

// Count returns the number of rows of the kind recorded in this run.
func (s *Store) Count(kind message.Kind) (int, error) {
	table, ok := tables[kind]
	if !ok {
		return 0, errors.Errorf("unsupported kind %v", kind)
	}
	stmt, err := s.stmts.Prepare("SELECT COUNT(*) FROM " + table + " WHERE run = ?")
	if err != nil {
		return 0, errors.Wrap(err, "prepare count")
	}
	var n int
	if err := stmt.QueryRow(s.run).Scan(&n); err != nil {
		return 0, errors.Wrapf(err, "count %v", table)
	}
	return n, nil
}

// NodeSink writes the messages of one node into a shared Store.
type NodeSink struct {
	store *Store
	node  int
}

// Write appends the message.
func (ns *NodeSink) Write(msg message.Message) error {
	return ns.store.write(ns.node, msg)
}

// Close releases the sink.
func (ns *NodeSink) Close() error {
	ns.store.mu.Lock()
	ns.store.refs--
	ns.store.mu.Unlock()
	return nil
}

// Sinks returns the number of node sinks not yet closed.
func (s *Store) Sinks() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refs
}
