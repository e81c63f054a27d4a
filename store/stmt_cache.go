// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package store

import (
	"database/sql"
	"sync"
)

// statements holds one prepared statement per query, for the life of the store.
type statements struct {
	db *sql.DB

	mu    sync.Mutex
	bySQL map[string]*sql.Stmt
}

func newStatements(db *sql.DB) *statements {
	return &statements{db: db, bySQL: make(map[string]*sql.Stmt)}
}

// Prepare returns the statement of query, preparing it on first use.
func (st *statements) Prepare(query string) (*sql.Stmt, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	if stmt, ok := st.bySQL[query]; ok {
		return stmt, nil
	}
	stmt, err := st.db.Prepare(query)
	if err != nil {
		return nil, err
	}
	st.bySQL[query] = stmt
	return stmt, nil
}

func (st *statements) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.bySQL)
}

// Close closes every statement and returns the first error.
func (st *statements) Close() (err error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	for query, stmt := range st.bySQL {
		if cerr := stmt.Close(); cerr != nil && err == nil {
			err = cerr
		}
		delete(st.bySQL, query)
	}
	return err
}
