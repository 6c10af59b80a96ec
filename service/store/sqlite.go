package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sealvault/go-sealvault/util"
	_ "modernc.org/sqlite"
)

const sqliteCacheSize = 4096

// SqliteStore is the durable Store backend, one kv table behind prepared
// statements with an LRU in front of point reads. Cache entries are only
// applied on commit, so a rolled-back transaction never pollutes it.
type SqliteStore struct {
	mu          sync.Mutex
	db          *sql.DB
	cache       *lru.Cache[string, []byte]
	getStmt     *sql.Stmt
	setStmt     *sql.Stmt
	deleteStmt  *sql.Stmt
	scanStmt    *sql.Stmt
	scanAllStmt *sql.Stmt
}

// NewSqliteStore opens (and if needed creates) a sqlite-backed store at the
// given path. Use ":memory:" for an ephemeral store.
func NewSqliteStore(path string) (*SqliteStore, error) {
	defer util.Track("sqlite store init", time.Now())

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite store: %w", err)
	}
	// the store serializes writers itself; a single connection keeps
	// sqlite's own locking out of the picture
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS kv (k BLOB PRIMARY KEY, v BLOB NOT NULL) WITHOUT ROWID;`); err != nil {
		return nil, fmt.Errorf("failed to create kv table: %w", err)
	}
	if _, err := db.ExecContext(ctx, `PRAGMA journal_mode=WAL;`); err != nil {
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	getStmt, err := db.PrepareContext(ctx, `SELECT v FROM kv WHERE k = ?;`)
	checkNoErr(err)

	setStmt, err := db.PrepareContext(ctx, `INSERT INTO kv (k, v) VALUES (?, ?) ON CONFLICT (k) DO UPDATE SET v = excluded.v;`)
	checkNoErr(err)

	deleteStmt, err := db.PrepareContext(ctx, `DELETE FROM kv WHERE k = ?;`)
	checkNoErr(err)

	scanStmt, err := db.PrepareContext(ctx, `SELECT k, v FROM kv WHERE k >= ? AND k < ? ORDER BY k;`)
	checkNoErr(err)

	scanAllStmt, err := db.PrepareContext(ctx, `SELECT k, v FROM kv WHERE k >= ? ORDER BY k;`)
	checkNoErr(err)

	cache, err := lru.New[string, []byte](sqliteCacheSize)
	checkNoErr(err)

	return &SqliteStore{
		db:          db,
		cache:       cache,
		getStmt:     getStmt,
		setStmt:     setStmt,
		deleteStmt:  deleteStmt,
		scanStmt:    scanStmt,
		scanAllStmt: scanAllStmt,
	}, nil
}

// View implements Store
func (s *SqliteStore) View(ctx context.Context, fn func(tx Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// read-only enforcement lives in sqliteTx rather than TxOptions, which
	// not every sqlite driver honors
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	return fn(&sqliteTx{ctx: ctx, store: s, tx: tx, readOnly: true})
}

// Update implements Store
func (s *SqliteStore) Update(ctx context.Context, fn func(tx Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	stx := &sqliteTx{ctx: ctx, store: s, tx: tx, pending: map[string][]byte{}}
	if err := fn(stx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	// fold staged writes into the read cache now that they are durable
	for k, v := range stx.pending {
		if v == nil {
			s.cache.Remove(k)
		} else {
			s.cache.Add(k, v)
		}
	}
	return nil
}

// Close implements Store
func (s *SqliteStore) Close() error {
	return s.db.Close()
}

type sqliteTx struct {
	ctx      context.Context
	store    *SqliteStore
	tx       *sql.Tx
	readOnly bool
	// pending mirrors this transaction's writes; a nil value is a delete.
	// Reads consult it before the cache so the cache can stay commit-only.
	pending map[string][]byte
}

func (t *sqliteTx) Get(key []byte) ([]byte, error) {
	k := string(key)
	if t.pending != nil {
		if v, staged := t.pending[k]; staged {
			if v == nil {
				return nil, ErrKeyNotFound
			}
			return append([]byte(nil), v...), nil
		}
	}
	if v, ok := t.store.cache.Get(k); ok {
		return append([]byte(nil), v...), nil
	}

	var v []byte
	err := t.tx.StmtContext(t.ctx, t.store.getStmt).QueryRowContext(t.ctx, key).Scan(&v)
	if err == sql.ErrNoRows {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, err
	}
	// the key was not touched by this transaction, so the row it returned
	// is committed state and safe to cache
	t.store.cache.Add(k, append([]byte(nil), v...))
	return v, nil
}

func (t *sqliteTx) Set(key, value []byte) error {
	if t.readOnly {
		return ErrReadOnly
	}
	if _, err := t.tx.StmtContext(t.ctx, t.store.setStmt).ExecContext(t.ctx, key, value); err != nil {
		return err
	}
	t.pending[string(key)] = append([]byte(nil), value...)
	return nil
}

func (t *sqliteTx) Delete(key []byte) error {
	if t.readOnly {
		return ErrReadOnly
	}
	if _, err := t.tx.StmtContext(t.ctx, t.store.deleteStmt).ExecContext(t.ctx, key); err != nil {
		return err
	}
	t.pending[string(key)] = nil
	return nil
}

func (t *sqliteTx) Scan(prefix []byte, fn func(key, value []byte) error) error {
	var rows *sql.Rows
	var err error
	if end := PrefixEnd(prefix); end != nil {
		rows, err = t.tx.StmtContext(t.ctx, t.store.scanStmt).QueryContext(t.ctx, prefix, end)
	} else {
		rows, err = t.tx.StmtContext(t.ctx, t.store.scanAllStmt).QueryContext(t.ctx, prefix)
	}
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var k, v []byte
		if err := rows.Scan(&k, &v); err != nil {
			return err
		}
		if err := fn(k, v); err != nil {
			return err
		}
	}
	return rows.Err()
}

func checkNoErr(err error) {
	if err != nil {
		panic(err)
	}
}
