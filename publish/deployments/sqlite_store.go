package deployments

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	_ "modernc.org/sqlite"
)

const (
	defaultDBFile    = "deployments.db"
	maxBusyTimeoutMs = 5000
)

const schema = `
CREATE TABLE IF NOT EXISTS deployments (
	network       TEXT NOT NULL,
	name          TEXT NOT NULL,
	id            TEXT NOT NULL,
	address       TEXT NOT NULL,
	tx_hash       TEXT NOT NULL,
	deployer      TEXT NOT NULL,
	args          TEXT NOT NULL,
	args_data     TEXT NOT NULL,
	bytecode_hash TEXT NOT NULL,
	deterministic INTEGER NOT NULL,
	deployed_at   INTEGER NOT NULL,
	PRIMARY KEY (network, name)
)`

// SQLiteStore keeps deployment records in a single SQLite database file.
type SQLiteStore struct {
	db   *sql.DB
	file string
}

func NewSQLiteStore(filePath string) (*SQLiteStore, error) {
	if filePath == "" {
		filePath = defaultDBFile
	}
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return nil, fmt.Errorf("resolve db path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s", filepath.Clean(absPath)))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if _, err := db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d", maxBusyTimeoutMs)); err != nil {
		db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLiteStore{db: db, file: absPath}, nil
}

func (s *SQLiteStore) Location() string { return s.file }

func (s *SQLiteStore) Get(ctx context.Context, network, name string) (Record, error) {
	row := s.db.QueryRowContext(ctx, `SELECT network, name, id, address, tx_hash, deployer, args, args_data,
		bytecode_hash, deterministic, deployed_at FROM deployments WHERE network = ? AND name = ?`, network, name)
	r, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, notFound(network, name)
	}
	if err != nil {
		return Record{}, fmt.Errorf("query record %s/%s: %w", network, name, err)
	}
	return r, nil
}

func (s *SQLiteStore) Save(ctx context.Context, r Record) error {
	if err := r.validate(); err != nil {
		return err
	}
	args, err := json.Marshal(r.Args)
	if err != nil {
		return fmt.Errorf("encode args: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO deployments (network, name, id, address, tx_hash, deployer, args,
		args_data, bytecode_hash, deterministic, deployed_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(network, name) DO UPDATE SET id = excluded.id, address = excluded.address,
		tx_hash = excluded.tx_hash, deployer = excluded.deployer, args = excluded.args,
		args_data = excluded.args_data, bytecode_hash = excluded.bytecode_hash,
		deterministic = excluded.deterministic, deployed_at = excluded.deployed_at`,
		r.Network, r.Name, r.ID, r.Address.Hex(), r.TxHash.Hex(), r.Deployer.Hex(), string(args),
		hexutil.Encode(r.ArgsData), r.BytecodeHash.Hex(), r.Deterministic, r.DeployedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("save record %s/%s: %w", r.Network, r.Name, err)
	}
	return nil
}

func (s *SQLiteStore) List(ctx context.Context, network string) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT network, name, id, address, tx_hash, deployer, args, args_data,
		bytecode_hash, deterministic, deployed_at FROM deployments WHERE ? = '' OR network = ?
		ORDER BY length(network), network, name`, network, network)
	if err != nil {
		return nil, fmt.Errorf("list network %s: %w", network, err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (Record, error) {
	var (
		r                                  Record
		address, txHash, deployer, argsRaw string
		argsData, bytecodeHash             string
		deployedAt                         int64
	)
	if err := row.Scan(&r.Network, &r.Name, &r.ID, &address, &txHash, &deployer, &argsRaw, &argsData,
		&bytecodeHash, &r.Deterministic, &deployedAt); err != nil {
		return Record{}, err
	}
	if err := json.Unmarshal([]byte(argsRaw), &r.Args); err != nil {
		return Record{}, fmt.Errorf("decode args: %w", err)
	}
	data, err := hexutil.Decode(argsData)
	if err != nil && !errors.Is(err, hexutil.ErrEmptyString) {
		return Record{}, fmt.Errorf("decode args data: %w", err)
	}
	r.Address = common.HexToAddress(address)
	r.TxHash = common.HexToHash(txHash)
	r.Deployer = common.HexToAddress(deployer)
	r.ArgsData = data
	r.BytecodeHash = common.HexToHash(bytecodeHash)
	r.DeployedAt = time.Unix(0, deployedAt).UTC()
	return r, nil
}
