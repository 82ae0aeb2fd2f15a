// Package deployments persists what has been published on each network so a
// later run can reuse it instead of sending another creation transaction.
package deployments

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/google/uuid"
)

var ErrNotFound = errors.New("deployment record not found")

// Record describes one contract instance published on a network.
type Record struct {
	ID            string         `json:"id"`
	Network       string         `json:"network"`
	Name          string         `json:"name"`
	Address       common.Address `json:"address"`
	TxHash        common.Hash    `json:"transactionHash"`
	Deployer      common.Address `json:"deployer"`
	Args          []string       `json:"args"`
	ArgsData      hexutil.Bytes  `json:"argsData"`
	BytecodeHash  common.Hash    `json:"bytecodeHash"`
	Deterministic bool           `json:"deterministic"`
	DeployedAt    time.Time      `json:"deployedAt"`
}

// NewRecord stamps a fresh id and deployment time on r.
func NewRecord(r Record) Record {
	r.ID = uuid.NewString()
	if r.DeployedAt.IsZero() {
		r.DeployedAt = time.Now().UTC()
	}
	return r
}

// UnmarshalJSON also accepts records written by hardhat-deploy, whose args
// keep their JSON types. Non-string args are kept as compact JSON text.
func (r *Record) UnmarshalJSON(data []byte) error {
	type plain Record
	aux := struct {
		*plain
		Args []json.RawMessage `json:"args"`
	}{plain: (*plain)(r)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	r.Args = nil
	if aux.Args == nil {
		return nil
	}
	r.Args = make([]string, 0, len(aux.Args))
	for _, raw := range aux.Args {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			r.Args = append(r.Args, s)
			continue
		}
		var buf bytes.Buffer
		if err := json.Compact(&buf, raw); err != nil {
			return fmt.Errorf("decode args: %w", err)
		}
		r.Args = append(r.Args, buf.String())
	}
	return nil
}

func (r Record) validate() error {
	if strings.TrimSpace(r.Network) == "" {
		return errors.New("record network is empty")
	}
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("record name is empty")
	}
	if strings.ContainsAny(r.Name, `/\`) || strings.ContainsAny(r.Network, `/\`) {
		return fmt.Errorf("record %s/%s contains a path separator", r.Network, r.Name)
	}
	return nil
}

// Store is the persistence contract shared by the file and SQLite backends.
type Store interface {
	Get(ctx context.Context, network, name string) (Record, error)
	Save(ctx context.Context, r Record) error
	// List returns the records of network, or of every network when
	// network is empty.
	List(ctx context.Context, network string) ([]Record, error)
	// Location is the directory or database file backing the store.
	Location() string
	Close() error
}

const (
	KindFile   = "file"
	KindSQLite = "sqlite"
)

// Open returns the store of the given kind rooted at path. For the file
// store path is a directory, for SQLite a database file. An empty path
// selects the kind's default location.
func Open(kind, path string) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", KindFile:
		return NewFileStore(path)
	case KindSQLite:
		return NewSQLiteStore(path)
	default:
		return nil, fmt.Errorf("unsupported record store: %s", kind)
	}
}

// Register records an address published by another tool, such as the
// exchange factory, so steps can depend on it. It reports whether a record
// was written; an existing record with the same address is left alone.
func Register(ctx context.Context, s Store, network, name string, addr common.Address) (bool, error) {
	if addr == (common.Address{}) {
		return false, fmt.Errorf("register %s on network %s: zero address", name, network)
	}
	prev, err := s.Get(ctx, network, name)
	switch {
	case err == nil && prev.Address == addr:
		return false, nil
	case err != nil && !errors.Is(err, ErrNotFound):
		return false, err
	}
	if err := s.Save(ctx, NewRecord(Record{Network: network, Name: name, Address: addr})); err != nil {
		return false, err
	}
	return true, nil
}

func notFound(network, name string) error {
	return fmt.Errorf("%s on network %s: %w", name, network, ErrNotFound)
}
