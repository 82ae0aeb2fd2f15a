package deployments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

const (
	recordExt   = ".json"
	chainIDFile = ".chainId"
)

// FileStore keeps one JSON file per contract in a hardhat-deploy style
// deployments folder. A network directory is either named by the chain id or
// carries a .chainId file, as hardhat-deploy writes under the network name.
type FileStore struct {
	mu  sync.RWMutex
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		dir = "deployments"
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve deployments dir: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create deployments dir: %w", err)
	}
	return &FileStore{dir: abs}, nil
}

func (s *FileStore) Location() string { return s.dir }

// networkDirs returns the existing directories holding records for network.
// Directories matched through .chainId come before the one named by the id.
func (s *FileStore) networkDirs(network string) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read deployments dir: %w", err)
	}

	var dirs []string
	own := ""
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		p := filepath.Join(s.dir, e.Name())
		if e.Name() == network {
			own = p
			continue
		}
		if chainIDOf(p) == network {
			dirs = append(dirs, p)
		}
	}
	if own != "" {
		dirs = append(dirs, own)
	}
	return dirs, nil
}

func chainIDOf(dir string) string {
	b, err := os.ReadFile(filepath.Join(dir, chainIDFile))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(b))
}

func (s *FileStore) Get(_ context.Context, network, name string) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	dirs, err := s.networkDirs(network)
	if err != nil {
		return Record{}, err
	}
	for _, dir := range dirs {
		r, err := readRecord(filepath.Join(dir, name+recordExt), network, name)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		return r, err
	}
	return Record{}, notFound(network, name)
}

func readRecord(path, network, name string) (Record, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Record{}, err
		}
		return Record{}, fmt.Errorf("read record %s/%s: %w", network, name, err)
	}
	var r Record
	if err := json.Unmarshal(b, &r); err != nil {
		return Record{}, fmt.Errorf("decode record %s/%s: %w", network, name, err)
	}
	// hardhat-deploy records carry neither
	if r.Network == "" {
		r.Network = network
	}
	if r.Name == "" {
		r.Name = name
	}
	return r, nil
}

func (s *FileStore) Save(_ context.Context, r Record) error {
	if err := r.validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dirs, err := s.networkDirs(r.Network)
	if err != nil {
		return err
	}
	dir := filepath.Join(s.dir, r.Network)
	if len(dirs) > 0 {
		dir = dirs[0]
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create network dir: %w", err)
	}
	if chainIDOf(dir) == "" {
		if err := os.WriteFile(filepath.Join(dir, chainIDFile), []byte(r.Network), 0o644); err != nil {
			return fmt.Errorf("write chain id: %w", err)
		}
	}
	return writeJSON(filepath.Join(dir, r.Name+recordExt), r, 0o644)
}

func (s *FileStore) List(_ context.Context, network string) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if network != "" {
		return s.listNetwork(network)
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read deployments dir: %w", err)
	}
	seen := make(map[string]bool)
	var ids []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		id := chainIDOf(filepath.Join(s.dir, e.Name()))
		if id == "" {
			id = e.Name()
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool {
		if len(ids[i]) != len(ids[j]) {
			return len(ids[i]) < len(ids[j])
		}
		return ids[i] < ids[j]
	})

	var out []Record
	for _, id := range ids {
		records, err := s.listNetwork(id)
		if err != nil {
			return nil, err
		}
		out = append(out, records...)
	}
	return out, nil
}

// listNetwork merges the records of every directory of network. The first
// directory wins when a name appears twice, matching Get.
func (s *FileStore) listNetwork(network string) ([]Record, error) {
	dirs, err := s.networkDirs(network)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var out []Record
	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("list network %s: %w", network, err)
		}
		for _, e := range entries {
			if e.IsDir() || !strings.HasSuffix(e.Name(), recordExt) {
				continue
			}
			name := strings.TrimSuffix(e.Name(), recordExt)
			if seen[name] {
				continue
			}
			r, err := readRecord(filepath.Join(dir, e.Name()), network, name)
			if err != nil {
				return nil, err
			}
			seen[name] = true
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *FileStore) Close() error { return nil }

// writeJSON writes JSON via a temp file then rename.
func writeJSON(path string, v any, mode os.FileMode) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, mode); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
