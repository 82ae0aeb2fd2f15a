// Package artifacts loads compiled contract artifacts (ABI and creation
// bytecode) produced by hardhat or foundry.
package artifacts

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

var ErrNotFound = errors.New("artifact not found")

type Artifact struct {
	Name     string
	ABI      abi.ABI
	Bytecode []byte
}

type rawArtifact struct {
	ContractName string          `json:"contractName"`
	ABI          json.RawMessage `json:"abi"`
	Bytecode     json.RawMessage `json:"bytecode"`
}

// Parse decodes a hardhat artifact. Foundry's {"object": "0x..."} bytecode
// form is accepted as well.
func Parse(name string, data []byte) (*Artifact, error) {
	var raw rawArtifact
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode artifact %s: %w", name, err)
	}
	if raw.ContractName != "" {
		name = raw.ContractName
	}
	if len(raw.ABI) == 0 {
		return nil, fmt.Errorf("artifact %s has no abi", name)
	}
	parsed, err := abi.JSON(bytes.NewReader(raw.ABI))
	if err != nil {
		return nil, fmt.Errorf("parse %s abi: %w", name, err)
	}
	code, err := decodeBytecode(raw.Bytecode)
	if err != nil {
		return nil, fmt.Errorf("artifact %s bytecode: %w", name, err)
	}
	if len(code) == 0 {
		return nil, fmt.Errorf("artifact %s has empty bytecode (abstract contract or interface?)", name)
	}
	return &Artifact{Name: name, ABI: parsed, Bytecode: code}, nil
}

func decodeBytecode(raw json.RawMessage) ([]byte, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		var obj struct {
			Object string `json:"object"`
		}
		if err := json.Unmarshal(raw, &obj); err != nil {
			return nil, errors.New("bytecode is neither a string nor an object")
		}
		s = obj.Object
	}
	s = strings.TrimSpace(s)
	if s == "" || s == "0x" {
		return nil, nil
	}
	if !strings.HasPrefix(s, "0x") {
		s = "0x" + s
	}
	if strings.Contains(s, "__") {
		return nil, errors.New("bytecode has unlinked library references")
	}
	return hexutil.Decode(s)
}

// ConstructorArgs ABI-encodes args for the artifact's constructor.
func (a *Artifact) ConstructorArgs(args ...any) ([]byte, error) {
	data, err := a.ABI.Pack("", args...)
	if err != nil {
		return nil, fmt.Errorf("encode %s constructor: %w", a.Name, err)
	}
	return data, nil
}

// DeployData returns the creation bytecode followed by the encoded
// constructor arguments.
func (a *Artifact) DeployData(args ...any) ([]byte, error) {
	packed, err := a.ConstructorArgs(args...)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(a.Bytecode)+len(packed))
	out = append(out, a.Bytecode...)
	return append(out, packed...), nil
}

func (a *Artifact) BytecodeHash() common.Hash {
	return crypto.Keccak256Hash(a.Bytecode)
}

// Source resolves artifacts by contract name.
type Source interface {
	Load(name string) (*Artifact, error)
}

// Dir reads artifacts from a hardhat artifacts directory. Results are cached.
type Dir struct {
	root string

	mu    sync.Mutex
	cache map[string]*Artifact
}

func NewDir(root string) *Dir {
	return &Dir{root: root, cache: make(map[string]*Artifact)}
}

func (d *Dir) Load(name string) (*Artifact, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if a, ok := d.cache[name]; ok {
		return a, nil
	}

	path, err := d.find(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read artifact %s: %w", name, err)
	}
	a, err := Parse(name, data)
	if err != nil {
		return nil, err
	}
	d.cache[name] = a
	return a, nil
}

// find returns the first <name>.json below root, skipping build-info and
// hardhat's .dbg.json companions.
func (d *Dir) find(name string) (string, error) {
	want := name + ".json"
	var found string
	err := filepath.WalkDir(d.root, func(path string, e fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if e.IsDir() {
			if e.Name() == "build-info" {
				return filepath.SkipDir
			}
			return nil
		}
		if e.Name() == want {
			found = path
			return filepath.SkipAll
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("search artifacts for %s: %w", name, err)
	}
	if found == "" {
		return "", fmt.Errorf("%s in %s: %w", name, d.root, ErrNotFound)
	}
	return found, nil
}

// Static is an in-memory Source.
type Static map[string]*Artifact

func (s Static) Load(name string) (*Artifact, error) {
	a, ok := s[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	return a, nil
}
