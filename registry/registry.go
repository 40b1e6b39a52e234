// Package registry holds the static per-DAO configuration table: identifiers
// for both voting modes, supported chains, and the point tier a confirmed
// vote earns. The table is loaded once at process start and never mutated.
package registry

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"votenow/governance"
)

// DAOConfig is one read-only registry record.
type DAOConfig struct {
	ID              string   `toml:"id" json:"id"`
	Name            string   `toml:"name" json:"name"`
	Chain           string   `toml:"chain" json:"chain"`
	GovernanceType  string   `toml:"governance_type" json:"governanceType"`
	SnapshotSpace   string   `toml:"snapshot_space" json:"snapshotSpace,omitempty"`
	GovernorAddress string   `toml:"governor_address" json:"governorAddress,omitempty"`
	TokenAddress    string   `toml:"token_address" json:"tokenAddress,omitempty"`
	Tier            int      `toml:"tier" json:"tier"`
	PointsPerVote   int      `toml:"points_per_vote" json:"pointsPerVote"`
	SupportedChains []uint64 `toml:"supported_chains" json:"supportedChains,omitempty"`
	Active          bool     `toml:"active" json:"isActive"`
}

// Governance type capability values.
const (
	TypeSnapshot = "snapshot"
	TypeOnChain  = "onchain"
	TypeBoth     = "both"
)

// SupportsMode reports whether the DAO can vote in the given mode.
func (d DAOConfig) SupportsMode(mode governance.Mode) bool {
	switch d.GovernanceType {
	case TypeBoth:
		return true
	case TypeSnapshot:
		return mode == governance.ModeSnapshot
	case TypeOnChain:
		return mode == governance.ModeOnChain
	}
	return false
}

// DefaultPointsPerVote applies when a space is not in the registry.
const DefaultPointsPerVote = 20

// Registry is the immutable lookup table shared across the process. It
// requires no synchronization because it is never written after Load.
type Registry struct {
	daos    []DAOConfig
	byID    map[string]int
	bySpace map[string]int
}

type overrideFile struct {
	DAOs []DAOConfig `toml:"dao"`
}

// Load builds the registry from the built-in table, optionally replaced by a
// TOML override file. An empty path loads the defaults.
func Load(path string) (*Registry, error) {
	daos := defaultDAOs
	if strings.TrimSpace(path) != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read dao registry: %w", err)
		}
		var file overrideFile
		if err := toml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("decode dao registry: %w", err)
		}
		if len(file.DAOs) == 0 {
			return nil, fmt.Errorf("dao registry %s defines no daos", path)
		}
		daos = file.DAOs
	}
	r := &Registry{
		daos:    daos,
		byID:    make(map[string]int, len(daos)),
		bySpace: make(map[string]int, len(daos)),
	}
	for i, dao := range daos {
		if dao.ID == "" {
			return nil, fmt.Errorf("dao registry entry %d missing id", i)
		}
		if _, dup := r.byID[dao.ID]; dup {
			return nil, fmt.Errorf("duplicate dao id %s", dao.ID)
		}
		r.byID[dao.ID] = i
		if dao.SnapshotSpace != "" {
			r.bySpace[dao.SnapshotSpace] = i
		}
	}
	return r, nil
}

// All returns the registry records in declaration order.
func (r *Registry) All() []DAOConfig {
	out := make([]DAOConfig, len(r.daos))
	copy(out, r.daos)
	return out
}

// ByID looks a DAO up by its config identifier.
func (r *Registry) ByID(id string) (DAOConfig, bool) {
	i, ok := r.byID[id]
	if !ok {
		return DAOConfig{}, false
	}
	return r.daos[i], true
}

// BySpace looks a DAO up by its Snapshot space identifier.
func (r *Registry) BySpace(space string) (DAOConfig, bool) {
	i, ok := r.bySpace[space]
	if !ok {
		return DAOConfig{}, false
	}
	return r.daos[i], true
}

// TrackedSpaces lists every Snapshot space the aggregator follows.
func (r *Registry) TrackedSpaces() []string {
	spaces := make([]string, 0, len(r.daos))
	for _, dao := range r.daos {
		if dao.SnapshotSpace != "" && dao.Active {
			spaces = append(spaces, dao.SnapshotSpace)
		}
	}
	return spaces
}

// PointsFor resolves the reward points a confirmed vote in the given space
// earns, falling back to the default tier for untracked spaces.
func (r *Registry) PointsFor(space string) int {
	if dao, ok := r.BySpace(space); ok && dao.PointsPerVote > 0 {
		return dao.PointsPerVote
	}
	return DefaultPointsPerVote
}
