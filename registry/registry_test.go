package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"votenow/governance"
)

func TestLoadDefaults(t *testing.T) {
	r, err := Load("")
	require.NoError(t, err)
	require.NotEmpty(t, r.All())

	aave, ok := r.ByID("aave.eth")
	require.True(t, ok)
	require.Equal(t, "Aave", aave.Name)
	require.Equal(t, TypeBoth, aave.GovernanceType)
	require.Equal(t, 100, aave.PointsPerVote)

	_, ok = r.ByID("unknown.eth")
	require.False(t, ok)
}

func TestLoadOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "daos.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[[dao]]
id = "testdao.eth"
name = "Test DAO"
chain = "ethereum"
governance_type = "snapshot"
snapshot_space = "testdao.eth"
tier = 3
points_per_vote = 60
active = true
`), 0o600))

	r, err := Load(path)
	require.NoError(t, err)
	require.Len(t, r.All(), 1)

	dao, ok := r.BySpace("testdao.eth")
	require.True(t, ok)
	require.Equal(t, "Test DAO", dao.Name)
	require.Equal(t, 60, r.PointsFor("testdao.eth"))
}

func TestLoadOverrideRejectsEmptyAndDuplicates(t *testing.T) {
	dir := t.TempDir()

	empty := filepath.Join(dir, "empty.toml")
	require.NoError(t, os.WriteFile(empty, []byte("# nothing"), 0o600))
	_, err := Load(empty)
	require.ErrorContains(t, err, "no daos")

	dup := filepath.Join(dir, "dup.toml")
	require.NoError(t, os.WriteFile(dup, []byte(`
[[dao]]
id = "a.eth"
[[dao]]
id = "a.eth"
`), 0o600))
	_, err = Load(dup)
	require.ErrorContains(t, err, "duplicate dao id")
}

func TestTrackedSpacesOnlyActive(t *testing.T) {
	r, err := Load("")
	require.NoError(t, err)
	spaces := r.TrackedSpaces()
	require.NotEmpty(t, spaces)
	for _, space := range spaces {
		dao, ok := r.BySpace(space)
		require.True(t, ok)
		require.True(t, dao.Active)
	}
}

func TestPointsForFallback(t *testing.T) {
	r, err := Load("")
	require.NoError(t, err)
	require.Equal(t, 100, r.PointsFor("aave.eth"))
	require.Equal(t, DefaultPointsPerVote, r.PointsFor("nowhere.eth"))
	require.Equal(t, DefaultPointsPerVote, r.PointsFor(""))
}

func TestSupportsMode(t *testing.T) {
	both := DAOConfig{GovernanceType: TypeBoth}
	require.True(t, both.SupportsMode(governance.ModeSnapshot))
	require.True(t, both.SupportsMode(governance.ModeOnChain))

	snap := DAOConfig{GovernanceType: TypeSnapshot}
	require.True(t, snap.SupportsMode(governance.ModeSnapshot))
	require.False(t, snap.SupportsMode(governance.ModeOnChain))

	chain := DAOConfig{GovernanceType: TypeOnChain}
	require.False(t, chain.SupportsMode(governance.ModeSnapshot))
	require.True(t, chain.SupportsMode(governance.ModeOnChain))
}

func TestChainNames(t *testing.T) {
	require.Equal(t, "Ethereum", ChainName(1))
	require.Equal(t, "Arbitrum", ChainName(42161))
	require.Equal(t, "Chain 31337", ChainName(31337))
	require.Equal(t, "https://arbiscan.io", ExplorerURL(42161))
	require.Equal(t, "https://etherscan.io", ExplorerURL(31337))
}
