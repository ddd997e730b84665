package record

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-dsn/config"
	"github.com/dep2p/go-dsn/pkg/lib/crypto"
	"github.com/dep2p/go-dsn/pkg/types"
)

type owner struct {
	key   crypto.PrivateKey
	bytes []byte
}

func newOwner(t *testing.T) owner {
	t.Helper()
	priv, _, err := crypto.GenerateKeyPair(crypto.KeyTypeEd25519)
	require.NoError(t, err)
	b, err := crypto.OwnerBytes(priv)
	require.NoError(t, err)
	return owner{key: priv, bytes: b}
}

func (o owner) register(meta byte) types.Address {
	var m types.Name
	m[0] = meta
	return types.RegisterAddress(o.bytes, m)
}

func (o owner) entry(t *testing.T, addr types.Address, value string, parents ...*Entry) *Entry {
	t.Helper()
	hashes := make([]EntryHash, len(parents))
	for i, p := range parents {
		hashes[i] = p.Hash()
	}
	e, err := NewEntry(o.key, addr.Name(), []byte(value), hashes)
	require.NoError(t, err)
	return e
}

func defaultLimits() config.LimitsConfig {
	return config.DefaultLimitsConfig()
}
