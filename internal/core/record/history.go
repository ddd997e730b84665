package record

import (
	"fmt"
	"sort"

	"github.com/dep2p/go-dsn/pkg/lib/codec"
	"github.com/dep2p/go-dsn/pkg/types"
)

const historyFieldEntries codec.Field = 1

// HashedEntry 条目及其哈希
type HashedEntry struct {
	Hash  EntryHash
	Entry *Entry
}

// SortEntries 计算哈希并按哈希升序排列，重复条目只保留一个
func SortEntries(entries []*Entry) []HashedEntry {
	out := make([]HashedEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, HashedEntry{Hash: e.Hash(), Entry: e})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Hash.Compare(out[j].Hash) < 0 })
	n := 0
	for i := range out {
		if n > 0 && out[i].Hash == out[n-1].Hash {
			continue
		}
		out[n] = out[i]
		n++
	}
	return out[:n]
}

// EncodeHistory 将条目集合编码为规范历史负载
//
// 条目按哈希升序写出，与输入顺序无关。
func EncodeHistory(entries []*Entry) ([]byte, error) {
	sorted := SortEntries(entries)
	list := make([][]byte, len(sorted))
	for i, he := range sorted {
		b, err := he.Entry.MarshalBinary()
		if err != nil {
			return nil, err
		}
		list[i] = b
	}
	return codec.NewEncoder().
		BytesList(historyFieldEntries, list).
		Frame(codec.TypeHistory), nil
}

// DecodeHistory 解析历史负载
//
// 条目必须按哈希严格升序排列，否则视为非规范编码。
func DecodeHistory(payload []byte) ([]HashedEntry, error) {
	d, err := codec.Unframe(codec.TypeHistory, payload)
	if err != nil {
		return nil, err
	}
	raw := d.BytesList(historyFieldEntries)
	if err := d.Finish(); err != nil {
		return nil, err
	}

	out := make([]HashedEntry, 0, len(raw))
	for i, b := range raw {
		e, err := UnmarshalEntry(b)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		he := HashedEntry{Hash: e.Hash(), Entry: e}
		if i > 0 && out[i-1].Hash.Compare(he.Hash) >= 0 {
			return nil, fmt.Errorf("%w: history entries", codec.ErrUnsorted)
		}
		out = append(out, he)
	}
	return out, nil
}

// CheckHistory 检查历史的结构
//
// 要求：非空、恰好一个根条目、每个父条目都存在于历史中。
// 返回根条目哈希。
func CheckHistory(entries []HashedEntry) (EntryHash, error) {
	var root EntryHash
	if len(entries) == 0 {
		return root, fmt.Errorf("%w: empty history", types.ErrMalformedHistory)
	}

	present := make(map[EntryHash]struct{}, len(entries))
	for _, he := range entries {
		present[he.Hash] = struct{}{}
	}

	roots := 0
	for _, he := range entries {
		if he.Entry.IsRoot() {
			roots++
			root = he.Hash
			continue
		}
		for _, p := range he.Entry.Parents {
			if _, ok := present[p]; !ok {
				return EntryHash{}, fmt.Errorf("%w: entry %s references unknown parent %s",
					types.ErrMalformedHistory, he.Hash, p)
			}
		}
	}
	if roots != 1 {
		return EntryHash{}, fmt.Errorf("%w: %d roots", types.ErrMalformedHistory, roots)
	}
	return root, nil
}

// VerifyHistory 检查历史结构并验证所有条目签名
func VerifyHistory(addr types.Address, entries []HashedEntry) error {
	if addr.Kind() != types.AddressRegister {
		return fmt.Errorf("%w: %s is not a register address", types.ErrMalformedPayload, addr)
	}
	if _, err := CheckHistory(entries); err != nil {
		return err
	}
	return VerifyFragment(addr, entries)
}

// VerifyFragment 验证历史片段中所有条目的签名
//
// 片段可以不含根条目，父条目也可以不在片段内，只要求非空。
func VerifyFragment(addr types.Address, entries []HashedEntry) error {
	if addr.Kind() != types.AddressRegister {
		return fmt.Errorf("%w: %s is not a register address", types.ErrMalformedPayload, addr)
	}
	if len(entries) == 0 {
		return fmt.Errorf("%w: empty history", types.ErrMalformedHistory)
	}
	name := addr.Name()
	owner := addr.Key()
	for _, he := range entries {
		if err := he.Entry.verifyHashed(owner, name, he.Hash); err != nil {
			return err
		}
	}
	return nil
}
