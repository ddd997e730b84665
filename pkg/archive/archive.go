// Package archive 实现文件归档
//
// 归档把文件路径映射到内容块地址和文件元数据。归档本身序列化为
// 规范编码（codec.TypeArchive）后作为普通内容块存储，调用方只需要
// 记住一个地址就能找回整个目录。
package archive

import (
	"errors"
	"fmt"
	"path"
	"sort"

	"github.com/benbjohnson/clock"

	"github.com/dep2p/go-dsn/pkg/lib/codec"
	"github.com/dep2p/go-dsn/pkg/lib/log"
	"github.com/dep2p/go-dsn/pkg/types"
)

var logger = log.Logger("dsn/archive")

var (
	// ErrFileNotFound 归档中不存在指定路径
	ErrFileNotFound = errors.New("archive: file not found")

	// ErrInvalidPath 路径为空
	ErrInvalidPath = errors.New("archive: invalid path")

	// ErrInvalidArchive 归档编码无效
	ErrInvalidArchive = errors.New("archive: invalid archive")
)

// Metadata 文件元数据，时间均为 Unix 秒
type Metadata struct {
	Uploaded uint64 // 最近一次上传时间
	Created  uint64 // 本地文件创建时间
	Modified uint64 // 本地文件修改时间
	Size     uint64 // 文件字节数
}

// NewMetadata 以当前时间作为上传、创建和修改时间
func NewMetadata(clk clock.Clock, size uint64) Metadata {
	now := unixNow(clk)
	return Metadata{Uploaded: now, Created: now, Modified: now, Size: size}
}

// File 归档中的一个文件
type File struct {
	Path     string
	Address  types.Address
	Metadata Metadata
}

type entry struct {
	addr types.Address
	meta Metadata
}

// Archive 文件归档
//
// 非并发安全；归档是调用方本地构建的值。
type Archive struct {
	clock clock.Clock
	files map[string]entry
}

// New 创建空归档
func New(clk clock.Clock) *Archive {
	if clk == nil {
		clk = clock.New()
	}
	return &Archive{clock: clk, files: make(map[string]entry)}
}

func unixNow(clk clock.Clock) uint64 {
	sec := clk.Now().Unix()
	if sec < 0 {
		return 0
	}
	return uint64(sec)
}

func cleanPath(p string) (string, error) {
	if p == "" {
		return "", ErrInvalidPath
	}
	return path.Clean(p), nil
}

// AddFile 添加或替换文件
func (a *Archive) AddFile(p string, addr types.Address, meta Metadata) error {
	p, err := cleanPath(p)
	if err != nil {
		return err
	}
	if addr.Kind() != types.AddressChunk {
		return fmt.Errorf("archive: %s is not a chunk address", addr)
	}
	a.files[p] = entry{addr: addr, meta: meta}
	logger.Debug("添加文件", "path", p, "chunk", addr.Name().ShortString())
	return nil
}

// RenameFile 重命名文件并更新修改时间
func (a *Archive) RenameFile(oldPath, newPath string) error {
	oldPath, err := cleanPath(oldPath)
	if err != nil {
		return err
	}
	newPath, err = cleanPath(newPath)
	if err != nil {
		return err
	}
	e, ok := a.files[oldPath]
	if !ok {
		return fmt.Errorf("%w: %s", ErrFileNotFound, oldPath)
	}
	delete(a.files, oldPath)
	e.meta.Modified = unixNow(a.clock)
	a.files[newPath] = e
	logger.Debug("重命名文件", "old", oldPath, "new", newPath)
	return nil
}

// Get 返回路径对应的文件
func (a *Archive) Get(p string) (File, bool) {
	p, err := cleanPath(p)
	if err != nil {
		return File{}, false
	}
	e, ok := a.files[p]
	if !ok {
		return File{}, false
	}
	return File{Path: p, Address: e.addr, Metadata: e.meta}, true
}

// Len 返回文件数
func (a *Archive) Len() int {
	return len(a.files)
}

// Files 返回按路径排序的全部文件
func (a *Archive) Files() []File {
	out := make([]File, 0, len(a.files))
	for p, e := range a.files {
		out = append(out, File{Path: p, Address: e.addr, Metadata: e.meta})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// Addresses 返回按路径排序的全部内容块地址
func (a *Archive) Addresses() []types.Address {
	files := a.Files()
	out := make([]types.Address, len(files))
	for i, f := range files {
		out[i] = f.Address
	}
	return out
}

// ============================================================================
//                              规范编码
// ============================================================================

const archiveFieldFiles codec.Field = 1

const (
	fileFieldPath     codec.Field = 1
	fileFieldAddress  codec.Field = 2
	fileFieldUploaded codec.Field = 3
	fileFieldCreated  codec.Field = 4
	fileFieldModified codec.Field = 5
	fileFieldSize     codec.Field = 6
)

// Marshal 返回归档的规范编码，文件按路径升序
func (a *Archive) Marshal() ([]byte, error) {
	files := a.Files()
	bodies := make([][]byte, len(files))
	for i, f := range files {
		addr, err := f.Address.MarshalBinary()
		if err != nil {
			return nil, fmt.Errorf("archive: %s: %w", f.Path, err)
		}
		bodies[i] = codec.NewEncoder().
			Bytes(fileFieldPath, []byte(f.Path)).
			Bytes(fileFieldAddress, addr).
			Uint64(fileFieldUploaded, f.Metadata.Uploaded).
			Uint64(fileFieldCreated, f.Metadata.Created).
			Uint64(fileFieldModified, f.Metadata.Modified).
			Uint64(fileFieldSize, f.Metadata.Size).
			Body()
	}
	return codec.NewEncoder().BytesList(archiveFieldFiles, bodies).Frame(codec.TypeArchive), nil
}

// ChunkAddress 返回归档作为内容块存储时的地址和负载
func (a *Archive) ChunkAddress() (types.Address, []byte, error) {
	data, err := a.Marshal()
	if err != nil {
		return types.Address{}, nil, err
	}
	return types.ChunkAddressOf(data), data, nil
}

// Unmarshal 从规范编码解析归档
//
// 路径必须严格升序且已规范化，保证解码后重新编码得到相同字节。
func Unmarshal(data []byte, clk clock.Clock) (*Archive, error) {
	d, err := codec.Unframe(codec.TypeArchive, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArchive, err)
	}
	bodies := d.BytesList(archiveFieldFiles)
	if err := d.Finish(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArchive, err)
	}

	a := New(clk)
	prev := ""
	for i, body := range bodies {
		fd := codec.NewDecoder(body)
		p := string(fd.Bytes(fileFieldPath))
		rawAddr := fd.Bytes(fileFieldAddress)
		meta := Metadata{
			Uploaded: fd.Uint64(fileFieldUploaded),
			Created:  fd.Uint64(fileFieldCreated),
			Modified: fd.Uint64(fileFieldModified),
			Size:     fd.Uint64(fileFieldSize),
		}
		if err := fd.Finish(); err != nil {
			return nil, fmt.Errorf("%w: file %d: %v", ErrInvalidArchive, i, err)
		}
		if p == "" || path.Clean(p) != p {
			return nil, fmt.Errorf("%w: file %d: non-canonical path %q", ErrInvalidArchive, i, p)
		}
		if i > 0 && p <= prev {
			return nil, fmt.Errorf("%w: file %d: %v", ErrInvalidArchive, i, codec.ErrUnsorted)
		}
		addr, err := types.UnmarshalAddress(rawAddr)
		if err != nil || addr.Kind() != types.AddressChunk {
			return nil, fmt.Errorf("%w: file %d: bad chunk address", ErrInvalidArchive, i)
		}
		a.files[p] = entry{addr: addr, meta: meta}
		prev = p
	}
	return a, nil
}
