package datastream

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/cespare/xxhash/v2"
)

// 檔案格式（LittleEndian）：
// [8]byte  Magic: "SLBENCH2"
// uint16   Version: 2
// uint16   Reserved: 0
// uint32   DistCount
// 重複 DistCount 次（key 升冪）：
//   int64   Key
//   float64 Weight
// uint64   OpCount
// 重複 OpCount 次：
//   uint8   OperationType (0=Query,1=Insert,2=Delete)
//   int64   Key
// uint64   xxhash64（前面所有 byte）

var (
	benchMagic   = [8]byte{'S', 'L', 'B', 'E', 'N', 'C', 'H', '2'}
	benchVersion = uint16(2)
)

type BenchFile struct {
	Dist map[int64]float64
	Ops  []Operation
}

// NewBenchFile 由產生器的分布與操作序列組成 BenchFile
func NewBenchFile(src KeySource, ops []Operation) *BenchFile {
	return &BenchFile{Dist: src.Dist(), Ops: ops}
}

// Encode 將 bf 寫入 w，最後附上 xxhash 校驗值
func (bf *BenchFile) Encode(w io.Writer) error {
	bw := bufio.NewWriter(w)
	digest := xxhash.New()
	mw := io.MultiWriter(bw, digest)

	put := func(v any) error {
		return binary.Write(mw, binary.LittleEndian, v)
	}

	if _, err := mw.Write(benchMagic[:]); err != nil {
		return err
	}
	if err := put(benchVersion); err != nil {
		return err
	}
	if err := put(uint16(0)); err != nil { // reserved
		return err
	}

	// 分布以升冪 key 輸出，確保可重現
	keys := make([]int64, 0, len(bf.Dist))
	for k := range bf.Dist {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	if err := put(uint32(len(keys))); err != nil {
		return err
	}
	for _, k := range keys {
		if err := put(k); err != nil {
			return err
		}
		if err := put(bf.Dist[k]); err != nil {
			return err
		}
	}

	if err := put(uint64(len(bf.Ops))); err != nil {
		return err
	}
	for _, op := range bf.Ops {
		if err := put(uint8(op.Type)); err != nil {
			return err
		}
		if err := put(op.Key); err != nil {
			return err
		}
	}

	if err := binary.Write(bw, binary.LittleEndian, digest.Sum64()); err != nil {
		return err
	}
	return bw.Flush()
}

// Decode 讀取 Encode 的輸出並驗證校驗值
func Decode(r io.Reader) (*BenchFile, error) {
	br := bufio.NewReader(r)
	digest := xxhash.New()
	tr := io.TeeReader(br, digest)

	get := func(v any) error {
		return binary.Read(tr, binary.LittleEndian, v)
	}

	var magic [8]byte
	if _, err := io.ReadFull(tr, magic[:]); err != nil {
		return nil, err
	}
	if magic != benchMagic {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMagic, magic)
	}
	var ver, reserved uint16
	if err := get(&ver); err != nil {
		return nil, err
	}
	if ver != benchVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, ver)
	}
	if err := get(&reserved); err != nil {
		return nil, err
	}

	var distCount uint32
	if err := get(&distCount); err != nil {
		return nil, err
	}
	// 數量來自檔頭，校驗前不可信，只當作上限有限的容量提示
	dist := make(map[int64]float64, min(distCount, 1<<16))
	for i := uint32(0); i < distCount; i++ {
		var key int64
		var weight float64
		if err := get(&key); err != nil {
			return nil, err
		}
		if err := get(&weight); err != nil {
			return nil, err
		}
		dist[key] = weight
	}

	var opCount uint64
	if err := get(&opCount); err != nil {
		return nil, err
	}
	ops := make([]Operation, 0, min(opCount, 1<<20))
	for i := uint64(0); i < opCount; i++ {
		var t uint8
		var key int64
		if err := get(&t); err != nil {
			return nil, err
		}
		if err := get(&key); err != nil {
			return nil, err
		}
		if OperationType(t) > OpDelete {
			return nil, fmt.Errorf("%w: op[%d] type %d", ErrInvalidOperation, i, t)
		}
		ops = append(ops, Operation{Type: OperationType(t), Key: key})
	}

	want := digest.Sum64()
	var sum uint64
	if err := binary.Read(br, binary.LittleEndian, &sum); err != nil {
		return nil, fmt.Errorf("read checksum: %w", err)
	}
	if sum != want {
		return nil, fmt.Errorf("%w: got %#x, want %#x", ErrChecksumMismatch, sum, want)
	}
	return &BenchFile{Dist: dist, Ops: ops}, nil
}

// WriteBenchFile 將 bf 寫入檔案
func WriteBenchFile(filename string, bf *BenchFile) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := bf.Encode(file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// ReadBenchFile 讀取 bin 檔案，回傳分布與操作序列
func ReadBenchFile(filename string) (*BenchFile, error) {
	fd, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer fd.Close()
	bf, err := Decode(fd)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filename, err)
	}
	return bf, nil
}

// ToSequenceModel 與 bf 共用操作序列，重播期間不應修改 bf.Ops
func (bf *BenchFile) ToSequenceModel() *SequenceModel {
	if bf == nil {
		return &SequenceModel{}
	}
	return &SequenceModel{ops: bf.Ops}
}

// Entropy 回傳分布的熵
func (bf *BenchFile) Entropy() float64 {
	return EntropyFromDist(bf.Dist)
}
