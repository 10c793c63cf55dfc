package types

import (
	"encoding/binary"

	"golang.org/x/crypto/sha3"
)

// BloomBitLength is the number of bits in a log bloom filter.
const BloomBitLength = 8 * BloomLength

// bloom9 computes the 3 bit positions for a bloom filter entry: the first 6
// bytes of keccak256(data) as 3 big-endian uint16 values mod 2048.
func bloom9(data []byte) [3]uint {
	d := sha3.NewLegacyKeccak256()
	d.Write(data)
	h := d.Sum(nil)
	var bits [3]uint
	for i := 0; i < 3; i++ {
		bits[i] = uint(binary.BigEndian.Uint16(h[2*i:])) & (BloomBitLength - 1)
	}
	return bits
}

// Add sets the 3 bloom bits derived from data.
func (b *Bloom) Add(data []byte) {
	for _, bit := range bloom9(data) {
		b[BloomLength-1-bit/8] |= 1 << (bit % 8)
	}
}

// Contains reports whether all 3 bits derived from data are set. False
// positives are possible, false negatives are not.
func (b Bloom) Contains(data []byte) bool {
	for _, bit := range bloom9(data) {
		if b[BloomLength-1-bit/8]&(1<<(bit%8)) == 0 {
			return false
		}
	}
	return true
}

// LogsBloom computes the bloom filter covering the given logs: each log
// contributes its address and every topic.
func LogsBloom(logs []*Log) Bloom {
	var bloom Bloom
	for _, l := range logs {
		bloom.Add(l.Address.Bytes())
		for _, topic := range l.Topics {
			bloom.Add(topic.Bytes())
		}
	}
	return bloom
}

// CreateBloom ORs together the blooms of a list of receipts, producing the
// header-level logs bloom.
func CreateBloom(receipts []*TransactionReceipt) Bloom {
	var bloom Bloom
	for _, r := range receipts {
		for i := range r.Bloom {
			bloom[i] |= r.Bloom[i]
		}
	}
	return bloom
}
