package kvstore

import (
	"encoding/binary"
	"math"

	"github.com/sealvault/go-sealvault/service/persist"
	"github.com/sealvault/go-sealvault/service/store"
)

// TxRepository stores the transaction log: the record itself under the
// global txs prefix, plus one pointer key per involved address. Address
// keys embed the bitwise complement of the sequence number, so an ascending
// prefix scan yields records newest-first.
type TxRepository struct{}

// NewTxRepository creates a new TxRepository
func NewTxRepository() *TxRepository {
	return &TxRepository{}
}

func txKey(seq uint64) []byte {
	key := make([]byte, len(prefixTxs)+8)
	copy(key, prefixTxs)
	binary.BigEndian.PutUint64(key[len(prefixTxs):], seq)
	return key
}

func addrTxKey(addr persist.Address, seq uint64) []byte {
	prefix := addrPrefix(prefixAddrTxs, addr)
	key := make([]byte, len(prefix)+8)
	copy(key, prefix)
	binary.BigEndian.PutUint64(key[len(prefix):], math.MaxUint64-seq)
	return key
}

// Append writes the record and indexes it for every address it names
func (r *TxRepository) Append(tx store.Tx, record persist.TxRecord) error {
	if err := jsonSet(tx, txKey(record.Seq), record); err != nil {
		return err
	}

	seen := map[persist.Address]bool{}
	for _, addr := range []*persist.Address{record.From, record.To, record.Burner} {
		if addr == nil || seen[*addr] {
			continue
		}
		seen[*addr] = true

		seqBytes := make([]byte, 8)
		binary.BigEndian.PutUint64(seqBytes, record.Seq)
		if err := tx.Set(addrTxKey(*addr, record.Seq), seqBytes); err != nil {
			return err
		}
	}
	return nil
}

// ByAddress returns the address's transactions newest-first, paginated
func (r *TxRepository) ByAddress(tx store.Tx, addr persist.Address, page, pageSize uint32) ([]persist.TxRecord, error) {
	if pageSize == 0 {
		return nil, nil
	}

	// page arithmetic in 64 bits: caller-supplied page numbers near the
	// uint32 ceiling must fall off the end, not wrap back into the log
	skip := uint64(page) * uint64(pageSize)
	var seqs []uint64
	prefix := addrPrefix(prefixAddrTxs, addr)

	// collect the page's sequence numbers first; record fetches happen
	// after the scan so the two never interleave on one connection
	var visited uint64
	err := tx.Scan(prefix, func(key, value []byte) error {
		if visited >= skip+uint64(pageSize) {
			return nil
		}
		if visited >= skip {
			seqs = append(seqs, binary.BigEndian.Uint64(value))
		}
		visited++
		return nil
	})
	if err != nil {
		return nil, err
	}

	records := make([]persist.TxRecord, 0, len(seqs))
	for _, seq := range seqs {
		var record persist.TxRecord
		if err := jsonGet(tx, txKey(seq), &record); err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}
