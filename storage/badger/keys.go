package badger

import "encoding/binary"

// Key prefix for document records. The full key is the prefix, a colon,
// then the BigEndian sequence number, so lexicographic iteration order
// equals insertion order.
const docRecordPrefix = "docrec"

// makeDocKey generates a key for a document record by sequence number.
func makeDocKey(seq uint64) []byte {
	prefix := docRecordPrefix + ":"
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], seq)
	return buf
}

// docKeySeq extracts the sequence number from a document record key.
// Returns false for keys that don't carry one.
func docKeySeq(key []byte) (uint64, bool) {
	prefixLen := len(docRecordPrefix) + 1
	if len(key) != prefixLen+8 {
		return 0, false
	}
	return binary.BigEndian.Uint64(key[prefixLen:]), true
}

// docKeyRange returns the iteration prefix covering every document record.
func docKeyRange() []byte {
	return []byte(docRecordPrefix + ":")
}
