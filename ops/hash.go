package ops

import (
	"crypto/sha256"
	"encoding/binary"
)

// HashOp identifies a hash function an operator may invoke. Only SHA256 is
// ever computed by this implementation; the rest of the enum exists so that
// proofs naming an unsupported hash fail with a distinct, recognizable
// error instead of being silently misinterpreted.
type HashOp int

const (
	NoHash HashOp = iota
	SHA256
	SHA512
	Keccak
	Ripemd160
	Bitcoin
	SHA512_256
	Blake2b512
	Blake2s256
	Blake3
)

// LengthOp identifies how a length prefix is encoded ahead of a hashed key
// or value inside a leaf preimage.
type LengthOp int

const (
	NoPrefix LengthOp = iota
	VarProto
	Fixed32Little
	Fixed32Big
	Fixed64Big
	Fixed64Little
	Require32Bytes
	Require64Bytes
)

// doHash computes the digest of data under op. SHA256 is the only op this
// implementation computes; anything else is UnsupportedOperator, including
// NoHash (doHash is only ever called where a real hash is mandatory — use
// doHashOrNoop where NoHash is a legal no-op).
func doHash(op HashOp, data []byte) ([]byte, error) {
	switch op {
	case SHA256:
		sum := sha256.Sum256(data)
		return sum[:], nil
	default:
		return nil, newErr(UnsupportedOperator, "hash op %v is not supported", op)
	}
}

// doHashOrNoop is doHash, except NoHash returns data unchanged.
func doHashOrNoop(op HashOp, data []byte) ([]byte, error) {
	if op == NoHash {
		return data, nil
	}
	return doHash(op, data)
}

// doLengthOp encodes the length of data per op and prepends that encoding,
// except for the two REQUIRE_*_BYTES variants which only assert an exact
// length and emit no prefix.
func doLengthOp(op LengthOp, data []byte) ([]byte, error) {
	switch op {
	case NoPrefix:
		return data, nil
	case VarProto:
		return append(encodeVarProto(uint64(len(data))), data...), nil
	case Fixed32Little:
		var buf [4]byte
		binary.LittleEndian.PutUint32(buf[:], uint32(len(data)))
		return append(buf[:], data...), nil
	case Require32Bytes:
		if len(data) != 32 {
			return nil, newErr(UnsupportedOperator, "REQUIRE_32_BYTES: got %d bytes", len(data))
		}
		return data, nil
	case Require64Bytes:
		if len(data) != 64 {
			return nil, newErr(UnsupportedOperator, "REQUIRE_64_BYTES: got %d bytes", len(data))
		}
		return data, nil
	default:
		return nil, newErr(UnsupportedOperator, "length op %v is not supported", op)
	}
}

// encodeVarProto is the unsigned LEB128-style base-128 encoding protobuf
// uses for varints: 7 bits of payload per byte, least-significant group
// first, continuation bit (0x80) set on every group but the last.
func encodeVarProto(n uint64) []byte {
	var out []byte
	for n >= 0x80 {
		out = append(out, byte(n)|0x80)
		n >>= 7
	}
	return append(out, byte(n))
}
