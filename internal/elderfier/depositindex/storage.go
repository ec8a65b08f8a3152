// Copyright (c) 2025 The Monetarium developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package depositindex

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/monetarium/elderfier/internal/elderfier"
	"github.com/monetarium/node/database"
)

// storageFormatVersion is written first in every persisted file, per
// spec section 4.1 ("version field must be first"). It follows the
// same version-prefixed convention as the teacher's
// internal/blockchain/ska_burn_state.go.
const storageFormatVersion uint32 = 1

// serviceIDKindByte lets the on-disk format store a ServiceID's kind
// as a single byte rather than a variable-length tag; readDepositRecord
// converts the byte back with a plain ServiceIDKind conversion.
func serviceIDKindByte(k elderfier.ServiceIDKind) byte { return byte(k) }

// SaveToStorage writes the full deposit set to path in the binary
// format of spec section 6: a count, then one fixed-plus-variable
// length record per deposit.
func (s *Store) SaveToStorage(path string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, err := os.Create(path)
	if err != nil {
		return elderfier.WrapError(elderfier.ErrPersistence, "create index file", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if err := binary.Write(w, binary.LittleEndian, storageFormatVersion); err != nil {
		return elderfier.WrapError(elderfier.ErrPersistence, "write version", err)
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(s.byKey))); err != nil {
		return elderfier.WrapError(elderfier.ErrPersistence, "write count", err)
	}

	for _, d := range s.byKey {
		if err := writeDepositRecord(w, d); err != nil {
			return elderfier.WrapError(elderfier.ErrPersistence, "write deposit record", err)
		}
	}

	if err := w.Flush(); err != nil {
		return elderfier.WrapError(elderfier.ErrPersistence, "flush index file", err)
	}
	return nil
}

// LoadFromStorage replaces the in-memory index with the contents of
// path. A missing file is not an error (a freshly initialized node has
// none yet); per spec section 4.1 this returns success with an empty
// index in that case.
func (s *Store) LoadFromStorage(path string) error {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		s.mu.Lock()
		s.byKey = make(map[elderfier.ValidatorKey]*elderfier.Deposit)
		s.byServiceID = make(map[string]elderfier.ValidatorKey)
		s.byAddress = make(map[string]elderfier.ValidatorKey)
		s.mu.Unlock()
		return nil
	}
	if err != nil {
		return elderfier.WrapError(elderfier.ErrPersistence, "open index file", err)
	}
	defer f.Close()

	r := bufio.NewReader(f)

	var version uint32
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return elderfier.WrapError(elderfier.ErrPersistence, "read version", err)
	}
	if version > storageFormatVersion {
		return elderfier.NewError(elderfier.ErrPersistence, fmt.Sprintf("unsupported index format version %d", version))
	}

	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return elderfier.WrapError(elderfier.ErrPersistence, "read count", err)
	}

	byKey := make(map[elderfier.ValidatorKey]*elderfier.Deposit, count)
	byServiceID := make(map[string]elderfier.ValidatorKey, count)
	byAddress := make(map[string]elderfier.ValidatorKey, count)

	for i := uint32(0); i < count; i++ {
		d, err := readDepositRecord(r)
		if err != nil {
			return elderfier.WrapError(elderfier.ErrPersistence, "read deposit record", err)
		}
		byKey[d.ValidatorKey] = d
		byServiceID[d.ServiceID.Key()] = d.ValidatorKey
		if d.Address != "" {
			byAddress[d.Address] = d.ValidatorKey
		}
	}

	s.mu.Lock()
	s.byKey = byKey
	s.byServiceID = byServiceID
	s.byAddress = byAddress
	s.mu.Unlock()

	return nil
}

// ClearStorage removes any persisted index file at path. Absence of
// the file is not an error.
func (s *Store) ClearStorage(path string) error {
	err := os.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		return elderfier.WrapError(elderfier.ErrPersistence, "remove index file", err)
	}
	return nil
}

// writeDepositRecord encodes one deposit per the layout named in spec
// section 6, extended with the Elderfier-specific fields (service ID,
// window timestamps, selection multiplier) spec section 3 requires
// the index to retain.
func writeDepositRecord(w io.Writer, d *elderfier.Deposit) error {
	if _, err := w.Write(d.ValidatorKey[:]); err != nil {
		return err
	}
	if _, err := w.Write(d.DepositHash[:]); err != nil {
		return err
	}
	if err := writeVarString(w, d.Address); err != nil {
		return err
	}
	fields := []int64{
		int64(d.StakeAmount),
		d.CreatedAt,
		d.LastSeen,
		d.UptimeSeconds,
		d.LastSignatureTimestamp,
		d.WindowEnd,
		d.WindowDuration,
		d.UnlockRequestTimestamp,
	}
	for _, v := range fields {
		if err := binary.Write(w, binary.LittleEndian, v); err != nil {
			return err
		}
	}
	if err := binary.Write(w, binary.LittleEndian, d.SelectionMultiplier); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, flagsByte(d.Flags)); err != nil {
		return err
	}

	if err := binary.Write(w, binary.LittleEndian, serviceIDKindByte(d.ServiceID.Kind)); err != nil {
		return err
	}
	switch d.ServiceID.Kind {
	case elderfier.ServiceIDStandardAddress, elderfier.ServiceIDHashedAddress:
		if err := writeVarString(w, d.ServiceID.Address); err != nil {
			return err
		}
	case elderfier.ServiceIDCustomName:
		if err := writeVarString(w, d.ServiceID.Name); err != nil {
			return err
		}
		if err := writeVarString(w, d.ServiceID.LinkedAddress); err != nil {
			return err
		}
	}
	return nil
}

func readDepositRecord(r io.Reader) (*elderfier.Deposit, error) {
	d := &elderfier.Deposit{}

	if _, err := io.ReadFull(r, d.ValidatorKey[:]); err != nil {
		return nil, err
	}
	if _, err := io.ReadFull(r, d.DepositHash[:]); err != nil {
		return nil, err
	}
	addr, err := readVarString(r)
	if err != nil {
		return nil, err
	}
	d.Address = addr

	var fields [8]int64
	for i := range fields {
		if err := binary.Read(r, binary.LittleEndian, &fields[i]); err != nil {
			return nil, err
		}
	}
	d.StakeAmount = elderfier.Amount(fields[0])
	d.CreatedAt = fields[1]
	d.LastSeen = fields[2]
	d.UptimeSeconds = fields[3]
	d.LastSignatureTimestamp = fields[4]
	d.WindowEnd = fields[5]
	d.WindowDuration = fields[6]
	d.UnlockRequestTimestamp = fields[7]

	if err := binary.Read(r, binary.LittleEndian, &d.SelectionMultiplier); err != nil {
		return nil, err
	}
	var fb byte
	if err := binary.Read(r, binary.LittleEndian, &fb); err != nil {
		return nil, err
	}
	d.Flags = flagsFromByte(fb)

	var kindByte byte
	if err := binary.Read(r, binary.LittleEndian, &kindByte); err != nil {
		return nil, err
	}
	kind := elderfier.ServiceIDKind(kindByte)
	switch kind {
	case elderfier.ServiceIDStandardAddress:
		s, err := readVarString(r)
		if err != nil {
			return nil, err
		}
		d.ServiceID = elderfier.NewStandardAddressID(s)
	case elderfier.ServiceIDHashedAddress:
		s, err := readVarString(r)
		if err != nil {
			return nil, err
		}
		d.ServiceID = elderfier.NewHashedAddressID(s)
	case elderfier.ServiceIDCustomName:
		name, err := readVarString(r)
		if err != nil {
			return nil, err
		}
		linked, err := readVarString(r)
		if err != nil {
			return nil, err
		}
		d.ServiceID = elderfier.ServiceID{Kind: elderfier.ServiceIDCustomName, Name: name, LinkedAddress: linked}
	default:
		return nil, fmt.Errorf("unknown service ID kind byte %d", kindByte)
	}

	return d, nil
}

func writeVarString(w io.Writer, s string) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(s))); err != nil {
		return err
	}
	_, err := w.Write([]byte(s))
	return err
}

func readVarString(r io.Reader) (string, error) {
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

func flagsByte(f elderfier.DepositFlags) byte {
	var b byte
	if f.Active {
		b |= 1 << 0
	}
	if f.Slashable {
		b |= 1 << 1
	}
	if f.Spent {
		b |= 1 << 2
	}
	if f.InSecurityWindow {
		b |= 1 << 3
	}
	if f.UnlockRequested {
		b |= 1 << 4
	}
	if f.Slashed {
		b |= 1 << 5
	}
	return b
}

func flagsFromByte(b byte) elderfier.DepositFlags {
	return elderfier.DepositFlags{
		Active:           b&(1<<0) != 0,
		Slashable:        b&(1<<1) != 0,
		Spent:            b&(1<<2) != 0,
		InSecurityWindow: b&(1<<3) != 0,
		UnlockRequested:  b&(1<<4) != 0,
		Slashed:          b&(1<<5) != 0,
	}
}

// deposit index database bucket, used only when a host supplies a
// database.DB backing store (e.g. its own chain database) instead of
// a bare file. This mirrors internal/blockchain/ska_burn_state.go's
// bucket layout: a meta version key plus one key per record.
const depositIndexBucketName = "elderfierdepositindex"

// SaveToDatabase persists the index into db using the same bucket
// layout conventions as the teacher's SKA burn state, for hosts that
// want the index co-located with their chain database rather than a
// bare file.
func (s *Store) SaveToDatabase(db database.DB) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return db.Update(func(dbTx database.Tx) error {
		meta := dbTx.Metadata()
		if meta.Bucket([]byte(depositIndexBucketName)) != nil {
			if err := meta.DeleteBucket([]byte(depositIndexBucketName)); err != nil {
				return err
			}
		}
		bucket, err := meta.CreateBucket([]byte(depositIndexBucketName))
		if err != nil {
			return err
		}

		versionBytes := make([]byte, 4)
		binary.LittleEndian.PutUint32(versionBytes, storageFormatVersion)
		if err := bucket.Put([]byte("__meta_version__"), versionBytes); err != nil {
			return err
		}

		for key, d := range s.byKey {
			var buf []byte
			w := &byteSliceWriter{buf: &buf}
			if err := writeDepositRecord(w, d); err != nil {
				return err
			}
			if err := bucket.Put(key[:], buf); err != nil {
				return err
			}
		}
		return nil
	})
}

// byteSliceWriter is a minimal io.Writer over a growable byte slice,
// used so writeDepositRecord (designed around io.Writer for the flat
// file path) can also target a database value buffer.
type byteSliceWriter struct {
	buf *[]byte
}

func (w *byteSliceWriter) Write(p []byte) (int, error) {
	*w.buf = append(*w.buf, p...)
	return len(p), nil
}
