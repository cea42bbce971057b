// Package journal keeps a persistent history of the footers obbutil has
// added to and removed from files.
//
// Entries are stored in a pebble database keyed by KSUID, so iterating the
// keyspace visits entries in the order they were recorded. Each entry keeps
// the encoded footer, which is enough to put a removed footer back by hand.
package journal

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/cockroachdb/pebble"
	"github.com/segmentio/ksuid"
	"github.com/sirupsen/logrus"

	"github.com/andeb/obbutil/pkg/obbinfo"
)

// Op names the operation an entry records
type Op string

const (
	OpAdd    Op = "add"
	OpRemove Op = "remove"
)

// ErrNotFound is returned by Get for an unknown entry ID
var ErrNotFound = errors.New("journal entry not found")

// Entry is one recorded operation
type Entry struct {
	ID             ksuid.KSUID `json:"id"`
	Time           time.Time   `json:"time"`
	Op             Op          `json:"op"`
	Path           string      `json:"path"`
	PackageName    string      `json:"package_name"`
	PackageVersion int32       `json:"package_version"`
	Flags          uint32      `json:"flags"`
	Salt           string      `json:"salt,omitempty"`
	Footer         string      `json:"footer"`
}

// NewEntry describes op applied to the file at path with the given footer
func NewEntry(op Op, path string, info obbinfo.Info) (Entry, error) {
	encoded, err := obbinfo.Encode(info)
	if err != nil {
		return Entry{}, err
	}

	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}

	entry := Entry{
		Op:             op,
		Path:           path,
		PackageName:    info.PackageName(),
		PackageVersion: info.PackageVersion(),
		Flags:          uint32(info.Flags()),
		Footer:         hex.EncodeToString(encoded),
	}
	if salt := info.Salt(); !salt.IsZero() {
		entry.Salt = salt.String()
	}
	return entry, nil
}

// Info decodes the footer stored in the entry
func (e Entry) Info() (obbinfo.Info, error) {
	encoded, err := hex.DecodeString(e.Footer)
	if err != nil {
		return obbinfo.Info{}, fmt.Errorf("invalid footer encoding in entry %s: %w", e.ID, err)
	}
	return obbinfo.Decode(encoded)
}

// Journal is an open history database
type Journal struct {
	db  *pebble.DB
	log logrus.FieldLogger
}

// Open opens or creates the journal in dir
func Open(dir string, log logrus.FieldLogger) (*Journal, error) {
	db, err := pebble.Open(dir, &pebble.Options{
		Logger: pebbleLogger{log},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open journal %s: %w", dir, err)
	}
	return &Journal{db: db, log: log}, nil
}

// Record stores entry under a new ID and returns the stored entry. IDs are
// strictly increasing even when several entries share a timestamp second.
func (j *Journal) Record(entry Entry) (Entry, error) {
	id := ksuid.New()
	last, ok, err := j.lastID()
	if err != nil {
		return Entry{}, err
	}
	if ok && ksuid.Compare(id, last) <= 0 {
		id = last.Next()
	}

	entry.ID = id
	entry.Time = id.Time()

	data, err := json.Marshal(entry)
	if err != nil {
		return Entry{}, fmt.Errorf("failed to marshal journal entry: %w", err)
	}
	if err := j.db.Set(id.Bytes(), data, pebble.Sync); err != nil {
		return Entry{}, fmt.Errorf("failed to write journal entry: %w", err)
	}

	j.log.WithFields(logrus.Fields{
		"id":      id.String(),
		"op":      entry.Op,
		"path":    entry.Path,
		"package": entry.PackageName,
	}).Debug("journal entry recorded")

	return entry, nil
}

// Get returns the entry with the given ID
func (j *Journal) Get(id ksuid.KSUID) (Entry, error) {
	data, closer, err := j.db.Get(id.Bytes())
	if errors.Is(err, pebble.ErrNotFound) {
		return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return Entry{}, fmt.Errorf("failed to read journal entry: %w", err)
	}
	defer closer.Close()

	return decodeEntry(data)
}

// List returns up to limit entries, newest first. A limit of zero or less
// returns every entry.
func (j *Journal) List(limit int) ([]Entry, error) {
	iter, err := j.db.NewIter(&pebble.IterOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to iterate journal: %w", err)
	}
	defer iter.Close()

	var entries []Entry
	for valid := iter.Last(); valid; valid = iter.Prev() {
		if limit > 0 && len(entries) >= limit {
			break
		}
		entry, err := decodeEntry(iter.Value())
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("failed to iterate journal: %w", err)
	}

	return entries, nil
}

// Close closes the underlying database
func (j *Journal) Close() error {
	return j.db.Close()
}

func (j *Journal) lastID() (ksuid.KSUID, bool, error) {
	iter, err := j.db.NewIter(&pebble.IterOptions{})
	if err != nil {
		return ksuid.Nil, false, fmt.Errorf("failed to iterate journal: %w", err)
	}
	defer iter.Close()

	if !iter.Last() {
		return ksuid.Nil, false, iter.Error()
	}
	id, err := ksuid.FromBytes(iter.Key())
	if err != nil {
		return ksuid.Nil, false, fmt.Errorf("corrupt journal key: %w", err)
	}
	return id, true, nil
}

func decodeEntry(data []byte) (Entry, error) {
	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return Entry{}, fmt.Errorf("failed to decode journal entry: %w", err)
	}
	return entry, nil
}

// pebbleLogger routes pebble's informational chatter to debug level.
type pebbleLogger struct {
	log logrus.FieldLogger
}

func (l pebbleLogger) Infof(format string, args ...interface{}) {
	l.log.Debugf(format, args...)
}

func (l pebbleLogger) Errorf(format string, args ...interface{}) {
	l.log.Errorf(format, args...)
}

func (l pebbleLogger) Fatalf(format string, args ...interface{}) {
	l.log.Fatalf(format, args...)
}
