// Package actionlog provides the append-only mutation action log
// (spec.md §4.9): append(action) -> id in a transaction, paginated
// descending-by-id reads, and a successful-rows-newest-first scan for
// the undo engine.
//
// Storage is go.etcd.io/bbolt, the same dependency the teacher uses
// for its hash cache (internal/cache/cache.go). Unlike that cache,
// this store is not read-old/write-new-then-swap — a durable action
// log has no self-cleaning analogue — but it keeps the teacher's
// big-endian keys and explicit Open/Close ownership discipline. Rows
// live in the actions bucket, successful rows are also indexed in the
// successful_actions bucket, and the meta bucket holds the schema
// version.
package actionlog

import (
	"encoding/binary"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"

	"github.com/ivoronin/linkctl/internal/linktypes"
)

const (
	bucketName       = "actions"
	successBucket    = "successful_actions"
	metaBucket       = "meta"
	schemaVersionKey = "schema_version"
)

// schemaVersion is bumped whenever the record shape gains a column. A
// missing key on Open means a fresh store, not a legacy one needing
// migration; there is only one version so far, so the additive-
// upgrade path spec.md §6 calls for is a no-op by construction until a
// second version exists.
const schemaVersion = 1

// Log is a durable, append-only store of mutation ActionRecords.
type Log struct {
	db *bolt.DB
}

// Open opens (creating if necessary) the action log at path.
func Open(path string) (*Log, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Wrap(err, "create action log directory")
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, errors.Wrap(err, "open action log (locked by another instance?)")
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(bucketName)); err != nil {
			return err
		}
		if _, err := tx.CreateBucketIfNotExists([]byte(successBucket)); err != nil {
			return err
		}
		meta, err := tx.CreateBucketIfNotExists([]byte(metaBucket))
		if err != nil {
			return err
		}
		if meta.Get([]byte(schemaVersionKey)) == nil {
			return meta.Put([]byte(schemaVersionKey), idKey(schemaVersion))
		}
		return nil
	}); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "create actions bucket")
	}

	return &Log{db: db}, nil
}

// Close closes the underlying store.
func (l *Log) Close() error {
	return l.db.Close()
}

// record is the on-disk encoding of an ActionRecord; Timestamp is
// carried as RFC 3339 text (spec.md §6).
type record struct {
	ID        uint64  `json:"id"`
	Kind      string  `json:"action_type"`
	LinkPath  string  `json:"link_path"`
	LinkKind  string  `json:"link_type"`
	TargetOld *string `json:"target_old,omitempty"`
	TargetNew *string `json:"target_new,omitempty"`
	Timestamp string  `json:"timestamp"`
	Success   bool    `json:"success"`
	ErrorMsg  *string `json:"error_msg,omitempty"`
}

func toRecord(rec linktypes.ActionRecord) record {
	return record{
		ID:        rec.ID,
		Kind:      rec.Kind.String(),
		LinkPath:  rec.LinkPath,
		LinkKind:  rec.LinkKind.String(),
		TargetOld: rec.TargetOld,
		TargetNew: rec.TargetNew,
		Timestamp: rec.Timestamp.Format(time.RFC3339),
		Success:   rec.Success,
		ErrorMsg:  rec.ErrorMsg,
	}
}

func fromRecord(r record) linktypes.ActionRecord {
	ts, _ := time.Parse(time.RFC3339, r.Timestamp)
	return linktypes.ActionRecord{
		ID:        r.ID,
		Kind:      parseActionKind(r.Kind),
		LinkPath:  r.LinkPath,
		LinkKind:  linktypes.ParseKind(r.LinkKind),
		TargetOld: r.TargetOld,
		TargetNew: r.TargetNew,
		Timestamp: ts,
		Success:   r.Success,
		ErrorMsg:  r.ErrorMsg,
	}
}

func parseActionKind(s string) linktypes.ActionKind {
	switch s {
	case "Delete":
		return linktypes.ActionDelete
	case "Retarget":
		return linktypes.ActionRetarget
	case "Undo":
		return linktypes.ActionUndo
	default:
		return linktypes.ActionCreate
	}
}

func idKey(id uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, id)
	return key
}

// Append writes rec in a single transaction, assigning it a strictly
// increasing id via the bucket's own sequence counter, and returns
// that id (spec.md §4.9). A successful record is also keyed into
// successBucket, the secondary (success, id descending) index spec.md
// §6 calls for, so ScanSuccessfulDescending never has to deserialize
// and discard failed rows.
func (l *Log) Append(rec linktypes.ActionRecord) (uint64, error) {
	var id uint64
	err := l.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		id = seq
		rec.ID = id

		data, err := json.Marshal(toRecord(rec))
		if err != nil {
			return err
		}
		if err := b.Put(idKey(id), data); err != nil {
			return err
		}
		if rec.Success {
			return tx.Bucket([]byte(successBucket)).Put(idKey(id), data)
		}
		return nil
	})
	if err != nil {
		return 0, errors.Wrap(err, "append action")
	}
	return id, nil
}

// List returns up to limit records ordered by id descending, starting
// after beforeID (0 to start from the newest).
func (l *Log) List(beforeID uint64, limit int) ([]linktypes.ActionRecord, error) {
	var results []linktypes.ActionRecord

	err := l.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket([]byte(bucketName)).Cursor()

		var k, v []byte
		if beforeID == 0 {
			k, v = c.Last()
		} else {
			c.Seek(idKey(beforeID))
			k, v = c.Prev()
		}

		for ; k != nil && len(results) < limit; k, v = c.Prev() {
			var r record
			if err := json.Unmarshal(v, &r); err != nil {
				return err
			}
			results = append(results, fromRecord(r))
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "list actions")
	}
	return results, nil
}

// ScanSuccessfulDescending visits every successful row newest-first via
// the successBucket index, stopping early when visit returns
// stop == true or a non-nil error (spec.md §4.9's "specialized scan
// for the undo engine").
func (l *Log) ScanSuccessfulDescending(visit func(linktypes.ActionRecord) (stop bool, err error)) error {
	return l.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket([]byte(successBucket)).Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			var r record
			if err := json.Unmarshal(v, &r); err != nil {
				return err
			}
			stop, err := visit(fromRecord(r))
			if err != nil {
				return err
			}
			if stop {
				return nil
			}
		}
		return nil
	})
}
