package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gofrs/flock"
)

// lockRetryInterval is the interval between attempts to acquire the record
// lock while another invocation holds it.
const lockRetryInterval = 50 * time.Millisecond

// FileStore keeps the PID record in a plain file: first line the decimal PID,
// optionally followed by a JSON meta line with the process start time.
// Readers tolerate the legacy single-line form.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore { return &FileStore{path: path} }

func (s *FileStore) Path() string { return s.path }

func (s *FileStore) Load() (Record, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Record{}, ErrNotFound
		}
		return Record{}, err
	}
	pidLine, rest, _ := strings.Cut(strings.ReplaceAll(string(b), "\r\n", "\n"), "\n")
	pid, err := strconv.Atoi(strings.TrimSpace(pidLine))
	if err != nil {
		return Record{}, fmt.Errorf("invalid pid in %s: %w", s.path, err)
	}
	rec := Record{PID: pid}
	rest = strings.TrimSpace(rest)
	if rest != "" {
		// Meta is best-effort; a record with an unparseable second line is
		// still a valid legacy record.
		var meta Record
		if err := json.Unmarshal([]byte(rest), &meta); err == nil {
			rec.StartUnix = meta.StartUnix
		}
	}
	return rec, nil
}

func (s *FileStore) Save(rec Record) error {
	if rec.PID <= 0 {
		return fmt.Errorf("refusing to save invalid pid %d", rec.PID)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return err
	}
	data := strconv.Itoa(rec.PID)
	if rec.StartUnix > 0 {
		meta, err := json.Marshal(Record{StartUnix: rec.StartUnix})
		if err != nil {
			return err
		}
		data += "\n" + string(meta)
	}
	return os.WriteFile(s.path, []byte(data+"\n"), 0o600)
}

func (s *FileStore) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Lock acquires an exclusive flock on <pidfile>.lock. The lock file is left
// on disk after release; removing it would race a concurrent acquirer.
func (s *FileStore) Lock(ctx context.Context) (func(), error) {
	lockPath := s.path + ".lock"
	if err := os.MkdirAll(filepath.Dir(lockPath), 0o750); err != nil {
		return nil, err
	}
	fl := flock.New(lockPath)
	locked, err := fl.TryLockContext(ctx, lockRetryInterval)
	if err != nil {
		return nil, fmt.Errorf("acquiring lock %s: %w", lockPath, err)
	}
	if !locked {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("acquiring lock %s: %w", lockPath, ctx.Err())
		}
		return nil, fmt.Errorf("acquiring lock %s: lock not acquired", lockPath)
	}
	return func() { _ = fl.Close() }, nil
}
