package capability

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	lab "github.com/BrenchCC/LLM-Lab"
)

// DefaultCachePath is where the capability cache lives unless configured.
const DefaultCachePath = "storage/logs/model_cap_cache.json"

// FileStore keeps records in one pretty-printed JSON object keyed by
// "profile::model". Every Set is a read-modify-write of the whole file;
// concurrent processes race and the last writer wins. Records are hints,
// so a lost write only costs a repeated detection.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore returns a store backed by path. The file and its directory
// are created on first write.
func NewFileStore(path string) *FileStore {
	if path == "" {
		path = DefaultCachePath
	}
	return &FileStore{path: path}
}

// Path returns the cache file location.
func (f *FileStore) Path() string { return f.path }

// Get reads the file and returns the record for key. A missing file is
// empty; an unreadable or malformed file is an error.
func (f *FileStore) Get(_ context.Context, key string) (lab.ModelCapabilities, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	records, err := f.read()
	if err != nil {
		return lab.ModelCapabilities{}, false, err
	}
	raw, ok := records[key]
	if !ok {
		return lab.ModelCapabilities{}, false, nil
	}
	caps, err := decodeRecord(raw)
	if err != nil {
		return lab.ModelCapabilities{}, false, fmt.Errorf("capability cache record %s: %w", key, err)
	}
	return caps, true, nil
}

// Set writes the record for key. A malformed existing file is replaced.
func (f *FileStore) Set(_ context.Context, key string, caps lab.ModelCapabilities) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	records, err := f.read()
	if err != nil {
		records = make(map[string]json.RawMessage)
	}
	raw, err := json.Marshal(caps)
	if err != nil {
		return err
	}
	records[key] = raw
	return f.write(records)
}

// Load returns every well-formed record in the file.
func (f *FileStore) Load(_ context.Context) (map[string]lab.ModelCapabilities, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	records, err := f.read()
	if err != nil {
		return nil, err
	}
	result := make(map[string]lab.ModelCapabilities, len(records))
	for key, raw := range records {
		if caps, err := decodeRecord(raw); err == nil {
			result[key] = caps
		}
	}
	return result, nil
}

func (f *FileStore) read() (map[string]json.RawMessage, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return make(map[string]json.RawMessage), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read capability cache: %w", err)
	}
	records := make(map[string]json.RawMessage)
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse capability cache %s: %w", f.path, err)
	}
	if records == nil {
		records = make(map[string]json.RawMessage)
	}
	return records, nil
}

// write replaces the file through a temporary sibling so readers never
// observe a partial document.
func (f *FileStore) write(records map[string]json.RawMessage) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create capability cache dir: %w", err)
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".model_cap_cache-*.json")
	if err != nil {
		return fmt.Errorf("write capability cache: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("write capability cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write capability cache: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("write capability cache: %w", err)
	}
	return nil
}
