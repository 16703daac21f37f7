package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"showdown-client/internal/domain"
)

// Store persists the session across process restarts.
type Store interface {
	Load() (domain.Session, error)
	Save(domain.Session) error
	Clear() error
}

const sessionFileName = "session.json"

// FileStore keeps the session as a JSON file under a state directory.
type FileStore struct {
	basePath string
}

// NewFileStore constructs a file-backed session store rooted at basePath.
func NewFileStore(basePath string) *FileStore {
	return &FileStore{basePath: basePath}
}

// Load reads the persisted session. A missing file yields an empty session
// and no error.
func (s *FileStore) Load() (domain.Session, error) {
	var sess domain.Session
	raw, err := os.ReadFile(s.path())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.Session{}, nil
		}
		return domain.Session{}, fmt.Errorf("reading session file: %w", err)
	}
	if err := json.Unmarshal(raw, &sess); err != nil {
		return domain.Session{}, fmt.Errorf("decoding session file: %w", err)
	}
	return sess, nil
}

// Save writes the session atomically: encode to a temp file, then rename.
func (s *FileStore) Save(sess domain.Session) error {
	if err := os.MkdirAll(s.basePath, 0o700); err != nil {
		return fmt.Errorf("creating state dir: %w", err)
	}

	encoded, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}

	tmp, err := os.CreateTemp(s.basePath, sessionFileName+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp session file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(encoded); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing temp session file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp session file: %w", err)
	}
	if err := os.Rename(tmpName, s.path()); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing session file: %w", err)
	}
	return nil
}

// Clear removes the persisted session; a missing file is not an error.
func (s *FileStore) Clear() error {
	if err := os.Remove(s.path()); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing session file: %w", err)
	}
	return nil
}

func (s *FileStore) path() string {
	return filepath.Join(s.basePath, sessionFileName)
}
