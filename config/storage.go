package config

import (
	"fmt"
	"strings"
	"time"
)

// StorageBackend selects where the local session is persisted.
type StorageBackend string

const (
	// StorageFile keeps the session in a JSON file under the user config dir.
	StorageFile StorageBackend = "file"
	// StorageKeyring keeps the session in the OS credential store.
	StorageKeyring StorageBackend = "keyring"
	// StorageMemory keeps the session in process memory only.
	StorageMemory StorageBackend = "memory"
)

// UnmarshalText implements encoding.TextUnmarshaler for StorageBackend.
func (b *StorageBackend) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	switch StorageBackend(v) {
	case StorageFile, StorageKeyring, StorageMemory:
		*b = StorageBackend(v)
		return nil
	default:
		return fmt.Errorf("invalid StorageBackend: %q (valid options: file, keyring, memory)", v)
	}
}

// StorageConfig contains local session storage configuration.
type StorageConfig struct {
	Backend StorageBackend `env:"BACKEND" envDefault:"file"`

	// File is the session document path. Empty uses <user config dir>/<AppName>/session.json.
	File string `env:"FILE"`

	// AppName names the config subdirectory and the keyring service.
	AppName string `env:"APP_NAME" envDefault:"finance-auth-client"`

	// LockTimeout bounds waits on the session file lock.
	LockTimeout time.Duration `env:"LOCK_TIMEOUT" envDefault:"1s"`
}

// Sanitize applies guardrails to storage configuration values.
func (s *StorageConfig) Sanitize() {
	if s.Backend == "" {
		s.Backend = StorageFile
	}
	s.File = strings.TrimSpace(s.File)
	s.AppName = strings.TrimSpace(s.AppName)
	if s.AppName == "" {
		s.AppName = "finance-auth-client"
	}
	if s.LockTimeout <= 0 {
		s.LockTimeout = time.Second
	}
}
