package api

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrNoCredentials is returned when no bearer token is available.
var ErrNoCredentials = errors.New("api: no credentials available")

// CredentialProvider supplies the bearer token for each request.
type CredentialProvider interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a fixed bearer token.
type StaticToken string

func (t StaticToken) Token(context.Context) (string, error) {
	if t == "" {
		return "", ErrNoCredentials
	}
	return string(t), nil
}

// EnvToken reads the token from an environment variable on every request.
type EnvToken string

func (name EnvToken) Token(context.Context) (string, error) {
	token := strings.TrimSpace(os.Getenv(string(name)))
	if token == "" {
		return "", fmt.Errorf("%w: %s is empty", ErrNoCredentials, string(name))
	}
	return token, nil
}

// Session is the persisted login state.
type Session struct {
	Token   string    `yaml:"token"`
	Email   string    `yaml:"email,omitempty"`
	SavedAt time.Time `yaml:"saved_at"`
}

// FileCredentials reads the token from a YAML session file.
type FileCredentials struct {
	Path string
}

func (f FileCredentials) Token(context.Context) (string, error) {
	session, err := LoadSession(f.Path)
	if err != nil {
		return "", err
	}
	if session.Token == "" {
		return "", fmt.Errorf("%w: session %s has no token", ErrNoCredentials, f.Path)
	}
	return session.Token, nil
}

// Chain tries each provider in order and returns the first token found.
type Chain []CredentialProvider

func (c Chain) Token(ctx context.Context) (string, error) {
	var errs []error
	for _, provider := range c {
		if provider == nil {
			continue
		}
		token, err := provider.Token(ctx)
		if err == nil && token != "" {
			return token, nil
		}
		if err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) == 0 {
		return "", ErrNoCredentials
	}
	return "", errors.Join(errs...)
}

// LoadSession reads a session file.
func LoadSession(path string) (Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Session{}, fmt.Errorf("%w: no session at %s", ErrNoCredentials, path)
		}
		return Session{}, fmt.Errorf("api: read session: %w", err)
	}
	var session Session
	if err := yaml.Unmarshal(data, &session); err != nil {
		return Session{}, fmt.Errorf("api: decode session: %w", err)
	}
	return session, nil
}

// SaveSession writes a session file readable only by the current user.
func SaveSession(path string, session Session) error {
	if session.SavedAt.IsZero() {
		session.SavedAt = time.Now().UTC()
	}
	data, err := yaml.Marshal(session)
	if err != nil {
		return fmt.Errorf("api: encode session: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("api: create session dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("api: write session: %w", err)
	}
	return nil
}

// ClearSession removes a session file; a missing file is not an error.
func ClearSession(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("api: remove session: %w", err)
	}
	return nil
}
