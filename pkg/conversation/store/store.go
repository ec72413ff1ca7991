// Package store manages a directory of conversation files, one YAML file per
// conversation, named conversation_<timestamp>.yaml.
package store

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/go-go-golems/arbor/pkg/conversation"
)

const conversationPrefix = "conversation_"

var conversationPattern = regexp.MustCompile(`^conversation_([0-9]+)\.yaml$`)

// Store tracks the conversations below a base directory. Conversations are
// loaded lazily: Refresh only records which files exist, Get materializes
// them on first use.
type Store struct {
	basePath      string
	conversations map[string]*conversation.Conversation
}

// Open prepares a store at the given directory, creating it if needed, and
// scans it for existing conversation files. A path pointing at a regular
// file is rejected.
func Open(basePath string) (*Store, error) {
	info, err := os.Stat(basePath)
	if err == nil && !info.IsDir() {
		return nil, errors.Errorf("path %s points to a file", basePath)
	}
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, errors.Wrapf(err, "could not create conversation directory %s", basePath)
	}

	s := &Store{
		basePath:      basePath,
		conversations: map[string]*conversation.Conversation{},
	}
	if err := s.Refresh(); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Store) BasePath() string {
	return s.basePath
}

// Refresh rescans the base directory for conversation files. Conversations
// that are already loaded stay loaded; entries whose file disappeared are
// dropped.
func (s *Store) Refresh() error {
	entries, err := os.ReadDir(s.basePath)
	if err != nil {
		return errors.Wrapf(err, "could not list conversation directory %s", s.basePath)
	}

	conversations := make(map[string]*conversation.Conversation, len(s.conversations))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		matches := conversationPattern.FindStringSubmatch(entry.Name())
		if matches == nil {
			continue
		}
		name := matches[1]
		conversations[name] = s.conversations[name]
	}

	s.conversations = conversations

	log.Debug().
		Str("base_path", s.basePath).
		Int("count", len(conversations)).
		Msg("refreshed conversation store")

	return nil
}

// Names returns the names of all known conversations, sorted. Names are the
// UTC creation timestamps used in the file names.
func (s *Store) Names() []string {
	names := make([]string, 0, len(s.conversations))
	for name := range s.conversations {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *Store) filePath(name string) string {
	return filepath.Join(s.basePath, conversationPrefix+name+".yaml")
}

// New creates a conversation named after the current UTC timestamp, saves it
// immediately, and returns the name.
func (s *Store) New(parameters conversation.CompletionParameters, systemContent string) (string, error) {
	name := time.Now().UTC().Format("20060102150405")

	conv, err := conversation.BuildConversation(parameters, s.filePath(name), systemContent)
	if err != nil {
		return "", err
	}
	if err := conv.Save(); err != nil {
		return "", err
	}

	s.conversations[name] = conv
	return name, nil
}

// Get returns the conversation with the given name, loading it from disk the
// first time it is requested.
func (s *Store) Get(name string) (*conversation.Conversation, error) {
	conv, known := s.conversations[name]
	if !known {
		return nil, errors.Errorf("unknown conversation %q", name)
	}
	if conv != nil {
		return conv, nil
	}

	conv, err := conversation.LoadConversation(s.filePath(name))
	if err != nil {
		return nil, err
	}
	s.conversations[name] = conv

	return conv, nil
}

// Preload loads every known conversation from disk. Conversations are
// independent aggregates, so the files are read concurrently.
func (s *Store) Preload(ctx context.Context) error {
	var mu sync.Mutex
	g, _ := errgroup.WithContext(ctx)

	for name, conv := range s.conversations {
		if conv != nil {
			continue
		}
		name := name
		g.Go(func() error {
			loaded, err := conversation.LoadConversation(s.filePath(name))
			if err != nil {
				return err
			}
			mu.Lock()
			s.conversations[name] = loaded
			mu.Unlock()
			return nil
		})
	}

	return g.Wait()
}
