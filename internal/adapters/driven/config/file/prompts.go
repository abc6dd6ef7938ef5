package file

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/custodia-labs/fusionqa/internal/core/ports/driven"
)

// Ensure PromptStore implements the interface.
var _ driven.PromptStore = (*PromptStore)(nil)

// PromptStore loads prompt templates from <dir>/<name>.txt, falling back to
// driven.DefaultPrompts. The directory and default files are created lazily
// on the first Load so the constructor does no I/O.
type PromptStore struct {
	mu        sync.RWMutex
	promptDir string
	cache     map[string]string
	defaults  map[string]string
	initOnce  sync.Once
	initErr   error
}

// NewPromptStore creates a prompt store. An empty promptDir means
// ~/.fusionqa/prompts.
func NewPromptStore(promptDir string) (*PromptStore, error) {
	if promptDir == "" {
		dir, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		promptDir = filepath.Join(dir, "prompts")
	}

	return &PromptStore{
		promptDir: promptDir,
		cache:     make(map[string]string),
		defaults:  driven.DefaultPrompts(),
	}, nil
}

// Load returns the named template. Cached values win; otherwise the file is
// read, and a missing or unreadable file yields the built-in default.
func (s *PromptStore) Load(name string) (string, error) {
	s.initOnce.Do(s.initialise)

	s.mu.RLock()
	prompt, ok := s.cache[name]
	s.mu.RUnlock()
	if ok {
		return prompt, nil
	}

	prompt, err := s.readFile(name)
	if err != nil || prompt == "" {
		if def, ok := s.defaults[name]; ok {
			return def, nil
		}
		if s.initErr != nil {
			return "", fmt.Errorf("prompt store init failed: %w", s.initErr)
		}
		return "", fmt.Errorf("load prompt %q: %w", name, err)
	}

	s.mu.Lock()
	if cached, ok := s.cache[name]; ok {
		prompt = cached
	} else {
		s.cache[name] = prompt
	}
	s.mu.Unlock()

	return prompt, nil
}

// Reload clears the prompt cache, forcing fresh loads from disk.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	s.cache = make(map[string]string)
	s.mu.Unlock()
}

// Dir returns the prompt directory path.
func (s *PromptStore) Dir() string {
	return s.promptDir
}

func (s *PromptStore) initialise() {
	if err := os.MkdirAll(s.promptDir, 0o700); err != nil {
		s.initErr = fmt.Errorf("create prompt directory: %w", err)
		return
	}

	for name, content := range s.defaults {
		path := filepath.Join(s.promptDir, name+".txt")
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			continue
		}
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			s.initErr = fmt.Errorf("create default prompt %q: %w", name, err)
			return
		}
	}

	s.initErr = s.writeReadme()
}

func (s *PromptStore) readFile(name string) (string, error) {
	data, err := os.ReadFile(filepath.Join(s.promptDir, name+".txt"))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func (s *PromptStore) writeReadme() error {
	path := filepath.Join(s.promptDir, "README.md")
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return nil
	}

	names := make([]string, 0, len(s.defaults))
	for name := range s.defaults {
		names = append(names, name)
	}
	slices.Sort(names)

	var b strings.Builder
	b.WriteString("# fusionqa prompts\n\n")
	b.WriteString("Edit any file to change how answers and translations are generated.\n")
	b.WriteString("Delete a file to restore its default on the next run.\n\n")
	b.WriteString("## Files\n\n")
	for _, name := range names {
		fmt.Fprintf(&b, "- `%s.txt`\n", name)
	}
	b.WriteString("\n## Placeholders\n\n")
	b.WriteString("- `{context}` and `{question}` in synthesis.txt\n")
	b.WriteString("- `{language}` and `{text}` in the translate_* files\n")

	return os.WriteFile(path, []byte(b.String()), 0o600)
}
