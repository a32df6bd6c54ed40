package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"careerhub/internal/errors"

	"github.com/fsnotify/fsnotify"
)

// LoadedPrompts holds prompt content read from external files. Content is
// keyed by operation; empty means no file override is configured and the
// built-in prompt applies.
type LoadedPrompts struct {
	Assessment string
	Interview  string
}

var (
	promptsMu     sync.RWMutex
	loadedPrompts LoadedPrompts
)

// GetLoadedPrompts returns a copy of the current file-loaded prompts.
func GetLoadedPrompts() LoadedPrompts {
	promptsMu.RLock()
	defer promptsMu.RUnlock()
	return loadedPrompts
}

// promptFiles returns the effective prompt file path per operation,
// preferring the operation-specific file over the global one.
func (c *Config) promptFiles() map[string]string {
	files := make(map[string]string)

	assessmentFile := c.AI.Assessment.CustomPrompts.AssessmentFile
	if assessmentFile == "" {
		assessmentFile = c.AI.CustomPrompts.AssessmentFile
	}
	if assessmentFile != "" {
		files["assessment"] = assessmentFile
	}

	interviewFile := c.AI.Interview.CustomPrompts.InterviewFile
	if interviewFile == "" {
		interviewFile = c.AI.CustomPrompts.InterviewFile
	}
	if interviewFile != "" {
		files["interview"] = interviewFile
	}

	return files
}

// validatePromptFiles checks that configured prompt files exist before loading
func (c *Config) validatePromptFiles() error {
	var validationErrors []string

	for operation, file := range c.promptFiles() {
		absPath, err := filepath.Abs(file)
		if err != nil {
			validationErrors = append(validationErrors, fmt.Sprintf("invalid path for %s prompt: %s", operation, file))
			continue
		}
		if _, err := os.Stat(absPath); os.IsNotExist(err) {
			validationErrors = append(validationErrors, fmt.Sprintf("%s prompt file not found: %s", operation, absPath))
		}
	}

	if len(validationErrors) > 0 {
		return fmt.Errorf("prompt file validation failed:\n%s", strings.Join(validationErrors, "\n"))
	}

	return nil
}

// loadPromptsFromFiles loads custom prompts from external files if file paths are specified
func (c *Config) loadPromptsFromFiles() error {
	for operation, file := range c.promptFiles() {
		content, err := loadPromptFromFile(file, operation)
		if err != nil {
			return err
		}
		setLoadedPrompt(operation, content)
	}
	return nil
}

// loadPromptFromFile loads a prompt from a file with proper error handling
func loadPromptFromFile(filePath, operation string) (string, error) {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve absolute path for %s prompt file '%s': %w", operation, filePath, err)
	}

	content, err := os.ReadFile(absPath)
	if err != nil {
		return "", fmt.Errorf("failed to read %s prompt file '%s': %w", operation, absPath, err)
	}

	trimmed := strings.TrimSpace(string(content))
	if trimmed == "" {
		return "", fmt.Errorf("%s prompt file '%s' is empty", operation, absPath)
	}

	return trimmed, nil
}

func setLoadedPrompt(operation, content string) {
	promptsMu.Lock()
	defer promptsMu.Unlock()
	switch operation {
	case "assessment":
		loadedPrompts.Assessment = content
	case "interview":
		loadedPrompts.Interview = content
	}
}

// WatchPromptFiles watches configured prompt files and reloads them on
// change, so prompt tuning does not require a restart. The returned stop
// function shuts the watcher down. Write events are debounced because
// editors typically emit several events per save.
func (c *Config) WatchPromptFiles(logger *errors.Logger) (func(), error) {
	files := c.promptFiles()
	if len(files) == 0 {
		return func() {}, nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create prompt file watcher: %w", err)
	}

	// Map absolute path back to the operation it feeds
	pathToOperation := make(map[string]string)
	for operation, file := range files {
		absPath, err := filepath.Abs(file)
		if err != nil {
			_ = watcher.Close()
			return nil, fmt.Errorf("failed to resolve prompt file path '%s': %w", file, err)
		}
		// Watch the directory: editors replace files on save, which
		// would drop a direct file watch.
		if err := watcher.Add(filepath.Dir(absPath)); err != nil {
			_ = watcher.Close()
			return nil, fmt.Errorf("failed to watch prompt file directory: %w", err)
		}
		pathToOperation[absPath] = operation
	}

	done := make(chan struct{})

	go func() {
		const debounce = 500 * time.Millisecond
		pending := make(map[string]string)
		var timer *time.Timer
		var timerC <-chan time.Time

		reload := func() {
			for path, operation := range pending {
				content, err := loadPromptFromFile(path, operation)
				if err != nil {
					logger.LogError(err, "Failed to reload prompt file", "operation", operation, "path", path)
					continue
				}
				setLoadedPrompt(operation, content)
				logger.Info("Prompt file reloaded", "operation", operation, "path", path, "chars", len(content))
			}
			pending = make(map[string]string)
		}

		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				absPath, err := filepath.Abs(event.Name)
				if err != nil {
					continue
				}
				operation, watched := pathToOperation[absPath]
				if !watched {
					continue
				}
				pending[absPath] = operation
				if timer == nil {
					timer = time.NewTimer(debounce)
				} else {
					timer.Reset(debounce)
				}
				timerC = timer.C
			case <-timerC:
				timerC = nil
				reload()
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.LogError(err, "Prompt file watcher error")
			case <-done:
				return
			}
		}
	}()

	stop := func() {
		close(done)
		_ = watcher.Close()
	}

	logger.Info("Watching prompt files for changes", "count", len(pathToOperation))
	return stop, nil
}
