// Package prompts provides a loader for the interviewer's canned messages.
// Messages are stored as JSON files and embedded at compile time.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
)

//go:embed *.json
var promptFiles embed.FS

// Interviewer is the message catalog used by the session controller.
const Interviewer = "interviewer.json"

// cache stores parsed prompt files to avoid repeated JSON parsing
var (
	cache   = make(map[string]map[string]json.RawMessage)
	cacheMu sync.RWMutex
)

// Get retrieves a message by filename and key.
// The filename should not include the path (e.g., "interviewer.json").
// Returns an error if the file or key is not found, or the value is not a string.
func Get(filename, key string) (string, error) {
	raw, err := lookup(filename, key)
	if err != nil {
		return "", err
	}

	var prompt string
	if err := json.Unmarshal(raw, &prompt); err != nil {
		return "", fmt.Errorf("prompt key %q in %s is not a string: %w", key, filename, err)
	}
	return prompt, nil
}

// GetList retrieves a list of messages by filename and key.
func GetList(filename, key string) ([]string, error) {
	raw, err := lookup(filename, key)
	if err != nil {
		return nil, err
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("prompt key %q in %s is not a list: %w", key, filename, err)
	}
	return list, nil
}

// MustGet retrieves a message by filename and key, panicking if not found.
// Use this for messages that are required at initialization time.
func MustGet(filename, key string) string {
	prompt, err := Get(filename, key)
	if err != nil {
		panic(fmt.Sprintf("failed to load prompt: %v", err))
	}
	return prompt
}

// MustGetList is GetList that panics on error.
func MustGetList(filename, key string) []string {
	list, err := GetList(filename, key)
	if err != nil {
		panic(fmt.Sprintf("failed to load prompt list: %v", err))
	}
	return list
}

// Format replaces template placeholders in the form {{.Key}} with values from data.
func Format(template string, data map[string]string) string {
	result := template
	for key, value := range data {
		placeholder := fmt.Sprintf("{{.%s}}", key)
		result = strings.ReplaceAll(result, placeholder, value)
	}
	return result
}

func lookup(filename, key string) (json.RawMessage, error) {
	prompts, err := loadFile(filename)
	if err != nil {
		return nil, err
	}

	raw, exists := prompts[key]
	if !exists {
		return nil, fmt.Errorf("prompt key %q not found in %s", key, filename)
	}
	return raw, nil
}

// loadFile loads and caches a prompt file.
func loadFile(filename string) (map[string]json.RawMessage, error) {
	// Check cache first
	cacheMu.RLock()
	if prompts, exists := cache[filename]; exists {
		cacheMu.RUnlock()
		return prompts, nil
	}
	cacheMu.RUnlock()

	// Load from embedded filesystem
	data, err := promptFiles.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt file %s: %w", filename, err)
	}

	var prompts map[string]json.RawMessage
	if err := json.Unmarshal(data, &prompts); err != nil {
		return nil, fmt.Errorf("failed to parse prompt file %s: %w", filename, err)
	}

	cacheMu.Lock()
	cache[filename] = prompts
	cacheMu.Unlock()

	return prompts, nil
}

// ClearCache clears the prompt cache. Useful for testing.
func ClearCache() {
	cacheMu.Lock()
	cache = make(map[string]map[string]json.RawMessage)
	cacheMu.Unlock()
}
