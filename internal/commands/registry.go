package commands

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// UnknownCommandError is returned by Lookup when no command matches.
type UnknownCommandError struct {
	Name string
}

func (e *UnknownCommandError) Error() string {
	return "unknown command: " + e.Name
}

// AmbiguousCommandError is returned by Lookup when a prefix matches more
// than one command.
type AmbiguousCommandError struct {
	Name       string
	Candidates []string
}

func (e *AmbiguousCommandError) Error() string {
	return fmt.Sprintf("ambiguous command: %s (%s)", e.Name, strings.Join(e.Candidates, ", "))
}

// Registry holds registered commands.
type Registry struct {
	mu   sync.RWMutex
	cmds map[string]Command // name and aliases map to command
}

// NewRegistry creates a new command registry.
func NewRegistry() *Registry {
	return &Registry{
		cmds: make(map[string]Command),
	}
}

// Register adds a command to the registry.
// Returns an error if the name or any alias is already registered.
func (r *Registry) Register(c Command) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	keys := append([]string{c.Name()}, c.Aliases()...)
	for i, key := range keys {
		if _, exists := r.cmds[key]; exists {
			if i == 0 {
				return fmt.Errorf("command already registered: %s", key)
			}
			return fmt.Errorf("command alias already registered: %s", key)
		}
	}
	for _, key := range keys {
		r.cmds[key] = c
	}
	return nil
}

// Find looks up a command by exact name or alias.
func (r *Registry) Find(name string) (Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cmd, ok := r.cmds[name]
	return cmd, ok
}

// Lookup finds a command by exact name or alias, falling back to a unique
// prefix of a primary name ("who" for whoami). Aliases never match by
// prefix.
func (r *Registry) Lookup(name string) (Command, error) {
	if cmd, ok := r.Find(name); ok {
		return cmd, nil
	}
	if name == "" {
		return nil, &UnknownCommandError{Name: name}
	}

	var matches []Command
	for _, cmd := range r.All() {
		if strings.HasPrefix(cmd.Name(), name) {
			matches = append(matches, cmd)
		}
	}
	switch len(matches) {
	case 0:
		return nil, &UnknownCommandError{Name: name}
	case 1:
		return matches[0], nil
	}
	names := make([]string, len(matches))
	for i, cmd := range matches {
		names[i] = cmd.Name()
	}
	return nil, &AmbiguousCommandError{Name: name, Candidates: names}
}

// All returns all unique commands sorted by name.
func (r *Registry) All() []Command {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]Command)
	for _, cmd := range r.cmds {
		seen[cmd.Name()] = cmd
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)

	result := make([]Command, len(names))
	for i, name := range names {
		result[i] = seen[name]
	}
	return result
}

// DefaultRegistry is the global command registry.
var DefaultRegistry = NewRegistry()

// Register adds a command to the default registry.
func Register(c Command) {
	if err := DefaultRegistry.Register(c); err != nil {
		panic(err)
	}
}
