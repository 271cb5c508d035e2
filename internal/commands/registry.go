package commands

import (
	"fmt"
	"sort"
	"sync"
)

// Group is a section of the help output.
type Group string

const (
	GroupTasks   Group = "Tasks"
	GroupSession Group = "Session"
	GroupOther   Group = "Other"
)

// groupOrder is the order sections are listed in.
var groupOrder = []Group{GroupTasks, GroupSession, GroupOther}

// GroupOf returns the help section a command belongs to.
func GroupOf(c Command) Group {
	switch c.Name() {
	case "login", "signup", "oauth", "logout", "whoami":
		return GroupSession
	case "help", "version":
		return GroupOther
	}
	return GroupTasks
}

// Section is one group of commands, sorted by name.
type Section struct {
	Group    Group
	Commands []Command
}

// Registry holds registered commands.
type Registry struct {
	mu      sync.RWMutex
	lookup  map[string]Command // primary names and aliases
	primary map[string]Command
}

// NewRegistry creates a new command registry.
func NewRegistry() *Registry {
	return &Registry{
		lookup:  make(map[string]Command),
		primary: make(map[string]Command),
	}
}

// Register adds a command under its name and aliases.
// A name or alias that is already taken is an error and nothing is added.
func (r *Registry) Register(c Command) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := append([]string{c.Name()}, c.Aliases()...)
	for _, name := range names {
		if prev, taken := r.lookup[name]; taken {
			return fmt.Errorf("command name %s already taken by %s", name, prev.Name())
		}
	}

	for _, name := range names {
		r.lookup[name] = c
	}
	r.primary[c.Name()] = c
	return nil
}

// Find looks up a command by name or alias.
func (r *Registry) Find(name string) (Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cmd, ok := r.lookup[name]
	return cmd, ok
}

// All returns the registered commands sorted by name.
func (r *Registry) All() []Command {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Command, 0, len(r.primary))
	for _, cmd := range r.primary {
		result = append(result, cmd)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name() < result[j].Name() })
	return result
}

// Sections returns the commands grouped for help output. Empty groups are
// left out.
func (r *Registry) Sections() []Section {
	byGroup := make(map[Group][]Command)
	for _, cmd := range r.All() {
		g := GroupOf(cmd)
		byGroup[g] = append(byGroup[g], cmd)
	}

	var sections []Section
	for _, g := range groupOrder {
		if cmds := byGroup[g]; len(cmds) > 0 {
			sections = append(sections, Section{Group: g, Commands: cmds})
		}
	}
	return sections
}

// DefaultRegistry is the global command registry.
var DefaultRegistry = NewRegistry()

// Register adds a command to the default registry.
func Register(c Command) {
	if err := DefaultRegistry.Register(c); err != nil {
		panic(err)
	}
}
