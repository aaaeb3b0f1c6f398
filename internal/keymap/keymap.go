// Package keymap maps key presses to command IDs per focus context.
package keymap

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

// Binding maps a key to a command within a focus context.
type Binding struct {
	Key     string
	Command string
	Context string
}

// Registry resolves keys to commands. Lookups fall back to the global context.
type Registry struct {
	byKey     map[string]map[string]string   // context -> key -> command
	byCommand map[string]map[string][]string // context -> command -> keys
}

// NewRegistry builds a registry from DefaultBindings with user overrides applied.
// An override maps a command (or "context:command") to a comma-separated key list,
// e.g. {"quit": "ctrl+q", "dashboard:delete-note": "x,delete"}. It replaces the
// default keys for that command.
func NewRegistry(overrides map[string]string) *Registry {
	r := &Registry{
		byKey:     make(map[string]map[string]string),
		byCommand: make(map[string]map[string][]string),
	}
	for _, b := range applyOverrides(DefaultBindings(), overrides) {
		r.add(b)
	}
	return r
}

func applyOverrides(defaults []Binding, overrides map[string]string) []Binding {
	if len(overrides) == 0 {
		return defaults
	}

	replaced := make(map[string]bool) // context:command already rewritten
	out := make([]Binding, 0, len(defaults))
	for _, b := range defaults {
		keys, ok := overrides[b.Context+":"+b.Command]
		if !ok {
			keys, ok = overrides[b.Command]
		}
		if !ok {
			out = append(out, b)
			continue
		}
		id := b.Context + ":" + b.Command
		if replaced[id] {
			continue
		}
		replaced[id] = true
		for _, k := range splitKeys(keys) {
			out = append(out, Binding{Key: k, Command: b.Command, Context: b.Context})
		}
	}
	return out
}

func splitKeys(s string) []string {
	var keys []string
	for _, k := range strings.Split(s, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

func (r *Registry) add(b Binding) {
	if r.byKey[b.Context] == nil {
		r.byKey[b.Context] = make(map[string]string)
		r.byCommand[b.Context] = make(map[string][]string)
	}
	if _, taken := r.byKey[b.Context][b.Key]; taken {
		return
	}
	r.byKey[b.Context][b.Key] = b.Command
	r.byCommand[b.Context][b.Command] = append(r.byCommand[b.Context][b.Command], b.Key)
}

// Lookup returns the command bound to key in context, or in the global context.
// Returns "" when the key is unbound.
func (r *Registry) Lookup(keyStr, context string) string {
	if cmd, ok := r.byKey[context][keyStr]; ok {
		return cmd
	}
	return r.byKey[ContextGlobal][keyStr]
}

// Keys returns the keys bound to command in context.
func (r *Registry) Keys(command, context string) []string {
	if keys := r.byCommand[context][command]; len(keys) > 0 {
		return keys
	}
	return r.byCommand[ContextGlobal][command]
}

// PrimaryKey returns the first key bound to command, for hints.
func (r *Registry) PrimaryKey(command, context string) string {
	keys := r.Keys(command, context)
	if len(keys) == 0 {
		return ""
	}
	return keys[0]
}

// HelpBinding returns a bubbles key.Binding for command, suitable for help.Model.
func (r *Registry) HelpBinding(command, context, desc string) key.Binding {
	keys := r.Keys(command, context)
	if len(keys) == 0 {
		return key.NewBinding(key.WithDisabled())
	}
	return key.NewBinding(
		key.WithKeys(keys...),
		key.WithHelp(strings.Join(keys, "/"), desc),
	)
}
