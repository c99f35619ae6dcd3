package core

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/huangsam/gitpick/internal/contract"
	"github.com/huangsam/gitpick/schema"
)

// ErrActionSkipped is returned by actions that decided not to act, such as
// merging the current branch or a declined confirmation.
var ErrActionSkipped = errors.New("action skipped")

// ErrNoTargets is returned when an action is run without targets.
var ErrNoTargets = errors.New("no targets selected")

// ActionContext is what an action operates on.
type ActionContext struct {
	Targets []schema.Candidate
	Editor  contract.EditorGateway
	Git     contract.GitClient
}

// ActionFunc runs one action.
type ActionFunc func(ctx context.Context, ac *ActionContext) error

// Kind groups the actions available on a source's candidates.
type Kind struct {
	Name          schema.SourceName
	DefaultAction string

	// PersistActions keep the picker open after running.
	PersistActions []string
	// RedrawActions require the host to gather candidates again.
	RedrawActions []string

	actions map[string]ActionFunc
}

// newKind creates a kind with no actions.
func newKind(name schema.SourceName, defaultAction string) *Kind {
	return &Kind{Name: name, DefaultAction: defaultAction, actions: make(map[string]ActionFunc)}
}

// register adds an action under one or more names.
func (k *Kind) register(fn ActionFunc, names ...string) {
	for _, name := range names {
		k.actions[name] = fn
	}
}

// Actions lists the action names in sorted order.
func (k *Kind) Actions() []string {
	names := make([]string, 0, len(k.actions))
	for name := range k.actions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has reports whether the kind provides action. "default" is always available.
func (k *Kind) Has(action string) bool {
	if action == "default" || action == "" {
		return true
	}
	_, ok := k.actions[action]
	return ok
}

// Resolve maps "default" and "" to the default action name.
func (k *Kind) Resolve(action string) string {
	if action == "default" || action == "" {
		return k.DefaultAction
	}
	return action
}

// IsPersist reports whether the picker stays open after action.
func (k *Kind) IsPersist(action string) bool {
	return slices.Contains(k.PersistActions, k.Resolve(action))
}

// IsRedraw reports whether candidates must be gathered again after action.
func (k *Kind) IsRedraw(action string) bool {
	return slices.Contains(k.RedrawActions, k.Resolve(action))
}

// Do runs an action on the context's targets.
func (k *Kind) Do(ctx context.Context, action string, ac *ActionContext) error {
	name := k.Resolve(action)
	fn, ok := k.actions[name]
	if !ok {
		return fmt.Errorf("unknown action '%s' for %s. must be %s", action, k.Name, strings.Join(k.Actions(), ", "))
	}
	if len(ac.Targets) == 0 {
		return ErrNoTargets
	}
	return fn(ctx, ac)
}

// runGit runs a git command and reports its output through the editor.
func runGit(ctx context.Context, ac *ActionContext, root string, args ...string) error {
	out, err := ac.Git.Run(ctx, root, args...)
	if msg := strings.TrimSpace(string(out)); msg != "" {
		ac.Editor.Message(msg)
	}
	if err != nil {
		ac.Editor.Message(err.Error())
		return err
	}
	return nil
}

// openBuffers opens every target path, preceded by an optional split command.
func openBuffers(split string) ActionFunc {
	return func(_ context.Context, ac *ActionContext) error {
		for _, target := range ac.Targets {
			if split != "" {
				if err := ac.Editor.Command(split); err != nil {
					return err
				}
			}
			if err := ac.Editor.OpenBuffer(target.Path, target.Line); err != nil {
				return err
			}
		}
		return nil
	}
}

// registerOpenable adds the common buffer opening actions.
func (k *Kind) registerOpenable() {
	k.register(openBuffers(""), "open")
	k.register(openBuffers("split"), "split")
	k.register(openBuffers("vsplit"), "vsplit")
	k.register(openBuffers("tabnew"), "tabopen")
}

// confirmed reports whether answer is an affirmative reply.
func confirmed(answer string) bool {
	ok, err := contract.ParseBoolString(strings.TrimSpace(answer))
	return err == nil && ok
}

// shellQuote quotes s for a POSIX shell.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
