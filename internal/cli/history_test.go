package cli

import (
	"testing"
)

func TestNewHistoryCmd(t *testing.T) {
	cmd := NewHistoryCmd()

	if cmd == nil {
		t.Fatal("NewHistoryCmd() returned nil")
	}
	if cmd.Use != "history" {
		t.Errorf("Expected Use='history', got %q", cmd.Use)
	}

	// Verify subcommands are registered
	subs := map[string]bool{}
	for _, sub := range cmd.Commands() {
		subs[sub.Name()] = true
	}
	for _, want := range []string{"list", "show", "search"} {
		if !subs[want] {
			t.Errorf("Subcommand %q not registered", want)
		}
	}
}

func TestHistoryListCmd(t *testing.T) {
	cmd := newHistoryListCmd()

	if len(cmd.Aliases) == 0 || cmd.Aliases[0] != "ls" {
		t.Errorf("Expected alias 'ls', got %v", cmd.Aliases)
	}
	if cmd.Flags().Lookup("limit") == nil {
		t.Error("Flag 'limit' not registered")
	}
	if f := cmd.Flags().ShorthandLookup("n"); f == nil || f.Name != "limit" {
		t.Error("Expected -n shorthand for --limit")
	}

	limit, _ := cmd.Flags().GetInt("limit")
	if limit != 20 {
		t.Errorf("Expected default limit 20, got %d", limit)
	}
}

func TestHistorySearchCmd(t *testing.T) {
	cmd := newHistorySearchCmd()

	if cmd.Flags().Lookup("limit") == nil {
		t.Error("Flag 'limit' not registered")
	}
	limit, _ := cmd.Flags().GetInt("limit")
	if limit != 10 {
		t.Errorf("Expected default limit 10, got %d", limit)
	}

	// search requires a keyword argument
	if err := cmd.Args(cmd, []string{}); err == nil {
		t.Error("Expected error for missing keyword")
	}
	if err := cmd.Args(cmd, []string{"postgres"}); err != nil {
		t.Errorf("Unexpected error for valid args: %v", err)
	}
}

func TestHistoryShowCmd(t *testing.T) {
	cmd := newHistoryShowCmd()

	if err := cmd.Args(cmd, []string{}); err == nil {
		t.Error("Expected error for missing session id")
	}
	if err := cmd.Args(cmd, []string{"a", "b"}); err == nil {
		t.Error("Expected error for too many args")
	}
	if err := cmd.Args(cmd, []string{"abc123"}); err != nil {
		t.Errorf("Unexpected error for valid args: %v", err)
	}
}
