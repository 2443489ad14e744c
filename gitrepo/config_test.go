/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package gitrepo

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sethvargo/go-envconfig"
)

func TestLoadConfigWith(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults", func(t *testing.T) {
		got, err := LoadConfigWith(ctx, envconfig.MapLookuper(nil))
		if err != nil {
			t.Fatalf("LoadConfigWith() error = %v", err)
		}
		if diff := cmp.Diff(DefaultConfig(), got); diff != "" {
			t.Errorf("LoadConfigWith() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("overrides", func(t *testing.T) {
		got, err := LoadConfigWith(ctx, envconfig.MapLookuper(map[string]string{
			"GIT_CLONE_DEPTH":         "1",
			"GIT_CLONE_BRANCH":        "main",
			"GIT_CLONE_SINGLE_BRANCH": "true",
			"GIT_COMMIT_NAME":         "bot",
			"GIT_COMMIT_EMAIL":        "bot@example.com",
		}))
		if err != nil {
			t.Fatalf("LoadConfigWith() error = %v", err)
		}
		want := Config{
			CloneDepth:   1,
			CloneBranch:  "main",
			SingleBranch: true,
			AuthUsername: "unused-when-using-access-tokens",
			CommitName:   "bot",
			CommitEmail:  "bot@example.com",
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("LoadConfigWith() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("invalid", func(t *testing.T) {
		_, err := LoadConfigWith(ctx, envconfig.MapLookuper(map[string]string{
			"GIT_CLONE_SINGLE_BRANCH": "true",
		}))
		if err == nil {
			t.Fatal("LoadConfigWith() error = nil, want validation error")
		}
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := LoadConfigWith(ctx, envconfig.MapLookuper(map[string]string{
			"GIT_CLONE_DEPTH": "lots",
		}))
		if err == nil {
			t.Fatal("LoadConfigWith() error = nil, want parse error")
		}
	})
}

func TestCommitEmail(t *testing.T) {
	tests := []struct {
		cfg  Config
		want string
	}{
		{Config{CommitName: "repokeeper"}, "repokeeper@localhost"},
		{Config{CommitName: "bot@example.com"}, "bot@example.com"},
		{Config{CommitName: "bot", CommitEmail: "x@y.z"}, "x@y.z"},
	}
	for _, tt := range tests {
		if got := tt.cfg.commitEmail(); got != tt.want {
			t.Errorf("commitEmail(%+v) = %q, want %q", tt.cfg, got, tt.want)
		}
	}
}
