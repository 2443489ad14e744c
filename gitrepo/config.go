/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/transport"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/sethvargo/go-envconfig"
	"golang.org/x/oauth2"
)

// Config tunes clone and commit behavior.
type Config struct {
	// CloneDepth limits clone history. Zero clones the full history.
	CloneDepth int `env:"GIT_CLONE_DEPTH,default=0"`
	// CloneBranch checks out the named branch instead of the remote HEAD.
	CloneBranch string `env:"GIT_CLONE_BRANCH"`
	// SingleBranch fetches only CloneBranch (or the remote HEAD).
	SingleBranch bool `env:"GIT_CLONE_SINGLE_BRANCH,default=false"`

	// AuthUsername is paired with the token source's access token for HTTP
	// basic auth. Most forges ignore it for token auth.
	AuthUsername string `env:"GIT_AUTH_USERNAME,default=unused-when-using-access-tokens"`

	// CommitName and CommitEmail form the author and committer signature.
	// When CommitEmail is empty it is derived from CommitName.
	CommitName  string `env:"GIT_COMMIT_NAME,default=repokeeper"`
	CommitEmail string `env:"GIT_COMMIT_EMAIL"`
}

// DefaultConfig returns the configuration used when none is supplied.
func DefaultConfig() Config {
	return Config{
		AuthUsername: "unused-when-using-access-tokens",
		CommitName:   "repokeeper",
	}
}

// LoadConfig reads Config from the process environment.
func LoadConfig(ctx context.Context) (Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return Config{}, fmt.Errorf("processing git config: %w", err)
	}
	return cfg, cfg.Validate()
}

// LoadConfigWith reads Config from the given lookuper.
func LoadConfigWith(ctx context.Context, l envconfig.Lookuper) (Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: l,
	}); err != nil {
		return Config{}, fmt.Errorf("processing git config: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate checks that the configuration has usable values.
func (c Config) Validate() error {
	if c.CloneDepth < 0 {
		return errors.New("clone depth cannot be negative")
	}
	if c.SingleBranch && c.CloneBranch == "" {
		return errors.New("single branch clones require a clone branch")
	}
	if strings.TrimSpace(c.CommitName) == "" {
		return errors.New("commit name cannot be empty")
	}
	return nil
}

func (c Config) commitEmail() string {
	if c.CommitEmail != "" {
		return c.CommitEmail
	}
	if strings.Contains(c.CommitName, "@") {
		return c.CommitName
	}
	return fmt.Sprintf("%s@localhost", c.CommitName)
}

// Option configures an Opener or Cloner.
type Option func(*options)

type options struct {
	cfg         Config
	tokenSource oauth2.TokenSource
}

func newOptions(opts []Option) options {
	o := options{cfg: DefaultConfig()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithConfig replaces the default Config.
func WithConfig(cfg Config) Option {
	return func(o *options) { o.cfg = cfg }
}

// WithTokenSource authenticates remote operations with the token source's
// access token.
func WithTokenSource(ts oauth2.TokenSource) Option {
	return func(o *options) { o.tokenSource = ts }
}

// auth returns nil when no token source is configured.
func (o options) auth() (transport.AuthMethod, error) {
	if o.tokenSource == nil {
		return nil, nil
	}
	token, err := o.tokenSource.Token()
	if err != nil {
		return nil, fmt.Errorf("getting token: %w", err)
	}
	return &githttp.BasicAuth{
		Username: o.cfg.AuthUsername,
		Password: token.AccessToken,
	}, nil
}
