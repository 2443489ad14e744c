/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package reconcile

import (
	"context"
	"fmt"

	"chainguard.dev/repokeeper/keep"
	"chainguard.dev/repokeeper/verdict"
	"github.com/chainguard-dev/clog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "chainguard.dev/repokeeper/reconcile"

// RepoPathPair is a remote address and the local directory holding it.
type RepoPathPair struct {
	Remote string
	Local  string
}

// Keeper decides whether a local checkout should be kept. *keep.Evaluator
// implements it.
type Keeper interface {
	ShouldKeep(ctx context.Context, localDir string, remote verdict.Value[string], isDesirable keep.Desirability) (verdict.Verdict, error)
}

// Cloner clones remote into dir and returns the directory actually used.
// *gitrepo.Cloner implements it.
type Cloner interface {
	Clone(ctx context.Context, remote, dir string) (string, error)
}

// Deleter removes directory trees. *workdir.FS implements it.
type Deleter interface {
	DeleteEntireFolder(dir string, deleteFolderItself, disableReadOnly bool) error
}

// Reconciler runs checks against its collaborators.
type Reconciler struct {
	keeper  Keeper
	cloner  Cloner
	deleter Deleter
	tracer  trace.Tracer
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithTracerProvider records spans on tp instead of the global provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(r *Reconciler) {
		r.tracer = tp.Tracer(tracerName, trace.WithInstrumentationVersion("1.0.0"))
	}
}

// New returns a Reconciler.
func New(keeper Keeper, cloner Cloner, deleter Deleter, opts ...Option) *Reconciler {
	r := &Reconciler{
		keeper:  keeper,
		cloner:  cloner,
		deleter: deleter,
		tracer:  otel.Tracer(tracerName, trace.WithInstrumentationVersion("1.0.0")),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Check reconciles localDir against remote. On success the payload's Local is
// the directory holding the checkout, which for a fresh clone is the path the
// Cloner reported. The reason of a successful result is remote's reason.
func (r *Reconciler) Check(ctx context.Context, remote verdict.Value[string], localDir string, isDesirable keep.Desirability) verdict.Value[RepoPathPair] {
	ctx, span := r.tracer.Start(ctx, "reconcile.Check", trace.WithAttributes(
		attribute.String("repokeeper.local_dir", localDir),
	))
	defer span.End()

	outcome, result, err := r.safeCheck(ctx, remote, localDir, isDesirable)
	if err != nil {
		clog.ErrorContextf(ctx, "Failure while checking/cloning repository at %s: %v", localDir, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		outcome = OutcomeFailed
		result = verdict.FailWithErr(RepoPathPair{Remote: remote.Value}, err)
	} else {
		span.SetStatus(codes.Ok, "")
	}

	span.SetAttributes(attribute.String("repokeeper.outcome", outcome))
	checksTotal.WithLabelValues(outcome).Inc()
	return result
}

// safeCheck turns a panic in any collaborator into an error.
func (r *Reconciler) safeCheck(ctx context.Context, remote verdict.Value[string], localDir string, isDesirable keep.Desirability) (outcome string, result verdict.Value[RepoPathPair], err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
		}
	}()
	return r.check(ctx, remote, localDir, isDesirable)
}

func (r *Reconciler) check(ctx context.Context, remote verdict.Value[string], localDir string, isDesirable keep.Desirability) (string, verdict.Value[RepoPathPair], error) {
	var none verdict.Value[RepoPathPair]

	if err := ctx.Err(); err != nil {
		return "", none, err
	}
	shouldKeep, err := r.keeper.ShouldKeep(ctx, localDir, remote, isDesirable)
	if err != nil {
		return "", none, fmt.Errorf("deciding whether to keep %s: %w", localDir, err)
	}
	if shouldKeep.Succeeded {
		return OutcomeKept, verdict.SucceedWith(RepoPathPair{Remote: remote.Value, Local: localDir}, remote.Reason), nil
	}

	clog.InfoContextf(ctx, "Not keeping local repository at %s: %s", localDir, shouldKeep.Reason)
	if err := ctx.Err(); err != nil {
		return "", none, err
	}
	if err := r.deleter.DeleteEntireFolder(localDir, true, true); err != nil {
		return "", none, fmt.Errorf("deleting %s: %w", localDir, err)
	}
	if err := ctx.Err(); err != nil {
		return "", none, err
	}

	if remote.Failed() {
		return OutcomeRemoved, verdict.FailWith(RepoPathPair{Remote: remote.Value}, remote.Reason), nil
	}

	clog.InfoContextf(ctx, "Cloning remote %s", remote.Value)
	clonePath, err := r.cloner.Clone(ctx, remote.Value, localDir)
	if err != nil {
		return "", none, fmt.Errorf("cloning %s: %w", remote.Value, err)
	}
	return OutcomeRecloned, verdict.SucceedWith(RepoPathPair{Remote: remote.Value, Local: clonePath}, remote.Reason), nil
}
