package analysis

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"loadwright/internal/conflict"
	"loadwright/internal/diagnostics"
	"loadwright/internal/gamedefs"
	"loadwright/internal/impact"
	"loadwright/internal/listnorm"
	"loadwright/internal/loadorder"
	"loadwright/internal/masterlist"
	"loadwright/internal/report"
)

// Request carries everything Analyze needs as input.
type Request struct {
	RawList           string
	Game              string
	GameVersion       string
	HardwareProfile   *impact.HardwareProfile
	InfoCap           int
	HeaviestN         int
	MasterlistVersion string
}

// Coordinator is the AC: the single entry point a host (HTTP layer,
// aggregation pipeline, or the CLI) drives to run one analysis.
type Coordinator struct {
	store *masterlist.Store
	diag  *diagnostics.Channel
}

// NewCoordinator builds an AC bound to a masterlist handle.
func NewCoordinator(store *masterlist.Store) *Coordinator {
	return &Coordinator{store: store, diag: diagnostics.New("analysis")}
}

// Analyze runs ML -> LN -> {CD, LO, SI} -> RC for one request.
// An unsupported game is a validation_error and an unloadable masterlist
// is source_unavailable; everything else yields a partial-but-well-formed
// report.
func (c *Coordinator) Analyze(ctx context.Context, req Request) (*report.CanonicalReport, error) {
	requestID := uuid.New().String()
	diag := c.diag.With("request_id", requestID).With("game", req.Game)

	game, ok := gamedefs.Lookup(req.Game)
	if !ok {
		return nil, validationError(fmt.Sprintf("unsupported game %q", req.Game))
	}

	view, degraded, mlVersion, mlErr := c.acquireView(ctx, req)
	if mlErr != nil {
		return nil, newError(KindSourceUnavailable, fmt.Sprintf("masterlist for %s is unavailable", req.Game), mlErr)
	}

	if err := ctx.Err(); err != nil {
		diag.Notice("deadline exceeded before normalization")
		return c.partialReport(requestID, req, view, mlVersion, listnorm.Result{}, nil, loadorder.Result{}, impact.Report{}, degraded, true), nil
	}

	norm := listnorm.Normalize(req.RawList)

	if err := ctx.Err(); err != nil {
		diag.Notice("deadline exceeded after normalization")
		return c.partialReport(requestID, req, view, mlVersion, norm, nil, loadorder.Result{}, impact.Report{}, degraded, true), nil
	}

	var (
		findings     []conflict.Finding
		orderResult  loadorder.Result
		impactReport impact.Report
	)

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		findings = conflict.Detect(norm.Records, norm.Duplicates, view, game, req.GameVersion)
		return nil
	})
	g.Go(func() error {
		orderResult = loadorder.Optimize(norm.Records, view)
		return nil
	})
	g.Go(func() error {
		heaviestN := req.HeaviestN
		impactReport = impact.Estimate(norm.Records, view, req.HardwareProfile, heaviestN)
		return nil
	})
	_ = g.Wait() // stages never return errors; they downgrade problems to diagnostics internally

	deadlineExceeded := ctx.Err() != nil
	if deadlineExceeded {
		diag.Notice("deadline exceeded after detection stages")
	}

	rep := c.partialReport(requestID, req, view, mlVersion, norm, findings, orderResult, impactReport, degraded, deadlineExceeded)
	return rep, nil
}

func (c *Coordinator) partialReport(
	requestID string,
	req Request,
	view *masterlist.View,
	mlVersion string,
	norm listnorm.Result,
	findings []conflict.Finding,
	order loadorder.Result,
	impactReport impact.Report,
	degraded, deadlineExceeded bool,
) *report.CanonicalReport {
	infoCap := req.InfoCap
	if infoCap <= 0 {
		infoCap = 12
	}
	rep := report.Consolidate(report.Input{
		RequestID:         requestID,
		Game:              req.Game,
		MasterlistVersion: mlVersion,
		Records:           norm.Records,
		Findings:          findings,
		Order:             order,
		Degraded:          degraded,
		DeadlineExceeded:  deadlineExceeded,
		InfoCap:           infoCap,
	}, view, impactReport)
	return &rep
}

// acquireView resolves a masterlist view: version-pinned if requested,
// otherwise the live cached/fetched view.
func (c *Coordinator) acquireView(ctx context.Context, req Request) (view *masterlist.View, degraded bool, version string, err error) {
	if req.MasterlistVersion != "" {
		v, err := c.store.LoadVersion(req.Game, req.MasterlistVersion)
		if err != nil {
			return nil, false, "", err
		}
		return v, false, v.Version, nil
	}

	v, err := c.store.Load(ctx, req.Game)
	if err != nil {
		return nil, false, "", err
	}
	return v, v.Degraded, v.Version, nil
}

// Refresh forces a re-download of a game's masterlist, bypassing the
// freshness window. Exposed for the masterlist CLI subcommand and for
// hosts that want to pre-warm the cache on a schedule.
func (c *Coordinator) Refresh(ctx context.Context, game string) (version string, degraded bool, err error) {
	v, err := c.store.Refresh(ctx, game)
	if err != nil {
		return "", false, err
	}
	return v.Version, v.Degraded, nil
}

// ListMasterlistVersions returns every pinned historical version cached
// on disk for a game, newest first.
func (c *Coordinator) ListMasterlistVersions(game string) ([]string, error) {
	return c.store.ListVersions(game)
}

// MasterlistInfo reports the current cached state for a game.
func (c *Coordinator) MasterlistInfo(ctx context.Context, game string) (version string, degraded bool, err error) {
	v, err := c.store.Load(ctx, game)
	if err != nil {
		return "", false, err
	}
	return v.Version, v.Degraded, nil
}

// SupportedGames lists every game the core knows thresholds for.
func SupportedGames() []gamedefs.Game {
	return gamedefs.All()
}
