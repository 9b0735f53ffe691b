package extract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"mkvsplit/internal/language"
	"mkvsplit/internal/logging"
	"mkvsplit/internal/mkvtoolnix"
	"mkvsplit/internal/mp4box"
	"mkvsplit/internal/scan"
)

// Identifier queries track metadata for a file.
type Identifier interface {
	Identify(ctx context.Context, path string) (mkvtoolnix.Info, error)
}

// PlannedTrack is a selected track and where it goes.
type PlannedTrack struct {
	Track    mkvtoolnix.Track
	Language string
	Path     string
}

// Plan describes everything one input will produce.
type Plan struct {
	Input        scan.Input
	Info         mkvtoolnix.Info
	Kind         string
	Base         string
	Tracks       []PlannedTrack
	ChaptersPath string
	Commands     [][]string

	request mkvtoolnix.ExtractRequest
	jobs    []mp4box.Job
}

// Empty reports whether the plan extracts nothing.
func (p Plan) Empty() bool {
	return len(p.Tracks) == 0 && p.ChaptersPath == ""
}

// Outputs lists every file the plan writes, chapters first.
func (p Plan) Outputs() []string {
	outputs := make([]string, 0, len(p.Tracks)+1)
	if p.ChaptersPath != "" {
		outputs = append(outputs, p.ChaptersPath)
	}
	for _, t := range p.Tracks {
		outputs = append(outputs, t.Path)
	}
	return outputs
}

// Dir is the directory the plan writes into.
func (p Plan) Dir() string {
	return filepath.Dir(p.Base)
}

// Planner builds plans.
type Planner struct {
	identifier      Identifier
	mkv             *mkvtoolnix.Client
	mp4             *mp4box.Client
	selection       Selection
	dst             string
	defaultLanguage string
	logger          *slog.Logger
}

// PlannerOptions configures a Planner.
type PlannerOptions struct {
	Selection       Selection
	Dst             string
	DefaultLanguage string
	Logger          *slog.Logger
}

// NewPlanner constructs a planner. identifier defaults to mkv.
func NewPlanner(identifier Identifier, mkv *mkvtoolnix.Client, mp4 *mp4box.Client, opts PlannerOptions) (*Planner, error) {
	if mkv == nil {
		return nil, errors.New("planner: mkvtoolnix client required")
	}
	if err := opts.Selection.Validate(); err != nil {
		return nil, err
	}
	if identifier == nil {
		identifier = mkv
	}
	return &Planner{
		identifier:      identifier,
		mkv:             mkv,
		mp4:             mp4,
		selection:       opts.Selection,
		dst:             opts.Dst,
		defaultLanguage: opts.DefaultLanguage,
		logger:          logging.NewComponentLogger(opts.Logger, "planner"),
	}, nil
}

// Selection returns the categories the planner extracts.
func (p *Planner) Selection() Selection {
	return p.selection
}

// Plan identifies the input and selects its tracks. Files in containers
// mkvsplit cannot extract return a plan with Kind unsupported and an error
// wrapping mkvtoolnix.ErrUnsupportedContainer.
func (p *Planner) Plan(ctx context.Context, in scan.Input) (Plan, error) {
	info, err := p.identifier.Identify(ctx, in.Path)
	plan := Plan{Input: in, Info: info, Kind: info.ContainerKind(), Base: TargetBase(in, p.dst)}
	if err != nil {
		if errors.Is(err, mkvtoolnix.ErrUnsupportedContainer) {
			plan.Kind = mkvtoolnix.KindUnsupported
		}
		return plan, err
	}
	if plan.Kind == mkvtoolnix.KindUnsupported {
		return plan, fmt.Errorf("%s: %w (%s)", in.Path, mkvtoolnix.ErrUnsupportedContainer, info.ContainerName())
	}

	for _, track := range info.Tracks {
		if !p.selection.IncludesTrack(track.Type) {
			continue
		}
		if !track.KnownCodec() {
			logging.WarnWithContext(p.logger, "unknown codec", "unknown_codec",
				logging.String(logging.FieldSource, in.Path),
				logging.Int("track_id", track.ID),
				logging.String("codec_id", track.Properties.CodecID),
				logging.String("codec", track.Codec),
				logging.String("extension", track.Extension()),
				logging.String(logging.FieldImpact, "output extension guessed from codec name"),
			)
		}
		lang := language.Tag(track.Properties.LanguageIETF, track.Properties.Language, p.defaultLanguage, track.Properties.ForcedTrack)
		plan.Tracks = append(plan.Tracks, PlannedTrack{
			Track:    track,
			Language: lang,
			Path:     TrackPath(plan.Base, track, lang),
		})
	}

	if p.selection.Chapters {
		switch {
		case plan.Kind == mkvtoolnix.KindMP4:
			p.logger.Info("chapters are not extracted from MPEG-4 files", logging.String(logging.FieldSource, in.Path))
		case info.HasChapters():
			plan.ChaptersPath = ChaptersPath(plan.Base)
		default:
			p.logger.Debug("no chapters present", logging.String(logging.FieldSource, in.Path))
		}
	}

	if err := p.buildCommands(&plan); err != nil {
		return plan, err
	}
	return plan, nil
}

func (p *Planner) buildCommands(plan *Plan) error {
	if plan.Empty() {
		return nil
	}
	switch plan.Kind {
	case mkvtoolnix.KindMatroska:
		req := mkvtoolnix.ExtractRequest{ChaptersPath: plan.ChaptersPath}
		for _, t := range plan.Tracks {
			req.Tracks = append(req.Tracks, mkvtoolnix.TrackOutput{ID: t.Track.ID, Path: t.Path})
		}
		plan.request = req
		plan.Commands = [][]string{p.mkv.Command(plan.Input.Path, req)}
	case mkvtoolnix.KindMP4:
		if p.mp4 == nil {
			return fmt.Errorf("%s: MPEG-4 extraction needs MP4Box", plan.Input.Path)
		}
		for _, t := range plan.Tracks {
			job := mp4box.NewJob(t.Track, t.Path)
			plan.jobs = append(plan.jobs, job)
			plan.Commands = append(plan.Commands, p.mp4.Command(plan.Input.Path, job))
		}
	}
	return nil
}

// FormatCommand renders a command the way dry runs print it: one argument
// per continuation line.
func FormatCommand(cmd []string) string {
	return strings.Join(cmd, " \\\n\t")
}
