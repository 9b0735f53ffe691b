package extract

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/gofrs/flock"

	"mkvsplit/internal/history"
	"mkvsplit/internal/mkvtoolnix"
	"mkvsplit/internal/mp4box"
	"mkvsplit/internal/scan"
)

type exitErr struct{ code int }

func (e exitErr) Error() string { return fmt.Sprintf("exit status %d", e.code) }

func (e exitErr) ExitCode() int { return e.code }

type fakeIdentifier struct {
	infos map[string]mkvtoolnix.Info
	errs  map[string]error
}

func (f fakeIdentifier) Identify(_ context.Context, path string) (mkvtoolnix.Info, error) {
	if err := f.errs[filepath.Base(path)]; err != nil {
		return f.infos[filepath.Base(path)], err
	}
	return f.infos[filepath.Base(path)], nil
}

// fileExecutor creates every output named on the command line.
type fileExecutor struct {
	err   error
	calls [][]string
}

func (f *fileExecutor) Output(_ context.Context, _ string, args []string) ([]byte, error) {
	f.calls = append(f.calls, args)
	return []byte("subtitle text\n"), f.err
}

func (f *fileExecutor) Run(_ context.Context, _ string, args []string, onLine func(string)) error {
	f.calls = append(f.calls, args)
	if f.err != nil {
		onLine("Error: something broke")
		return f.err
	}
	for i, arg := range args {
		switch {
		case arg == "chapters" && i+1 < len(args):
			_ = os.WriteFile(args[i+1], []byte("<Chapters/>"), 0o644)
		case strings.Contains(arg, ":") && !strings.HasPrefix(arg, "-"):
			_, path, _ := strings.Cut(arg, ":")
			path = strings.TrimPrefix(path, "output=")
			_ = os.WriteFile(path, []byte("stream"), 0o644)
		}
	}
	onLine("Progress: 100%")
	return nil
}

func matroskaInfo() mkvtoolnix.Info {
	return mkvtoolnix.Info{
		Container: mkvtoolnix.Container{Recognized: true, Supported: true, Type: "Matroska"},
		Chapters:  []mkvtoolnix.ChapterEdition{{NumEntries: 4}},
		Tracks: []mkvtoolnix.Track{
			{ID: 0, Type: "video", Codec: "AVC/H.264/MPEG-4p10", Properties: mkvtoolnix.TrackProperties{CodecID: "V_MPEG4/ISO/AVC", Language: "und"}},
			{ID: 1, Type: "audio", Codec: "AC-3", Properties: mkvtoolnix.TrackProperties{CodecID: "A_AC3", Language: "eng"}},
			{ID: 2, Type: "subtitles", Codec: "SubRip/SRT", Properties: mkvtoolnix.TrackProperties{CodecID: "S_TEXT/UTF8", Language: "ger", LanguageIETF: "de", ForcedTrack: true, TrackName: "Signs/Songs"}},
			{ID: 3, Type: "subtitles", Codec: "HDMV PGS", Properties: mkvtoolnix.TrackProperties{CodecID: "S_HDMV/PGS"}},
		},
	}
}

func mp4Info() mkvtoolnix.Info {
	return mkvtoolnix.Info{
		Container: mkvtoolnix.Container{Recognized: true, Supported: true, Type: "QuickTime/MP4"},
		Tracks: []mkvtoolnix.Track{
			{ID: 0, Type: "video", Codec: "AVC/H.264/MPEG-4p10", Properties: mkvtoolnix.TrackProperties{CodecID: "avc1", Language: "eng", Number: 1}},
			{ID: 1, Type: "subtitles", Codec: "Timed Text", Properties: mkvtoolnix.TrackProperties{CodecID: "tx3g", Language: "eng", Number: 2}},
		},
	}
}

type harness struct {
	exec    *fileExecutor
	planner *Planner
	mkv     *mkvtoolnix.Client
	mp4     *mp4box.Client
}

func newHarness(t *testing.T, ident Identifier, sel Selection, dst string) harness {
	t.Helper()
	exec := &fileExecutor{}
	mkv, err := mkvtoolnix.New("mkvmerge", "mkvextract", mkvtoolnix.WithExecutor(exec))
	if err != nil {
		t.Fatal(err)
	}
	mp4, err := mp4box.New("MP4Box", mp4box.WithExecutor(exec))
	if err != nil {
		t.Fatal(err)
	}
	planner, err := NewPlanner(ident, mkv, mp4, PlannerOptions{Selection: sel, Dst: dst, DefaultLanguage: "en"})
	if err != nil {
		t.Fatal(err)
	}
	return harness{exec: exec, planner: planner, mkv: mkv, mp4: mp4}
}

func TestParseSelection(t *testing.T) {
	sel, err := ParseSelection([]string{"Audio", "chapters"})
	if err != nil {
		t.Fatal(err)
	}
	if !sel.Audio || !sel.Chapters || sel.Video || sel.Subtitles {
		t.Fatalf("unexpected selection %+v", sel)
	}
	if sel.String() != "audio/chapters" {
		t.Fatalf("unexpected string %q", sel.String())
	}
	if !sel.IncludesTrack("audio") || sel.IncludesTrack("video") || sel.IncludesTrack("buttons") {
		t.Fatal("unexpected track inclusion")
	}
	if _, err := ParseSelection([]string{"menus"}); err == nil {
		t.Fatal("expected unknown category error")
	}
	if err := (Selection{}).Validate(); !errors.Is(err, ErrNoCategories) {
		t.Fatalf("expected ErrNoCategories, got %v", err)
	}
}

func TestNaming(t *testing.T) {
	in := scan.Input{Path: "/media/tv/Show/S01/e01.mkv", Root: "/media/tv", Rel: "Show/S01/e01.mkv"}
	if got := TargetBase(in, ""); got != "/media/tv/Show/S01/e01" {
		t.Fatalf("TargetBase without dst = %q", got)
	}
	if got := TargetBase(in, "/out"); got != "/out/Show/S01/e01" {
		t.Fatalf("TargetBase with dst = %q", got)
	}

	track := mkvtoolnix.Track{ID: 2, Codec: "SubRip/SRT", Properties: mkvtoolnix.TrackProperties{CodecID: "S_TEXT/UTF8", TrackName: " Signs/Songs "}}
	if got := TrackPath("/out/e01", track, "de-forced"); got != "/out/e01.2.Signs-Songs.de-forced.srt" {
		t.Fatalf("TrackPath = %q", got)
	}
	track.Properties.TrackName = ""
	if got := TrackPath("/out/e01", track, "en"); got != "/out/e01.2.en.srt" {
		t.Fatalf("TrackPath without title = %q", got)
	}
	if got := ChaptersPath("/out/e01"); got != "/out/e01.chapters.xml" {
		t.Fatalf("ChaptersPath = %q", got)
	}
}

func TestPlanMatroska(t *testing.T) {
	ident := fakeIdentifier{infos: map[string]mkvtoolnix.Info{"movie.mkv": matroskaInfo()}}
	h := newHarness(t, ident, Selection{Subtitles: true, Chapters: true}, "/out")
	in := scan.Input{Path: "/src/movie.mkv", Root: "/src", Rel: "movie.mkv"}

	plan, err := h.planner.Plan(context.Background(), in)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	want := []string{
		"mkvextract", "/src/movie.mkv",
		"chapters", "/out/movie.chapters.xml",
		"tracks", "2:/out/movie.2.Signs-Songs.de-forced.srt", "3:/out/movie.3.en.sup",
	}
	if len(plan.Commands) != 1 || !reflect.DeepEqual(plan.Commands[0], want) {
		t.Fatalf("unexpected commands %v", plan.Commands)
	}
	if plan.Kind != mkvtoolnix.KindMatroska || len(plan.Outputs()) != 3 {
		t.Fatalf("unexpected plan %+v", plan)
	}
}

func TestPlanMP4SkipsChapters(t *testing.T) {
	ident := fakeIdentifier{infos: map[string]mkvtoolnix.Info{"clip.mp4": mp4Info()}}
	h := newHarness(t, ident, Selection{Video: true, Subtitles: true, Chapters: true}, "")
	plan, err := h.planner.Plan(context.Background(), scan.Input{Path: "/src/clip.mp4", Root: "/src", Rel: "clip.mp4"})
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if plan.ChaptersPath != "" {
		t.Fatal("chapters should not be planned for MP4")
	}
	want := [][]string{
		{"MP4Box", "-raw", "1:output=/src/clip.0.en.h264", "/src/clip.mp4"},
		{"MP4Box", "-srt", "2", "-std", "/src/clip.mp4", ">", "/src/clip.1.en.srt"},
	}
	if !reflect.DeepEqual(plan.Commands, want) {
		t.Fatalf("unexpected commands %v", plan.Commands)
	}
}

func TestRunDryRunWritesNothing(t *testing.T) {
	src := t.TempDir()
	dst := filepath.Join(t.TempDir(), "out")
	ident := fakeIdentifier{infos: map[string]mkvtoolnix.Info{"movie.mkv": matroskaInfo()}}
	h := newHarness(t, ident, Selection{Audio: true}, dst)
	store, err := history.Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	var out bytes.Buffer
	ex, err := NewExtractor(h.planner, h.mkv, h.mp4, store, Options{DryRun: true, Out: &out, LockDir: filepath.Join(dst, "locks")})
	if err != nil {
		t.Fatal(err)
	}
	in := scan.Input{Path: filepath.Join(src, "movie.mkv"), Root: src, Rel: "movie.mkv"}
	report, err := ex.Run(context.Background(), []scan.Input{in})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	expected := "Parsing " + in.Path + "\n" +
		"mkvextract \\\n\t" + in.Path + " \\\n\ttracks \\\n\t1:" + filepath.Join(dst, "movie.1.en.ac3") + "\n"
	if out.String() != expected {
		t.Fatalf("unexpected output:\n%q\nwant:\n%q", out.String(), expected)
	}
	if report.Planned != 1 || len(h.exec.calls) != 0 {
		t.Fatalf("dry run should not execute tools: %+v calls=%d", report, len(h.exec.calls))
	}
	if _, err := os.Stat(dst); !os.IsNotExist(err) {
		t.Fatalf("dry run created %s", dst)
	}
	entries, _ := store.Recent(context.Background(), 0)
	if len(entries) != 0 {
		t.Fatalf("dry run recorded history: %v", entries)
	}
}

func TestRunExtractsThenSkipsUntilForced(t *testing.T) {
	src := t.TempDir()
	source := filepath.Join(src, "movie.mkv")
	if err := os.WriteFile(source, []byte("mkv"), 0o644); err != nil {
		t.Fatal(err)
	}
	dst := filepath.Join(t.TempDir(), "out")
	ident := fakeIdentifier{infos: map[string]mkvtoolnix.Info{"movie.mkv": matroskaInfo()}}
	h := newHarness(t, ident, Selection{Audio: true, Chapters: true}, dst)
	store, err := history.Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	lockDir := filepath.Join(t.TempDir(), "locks")
	inputs := []scan.Input{{Path: source, Root: src, Rel: "movie.mkv"}}

	run := func(force bool) (Report, string) {
		var out bytes.Buffer
		ex, err := NewExtractor(h.planner, h.mkv, h.mp4, store, Options{Out: &out, Force: force, LockDir: lockDir})
		if err != nil {
			t.Fatal(err)
		}
		report, err := ex.Run(context.Background(), inputs)
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
		return report, out.String()
	}

	report, out := run(false)
	if report.Extracted != 1 {
		t.Fatalf("expected extraction, got %+v (%s)", report, out)
	}
	for _, name := range []string{"movie.1.en.ac3", "movie.chapters.xml"} {
		if _, err := os.Stat(filepath.Join(dst, name)); err != nil {
			t.Fatalf("expected output %s: %v", name, err)
		}
	}
	if !strings.Contains(out, "Progress: 100%") {
		t.Fatalf("expected tool output to be streamed, got %q", out)
	}

	report, out = run(false)
	if report.Skipped != 1 || !strings.Contains(out, "already extracted") {
		t.Fatalf("expected skip, got %+v (%s)", report, out)
	}

	report, _ = run(true)
	if report.Extracted != 1 {
		t.Fatalf("expected forced extraction, got %+v", report)
	}

	entries, err := store.Recent(context.Background(), 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 3 || entries[1].Status != history.StatusSkipped {
		t.Fatalf("unexpected history %+v", entries)
	}
}

func TestRunAggregatesFailures(t *testing.T) {
	src := t.TempDir()
	avi := mkvtoolnix.Info{Container: mkvtoolnix.Container{Recognized: true, Type: "AVI"}}
	ident := fakeIdentifier{
		infos: map[string]mkvtoolnix.Info{"old.avi": avi, "movie.mkv": matroskaInfo(), "bare.mkv": {Container: mkvtoolnix.Container{Recognized: true, Type: "Matroska"}}},
	}
	h := newHarness(t, ident, Selection{Audio: true}, "")
	h.exec.err = exitErr{code: 2}

	var out bytes.Buffer
	ex, err := NewExtractor(h.planner, h.mkv, h.mp4, nil, Options{Out: &out})
	if err != nil {
		t.Fatal(err)
	}
	inputs := []scan.Input{
		{Path: filepath.Join(src, "old.avi"), Root: src, Rel: "old.avi"},
		{Path: filepath.Join(src, "bare.mkv"), Root: src, Rel: "bare.mkv"},
		{Path: filepath.Join(src, "movie.mkv"), Root: src, Rel: "movie.mkv"},
	}
	report, err := ex.Run(context.Background(), inputs)
	if err == nil {
		t.Fatal("expected aggregated error")
	}
	if report.Failed != 2 || report.Empty != 1 || report.Processed != 3 {
		t.Fatalf("unexpected report %+v", report)
	}
	if !errors.Is(err, mkvtoolnix.ErrUnsupportedContainer) {
		t.Fatalf("expected unsupported container in %v", err)
	}
	if code := ExitCode(err); code != 2 {
		t.Fatalf("expected exit code 2, got %d", code)
	}
	for _, want := range []string{
		filepath.Join(src, "old.avi") + " not supported (AVI)",
		filepath.Join(src, "bare.mkv") + ": no audio tracks found.",
		"Error: something broke",
	} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("expected %q in output %q", want, out.String())
		}
	}
}

func TestRunReportsLockedSource(t *testing.T) {
	src := t.TempDir()
	source := filepath.Join(src, "movie.mkv")
	if err := os.WriteFile(source, []byte("mkv"), 0o644); err != nil {
		t.Fatal(err)
	}
	lockDir := t.TempDir()
	sum := sha256.Sum256([]byte(source))
	held := flock.New(filepath.Join(lockDir, hex.EncodeToString(sum[:8])+".lock"))
	if ok, err := held.TryLock(); err != nil || !ok {
		t.Fatalf("pre-lock failed: %v", err)
	}
	defer held.Unlock()

	ident := fakeIdentifier{infos: map[string]mkvtoolnix.Info{"movie.mkv": matroskaInfo()}}
	h := newHarness(t, ident, Selection{Audio: true}, "")
	ex, err := NewExtractor(h.planner, h.mkv, h.mp4, nil, Options{LockDir: lockDir})
	if err != nil {
		t.Fatal(err)
	}
	_, err = ex.Run(context.Background(), []scan.Input{{Path: source, Root: src, Rel: "movie.mkv"}})
	if !errors.Is(err, ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
	if ExitCode(err) != 1 {
		t.Fatalf("expected exit code 1, got %d", ExitCode(err))
	}
}

func TestExitCode(t *testing.T) {
	if ExitCode(nil) != 0 {
		t.Fatal("nil error should map to 0")
	}
	if ExitCode(errors.New("boom")) != 1 {
		t.Fatal("plain error should map to 1")
	}
	if ExitCode(&FileError{Path: "a", Err: &mkvtoolnix.ExitError{Tool: "mkvextract", Code: 2}}) != 2 {
		t.Fatal("tool error should keep its code")
	}
}
