package audio

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"yogaseq/internal/logging"
)

// Cue is a playable file announced to listeners.
type Cue struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	Kind string `json:"kind"`
}

// Cue kinds.
const (
	KindPose = "pose"
	KindEnd  = "end"
)

// Sink attempts to play one named file. Any error moves on to the next
// candidate.
type Sink interface {
	Play(ctx context.Context, cue Cue) error
}

// DirSink plays files from a local directory. Files are announced through
// notify so browsers can play them by URL, and when a command is set it
// is started with the file path appended.
type DirSink struct {
	dir     string
	baseURL string
	command []string
	notify  func(Cue)
	logger  *slog.Logger
}

// NewDirSink builds a sink over dir. baseURL prefixes announced URLs.
func NewDirSink(dir, baseURL string, command []string, notify func(Cue), logger *slog.Logger) *DirSink {
	return &DirSink{
		dir:     dir,
		baseURL: strings.TrimRight(baseURL, "/"),
		command: append([]string(nil), command...),
		notify:  notify,
		logger:  logging.NewComponentLogger(logger, "audio"),
	}
}

// Play verifies the file exists, starts the command if any and announces
// the cue.
func (s *DirSink) Play(ctx context.Context, cue Cue) error {
	if s.dir == "" {
		return fmt.Errorf("no audio directory configured")
	}
	if strings.ContainsAny(cue.Name, `/\`) || cue.Name == "" {
		return fmt.Errorf("invalid cue name %q", cue.Name)
	}
	path := filepath.Join(s.dir, cue.Name)
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	if len(s.command) > 0 {
		args := append(append([]string(nil), s.command[1:]...), path)
		cmd := exec.CommandContext(ctx, s.command[0], args...)
		if err := cmd.Start(); err != nil {
			return fmt.Errorf("start audio command: %w", err)
		}
		go func() {
			if err := cmd.Wait(); err != nil {
				s.logger.Debug("audio command exited", logging.String("cue", cue.Name), logging.Error(err))
			}
		}()
	}
	cue.URL = s.baseURL + "/" + url.PathEscape(cue.Name)
	if s.notify != nil {
		s.notify(cue)
	}
	return nil
}

// PlayFirst tries each candidate in order and returns the one that
// played. ok is false when every candidate failed.
func PlayFirst(ctx context.Context, sink Sink, kind string, candidates []string) (string, bool) {
	if sink == nil {
		return "", false
	}
	for _, name := range candidates {
		if err := ctx.Err(); err != nil {
			return "", false
		}
		if err := sink.Play(ctx, Cue{Name: name, Kind: kind}); err == nil {
			return name, true
		}
	}
	return "", false
}
