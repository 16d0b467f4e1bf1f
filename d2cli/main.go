// Package d2cli implements the d2canvas command: it replays a session file and writes
// the resulting diagram state as JSON.
package d2cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cdr.dev/slog"
	"gopkg.in/yaml.v3"

	"oss.terrastruct.com/d2canvas/d2script"
	"oss.terrastruct.com/d2canvas/lib/log"
	"oss.terrastruct.com/d2canvas/lib/xmain"
)

const version = "v0.1.0"

func Run(ctx context.Context, ms *xmain.State) (err error) {
	ctx = log.Stderr(ctx)

	watchFlag, err := ms.Opts.Bool("D2CANVAS_WATCH", "watch", "w", false, "watch the session and options files and replay on every change")
	if err != nil {
		return err
	}
	optionsFlag := ms.Opts.String("D2CANVAS_OPTIONS", "options", "o", "", "path to a YAML options file replacing the options of the session")
	debugFlag, err := ms.Opts.Bool("DEBUG", "debug", "d", false, "print debug logs.")
	if err != nil {
		ms.Log.Warn.Printf("Invalid DEBUG flag value ignored")
		debugFlag = new(bool)
	}
	versionFlag, err := ms.Opts.Bool("", "version", "v", false, "get the version")
	if err != nil {
		return err
	}

	help, err := ms.Opts.Parse()
	if err != nil {
		return err
	}
	if help {
		printHelp(ms)
		return nil
	}
	if *versionFlag {
		fmt.Fprintln(ms.Stdout, version)
		return nil
	}

	if *debugFlag {
		ctx = log.Leveled(ctx, slog.LevelDebug)
		ms.Env.Setenv("DEBUG", "1")
	}

	args := ms.Opts.Flags.Args()
	switch len(args) {
	case 0:
		printHelp(ms)
		return nil
	case 1, 2:
	default:
		return xmain.UsageErrorf("too many arguments passed")
	}

	r := replayer{
		ms:          ms,
		inputPath:   ms.AbsPath(args[0]),
		outputPath:  "-",
		optionsPath: *optionsFlag,
	}
	if len(args) == 2 {
		r.outputPath = ms.AbsPath(args[1])
	} else if r.inputPath != "-" {
		r.outputPath = renameExt(r.inputPath, ".json")
	}
	if r.optionsPath != "" {
		r.optionsPath = ms.AbsPath(r.optionsPath)
	}

	if *watchFlag {
		if r.inputPath == "-" {
			return xmain.UsageErrorf("-w[atch] cannot be combined with reading from stdin")
		}
		if r.outputPath == "-" {
			return xmain.UsageErrorf("-w[atch] needs an output file")
		}
		w, err := newWatcher(ctx, r)
		if err != nil {
			return err
		}
		return w.run()
	}

	_, err = r.replay(ctx)
	if err != nil {
		return err
	}
	if r.outputPath != "-" {
		ms.Log.Success.Printf("successfully replayed %v to %v", ms.HumanPath(r.inputPath), ms.HumanPath(r.outputPath))
	}
	return nil
}

// replayer runs a session file and writes its result.
type replayer struct {
	ms          *xmain.State
	inputPath   string
	outputPath  string
	optionsPath string
}

func (r replayer) replay(ctx context.Context) ([]byte, error) {
	in, err := r.ms.ReadPath(r.inputPath)
	if err != nil {
		return nil, err
	}
	s, err := d2script.Parse(in)
	if err != nil {
		return nil, err
	}
	if r.optionsPath != "" {
		b, err := os.ReadFile(r.optionsPath)
		if err != nil {
			return nil, err
		}
		s.Options = yaml.Node{}
		err = yaml.Unmarshal(b, &s.Options)
		if err != nil {
			return nil, fmt.Errorf("failed to parse options %q: %w", r.ms.HumanPath(r.optionsPath), err)
		}
	}

	res, err := d2script.Run(ctx, s)
	if err != nil {
		return nil, err
	}
	out := res.JSON()
	err = r.ms.WritePath(r.outputPath, out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// renameExt replaces the extension of fp with newExt.
func renameExt(fp string, newExt string) string {
	return strings.TrimSuffix(fp, filepath.Ext(fp)) + newExt
}
