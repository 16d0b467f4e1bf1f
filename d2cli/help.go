package d2cli

import (
	"fmt"
	"path/filepath"

	"oss.terrastruct.com/d2canvas/lib/xmain"
)

func printHelp(ms *xmain.State) {
	fmt.Fprintf(ms.Stdout, `%[1]s %[2]s
Usage:
  %[1]s [--watch] [--options=opts.yaml] session.yaml [out.json]

%[1]s builds the diagram described by session.yaml, replays its pointer, wheel and
keyboard events against the default behaviors and writes the resulting zoom, pan,
node, group and link geometry to out.json.
It defaults to session.json if an output path is not provided.

Use - to have %[1]s read from stdin or write to stdout.

Flags:
%[3]s
`, filepath.Base(ms.Name), version, ms.Opts.Defaults())
}
