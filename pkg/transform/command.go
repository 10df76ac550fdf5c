package transform

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Command returns a stage function that pipes content through an external
// program: the file content goes to stdin and stdout becomes the new
// content. The literal argument "{file}" is replaced with the filename.
//
// If kind is not nil the output is reclassified to *kind.
func Command(argv []string, kind *Kind) Func {
	return func(ctx context.Context, in Source) (Source, error) {
		if len(argv) == 0 {
			return Source{}, fmt.Errorf("empty command")
		}
		args := make([]string, len(argv)-1)
		for i, a := range argv[1:] {
			args[i] = strings.ReplaceAll(a, "{file}", in.Filename)
		}

		cmd := exec.CommandContext(ctx, argv[0], args...)
		cmd.Stdin = bytes.NewReader(in.Content)
		var stdout, stderr bytes.Buffer
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr
		if err := cmd.Run(); err != nil {
			if msg := strings.TrimSpace(stderr.String()); msg != "" {
				return Source{}, fmt.Errorf("%s: %w: %s", argv[0], err, msg)
			}
			return Source{}, fmt.Errorf("%s: %w", argv[0], err)
		}

		out := in
		out.Content = stdout.Bytes()
		if kind != nil {
			out.Kind = *kind
		}
		return out, nil
	}
}
