package main

import (
	"cmp"
	"context"
	"errors"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chriskillpack/instacap"
	"github.com/chzyer/readline"
	"golang.org/x/sync/errgroup"
)

const helpText = `commands:
  open <path>       select an image (png, jpg, jpeg, bmp, gif)
  describe <text>   set the optional description, empty clears it
  generate          request a caption for the selected image
  show              print the current image, description and caption
  help              this text
  quit              exit`

// parseCommand splits line into a command and its argument. Command aliases
// are resolved to their full name.
func parseCommand(line string) (cmd, arg string) {
	line = strings.TrimSpace(line)
	cmd, arg, _ = strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(cmd) {
	case "o", "open":
		cmd = "open"
	case "d", "describe":
		cmd = "describe"
	case "g", "gen", "generate":
		cmd = "generate"
	case "s", "show":
		cmd = "show"
	case "?", "h", "help":
		cmd = "help"
	case "q", "quit", "exit":
		cmd = "quit"
	}
	return cmd, arg
}

// expandPath resolves a leading ~ to the user's home directory.
func expandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// completeImagePaths lists directories and image files matching the partial
// path typed after the open command.
func completeImagePaths(line string) []string {
	_, partial, _ := strings.Cut(strings.TrimLeft(line, " "), " ")
	partial = strings.TrimLeft(partial, " ")

	dir, prefix := filepath.Split(partial)
	entries, err := os.ReadDir(expandPath(cmp.Or(dir, ".")))
	if err != nil {
		return nil
	}

	var names []string
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, ".") || !strings.HasPrefix(name, prefix) {
			continue
		}
		if e.IsDir() {
			names = append(names, dir+name+"/")
		} else if instacap.IsImageFile(name) {
			names = append(names, dir+name)
		}
	}
	return names
}

func completer() *readline.PrefixCompleter {
	return readline.NewPrefixCompleter(
		readline.PcItem("open", readline.PcItemDynamic(completeImagePaths)),
		readline.PcItem("describe"),
		readline.PcItem("generate"),
		readline.PcItem("show"),
		readline.PcItem("help"),
		readline.PcItem("quit"),
	)
}

// handleLine runs one console command and reports whether the user asked to
// quit.
func handleLine(ctx context.Context, sess *instacap.Session, con *console, line string) bool {
	cmd, arg := parseCommand(line)

	switch cmd {
	case "":
	case "open":
		if arg == "" {
			con.Errorf("open needs a path")
			break
		}
		if err := sess.SelectImage(expandPath(arg)); err != nil {
			con.Errorf("%s", err)
		}
	case "describe":
		sess.SetDescription(arg)
	case "generate":
		if sess.Trigger(ctx) {
			con.startSpinner()
		}
	case "show":
		con.Show(sess)
	case "help":
		io.WriteString(con.out, helpText+"\n")
	case "quit":
		return true
	default:
		con.Errorf("unknown command %q, try help", cmd)
	}
	return false
}

func runConsole(ctx context.Context, ic *instacap.Instacap, args cmdArgs, logger *log.Logger) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "instacap> ",
		AutoComplete:    completer(),
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	con := newConsole(rl.Stdout(), rl.Stderr())
	sess := instacap.NewSession(ic, con, logger)
	if args.Image != "" {
		if err := sess.SelectImage(args.Image); err != nil {
			con.Errorf("%s", err)
		}
	}
	sess.SetDescription(args.Describe)
	io.WriteString(con.out, "Type help for a list of commands.\n")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	g, gctx := errgroup.WithContext(ctx)

	// Readline blocks, so it gets its own goroutine. Closing rl unblocks it.
	g.Go(func() error {
		defer close(lines)
		for {
			line, err := rl.Readline()
			if errors.Is(err, readline.ErrInterrupt) {
				if line == "" {
					return nil
				}
				continue
			}
			if err != nil { // io.EOF
				return nil
			}

			select {
			case lines <- line:
			case <-gctx.Done():
				return nil
			}
		}
	})

	// Everything that touches sess happens here
	g.Go(func() error {
		defer rl.Close()
		defer cancel()

		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()

		for {
			select {
			case line, ok := <-lines:
				if !ok {
					return nil
				}
				if handleLine(gctx, sess, con, line) {
					return nil
				}
			case res := <-sess.Results():
				con.stopSpinner()
				sess.Complete(res)
				rl.Refresh()
			case <-ticker.C:
				con.tick()
			case <-gctx.Done():
				return nil
			}
		}
	})

	return g.Wait()
}
