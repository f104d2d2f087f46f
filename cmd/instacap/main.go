package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/alexflint/go-arg"
	"github.com/chriskillpack/instacap"
	"github.com/chriskillpack/instacap/caption"
)

type cmdArgs struct {
	Image    string `arg:"--image,-i" help:"Image to select at startup"`
	Describe string `arg:"--describe,-d" help:"Optional description of the image, e.g. 'This is my school'"`
	Once     bool   `arg:"--once" help:"Caption --image, print the caption and exit"`
	Verbose  bool   `arg:"--verbose,-v" help:"Log request details to stderr"`
}

func (cmdArgs) Description() string {
	return "Generate Instagram-friendly captions for images with a local Ollama server (" +
		instacap.DefaultOllamaServer + ", model " + instacap.DefaultModel + ")."
}

var lameduck bool

// runOnce captions a single image without the interactive console.
func runOnce(ctx context.Context, ic *instacap.Instacap, args cmdArgs, logger *log.Logger) error {
	if !instacap.IsImageFile(args.Image) {
		return fmt.Errorf("%s: not a supported image type", args.Image)
	}

	con := newConsole(io.Discard, os.Stderr)
	con.startSpinner()
	now := time.Now()

	done := make(chan caption.Result, 1)
	go func() {
		done <- ic.Generate(ctx, args.Image, args.Describe)
	}()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	var res caption.Result
wait:
	for {
		select {
		case res = <-done:
			break wait
		case <-ticker.C:
			con.tick()
		}
	}
	con.stopSpinner()
	logger.Printf("%s done in %d secs\n", args.Image, int(time.Since(now).Seconds()))

	fmt.Println(res.Text())
	return res.Err
}

func sighandler(ch chan os.Signal, cancel context.CancelFunc) {
	for {
		<-ch
		if lameduck {
			// Already in lame duck, hard stop
			fmt.Fprintln(os.Stderr, "Exiting")
			cancel()
			return
		} else {
			fmt.Fprintln(os.Stderr, "SIGINT received, waiting for the caption. Press again to abort.")
			lameduck = true
		}
	}
}

func main() {
	var args cmdArgs
	p := arg.MustParse(&args)
	if args.Once && args.Image == "" {
		p.Fail("--once requires --image")
	}

	logger := log.New(io.Discard, "instacap: ", log.LstdFlags)
	if args.Verbose {
		logger.SetOutput(os.Stderr)
	}

	ic := instacap.Init(instacap.InitOptions{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hctx, hcancel := context.WithTimeout(ctx, 2*time.Second)
	if !ic.IsHealthy(hctx) {
		fmt.Fprintf(os.Stderr, "warning: %s is not responding at %s\n", ic.Name(), instacap.DefaultOllamaServer)
	}
	hcancel()

	if args.Once {
		sigch := make(chan os.Signal, 2)
		signal.Notify(sigch, os.Interrupt)
		go sighandler(sigch, cancel)

		if err := runOnce(ctx, ic, args, logger); err != nil {
			logger.Printf("caption failed: %s\n", err)
			os.Exit(1)
		}
		return
	}

	if err := runConsole(ctx, ic, args, logger); err != nil {
		log.Fatal(err)
	}
}
