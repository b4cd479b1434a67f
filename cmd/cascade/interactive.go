package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"

	"github.com/fatih/color"

	"github.com/ebuckley/cascade/internal/config"
	"github.com/ebuckley/cascade/internal/render"
)

func runInteractive() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Project config edits take effect on the next request.
	var liveCfg atomic.Pointer[config.Config]
	liveCfg.Store(cfg)
	config.Watch(func(fresh *config.Config) {
		liveCfg.Store(fresh)
		fmt.Println(color.YellowString("config reloaded"))
	})

	sess, err := newSession(cfg)
	if err != nil {
		return err
	}
	defer sess.Close()

	renderer := render.New(cfg.Output.Verbose)
	renderer.Consume(sess.orch.Events())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Printf("cascade %s — type a request, or 'exit' to quit\n", Version())
	reader := bufio.NewReader(os.Stdin)

	for {
		fmt.Print(color.CyanString("cascade> "))
		line, err := reader.ReadString('\n')
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}

		request := strings.TrimSpace(line)
		switch request {
		case "":
			continue
		case "exit", "quit":
			return nil
		}

		current := liveCfg.Load()
		res, err := sess.orch.Execute(ctx, request, orchestratorOptions(sess))
		if err != nil {
			fmt.Println(color.RedString("error: %v", err))
			if ctx.Err() != nil {
				return nil
			}
			continue
		}

		if !current.Output.Verbose {
			fmt.Printf("%d/%d tasks completed in %dms\n",
				res.Metrics.TasksCompleted,
				res.Metrics.TasksCompleted+res.Metrics.TasksFailed,
				res.Metrics.Duration)
		}
	}

	return nil
}
