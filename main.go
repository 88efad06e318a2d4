/*
 * v9emu - Main process.
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	getopt "github.com/pborman/getopt/v2"

	"github.com/paged32/v9emu/internal/debugger"
	"github.com/paged32/v9emu/internal/device"
	"github.com/paged32/v9emu/internal/loader"
	"github.com/paged32/v9emu/internal/machine"
	logger "github.com/paged32/v9emu/util/logger"
)

var Logger *slog.Logger

func main() {
	optVerbose := getopt.BoolLong("verbose", 'v', "Verbose (debug-level) logging")
	optMemMB := getopt.Uint32Long("mem", 'm', 128, "Physical memory size, in megabytes")
	optFSPath := getopt.StringLong("fs", 'f', "", "RAM filesystem image path")
	optDebug := getopt.BoolLong("debugger", 'g', "Drop into the interactive debugger instead of free-running")
	optHelp := getopt.BoolLong("help", 'h', "Help")
	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		os.Exit(0)
	}

	args := getopt.Args()
	if len(args) != 1 {
		getopt.Usage()
		os.Exit(-1)
	}
	imagePath := args[0]

	programLevel := new(slog.LevelVar)
	programLevel.Set(slog.LevelInfo)
	if *optVerbose {
		programLevel.Set(slog.LevelDebug)
	}
	debug := *optVerbose
	Logger = slog.New(logger.NewHandler(nil, &slog.HandlerOptions{Level: programLevel, AddSource: false}, &debug))
	slog.SetDefault(Logger)

	Logger.Info("v9emu started", "image", imagePath)

	memSize := *optMemMB * 1024 * 1024

	con := device.NewConsole(os.Stdin, os.Stdout)
	m := machine.New(memSize, con, Logger)

	entry, err := loader.Load(imagePath, m.Mem)
	if err != nil {
		Logger.Error("failed to load image", "error", err)
		os.Exit(-1)
	}
	if *optFSPath != "" {
		if err := loader.LoadFS(*optFSPath, m.Mem); err != nil {
			Logger.Error("failed to load RAM filesystem image", "error", err)
			os.Exit(-1)
		}
	}
	m.Boot(entry, m.Mem.Size()-loader.FSSize)

	if *optDebug {
		dbg := debugger.New(m, os.Stdout)
		if err := dbg.Run(); err != nil {
			Logger.Error("debugger exited with error", "error", err)
			os.Exit(-1)
		}
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		Logger.Info("got quit signal")
		cancel()
	}()

	if err := m.Run(ctx); err != nil {
		Logger.Error("machine stopped", "error", err)
		os.Exit(-1)
	}
	Logger.Info("shutting down")
}
