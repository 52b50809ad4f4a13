// Command katch parses K2 expression files and prints the expressions
// they contain.
//
// Usage:
//
//	katch PATH [--k N] [--debug]
//
// PATH is a file or a directory. A directory is walked recursively and
// every file with the .k2 extension is processed. Per file, the parsed
// expressions are printed indexed from 1. Parse and read errors are
// logged to stderr and do not abort the rest of the batch; a missing
// path, or one that is neither file nor directory, exits with status 1.
package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/k2lang/katch/core"
	"github.com/k2lang/katch/expr"
	"github.com/k2lang/katch/parser"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		numFields int
		debug     bool
	)
	cmd := &cobra.Command{
		Use:          "katch PATH",
		Short:        "Parse K2 expression files",
		Long:         "katch parses K2 expression files (extension .k2) and prints the expressions they contain, one indexed list per file.",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(debug)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
			return run(args[0], numFields, logger)
		},
	}
	cmd.Flags().IntVarP(&numFields, "k", "k", core.DefaultNumFields, "number of packet fields")
	cmd.Flags().BoolVar(&debug, "debug", false, "enable debug logging")
	return cmd
}

func newLogger(debug bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	if debug {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return config.Build()
}

func run(path string, numFields int, logger *zap.Logger) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("path %q does not exist", path)
	}
	switch {
	case info.IsDir():
		return processDirectory(path, numFields, logger)
	case info.Mode().IsRegular():
		processFile(path, numFields, logger)
		return nil
	default:
		return fmt.Errorf("path %q is neither a file nor a directory", path)
	}
}

func processDirectory(dir string, numFields int, logger *zap.Logger) error {
	fmt.Printf("Processing directory: %s\n", dir)
	found := false
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			logger.Error("walk failed", zap.String("path", path), zap.Error(err))
			return nil
		}
		if d.Type().IsRegular() && strings.EqualFold(filepath.Ext(path), ".k2") {
			found = true
			processFile(path, numFields, logger)
		}
		return nil
	})
	if err != nil {
		return err
	}
	if !found {
		fmt.Println("No .k2 files found in directory.")
	}
	return nil
}

// processFile parses one file and prints its expressions. Errors are
// logged and swallowed so the rest of the batch keeps going.
func processFile(path string, numFields int, logger *zap.Logger) {
	fmt.Printf("--- %s ---\n", path)
	src, err := os.ReadFile(path)
	if err != nil {
		logger.Error("read failed", zap.String("file", path), zap.Error(err))
		return
	}
	pool := expr.NewPool()
	exprs, err := parser.Parse(string(src), numFields, pool)
	if err != nil {
		logger.Error("parse failed", zap.String("file", path), zap.Error(err))
		return
	}
	if len(exprs) == 0 {
		fmt.Println("No expressions found.")
		return
	}
	logger.Debug("parsed file", zap.String("file", path), zap.Int("expressions", len(exprs)))
	for i, e := range exprs {
		fmt.Printf("  %d: %s\n", i+1, pool.String(e))
	}
}
