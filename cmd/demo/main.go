package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/Hakuto4838/skipmap/skiplist/analyTool"
	"github.com/Hakuto4838/skipmap/skiplist/ordered"
)

func main() {
	var maxHeight int
	var seed int64
	var verbose bool

	flag.IntVar(&maxHeight, "max-height", 6, "level ceiling of the list")
	flag.Int64Var(&seed, "seed", time.Now().UnixNano(), "seed for the leveling policy")
	flag.BoolVar(&verbose, "v", false, "debug logging")
	flag.Parse()

	logger, err := newLogger(verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Sugar()

	sl := ordered.New[int, string](maxHeight,
		ordered.WithSeed(uint64(seed)),
		ordered.WithLogger(logger.Named("skiplist")),
	)
	log.Infow("created list", "maxHeight", maxHeight, "seed", seed)

	sl.Insert(6, "111")
	sl.Insert(7, "222")
	if v, ok := sl.Remove(7); ok {
		fmt.Println(v)
	}
	log.Infow("after remove", "len", sl.Len(), "height", sl.Height())

	if err := sl.Dump(os.Stdout); err != nil {
		log.Errorw("dump failed", "error", err)
	}
	fmt.Println()
	analyTool.PrintSkipList[int, string](os.Stdout, sl, maxHeight, 20)

	if err := analyTool.CheckStruct[int, string](sl); err != nil {
		log.Fatalw("structure check failed", "error", err)
	}
	log.Debugw("teardown", "released", sl.Clear(), "stats", sl.Stats())
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	return cfg.Build()
}
