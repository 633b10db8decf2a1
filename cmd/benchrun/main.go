package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"go.uber.org/zap"

	"github.com/Hakuto4838/skipmap/datastream"
	"github.com/Hakuto4838/skipmap/skiplist/analyTool"
	"github.com/Hakuto4838/skipmap/skiplist/ordered"
)

func main() {
	// 輸入：-file、-dir，或 -out 加上產生參數
	var file string
	var dir string
	var out string
	var n int
	var a float64
	var b float64
	var k int
	var seed int64
	var phase1Ratio float64
	var deleteRatio float64
	var hashed bool

	var heights string
	var runs int
	var levels bool
	var csvDir string
	var verbose bool

	flag.StringVar(&file, "file", "", "existing bench file (SLBENCH2 format)")
	flag.StringVar(&dir, "dir", "", "directory containing bench files to test (will test all .bin files)")
	flag.StringVar(&out, "out", "", "output path to write a generated bench file")
	flag.IntVar(&n, "n", 0, "number of keys for the generator")
	flag.Float64Var(&a, "a", 1.07, "Zipf exponent s (0 selects the uniform distribution)")
	flag.Float64Var(&b, "b", 1.0, "Zipf offset v (used when a > 0)")
	flag.IntVar(&k, "k", 0, "number of operations to generate")
	flag.Int64Var(&seed, "seed", time.Now().UnixNano(), "seed for generators and leveling policy")
	flag.Float64Var(&phase1Ratio, "phase1Ratio", 0.5, "ratio of phase1 operations")
	flag.Float64Var(&deleteRatio, "deleteRatio", 0.1, "ratio of delete operations")
	flag.BoolVar(&hashed, "hashed", false, "derive keys with murmur3 instead of shuffled 0..n-1")

	flag.StringVar(&heights, "heights", "4,8,16,32", "comma list of max heights to benchmark")
	flag.IntVar(&runs, "runs", 5, "how many times to repeat each benchmark")
	flag.BoolVar(&levels, "levels", false, "print a per-level table of the final structure")
	flag.StringVar(&csvDir, "csv", "", "directory to write per-bench structure and step CSV files")
	flag.BoolVar(&verbose, "v", false, "debug logging")
	flag.Parse()

	logger, err := newLogger(verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Sugar()

	var benchPaths []string
	switch {
	case dir != "":
		files, err := collectBenchFilesFromDir(dir)
		if err != nil {
			log.Fatalf("scan directory %s: %v", dir, err)
		}
		if len(files) == 0 {
			log.Fatalf("no .bin files found in directory: %s", dir)
		}
		benchPaths = files
		log.Infow("found bench files", "count", len(files), "dir", dir)
	case file != "":
		benchPaths = []string{file}
	default:
		if out == "" {
			log.Fatal("either -file, -dir, or -out with generation params (-n,-a,-b,-k,-seed) must be provided")
		}
		if n <= 0 || k < 0 {
			log.Fatalf("invalid -n or -k: n=%d k=%d", n, k)
		}
		if err := generate(out, n, a, b, uint64(seed), k, phase1Ratio, deleteRatio, hashed); err != nil {
			log.Fatalf("generate bench file: %v", err)
		}
		log.Infow("generated bench file", "path", out, "n", n, "k", k)
		benchPaths = []string{out}
	}

	hs, err := parseHeights(heights)
	if err != nil {
		log.Fatalf("parse -heights: %v", err)
	}
	fmt.Printf("max heights to test: %v\n", hs)
	fmt.Println(strings.Repeat("=", 80))

	for _, path := range benchPaths {
		runBenchmark(log, path, hs, runs, uint64(seed), levels, csvDir)
	}
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	return cfg.Build()
}

func generate(out string, n int, s, v float64, seed uint64, k int, phase1Ratio, deleteRatio float64, hashed bool) error {
	mode := datastream.KeysShuffled
	if hashed {
		mode = datastream.KeysHashed
	}
	gen, err := datastream.NewGenerator(datastream.GeneratorConfig{N: n, S: s, V: v, Seed: seed, Mode: mode})
	if err != nil {
		return err
	}
	ops, err := datastream.GenerateOps(gen, k, phase1Ratio, deleteRatio)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(out); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return datastream.WriteBenchFile(out, datastream.NewBenchFile(gen, ops))
}

// collectBenchFilesFromDir 收集指定目錄下所有 .bin 檔案
func collectBenchFilesFromDir(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".bin" {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	// 排序檔案名稱以確保順序一致
	sort.Strings(files)
	return files, nil
}

func parseHeights(s string) ([]int, error) {
	var out []int
	seen := map[int]bool{}
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		h, err := strconv.Atoi(p)
		if err != nil {
			return nil, err
		}
		if h < 0 || seen[h] {
			continue
		}
		seen[h] = true
		out = append(out, h)
	}
	if len(out) == 0 {
		return []int{16}, nil
	}
	return out, nil
}

type benchStats struct {
	avgMs    float64
	minMs    float64
	maxMs    float64
	avgSteps float64
	height   int
	size     int
}

// runBenchmark 執行單一 benchmark 檔案的測試
func runBenchmark(log *zap.SugaredLogger, benchPath string, heights []int, runs int, seed uint64, levels bool, csvDir string) {
	bf, err := datastream.ReadBenchFile(benchPath)
	if err != nil {
		log.Errorw("read bench file", "path", benchPath, "error", err)
		return
	}

	fmt.Printf("bench_file: %s\n", benchPath)
	seq := bf.ToSequenceModel()
	counts := seq.Counts()
	fmt.Printf("ops: %d (query %d, insert %d, delete %d)\n", seq.Len(),
		counts[datastream.OpQuery], counts[datastream.OpInsert], counts[datastream.OpDelete])
	fmt.Printf("entropy: %.6f\n", bf.Entropy())

	rows := make([][]string, 0, len(heights))
	for _, h := range heights {
		log.Debugw("benchmarking", "maxHeight", h, "runs", runs)
		stats, err := benchmarkHeight(bf, seq, h, runs, seed)
		if err != nil {
			log.Errorw("benchmark failed", "maxHeight", h, "error", err)
			continue
		}
		thr := float64(seq.Len()) / (stats.avgMs / 1000.0)
		rows = append(rows, []string{
			strconv.Itoa(h),
			strconv.Itoa(runs),
			fmt.Sprintf("%.3f", stats.avgMs),
			fmt.Sprintf("%.3f", stats.minMs),
			fmt.Sprintf("%.3f", stats.maxMs),
			fmt.Sprintf("%.2f", thr),
			fmt.Sprintf("%.6f", stats.avgSteps),
			strconv.Itoa(stats.height),
			strconv.Itoa(stats.size),
		})
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"MaxHeight", "Runs", "Avg(ms)", "Min(ms)", "Max(ms)", "Ops/s", "AvgSteps", "Height", "Len"})
	table.SetAlignment(tablewriter.ALIGN_CENTER)
	table.SetAutoWrapText(false)
	table.AppendBulk(rows)
	table.Render()

	if (levels || csvDir != "") && len(heights) > 0 {
		sl := newList(heights[len(heights)-1], seed)
		replay(sl, seq, bf.Dist)
		if levels {
			analyTool.RenderLevels[int64, float64](os.Stdout, sl, 8)
		}
		if csvDir != "" {
			out, err := writeCSV(csvDir, benchPath, sl, bf.Dist)
			if err != nil {
				log.Errorw("write csv", "dir", csvDir, "error", err)
				return
			}
			log.Infow("wrote csv", "path", out)
		}
	}
}

// writeCSV 將結構與各 key 的搜尋步數寫到 csvDir/<bench 檔名>.csv
func writeCSV(csvDir, benchPath string, sl *ordered.List[int64, float64], dist map[int64]float64) (string, error) {
	if err := os.MkdirAll(csvDir, 0755); err != nil {
		return "", err
	}
	name := strings.TrimSuffix(filepath.Base(benchPath), filepath.Ext(benchPath)) + ".csv"
	out := filepath.Join(csvDir, name)
	f, err := os.Create(out)
	if err != nil {
		return "", err
	}
	w := csv.NewWriter(f)
	if err := analyTool.WriteSkipListCSV[int64, float64](w, sl, sl.Height(), sl.Len()); err != nil {
		f.Close()
		return "", err
	}
	_, steps := analyTool.AnalyzeStep[int64, float64](sl, dist)
	if err := steps.WriteCSV(w); err != nil {
		f.Close()
		return "", err
	}
	return out, f.Close()
}

func newList(maxHeight int, seed uint64) *ordered.List[int64, float64] {
	return ordered.New[int64, float64](maxHeight, ordered.WithSeed(seed))
}

func benchmarkHeight(bf *datastream.BenchFile, seq *datastream.SequenceModel, maxHeight, runs int, seed uint64) (benchStats, error) {
	durations := make([]float64, 0, runs)
	stats := benchStats{avgSteps: math.NaN()}
	for i := 0; i < runs; i++ {
		sl := newList(maxHeight, seed+uint64(i))
		elapsed := replay(sl, seq, bf.Dist)
		durations = append(durations, float64(elapsed.Microseconds())/1000.0)
		if i == 0 {
			if err := analyTool.CheckStruct[int64, float64](sl); err != nil {
				return stats, err
			}
			stats.avgSteps, _ = analyTool.AnalyzeStep[int64, float64](sl, bf.Dist)
			stats.height = sl.Height()
			stats.size = sl.Len()
		}
		sl.Clear()
	}
	if len(durations) == 0 {
		return stats, fmt.Errorf("no runs")
	}
	sort.Float64s(durations)
	sum := 0.0
	for _, v := range durations {
		sum += v
	}
	stats.avgMs = sum / float64(len(durations))
	stats.minMs = durations[0]
	stats.maxMs = durations[len(durations)-1]
	return stats, nil
}

// replay 從頭重播 seq，插入的 value 取自 dist
func replay(sl *ordered.List[int64, float64], seq *datastream.SequenceModel, dist map[int64]float64) time.Duration {
	seq.Reset()
	start := time.Now()
	for op, ok := seq.Next(); ok; op, ok = seq.Next() {
		switch op.Type {
		case datastream.OpQuery:
			sl.Search(op.Key)
		case datastream.OpInsert:
			sl.Insert(op.Key, dist[op.Key])
		case datastream.OpDelete:
			sl.Remove(op.Key)
		}
	}
	return time.Since(start)
}
