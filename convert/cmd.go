package convert

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"

	"px2svg/parallel"
	"px2svg/raster"
	"px2svg/rects"

	"github.com/alecthomas/kong"
)

type CLICmd struct {
	Paths   []string `arg:"" optional:"" help:"Images or folders to convert. Folders are scanned for known raster extensions, without recursion." type:"path"`
	Dest    string   `help:"Destination folder for SVG files. Relative to each input's folder if not absolute. Empty writes next to the input."`
	Output  string   `short:"o" help:"Output file name. Only valid with a single input image." type:"path"`
	Scale   int      `help:"Scale factor of the SVG canvas" default:"1"`
	Mode    string   `help:"Decomposition: rect merges strips vertically, strip keeps horizontal runs, pixel emits one square per pixel" enum:"rect,strip,pixel" default:"rect"`
	Verify  bool     `help:"Re-render the rectangles and fail the file if they differ from the source" default:"false"`
	Preview bool     `help:"Also write a PNG rendered from the rectangles, scaled like the SVG canvas" default:"false"`
	Force   bool     `help:"Overwrite existing output files" default:"false"`
}

type job struct {
	src, dest string
	// clash lists the other inputs mapped to the same dest.
	clash []string
}

func (c *CLICmd) Validate(kctx *kong.Context) error {
	if len(c.Paths) == 0 {
		c.Paths = []string{"."}
	}

	for i, p := range c.Paths {
		abs, err := filepath.Abs(p)
		if err == nil {
			_, err = os.Stat(abs)
		}
		if err != nil {
			return fmt.Errorf("invalid input path %q: %w", p, err)
		}
		c.Paths[i] = abs
	}

	if c.Scale < 1 {
		return fmt.Errorf("invalid scale: %d", c.Scale)
	}

	if c.Output != "" {
		if len(c.Paths) != 1 {
			return fmt.Errorf("output file requires exactly one input, got %d", len(c.Paths))
		}
		if info, err := os.Stat(c.Paths[0]); err == nil && info.IsDir() {
			return fmt.Errorf("output file cannot be used with folder %q", c.Paths[0])
		}
	}

	return nil
}

func (c *CLICmd) options() Options {
	return Options{
		Scale:   c.Scale,
		Mode:    rects.Mode(c.Mode),
		Verify:  c.Verify,
		Preview: c.Preview,
		Force:   c.Force,
	}
}

func (c *CLICmd) destDir(src string) string {
	switch {
	case c.Dest == "":
		return filepath.Dir(src)
	case filepath.IsAbs(c.Dest):
		return c.Dest
	default:
		return filepath.Join(filepath.Dir(src), c.Dest)
	}
}

// jobs expands the input paths into one job per image.
func (c *CLICmd) jobs() ([]job, error) {
	var res []job
	for _, p := range c.Paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("cannot stat input %q: %w", p, err)
		}

		if !info.IsDir() {
			dest := c.Output
			if dest == "" {
				dest = filepath.Join(c.destDir(p), OutputName(p))
			}
			res = append(res, job{src: p, dest: dest})
			continue
		}

		files, err := os.ReadDir(p)
		if err != nil {
			return nil, fmt.Errorf("unable to read folder %q: %w", p, err)
		}
		for _, file := range files {
			if file.IsDir() || !raster.Supported(file.Name()) || isPreview(file.Name()) {
				continue
			}
			src := filepath.Join(p, file.Name())
			res = append(res, job{src: src, dest: filepath.Join(c.destDir(src), OutputName(src))})
		}
	}

	byDest := make(map[string][]int)
	for i, j := range res {
		byDest[j.dest] = append(byDest[j.dest], i)
	}
	for _, idx := range byDest {
		if len(idx) < 2 {
			continue
		}
		for _, i := range idx {
			for _, k := range idx {
				if k != i {
					res[i].clash = append(res[i].clash, res[k].src)
				}
			}
		}
	}
	return res, nil
}

func (c *CLICmd) Run(pool *parallel.Pool) error {
	jobs, err := c.jobs()
	if err != nil {
		return err
	}
	if len(jobs) == 0 {
		slog.Info("no images found", "paths", c.Paths)
		return nil
	}

	opts := c.options()
	var convertedCount, errCount atomic.Uint64
	var fatal atomic.Pointer[rects.ConsistencyError]

	for _, j := range jobs {
		pool.Do(func() {
			logger := slog.Default().With("file", j.src)

			if len(j.clash) > 0 {
				errCount.Add(1)
				logger.Error("could not convert image", "to", j.dest, "error",
					fmt.Errorf("output name shared with %q", j.clash))
				return
			}

			dir := filepath.Dir(j.dest)
			if err := os.MkdirAll(dir, 0o755); err != nil {
				errCount.Add(1)
				logger.Error("unable to create destination folder", "dir", dir, "error", err)
				return
			}

			if _, err := File(logger, j.src, j.dest, opts); err != nil {
				errCount.Add(1)
				logger.Error("could not convert image", "to", j.dest, "error", err)

				var cerr *rects.ConsistencyError
				if errors.As(err, &cerr) {
					fatal.CompareAndSwap(nil, cerr)
					pool.Stop()
				}
				return
			}
			convertedCount.Add(1)
		})
	}

	pool.Wait()

	converted := convertedCount.Load()
	failed := errCount.Load()
	slog.Info("stats", "converted", converted, "errors", failed, "skipped",
		uint64(len(jobs))-converted-failed, "total", len(jobs))

	if cerr := fatal.Load(); cerr != nil {
		return fmt.Errorf("aborted on internal inconsistency: %w", cerr)
	}
	if failed > 0 {
		return fmt.Errorf("error processing %d files", failed)
	}
	return nil
}
