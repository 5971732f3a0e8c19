package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/glizzus/audiospriter/internal/build"
	"github.com/glizzus/audiospriter/internal/config"
	"github.com/glizzus/audiospriter/internal/datalayer"
	"github.com/glizzus/audiospriter/internal/encode"
	"github.com/glizzus/audiospriter/internal/manifest"
	"github.com/spf13/afero"
	"github.com/urfave/cli/v2"
)

func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "source",
			Aliases: []string{"s"},
			Usage:   "directory searched recursively for .wav sounds",
		},
		&cli.Float64Flag{
			Name:  "max",
			Usage: "maximum length of one sprite in seconds",
		},
		&cli.BoolFlag{
			Name:  "verbose",
			Usage: "log debug output",
		},
	}
}

var buildFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "destination",
		Aliases: []string{"d"},
		Usage:   "directory the sprites and audioSprites.json are written to",
	},
	&cli.StringFlag{
		Name:    "wav-dir",
		Aliases: []string{"w"},
		Usage:   "directory for the intermediate .wav sprites",
	},
	&cli.StringFlag{
		Name:  "base-name",
		Usage: "file name prefix of every sprite",
	},
	&cli.StringFlag{
		Name:  "ffmpeg",
		Usage: "path to the ffmpeg executable",
	},
	&cli.IntFlag{
		Name:  "jobs",
		Usage: "number of sprites encoded at the same time",
	},
	&cli.BoolFlag{
		Name:  "no-verify",
		Usage: "skip decoding the finished files",
	},
	&cli.BoolFlag{
		Name:  "publish",
		Usage: "upload the finished files to the MinIO bucket from MINIO_* variables",
	},
}

func newApp(fs afero.Fs) *cli.App {
	return &cli.App{
		Name:  "audiospriter",
		Usage: "pack short sounds into mp3 and ogg audio sprites",
		Commands: []*cli.Command{
			{
				Name:   "build",
				Usage:  "encode every sprite and write audioSprites.json",
				Flags:  append(commonFlags(), buildFlags...),
				Action: func(c *cli.Context) error { return runBuild(c, fs) },
			},
			{
				Name:   "plan",
				Usage:  "print how sounds would be packed without encoding anything",
				Flags:  commonFlags(),
				Action: func(c *cli.Context) error { return runPlan(c, fs) },
			},
		},
	}
}

func setupLogging(c *cli.Context) {
	level := slog.LevelInfo
	if c.Bool("verbose") {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(c.App.ErrWriter, &slog.HandlerOptions{Level: level})))
}

func loadConfig(c *cli.Context) (*config.SpriteConfig, error) {
	if err := config.LoadEnv(); err != nil {
		if os.IsNotExist(err) {
			slog.Debug("No .env file found, continuing without it")
		} else {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	}

	cfg, err := config.NewSpriteConfigFromEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to load sprite config: %w", err)
	}

	if c.IsSet("source") {
		cfg.Source = c.String("source")
	}
	if c.IsSet("max") {
		cfg.MaxDuration = c.Float64("max")
	}
	if c.IsSet("destination") {
		cfg.Destination = c.String("destination")
	}
	if c.IsSet("wav-dir") {
		cfg.WavDir = c.String("wav-dir")
	}
	if c.IsSet("base-name") {
		cfg.BaseName = c.String("base-name")
	}
	if c.IsSet("ffmpeg") {
		cfg.FFmpegPath = c.String("ffmpeg")
	}
	if c.IsSet("jobs") {
		cfg.Jobs = c.Int("jobs")
	}
	if c.Bool("no-verify") {
		cfg.Verify = false
	}
	return cfg, nil
}

func newPublisher(ctx context.Context, fs afero.Fs) (*datalayer.Publisher, error) {
	minioConfig, err := config.NewMinioConfigFromEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to load minio config: %w", err)
	}
	if !minioConfig.Enabled() {
		return nil, fmt.Errorf("--publish needs MINIO_ENDPOINT, MINIO_USERNAME and MINIO_PASSWORD")
	}

	storage, err := datalayer.NewMinioStorage(minioConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create minio storage: %w", err)
	}
	if err := storage.EnsureBucket(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure minio bucket: %w", err)
	}

	return &datalayer.Publisher{FS: fs, Storage: storage, Prefix: minioConfig.Prefix}, nil
}

func runBuild(c *cli.Context, fs afero.Fs) error {
	setupLogging(c)
	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	b := &build.Builder{
		FS:     fs,
		Config: cfg,
		Runner: encode.ExecRunner{Timeout: cfg.ConvertTimeout},
		Prober: encode.FileProber{FS: fs},
	}
	if c.Bool("publish") {
		if b.Publisher, err = newPublisher(ctx, fs); err != nil {
			return err
		}
	}

	_, err = b.Run(ctx)
	return err
}

func runPlan(c *cli.Context, fs afero.Fs) error {
	setupLogging(c)

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	b := &build.Builder{FS: fs, Config: cfg}
	res, err := b.Plan(c.Context)
	if err != nil {
		return err
	}

	printPlan(c.App.Writer, res, cfg.BaseName)
	return nil
}

func printPlan(w io.Writer, res *build.Result, base string) {
	doc := manifest.Build(res.Catalog, res.Plan, base)
	for _, g := range res.Plan.Groups {
		fmt.Fprintf(w, "%s (%.3fs)\n", manifest.FileName(base, g.Index, ""), g.Length)
		for _, id := range g.Clips {
			s := doc.Sounds[id]
			fmt.Fprintf(w, "  %s start %.3f duration %.3f\n", s.Filename, s.StartTime, s.Duration)
		}
	}
}

// logFailure logs each part of a joined error on its own line.
func logFailure(err error) {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			slog.Error("audiospriter failed", "error", e)
		}
		return
	}
	slog.Error("audiospriter failed", "error", err)
}

func main() {
	app := newApp(afero.NewOsFs())
	if err := app.Run(os.Args); err != nil {
		logFailure(err)
		os.Exit(1)
	}
}
