// Command docsmith submits one document-generation request from the command
// line, follows the job to completion and saves the resulting artifact.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"docsmith/internal/api"
	"docsmith/internal/artifact"
	"docsmith/internal/domain"
	"docsmith/internal/form"
	"docsmith/internal/infra"
	"docsmith/internal/session"
	"docsmith/internal/workflow"
)

// statFlag accumulates repeatable -stat values of the form
// name=value[:unit[:visualization]].
type statFlag []domain.Statistic

func (s *statFlag) String() string {
	return fmt.Sprintf("%d statistics", len(*s))
}

func (s *statFlag) Set(value string) error {
	stat, err := parseStat(value)
	if err != nil {
		return err
	}
	*s = append(*s, stat)
	return nil
}

func parseStat(value string) (domain.Statistic, error) {
	name, rest, ok := strings.Cut(value, "=")
	if !ok || strings.TrimSpace(name) == "" {
		return domain.Statistic{}, fmt.Errorf("statistic must be name=value[:unit[:visualization]], got %q", value)
	}
	parts := strings.Split(rest, ":")
	number, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return domain.Statistic{}, fmt.Errorf("statistic %q: invalid value %q", name, parts[0])
	}
	stat := domain.Statistic{Name: strings.TrimSpace(name), Value: number, Visualization: domain.VisualizationBar}
	if len(parts) > 1 {
		stat.Unit = strings.TrimSpace(parts[1])
	}
	if len(parts) > 2 {
		viz := domain.VisualizationType(strings.TrimSpace(parts[2]))
		switch viz {
		case domain.VisualizationBar, domain.VisualizationLine, domain.VisualizationPie, domain.VisualizationGauge:
			stat.Visualization = viz
		default:
			return domain.Statistic{}, fmt.Errorf("statistic %q: unknown visualization %q", name, parts[2])
		}
	}
	return stat, nil
}

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	var stats statFlag
	description := flag.String("description", "", "what the document should cover")
	length := flag.Int("length", 500, "requested document length in words")
	docType := flag.String("type", string(domain.DocumentInfographic), "document type: formal or infographic")
	watermark := flag.Bool("watermark", false, "add a watermark (formal documents with a logo only)")
	theme := flag.String("theme", "", "design theme name")
	logoPath := flag.String("logo", "", "path to a logo image")
	outDir := flag.String("out", cfg.OutputDir, "directory for downloaded documents")
	credits := flag.Int("credits", cfg.StartingCredits, "starting credit balance")
	baseURL := flag.String("base-url", cfg.APIBaseURL, "generation service base URL")
	flag.Var(&stats, "stat", "statistic as name=value[:unit[:visualization]] (repeatable)")
	flag.Parse()

	if err := run(cfg, logger, runOptions{
		description: *description,
		length:      *length,
		docType:     domain.DocumentType(*docType),
		watermark:   *watermark,
		theme:       *theme,
		logoPath:    *logoPath,
		outDir:      *outDir,
		credits:     *credits,
		baseURL:     *baseURL,
		stats:       stats,
	}); err != nil {
		os.Exit(1)
	}
}

type runOptions struct {
	description string
	length      int
	docType     domain.DocumentType
	watermark   bool
	theme       string
	logoPath    string
	outDir      string
	credits     int
	baseURL     string
	stats       []domain.Statistic
}

func run(cfg *infra.Config, logger infra.Logger, opts runOptions) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	red := color.New(color.FgRed)
	green := color.New(color.FgGreen)
	cyan := color.New(color.FgCyan)

	statList := form.NewStatisticList()
	for _, stat := range opts.stats {
		id, err := statList.Add()
		if err != nil {
			red.Fprintln(os.Stderr, err)
			return err
		}
		entry := stat
		statList.Update(id, func(s *domain.Statistic) {
			s.Name = entry.Name
			s.Value = entry.Value
			s.Unit = entry.Unit
			s.Visualization = entry.Visualization
		})
	}

	picker := form.NewThemePicker()
	if opts.theme != "" {
		if err := picker.Select(opts.theme); err != nil {
			red.Fprintf(os.Stderr, "unknown theme %q; available: %s\n", opts.theme, themeNames())
			return err
		}
	}

	var logo *domain.Attachment
	if opts.logoPath != "" {
		attachment, err := loadLogo(opts.logoPath)
		if err != nil {
			red.Fprintln(os.Stderr, err)
			return err
		}
		logo = attachment
	}

	saver, err := artifact.NewSaver(opts.outDir)
	if err != nil {
		red.Fprintln(os.Stderr, err)
		return err
	}
	logger.Debug().Str("output_dir", saver.BaseDir()).Msg("artifact directory ready")

	sess := session.New("cli", opts.credits)
	sess.Subscribe(func(balance int) {
		cyan.Printf("credits remaining: %d\n", balance)
	})

	client := api.NewClient(api.Options{
		BaseURL:        opts.baseURL,
		Logger:         &logger,
		RequestTimeout: cfg.RequestTimeout,
	})

	completed := make(chan string, 1)
	failed := make(chan string, 1)
	orch, err := workflow.New(workflow.Options{
		Backend:      client,
		Session:      sess,
		Statistics:   statList,
		Theme:        picker,
		Saver:        saver,
		PollInterval: cfg.PollInterval,
		Logger:       &logger,
		Hooks: workflow.Hooks{
			OnErrors: func(messages []string) {
				for _, msg := range messages {
					red.Fprintln(os.Stderr, msg)
				}
			},
			OnProgress: func(job domain.Job) {
				cyan.Printf("%s %3d%%\n", stepTitle(job.CurrentStep), job.Progress)
			},
			OnCompleted: func(jobID string) { completed <- jobID },
			OnFailed:    func(message string) { failed <- message },
		},
	})
	if err != nil {
		red.Fprintln(os.Stderr, err)
		return err
	}
	defer orch.Close()

	if err := orch.Submit(ctx, workflow.FormInput{
		Description:  opts.description,
		Length:       opts.length,
		DocumentType: opts.docType,
		UseWatermark: opts.watermark,
		Logo:         logo,
	}); err != nil {
		return err
	}

	select {
	case <-ctx.Done():
		red.Fprintln(os.Stderr, "interrupted")
		return ctx.Err()
	case message := <-failed:
		return errors.New(message)
	case jobID := <-completed:
		path, err := orch.Download(ctx)
		if err != nil {
			return err
		}
		green.Printf("document %s saved to %s\n", jobID, path)
		return nil
	}
}

func loadLogo(path string) (*domain.Attachment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read logo: %w", err)
	}
	var mime string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		mime = "image/png"
	case ".jpg", ".jpeg":
		mime = "image/jpeg"
	case ".svg":
		mime = "image/svg+xml"
	default:
		return nil, fmt.Errorf("unsupported logo type: %s", path)
	}
	return &domain.Attachment{Name: filepath.Base(path), MIME: mime, Data: data}, nil
}

func themeNames() string {
	var names []string
	for _, t := range domain.Themes() {
		names = append(names, t.Name)
	}
	return strings.Join(names, ", ")
}

var stepTitleCaser = cases.Title(language.English)

func stepTitle(step domain.JobStep) string {
	if step == "" {
		return "Waiting"
	}
	return stepTitleCaser.String(strings.ReplaceAll(string(step), "_", " "))
}
