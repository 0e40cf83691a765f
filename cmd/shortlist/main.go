// Command shortlist screens a folder of PDF and DOCX resumes against recruiter
// criteria, copies the matches into a Shortlisted folder and writes
// shortlisted.csv and shortlisted.txt next to them.
//
//	shortlist -folder ./resumes -skills "go, postgres" -experience 5 -education bachelor
//	shortlist -folder ./resumes -criteria criteria.yaml
//	shortlist -s3-prefix incoming/2024-06/ -criteria criteria.yaml
//	shortlist -preview ./resumes/jane.docx
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"alfredoptarigan/resume-shortlister/internal/config"
	"alfredoptarigan/resume-shortlister/internal/models"
	"alfredoptarigan/resume-shortlister/internal/services"
	"alfredoptarigan/resume-shortlister/pkg/logger"
)

type options struct {
	folder       string
	s3Prefix     string
	skills       string
	experience   string
	education    string
	criteriaFile string
	preview      string
	concurrency  int
}

func main() {
	cfg := config.Load()
	if err := logger.Init(cfg.Log.Level, cfg.Server.Env); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, os.Args[1:], os.Stdout, logger.For("shortlist")); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func parseFlags(args []string, defaultConcurrency int) (*options, error) {
	fs := flag.NewFlagSet("shortlist", flag.ContinueOnError)
	opts := &options{}
	fs.StringVar(&opts.folder, "folder", "", "folder containing resumes")
	fs.StringVar(&opts.s3Prefix, "s3-prefix", "", "screen objects under this prefix of S3_BUCKET instead of a folder")
	fs.StringVar(&opts.skills, "skills", "", "required skills, comma-separated")
	fs.StringVar(&opts.experience, "experience", "", "years of experience")
	fs.StringVar(&opts.education, "education", "", "required education")
	fs.StringVar(&opts.criteriaFile, "criteria", "", "YAML file with skills, experience and education")
	fs.StringVar(&opts.preview, "preview", "", "print the extracted text of one resume and exit")
	fs.IntVar(&opts.concurrency, "concurrency", defaultConcurrency, "documents evaluated in parallel")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return opts, nil
}

func run(ctx context.Context, cfg *config.Config, args []string, stdout io.Writer, log *zap.Logger) error {
	opts, err := parseFlags(args, cfg.Screening.Concurrency)
	if err != nil {
		return err
	}

	extractor := services.NewDocumentExtractor(log)

	if opts.preview != "" {
		text, err := extractor.ExtractText(models.NewDocument(opts.preview))
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, text)
		return nil
	}

	criteria, err := loadCriteria(opts)
	if err != nil {
		return err
	}

	store, err := openStore(ctx, cfg, opts, log)
	if err != nil {
		return err
	}

	evaluator := services.NewCriteriaEvaluator(
		extractor,
		services.NewFieldExtractor(),
		services.NewExperienceMatcher(),
		log,
	)
	screener := services.NewBatchScreener(evaluator, opts.concurrency, log)

	report, err := services.Run(ctx, screener, services.NewShortlistWriter(log), store, criteria)
	if err != nil {
		return err
	}

	for _, result := range report.Shortlisted() {
		fmt.Fprintln(stdout, services.FormatResultLine(result))
	}
	fmt.Fprintln(stdout, report.StatusMessage())
	return nil
}

// loadCriteria validates criteria from the YAML file or the flags; flags given
// explicitly override values from the file.
func loadCriteria(opts *options) (models.Criteria, error) {
	var (
		skills     []string
		experience string
		education  string
	)

	if opts.criteriaFile != "" {
		cf, err := config.LoadCriteriaFile(opts.criteriaFile)
		if err != nil {
			return models.Criteria{}, err
		}
		skills, experience, education = cf.Skills, cf.Experience, cf.Education
	}
	if opts.skills != "" {
		skills = services.SplitSkills(opts.skills)
	}
	if opts.experience != "" {
		experience = opts.experience
	}
	if opts.education != "" {
		education = opts.education
	}

	return services.ParseCriteria(skills, experience, education)
}

func openStore(ctx context.Context, cfg *config.Config, opts *options, log *zap.Logger) (services.DocumentStore, error) {
	switch {
	case opts.folder != "" && opts.s3Prefix != "":
		return nil, errors.New("use either -folder or -s3-prefix, not both")
	case opts.s3Prefix != "":
		client, err := services.NewS3Client(ctx, cfg.S3)
		if err != nil {
			return nil, err
		}
		return services.NewObjectStore(client, cfg.S3.Bucket, opts.s3Prefix, cfg.Screening.ShortlistDir, cfg.Queue.RetryMaxAttempts, log), nil
	case opts.folder != "":
		info, err := os.Stat(opts.folder)
		if err != nil {
			return nil, fmt.Errorf("folder not accessible: %w", err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("%s is not a folder", opts.folder)
		}
		return services.NewLocalStore(opts.folder, cfg.Screening.ShortlistDir), nil
	default:
		return nil, errors.New("a -folder or -s3-prefix is required")
	}
}
