package cmd

import (
	"fmt"
	"log/slog"

	"github.com/FACorreiaa/statement-converter/internal/domain/statement/parser"
	"github.com/FACorreiaa/statement-converter/internal/domain/statement/pdftext"
	"github.com/FACorreiaa/statement-converter/internal/domain/statement/service"
	"github.com/FACorreiaa/statement-converter/internal/domain/statement/sheet"
	"github.com/FACorreiaa/statement-converter/pkg/config"
	"github.com/FACorreiaa/statement-converter/pkg/metrics"
)

// Dependencies holds everything a command needs.
type Dependencies struct {
	Config *config.Config
	Logger *slog.Logger

	Layout    parser.Layout
	Parser    *parser.Parser
	Extractor *pdftext.Extractor
	Metrics   *metrics.Metrics
	Service   *service.Service
}

// InitDependencies builds the conversion stack. An empty format falls back to
// the configured output format.
func InitDependencies(cfg *config.Config, logger *slog.Logger, format string) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	if err := deps.initParser(); err != nil {
		return nil, fmt.Errorf("failed to init parser: %w", err)
	}

	if format == "" {
		format = cfg.Convert.OutputFormat
	}
	f, err := sheet.ParseFormat(format)
	if err != nil {
		return nil, err
	}

	deps.Extractor = pdftext.NewExtractor(logger)
	deps.Metrics = metrics.New()
	deps.Service = service.NewService(deps.Extractor, deps.Parser, f, deps.Metrics, logger)

	logger.Debug("dependencies initialized",
		slog.String("layout", deps.Layout.Name),
		slog.String("format", string(f)))
	return deps, nil
}

func (d *Dependencies) initParser() error {
	d.Layout = parser.DefaultLayout()
	if path := d.Config.Convert.LayoutFile; path != "" {
		layout, err := parser.LoadLayoutFile(path)
		if err != nil {
			return err
		}
		d.Layout = layout
		d.Logger.Info("loaded statement layout",
			slog.String("path", path),
			slog.String("name", layout.Name))
	}

	p, err := parser.New(d.Layout)
	if err != nil {
		return err
	}
	d.Parser = p.WithWorkers(d.Config.Convert.PageWorkers)
	return nil
}

// Cleanup flushes the metrics textfile when one is configured.
func (d *Dependencies) Cleanup() {
	if err := d.Metrics.WriteTextfile(d.Config.Metrics.TextfilePath); err != nil {
		d.Logger.Warn("failed to write metrics", slog.Any("error", err))
	}
}
