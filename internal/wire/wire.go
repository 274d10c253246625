// Package wire provides dependency injection for the noticewatch
// application. Config and logger are singletons; adapters are cheap
// stateless constructors built from the config at call time, so
// commands can override paths before asking for a service.
package wire

import (
	"log/slog"
	"sync"

	"github.com/example/noticewatch/internal/adapters/jsonfile"
	"github.com/example/noticewatch/internal/adapters/jsonl"
	"github.com/example/noticewatch/internal/adapters/sqlite"
	"github.com/example/noticewatch/internal/app"
	"github.com/example/noticewatch/internal/config"
	"github.com/example/noticewatch/internal/db"
	"github.com/example/noticewatch/internal/logging"
	"github.com/example/noticewatch/internal/ports/primary"
	"github.com/example/noticewatch/internal/ports/secondary"
)

var (
	cfg    *config.Config
	logger *slog.Logger

	once    sync.Once
	initErr error

	archiveOnce sync.Once
	archive     secondary.DecisionArchive
	archiveErr  error

	// configPath is set before the first service accessor runs.
	configPath string
)

// SetConfigPath overrides the config file location. Must be called
// before any service accessor; the root command does this from its
// persistent flag.
func SetConfigPath(path string) {
	configPath = path
}

// Init loads config and builds the logger. Returns the first
// initialization error; subsequent calls are no-ops.
func Init() error {
	once.Do(func() {
		cfg, initErr = config.Load(configPath)
		if initErr != nil {
			return
		}
		logger = logging.NewLogger(cfg.LogLevel)
	})
	return initErr
}

// Config returns the loaded configuration. Commands may adjust paths
// on it (from flags) before requesting services.
func Config() *config.Config {
	Init()
	return cfg
}

// Logger returns the application logger.
func Logger() *slog.Logger {
	Init()
	return logger
}

func noticeLog() secondary.NoticeLog {
	return jsonl.NewNoticeLog(cfg.NoticeLogPath, logger)
}

func decisionLog() secondary.DecisionLog {
	return jsonl.NewDecisionLog(cfg.ReviewsPath, logger)
}

func patternStore() secondary.PatternStore {
	return jsonfile.NewPatternStore(cfg.PatternsPath, logger)
}

func datasetStore() secondary.DatasetStore {
	return jsonfile.NewDatasetStore(cfg.DatasetPath, logger)
}

// Archive opens the decision archive database on first use. The
// archive is derived and optional; callers that can run without it
// treat an error here as a warning.
func Archive() (secondary.DecisionArchive, error) {
	Init()
	archiveOnce.Do(func() {
		database, err := db.Open(cfg.ArchiveDBPath)
		if err != nil {
			archiveErr = err
			return
		}
		archive = sqlite.NewDecisionArchive(database)
	})
	return archive, archiveErr
}

// CloseArchive releases the archive handle if one was opened.
func CloseArchive() {
	if archive != nil {
		if err := archive.Close(); err != nil {
			Logger().Warn("failed to close decision archive", slog.Any("error", err))
		}
	}
}

// AggregateService returns the dataset builder.
func AggregateService() primary.AggregateService {
	Init()
	return app.NewAggregateService(noticeLog(), datasetStore(), logger)
}

// ReviewService returns the interactive review service. A broken
// archive degrades to log-only persistence.
func ReviewService() primary.ReviewService {
	Init()
	arch, err := Archive()
	if err != nil {
		logger.Warn("decision archive unavailable, continuing without it", slog.Any("error", err))
		arch = nil
	}
	return app.NewReviewService(datasetStore(), decisionLog(), arch, cfg.Reviewer, logger)
}

// LearnService returns the pattern learner.
func LearnService() primary.LearnService {
	Init()
	return app.NewLearnService(datasetStore(), decisionLog(), patternStore(), logger)
}

// ScreenService returns the online notice classifier.
func ScreenService() primary.ScreenService {
	Init()
	return app.NewScreenService(patternStore(), noticeLog(), logger)
}

// StatsService returns the archive rollup service.
func StatsService() (primary.StatsService, error) {
	Init()
	arch, err := Archive()
	if err != nil {
		return nil, err
	}
	return app.NewStatsService(decisionLog(), noticeLog(), arch, logger), nil
}

// PatternService returns the pattern inspection service.
func PatternService() primary.PatternService {
	Init()
	return app.NewPatternService(patternStore())
}

// NoticeLogService returns the notice log inspection service.
func NoticeLogService() primary.NoticeLogService {
	Init()
	return app.NewNoticeLogService(noticeLog(), logger)
}
