package app

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/fairwayclub/league-engine/internal/config"
	"github.com/fairwayclub/league-engine/internal/domain/course"
	"github.com/fairwayclub/league-engine/internal/domain/league"
	"github.com/fairwayclub/league-engine/internal/domain/member"
	"github.com/fairwayclub/league-engine/internal/domain/notification"
	"github.com/fairwayclub/league-engine/internal/domain/score"
	"github.com/fairwayclub/league-engine/internal/domain/team"
	"github.com/fairwayclub/league-engine/internal/domain/weekresult"
	"github.com/fairwayclub/league-engine/internal/infrastructure/coursedata"
	"github.com/fairwayclub/league-engine/internal/infrastructure/repository/memory"
	"github.com/fairwayclub/league-engine/internal/infrastructure/repository/postgres"
	"github.com/fairwayclub/league-engine/internal/interfaces/httpapi"
	idgen "github.com/fairwayclub/league-engine/internal/platform/id"
	"github.com/fairwayclub/league-engine/internal/platform/logging"
	"github.com/fairwayclub/league-engine/internal/usecase"
)

// App bundles the wired service graph and its lifecycle handles.
type App struct {
	Config    config.Config
	Logger    *logging.Logger
	Processor *usecase.ProcessorService
	Server    *http.Server

	db *sqlx.DB
}

type repositories struct {
	leagues       league.Repository
	members       member.Repository
	teams         team.Repository
	scores        score.Repository
	weekResults   weekresult.Repository
	notifications notification.Repository
}

func New(cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	db, repos, err := buildRepositories(cfg, logger)
	if err != nil {
		return nil, err
	}

	var courses course.Provider
	if strings.TrimSpace(cfg.CourseAPIBaseURL) != "" {
		courses = coursedata.NewClient(coursedata.ClientConfig{
			BaseURL:             cfg.CourseAPIBaseURL,
			Token:               cfg.CourseAPIToken,
			Timeout:             cfg.CourseAPITimeout,
			CacheTTL:            cfg.CourseAPICacheTTL,
			CircuitEnabled:      cfg.CourseAPICircuitEnabled,
			CircuitFailureCount: cfg.CourseAPICircuitFailCount,
			CircuitOpenTimeout:  cfg.CourseAPICircuitOpenWindow,
			Logger:              logger,
		})
	} else {
		logger.Warn("course api base url not set, net score derivation from tee data is unavailable")
	}

	standings := usecase.NewStandingsService(repos.members, logger)
	strategies := map[league.Format]usecase.WeekStrategy{
		league.FormatStroke:    usecase.NewStrokePlayStrategy(repos.scores, repos.members, standings, courses, logger),
		league.FormatTeamMatch: usecase.NewTeamMatchStrategy(repos.scores, repos.members, repos.teams, standings, courses, logger),
	}

	notifier := usecase.NewNotifierService(repos.notifications, idgen.NewRandomGenerator(), logger)
	season := usecase.NewSeasonService(
		repos.leagues,
		repos.members,
		repos.teams,
		repos.scores,
		repos.weekResults,
		strategies,
		notifier,
		logger,
	)

	processor, err := usecase.NewProcessorService(repos.leagues, season, cfg.ProcessorMaxWorkers, cfg.Timezone, logger)
	if err != nil {
		if db != nil {
			_ = db.Close()
		}
		return nil, err
	}

	handler := httpapi.NewHandler(processor, repos.leagues, repos.weekResults, logger)
	router := httpapi.NewRouter(handler, logger, cfg.InternalJobToken, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	if server.Addr == "" {
		processor.Close()
		if db != nil {
			_ = db.Close()
		}
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return &App{
		Config:    cfg,
		Logger:    logger,
		Processor: processor,
		Server:    server,
		db:        db,
	}, nil
}

// Close releases the worker pool and the database handle. The HTTP server
// is shut down by the caller before Close.
func (a *App) Close(_ context.Context) error {
	a.Processor.Close()
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

func buildRepositories(cfg config.Config, logger *logging.Logger) (*sqlx.DB, repositories, error) {
	if strings.TrimSpace(cfg.DBURL) == "" {
		logger.Warn("DB_URL not set, using in-memory repositories")
		return nil, repositories{
			leagues:       memory.NewLeagueRepository(),
			members:       memory.NewMemberRepository(),
			teams:         memory.NewTeamRepository(),
			scores:        memory.NewScoreRepository(),
			weekResults:   memory.NewWeekResultRepository(),
			notifications: memory.NewNotificationRepository(),
		}, nil
	}

	db, err := otelsqlx.Connect("postgres", normalizeDBURL(cfg),
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName("league_engine"),
	)
	if err != nil {
		return nil, repositories{}, fmt.Errorf("connect database: %w", err)
	}

	return db, repositories{
		leagues:       postgres.NewLeagueRepository(db),
		members:       postgres.NewMemberRepository(db),
		teams:         postgres.NewTeamRepository(db),
		scores:        postgres.NewScoreRepository(db),
		weekResults:   postgres.NewWeekResultRepository(db),
		notifications: postgres.NewNotificationRepository(db),
	}, nil
}

func normalizeDBURL(cfg config.Config) string {
	if !cfg.DBDisablePreparedBinary {
		return cfg.DBURL
	}

	parsed, err := url.Parse(cfg.DBURL)
	if err != nil || parsed == nil {
		return cfg.DBURL
	}

	query := parsed.Query()
	if query.Get("disable_prepared_binary_result") == "" {
		query.Set("disable_prepared_binary_result", "yes")
		parsed.RawQuery = query.Encode()
	}

	return parsed.String()
}
