package dig_container

import (
	"fmt"
	"log"
	"os"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	echoapi "github.com/NathJo212/Overd-OSE-sub001/apps/api/echo"
	"github.com/NathJo212/Overd-OSE-sub001/core"
	"github.com/NathJo212/Overd-OSE-sub001/core/internship"
	"github.com/NathJo212/Overd-OSE-sub001/core/yearctx"
	eventsvc "github.com/NathJo212/Overd-OSE-sub001/services/events"
	logsvc "github.com/NathJo212/Overd-OSE-sub001/services/logger"
	"github.com/NathJo212/Overd-OSE-sub001/storage/database"
	inmemdb "github.com/NathJo212/Overd-OSE-sub001/storage/database/inmem"
	sqlxrepos "github.com/NathJo212/Overd-OSE-sub001/storage/database/sqlx"
)

// memoryEngine keeps every record in memory; nothing survives a restart.
const memoryEngine = "memory"

type DBLoggerParam struct {
	dig.In
	Logger core.Logger `name:"dbLogger"`
}

func newLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "API : ", log.LstdFlags)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)
	return logger
}

func newDBLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)
	return logger
}

// newRepository returns the internship repository and, unless in memory, the database backing it.
func newRepository(conf *core.Config, loggerParam DBLoggerParam) (internship.Repository, *sqlx.DB) {
	if conf.Database.Engine == memoryEngine {
		return inmemdb.NewInternshipRepository(inmemdb.Open()), nil
	}

	setUp := func() (*sqlx.DB, error) {
		if err := database.CreateIfNotExist(conf); err != nil {
			return nil, err
		}

		db, err := database.Open(conf)
		if err != nil {
			return nil, err
		}

		if err = database.Migrate(db.DB); err != nil {
			return nil, err
		}
		return db, nil
	}

	db, err := setUp()
	if err != nil {
		loggerParam.Logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	return sqlxrepos.NewInternshipRepository(db), db
}

// newPublisher returns nil when events are disabled or the broker is unreachable.
func newPublisher(conf *core.Config, logger core.Logger) *eventsvc.AMQPPublisher {
	if !conf.Events.Enabled() {
		return nil
	}
	publisher, err := eventsvc.NewAMQPPublisher(conf, logger)
	if err != nil {
		logger.Error(fmt.Sprintf("year change events disabled: %v", err), err)
		return nil
	}
	return publisher
}

func newProvider(conf *core.Config, publisher *eventsvc.AMQPPublisher) *yearctx.Provider {
	opts := []yearctx.ProviderOption{yearctx.WithIdleTTL(conf.Session.TTL)}
	if publisher != nil {
		opts = append(opts, yearctx.WithChangeHook(publisher.YearChanged))
	}
	return yearctx.NewProvider(opts...)
}

func newServer(
	conf *core.Config,
	logger core.Logger,
	provider *yearctx.Provider,
	svc *internship.Service,
	validate *validator.Validate,
	translator ut.Translator,
) *echoapi.Server {
	return echoapi.NewServer(echoapi.Deps{
		Conf:          conf,
		Logger:        logger,
		Provider:      provider,
		InternshipSvc: svc,
		Validate:      validate,
		Translator:    translator,
	})
}

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newDBLogger, dig.Name("dbLogger")))
	must(c.Provide(newRepository))
	must(c.Provide(newPublisher))
	must(c.Provide(newProvider))
	must(c.Provide(internship.NewService))
	must(c.Provide(validator.New))
	must(c.Provide(core.NewTranslator))
	must(c.Provide(newServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
