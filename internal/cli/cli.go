// Package cli implements the quebratigela terminal client: session handling,
// the artist agenda, client bookings and the directory lookups, all on top of
// the REST client.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/example/quebra-tigela/internal/api"
	"github.com/example/quebra-tigela/internal/config"
	"github.com/example/quebra-tigela/internal/logging"
	"github.com/example/quebra-tigela/internal/notify"
	"github.com/example/quebra-tigela/internal/persistence"
	"github.com/example/quebra-tigela/internal/schedule/mockstore"
	"github.com/example/quebra-tigela/internal/session"
)

// Exit codes returned by Run.
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

// errUsage marks argument errors; the usage text was already printed.
var errUsage = errors.New("uso inválido")

// App runs one command line invocation.
type App struct {
	cfg    config.Config
	out    io.Writer
	in     io.Reader
	logger *slog.Logger
	now    func() time.Time
	kv     persistence.KV
	mock   *mockstore.Store
	yes    bool

	console  *notify.Console
	session  *session.Store
	client   *api.Client
	schedule *api.ScheduleAPI
	ibge     *api.IBGE
	closers  []func() error
}

// Option configures an App.
type Option func(*App)

// WithOutput sets where command output is written.
func WithOutput(out io.Writer) Option {
	return func(a *App) {
		if out != nil {
			a.out = out
		}
	}
}

// WithInput sets where confirmations are read from.
func WithInput(in io.Reader) Option {
	return func(a *App) {
		if in != nil {
			a.in = in
		}
	}
}

// WithLogger sets the base logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *App) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(a *App) {
		if now != nil {
			a.now = now
		}
	}
}

// WithKV replaces the configured session backend.
func WithKV(kv persistence.KV) Option {
	return func(a *App) {
		a.kv = kv
	}
}

// WithMockStore replaces the offline schedule store.
func WithMockStore(store *mockstore.Store) Option {
	return func(a *App) {
		a.mock = store
	}
}

// New returns an App for cfg.
func New(cfg config.Config, opts ...Option) *App {
	a := &App{
		cfg:    cfg,
		out:    os.Stdout,
		in:     os.Stdin,
		logger: logging.Discard(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

type command struct {
	name    string
	summary string
	run     func(ctx context.Context, args []string) error
}

func (a *App) commands() []command {
	return []command{
		{"login", "entrar com e-mail e senha", a.cmdLogin},
		{"logout", "encerrar a sessão", a.cmdLogout},
		{"whoami", "mostrar a sessão atual", a.cmdWhoami},
		{"register", "criar conta (user|artist)", a.cmdRegister},
		{"password-reset", "recuperar senha (request|validate|reset)", a.cmdPasswordReset},
		{"profile", "mostrar o perfil do artista logado", a.cmdProfile},
		{"agenda", "agenda do artista (list|calendar|day|create|cancel|delete)", a.cmdAgenda},
		{"available", "horários disponíveis de um artista", a.cmdAvailable},
		{"book", "reservar um horário", a.cmdBook},
		{"my-bookings", "minhas reservas", a.cmdMyBookings},
		{"ics", "exportar uma reserva para o calendário", a.cmdICS},
		{"artists", "buscar artistas", a.cmdArtists},
		{"services", "serviços de um artista", a.cmdServices},
		{"states", "listar estados", a.cmdStates},
		{"cities", "listar cidades de um estado", a.cmdCities},
		{"verify", "verificar identidade do artista por foto", a.cmdVerify},
		{"quality", "analisar a qualidade de uma foto", a.cmdQuality},
		{"seed-artists", "cadastrar os artistas de demonstração", a.cmdSeedArtists},
	}
}

// Run executes args and returns the process exit code.
func (a *App) Run(ctx context.Context, args []string) int {
	global := flag.NewFlagSet("quebratigela", flag.ContinueOnError)
	global.SetOutput(a.out)
	global.BoolVar(&a.yes, "y", false, "confirmar ações destrutivas sem perguntar")
	demoMode := global.Bool("demo", a.cfg.DemoMode, "usar apenas dados locais de demonstração")
	global.Usage = func() { a.usage(global) }
	if err := global.Parse(args); err != nil {
		return ExitUsage
	}
	a.cfg.DemoMode = *demoMode

	rest := global.Args()
	if len(rest) == 0 {
		a.usage(global)
		return ExitUsage
	}

	var selected *command
	for _, cmd := range a.commands() {
		if cmd.name == rest[0] {
			selected = &cmd
			break
		}
	}
	if selected == nil {
		fmt.Fprintf(a.out, "comando desconhecido: %s\n", rest[0])
		a.usage(global)
		return ExitUsage
	}

	if err := a.setup(ctx); err != nil {
		fmt.Fprintf(a.out, "✗ %v\n", err)
		return ExitError
	}
	defer a.close()

	logger := logging.Component(ctx, a.logger, "cli", selected.name)
	if err := selected.run(ctx, rest[1:]); err != nil {
		if errors.Is(err, errUsage) || errors.Is(err, flag.ErrHelp) {
			return ExitUsage
		}
		logger.Debug("command failed", "err", err, "error_kind", api.ErrorKind(err))
		if !errors.Is(err, errReported) {
			a.console.Error(ctx, err.Error())
		}
		return ExitError
	}
	return ExitOK
}

// errReported marks errors that were already shown to the user.
var errReported = errors.New("erro já informado")

func (a *App) usage(fs *flag.FlagSet) {
	fmt.Fprintln(a.out, "uso: quebratigela [-y] [-demo] <comando> [opções]")
	fmt.Fprintln(a.out)
	fmt.Fprintln(a.out, "comandos:")
	for _, cmd := range a.commands() {
		fmt.Fprintf(a.out, "  %-15s %s\n", cmd.name, cmd.summary)
	}
	fmt.Fprintln(a.out)
	fs.PrintDefaults()
}

func (a *App) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Warn("failed to release resource", "err", err)
		}
	}
	a.closers = nil
}

// newFlags returns a flag set for a subcommand that reports usage errors
// through errUsage.
func (a *App) newFlags(name, usage string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.out)
	fs.Usage = func() {
		fmt.Fprintf(a.out, "uso: quebratigela %s\n", usage)
		fs.PrintDefaults()
	}
	return fs
}

func (a *App) parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return errUsage
	}
	return nil
}

// require prints usage and fails when any value is blank.
func (a *App) require(fs *flag.FlagSet, values ...string) error {
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			fs.Usage()
			return errUsage
		}
	}
	return nil
}

// positional returns the single positional argument of fs.
func (a *App) positional(fs *flag.FlagSet) (string, error) {
	if fs.NArg() != 1 {
		fs.Usage()
		return "", errUsage
	}
	return fs.Arg(0), nil
}
