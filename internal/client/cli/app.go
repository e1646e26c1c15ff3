package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/dkovalev-net/vizlab/internal/client/api"
	"github.com/dkovalev-net/vizlab/internal/client/config"
	"github.com/dkovalev-net/vizlab/internal/client/services"
	"github.com/dkovalev-net/vizlab/internal/client/session"
	"github.com/dkovalev-net/vizlab/internal/filex"
	"github.com/dkovalev-net/vizlab/internal/logging"
)

// App holds the wired client: one session store, one API client and the
// services the REPL commands dispatch to.
type App struct {
	config   *config.Config
	log      logging.Logger
	sessions *session.Store

	auth      *services.AuthService
	datasets  *services.DatasetService
	viz       *services.VisualizationService
	analytics *services.AnalyticsService
	dashboard *services.DashboardService
	settings  *services.SettingsService

	reader *bufio.Reader
}

func NewApp(c *config.Config, log logging.Logger) (*App, error) {
	if _, err := filex.EnsureDir(c.StateDir); err != nil {
		return nil, fmt.Errorf("state dir: %w", err)
	}
	if _, err := filex.EnsureDir(c.DownloadDir); err != nil {
		return nil, fmt.Errorf("download dir: %w", err)
	}

	sessions := session.NewStore(c.SessionFile())
	apiClient := api.New(c.ServerBaseURL, c.RequestTimeout, sessions, log)
	notify := services.NewWriterNotifier(os.Stdout)

	ds := services.NewDatasetService(apiClient, log, notify)
	vs := services.NewVisualizationService(apiClient, log, notify)
	as := services.NewAnalyticsService(apiClient, log, notify)

	return &App{
		config:    c,
		log:       log,
		sessions:  sessions,
		auth:      services.NewAuthService(apiClient, sessions, log, c.DevMode),
		datasets:  ds,
		viz:       vs,
		analytics: as,
		dashboard: services.NewDashboardService(ds, vs, as, log),
		settings:  services.NewSettingsService(apiClient, log, notify),
		reader:    bufio.NewReader(os.Stdin),
	}, nil
}

// Run restores the persisted session, then blocks in the REPL until the
// user exits or stdin is closed.
func (a *App) Run(ctx context.Context) {
	if err := a.auth.Restore(ctx); err != nil {
		a.log.Warn(ctx, "session restore", "error", err)
	}

	printlnFn("vizlab CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
}

func (a *App) isLoggedIn() bool {
	return a.sessions.State() == session.StateAuthenticated
}

// getStatus renders the prompt suffix: the signed-in user name, with a dev
// marker when the auth bypass is active.
func (a *App) getStatus() string {
	s := ""
	if u := a.sessions.User(); u != nil {
		s = u.Username
	}
	if a.sessions.DevBypass() {
		if s != "" {
			s += " "
		}
		s += "dev"
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}
