package cli

import (
	"github.com/davarch/ci-status/internal/application"
	"github.com/davarch/ci-status/internal/domain"
	"github.com/davarch/ci-status/internal/infrastructure/cache_fs"
	"github.com/davarch/ci-status/internal/infrastructure/circle_http"
	"github.com/davarch/ci-status/internal/infrastructure/config"
	"github.com/davarch/ci-status/internal/infrastructure/git_local"
	"github.com/davarch/ci-status/internal/infrastructure/logging"
	"github.com/davarch/ci-status/internal/infrastructure/notify_libnotify"
	"go.uber.org/zap"
)

// app wires the per-command dependency graph: config, repo, cache,
// resolver and (when the command reaches the network) the API client.
type app struct {
	cfg       config.Config
	repo      *git_local.Repo
	branch    string
	cachePath string
	cache     *cache_fs.FSCache
	res       *application.Resolver
	api       *circle_http.Client
	log       *zap.Logger
}

func newApp(needAPI bool) (*app, error) {
	log := logging.New()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}

	repo, err := git_local.Find(repoPath)
	if err != nil {
		return nil, err
	}

	branch := branchFlag
	if branch == "" {
		branch, err = repo.CurrentBranch()
		if err != nil {
			return nil, err
		}
	}

	cachePath := cfg.Cache.Path
	if cachePath == "" {
		cachePath = repo.CachePath()
	}

	slug := domain.ProjectSlug{
		VCS:          cfg.Project.VCS,
		Organization: cfg.Project.Organization,
		Repo:         repo.Name(),
	}

	a := &app{
		cfg:       cfg,
		repo:      repo,
		branch:    branch,
		cachePath: cachePath,
		cache:     cache_fs.New(cachePath),
		res:       application.NewResolver(cfg.CircleCI.WebHost, slug),
		log:       log,
	}

	if needAPI {
		if err := cfg.ValidateForAPI(); err != nil {
			return nil, err
		}
		a.api = circle_http.New(cfg.CircleCI.APIHost, cfg.CircleCI.Token, cfg.CircleCI.Timeout)
	}
	return a, nil
}

func (a *app) close() {
	_ = a.log.Sync()
}

func (a *app) pullUseCase() *application.PullUseCase {
	var note domain.Notifier
	if a.cfg.Notify.Enabled {
		note = notify_libnotify.NewSoft()
	}
	return application.NewPullUseCase(a.api, a.cache, note, a.res, a.repo, a.log)
}

func (a *app) approveUseCase() *application.ApproveUseCase {
	return application.NewApproveUseCase(a.api, a.cache, a.res, a.pullUseCase(), a.log)
}
