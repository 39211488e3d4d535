package cmd

import (
	"fmt"
	"strings"

	"github.com/emrgen/happix/internal/compress"
	"github.com/emrgen/happix/internal/config"
	"github.com/emrgen/happix/internal/extract"
	"github.com/emrgen/happix/internal/parser"
	"github.com/emrgen/happix/internal/queue"
	"github.com/emrgen/happix/internal/service"
	"github.com/emrgen/happix/internal/store"
	"github.com/fatih/color"
	redis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// app wires the services of one command invocation.
type app struct {
	cfg         *config.Config
	redis       *redis.Client
	queue       queue.MergeQueue
	store       *store.GormStore
	resources   *service.ResourceService
	merge       *service.MergeService
	aggregate   *service.AggregateService
	sources     *service.SourceService
	files       *service.StorageFileService
	suggestions *service.SuggestionService
}

func newApp() (*app, error) {
	cfg := config.LoadConfig()

	codec, err := compress.New(cfg.TemplateCompression)
	if err != nil {
		return nil, err
	}

	s := store.NewGormStore(config.GetDb(cfg))
	if err := s.Migrate(); err != nil {
		return nil, err
	}

	client := config.GetRedis(cfg)
	stats := config.GetStatsCache(cfg, client)
	mergeQueue := config.GetMergeQueue(client)
	parsers := parser.Default()

	a := &app{
		cfg:   cfg,
		redis: client,
		queue: mergeQueue,
		store: s,
	}
	a.resources = service.NewResourceService(s, stats)
	a.merge = service.NewMergeService(s, stats, mergeQueue, parsers, cfg.ScratchDir)
	a.aggregate = service.NewAggregateService(s, stats, cfg.CountEmptyAsTranslated)
	a.files = service.NewStorageFileService(s, parsers, cfg.ScratchDir)
	a.suggestions = service.NewSuggestionService(s, stats)
	a.sources = service.NewSourceService(
		s,
		stats,
		extract.NewCommandExtractor(cfg.Extract.Command, cfg.Extract.Timeout),
		extract.NewGlobCleaner(),
		codec,
		parsers,
		a.merge,
		a.aggregate,
	)

	return a, nil
}

func (a *app) Close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			logrus.Warnf("error closing redis: %v", err)
		}
	}
}

func printField(label, value string) {
	color.Set(color.FgCyan)
	fmt.Print(label)
	color.Unset()
	fmt.Printf(": %s\n", value)
}

// checkMissingFlags checks if the required flags are set and returns true when some are missing
func checkMissingFlags(cmd *cobra.Command, flags []string) bool {
	var missingFlags []string
	var providedFlags []string
	for _, required := range flags {
		if !cmd.Flag(required).Changed {
			missingFlags = append(missingFlags, required)
		} else {
			value := cmd.Flag(required).Value.String()
			providedFlags = append(providedFlags, fmt.Sprintf("--%s=%s", required, value))
		}
	}

	if len(missingFlags) > 0 {
		var msg string
		for _, f := range missingFlags {
			msg += fmt.Sprintf("--%s ", f)
		}

		color.Red("missing: %s\n", msg)
		if len(providedFlags) > 0 {
			provided := strings.Join(providedFlags, " ")
			color.Green("provide: %s\n", provided)
		}

		cmd.Println("")

		_ = cmd.Usage()

		return true
	}

	return false
}
