package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"tactics-server/internal/agent"
	"tactics-server/internal/domain"
	"tactics-server/internal/engine"
	"tactics-server/internal/scenario"
	"tactics-server/internal/server"
	"tactics-server/internal/version"
	"tactics-server/pkg/logger"

	"golang.org/x/sync/errgroup"
)

func init() {
	logger.Init()
}

func main() {
	// 1. Парсинг конфигурации
	var configPath, scenarioPath string
	var simulateTurns int
	var botTeam string
	flag.StringVar(&configPath, "config", "", "Path to engine YAML config (defaults are used if empty)")
	flag.StringVar(&scenarioPath, "scenario", "level_1", "Built-in scenario name or path to scenario YAML")
	flag.IntVar(&simulateTurns, "simulate", 0, "Play N turns AI vs AI without clients and exit")
	flag.StringVar(&botTeam, "bot", "", "Let a built-in bot play this team (ALLY or ENEMY)")
	flag.Parse()

	logger.Log.Info("Starting Tactics Server...")
	logger.Log.Info(version.Current().String())

	cfg := engine.NewConfig()
	if configPath != "" {
		loaded, err := engine.LoadConfig(configPath)
		if err != nil {
			logger.Log.Fatal("Failed to load config: ", err)
		}
		cfg = loaded
	}

	sc, ok := scenario.Builtin(scenarioPath)
	if !ok {
		loaded, err := scenario.Load(scenarioPath)
		if err != nil {
			logger.Log.Fatal("Failed to load scenario: ", err)
		}
		sc = loaded
	}

	battle, err := sc.Build(cfg)
	if err != nil {
		logger.Log.Fatal("Failed to build scenario: ", err)
	}

	// РЕЖИМ СИМУЛЯЦИИ
	if simulateTurns > 0 {
		logger.Log.Info("Mode: AI vs AI simulation")
		result := engine.Simulate(battle, simulateTurns)
		logger.Log.Infof("Winner: %s after %d turns, success rate %.2f",
			result.Winner, result.Turns, result.Stats.SuccessRate())
		return
	}

	port := os.Getenv("TS_PORT")
	if port == "" {
		port = "8080"
	}

	// 2. Цикл боя и HTTP-сервер живут до сигнала остановки
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	service := engine.NewService(battle)
	srv := server.New(service, port)

	g, gctx := errgroup.WithContext(ctx)

	// Бот за врага заменяет встроенный ИИ сервиса
	var bot *agent.Bot
	if team := domain.ParseTeam(botTeam); team != domain.TeamNone {
		service.AutoEnemy = team != domain.TeamEnemy
		bot = agent.NewBot("bot_"+team.String(), team, service)
	}

	g.Go(func() error { return service.Run(gctx) })
	g.Go(func() error { return srv.Run(gctx) })
	if bot != nil {
		g.Go(func() error { return bot.Run(gctx) })
	}

	if err := g.Wait(); err != nil {
		logger.Log.Fatal("Server error: ", err)
	}
	logger.Log.Info("Done.")
}
