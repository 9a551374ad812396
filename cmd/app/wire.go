//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/stroke-risk/internal/bootstrap"
	"github.com/yanqian/stroke-risk/internal/domain/assessment"
	"github.com/yanqian/stroke-risk/internal/infra/config"
	"github.com/yanqian/stroke-risk/internal/infra/predictor"
	httpiface "github.com/yanqian/stroke-risk/internal/interface/http"
	"github.com/yanqian/stroke-risk/pkg/logger"
)

func initializeApp() (*bootstrap.App, func(), error) {
	wire.Build(
		config.Load,
		logger.New,
		provideAssessmentConfig,
		providePredictorClient,
		provideAssessmentRepository,
		provideResultStore,
		provideArchive,
		assessment.NewService,
		assessment.NewSessions,
		wire.Bind(new(assessment.Predictor), new(*predictor.Client)),
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil, nil
}
