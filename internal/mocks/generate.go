package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name RosterProvider --dir ../usecase --output usecase --outpkg usecasemock --filename roster_provider_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name SeasonStatsProvider --dir ../usecase --output usecase --outpkg usecasemock --filename season_stats_provider_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name AdvancedMetricsProvider --dir ../usecase --output usecase --outpkg usecasemock --filename advanced_metrics_provider_mock.go
