package services

import (
	portsrepo "github.com/donorops/pledge_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/donorops/pledge_ledger_app/internal/core/ports/services"
	"github.com/donorops/pledge_ledger_app/pkg/config"
	"github.com/go-redis/redis/v8"
)

// NewServiceContainer creates a new service container with properly initialized
// dependencies. The Redis client may be nil when no cache is configured.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, redisClient *redis.Client) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.ExchangeRate = NewExchangeRateService(repos.ExchangeRateRepo, redisClient, cfg.RateCacheTTL)
	container.Conversion = NewConversionService(container.ExchangeRate, repos.ConversionLog)
	container.Recalculation = NewRecalculationService(repos.Tx, repos.PledgeRepo, repos.PaymentPlanRepo, repos.PaymentRepo, container.Conversion)
	container.Payment = NewPaymentService(repos.PaymentRepo, repos.PledgeRepo, repos.PaymentPlanRepo, repos.TagRepo, repos.InstallmentRepo, container.Conversion, container.Recalculation)
	container.PaymentQuery = NewPaymentQueryService(repos.PaymentRepo, repos.TagRepo)

	return container
}
