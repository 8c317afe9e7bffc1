package client

import (
	"github.com/smallbiznis/gestoria/internal/client/repository"
	"github.com/smallbiznis/gestoria/internal/client/service"
	"go.uber.org/fx"
)

var Module = fx.Module("client.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
