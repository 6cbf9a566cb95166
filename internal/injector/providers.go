package injector

import (
	"github.com/google/wire"

	"github.com/zeusync/evade/internal/config"
	"github.com/zeusync/evade/internal/core/controller"
	bus "github.com/zeusync/evade/internal/core/events/bus"
	"github.com/zeusync/evade/internal/core/observability/log"
)

// App holds the long-lived components shared by every command.
type App struct {
	Config   *config.Config
	Log      log.Log
	Registry controller.Registry
	Events   *bus.Bus[controller.DecisionRecord]
}

var AppSet = wire.NewSet(
	ProvideLogger,
	ProvideRegistry,
	ProvideEventBus,
	wire.Struct(new(App), "*"),
)

func ProvideLogger(cfg *config.Config) log.Log {
	return log.NewWithOptions(cfg.LogOptions())
}

// ProvideRegistry returns a registry with the built-in strategies.
func ProvideRegistry() controller.Registry {
	reg := controller.NewRegistry()
	controller.RegisterBuiltins(reg)
	return reg
}

func ProvideEventBus() *bus.Bus[controller.DecisionRecord] {
	return bus.New[controller.DecisionRecord]()
}

// Controller builds a controller from the configuration. The app's log and
// bus fill any unset slots of base.
func (a *App) Controller(base controller.Options) (*controller.Controller, error) {
	if base.Log == nil {
		base.Log = a.Log
	}
	if base.Events == nil {
		base.Events = a.Events
	}
	return controller.BuildFromConfig(&a.Config.Controller, a.Registry, base)
}
