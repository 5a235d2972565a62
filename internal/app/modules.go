package app

import (
	"github.com/FishingHacks/redstart/internal/registry"
	buildc "github.com/FishingHacks/redstart/modules/build/c"
	buildcpp "github.com/FishingHacks/redstart/modules/build/cpp"
	"github.com/FishingHacks/redstart/modules/build/generic"
	buildts "github.com/FishingHacks/redstart/modules/build/typescript"
	"github.com/FishingHacks/redstart/modules/echo"
	"github.com/FishingHacks/redstart/modules/git/fetch"
	"github.com/FishingHacks/redstart/modules/git/gitignore"
	initts "github.com/FishingHacks/redstart/modules/init/typescript"
	installnode "github.com/FishingHacks/redstart/modules/install/node"
	runnode "github.com/FishingHacks/redstart/modules/run/node"
	testjs "github.com/FishingHacks/redstart/modules/test/js"
)

// coreModules returns the definitive list of all modules that are compiled
// into the redstart binary.
func coreModules() []registry.Registrar {
	return []registry.Registrar{
		&echo.Module{},
		&generic.Module{},
		&buildc.Module{},
		&buildcpp.Module{},
		&buildts.Module{},
		&gitignore.Module{},
		&fetch.Module{},
		&initts.Module{},
		&installnode.Module{},
		&runnode.Module{},
		&testjs.Module{},
	}
}
