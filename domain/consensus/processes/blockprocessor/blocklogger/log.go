package blocklogger

import (
	"github.com/tanglenet/tangled/infrastructure/logger"
)

var log = logger.RegisterSubSystem("TNGL")
