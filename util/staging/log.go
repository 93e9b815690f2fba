package staging

import (
	"github.com/tanglenet/tangled/infrastructure/logger"
)

var utilLog = logger.RegisterSubSystem("UTIL")
