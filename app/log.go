package app

import (
	"github.com/tanglenet/tangled/infrastructure/logger"
	"github.com/tanglenet/tangled/util/panics"
)

var log = logger.RegisterSubSystem("TGLD")
var spawn = panics.GoroutineWrapperFunc(log)
