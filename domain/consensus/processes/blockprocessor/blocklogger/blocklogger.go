package blocklogger

import (
	"sync"
	"time"

	"github.com/tanglenet/tangled/domain/consensus/model/externalapi"
)

var (
	lock             sync.Mutex
	receivedPerType  = make(map[externalapi.PayloadType]int64)
	receivedLogTotal int64
	lastBlockLogTime = time.Now()
)

// LogBlock counts a newly inserted block and, at most once every 10
// seconds, logs the number of blocks inserted since the last message.
func LogBlock(block *externalapi.DomainBlock) {
	lock.Lock()
	defer lock.Unlock()

	receivedPerType[block.PayloadType()]++
	receivedLogTotal++

	now := time.Now()
	duration := now.Sub(lastBlockLogTime)
	if duration < time.Second*10 {
		return
	}

	// Truncate the duration to 10s of milliseconds.
	tDuration := duration.Round(10 * time.Millisecond)

	blockStr := "blocks"
	if receivedLogTotal == 1 {
		blockStr = "block"
	}
	log.Infof("Processed %d %s in the last %s (%d transactions, %d milestones)",
		receivedLogTotal, blockStr, tDuration,
		receivedPerType[externalapi.PayloadTypeTransaction], receivedPerType[externalapi.PayloadTypeMilestone])

	receivedPerType = make(map[externalapi.PayloadType]int64)
	receivedLogTotal = 0
	lastBlockLogTime = now
}
