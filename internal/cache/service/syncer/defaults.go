package syncer

import "time"

const (
	defaultUpdateInterval = 5 * time.Second
	defaultBatchSize      = 1000

	commandBufferSize = 16
	eventBufferSize   = 64

	backfillLimit          = 500
	backfillWorkerCount    = 20
	idleSleepDuration      = 1 * time.Minute
	postBatchSleepDuration = 5 * time.Second
)

const (
	outcomeSynced  = "synced"
	outcomeWritten = "written"
	outcomeFailed  = "failed"
)
